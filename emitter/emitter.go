package emitter

import (
	"context"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/davidcode/streamtap/pubsub"
)

// Emitter publishes a steady trickle of synthetic records.
type Emitter struct {
	pub       pubsub.AsyncPublisher
	cfg       Config
	submitted metrics.Counter

	// now is the clock records are stamped with.
	now func() time.Time
}

// New returns an Emitter publishing through pub. A nil counter
// discards the submitted count.
func New(pub pubsub.AsyncPublisher, cfg Config, submitted metrics.Counter) *Emitter {
	cfg.applyDefaults()
	if submitted == nil {
		submitted = discard.NewCounter()
	}
	return &Emitter{
		pub:       pub,
		cfg:       cfg,
		submitted: submitted,
		now:       time.Now,
	}
}

// Run submits BatchSize records per tick, sleeping Interval between
// ticks, until ctx is done. Delivery is not awaited per record. Once ctx
// is done no further records are submitted; in-flight records are flushed
// for up to FlushTimeout and the publisher is stopped. Flush and stop
// failures are logged and do not fail the shutdown.
//
// A submit error also triggers the shutdown and is returned.
func (e *Emitter) Run(ctx context.Context) error {
	var seq Sequence
	for {
		if ctx.Err() != nil {
			e.shutdown()
			return nil
		}

		var last Record
		sent := 0
		for ; sent < e.cfg.BatchSize && ctx.Err() == nil; sent++ {
			last = NewRecord(seq.Next(), e.now())
			if err := e.pub.Publish(ctx, last.ID, last); err != nil {
				e.shutdown()
				if ctx.Err() != nil {
					return nil
				}
				return errors.Wrapf(err, "unable to submit record %s", last.ID)
			}
			e.submitted.Add(1)
		}

		if sent > 0 {
			pubsub.Log.WithFields(logrus.Fields{
				"count":   sent,
				"last_id": last.ID,
			}).Infof("sent %d records", sent)
		}

		select {
		case <-ctx.Done():
			e.shutdown()
			return nil
		case <-time.After(e.cfg.Interval):
		}
	}
}

func (e *Emitter) shutdown() {
	pubsub.Log.Info("stopping emitter")

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.FlushTimeout)
	defer cancel()
	if err := e.pub.Flush(ctx); err != nil {
		pubsub.Log.WithField("error", err).Warn("unable to flush records")
	}
	if err := e.pub.Stop(); err != nil {
		pubsub.Log.WithField("error", err).Warn("unable to stop publisher")
	}
}
