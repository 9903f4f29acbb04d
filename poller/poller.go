// Package poller prints the records a pubsub.Subscriber emits.
package poller

import (
	"context"
	"fmt"
	"io"
	"sync"

	kitmetrics "github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/sirupsen/logrus"

	"github.com/davidcode/streamtap/config"
	"github.com/davidcode/streamtap/config/metrics"
	"github.com/davidcode/streamtap/pubsub"
	"github.com/davidcode/streamtap/pubsub/aws"
)

const (
	// Banner is written once before any record.
	Banner = "[KINESIS] Listening for records..."
	// ReceivedPrefix starts every printed record line.
	ReceivedPrefix = "[KINESIS] Received:"
)

// Config holds everything the poller program needs.
type Config struct {
	Kinesis aws.KinesisConfig
	Metrics metrics.Metrics
	Log     config.Log
}

// LoadConfigFromEnv will load each part of the poller Config from
// environment variables.
func LoadConfigFromEnv() *Config {
	return &Config{
		Kinesis: aws.LoadKinesisConfigFromEnv(),
		Metrics: metrics.LoadFromEnv(),
		Log:     loadLogFromEnv(),
	}
}

func loadLogFromEnv() config.Log {
	var l config.Log
	config.LoadEnvConfig(&l)
	return l
}

// Poller writes one line per received record.
type Poller struct {
	sub      pubsub.Subscriber
	out      io.Writer
	received kitmetrics.Counter
}

// New returns a Poller printing the records sub emits to out. A nil
// counter discards the received count.
func New(sub pubsub.Subscriber, out io.Writer, received kitmetrics.Counter) *Poller {
	if received == nil {
		received = discard.NewCounter()
	}
	return &Poller{sub: sub, out: out, received: received}
}

// Run prints the banner and then every record until the subscriber closes
// its channel, returning the subscriber's error, or until ctx is done, in
// which case the subscriber is stopped and nil is returned.
func (p *Poller) Run(ctx context.Context) error {
	if _, err := fmt.Fprintln(p.out, Banner); err != nil {
		return err
	}

	stream := p.sub.Start()

	var wg sync.WaitGroup
	finished := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			pubsub.Log.Info("stopping poller")
			if err := p.sub.Stop(); err != nil {
				pubsub.Log.WithField("error", err).Warn("unable to stop subscriber")
			}
		case <-finished:
		}
	}()

	for msg := range stream {
		if _, err := fmt.Fprintln(p.out, ReceivedPrefix, string(msg.Message())); err != nil {
			pubsub.Log.WithField("error", err).Error("unable to print record")
		}
		p.received.Add(1)
		if err := msg.Done(); err != nil {
			pubsub.Log.WithFields(logrus.Fields{"error": err}).Warn("unable to mark record done")
		}
	}
	close(finished)
	wg.Wait()

	if ctx.Err() != nil {
		return nil
	}
	return p.sub.Err()
}
