package kafka // import "github.com/davidcode/streamtap/pubsub/kafka"

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/IBM/sarama"
	perrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/davidcode/streamtap/pubsub"
)

var (
	// RequiredAcks will be used in Kafka configs
	// to set the 'RequiredAcks' value.
	RequiredAcks = sarama.WaitForAll

	// ErrPublisherStopped is returned when publishing after Stop.
	ErrPublisherStopped = errors.New("kafka publisher is stopped")

	// flushPollInterval is how often Flush checks the in-flight count.
	flushPollInterval = 10 * time.Millisecond
)

// Publisher is a pubsub.AsyncPublisher for Kafka built on sarama's
// AsyncProducer. Publish only queues the message; delivery results are
// consumed in the background and failures are logged and counted.
//
// Publish must not be called concurrently with Stop.
type Publisher struct {
	producer sarama.AsyncProducer
	topic    string

	// inFlight and failed are updated by the drain goroutine.
	inFlight int64
	failed   uint64
	stopped  uint32

	done chan struct{}
}

var _ pubsub.AsyncPublisher = &Publisher{}

// NewPublisher will initiate a new Kafka publisher. It connects to the
// brokers immediately, so unreachable brokers are reported here.
func NewPublisher(cfg *Config) (*Publisher, error) {
	if len(cfg.Topic) == 0 {
		return nil, errors.New("topic name is required")
	}
	cfg.SplitBrokerHosts()
	if len(cfg.BrokerHosts) == 0 {
		return nil, errors.New("at least 1 broker host is required")
	}

	sconfig := cfg.Config
	if sconfig == nil {
		sconfig = sarama.NewConfig()
		sconfig.Producer.Retry.Max = cfg.MaxRetry
		sconfig.Producer.RequiredAcks = RequiredAcks
		if cfg.ClientID != "" {
			sconfig.ClientID = cfg.ClientID
		}
	}
	// the in-flight count depends on seeing every outcome
	sconfig.Producer.Return.Successes = true
	sconfig.Producer.Return.Errors = true

	producer, err := sarama.NewAsyncProducer(cfg.BrokerHosts, sconfig)
	if err != nil {
		return nil, perrors.Wrap(err, "unable to create kafka producer")
	}
	return newPublisher(producer, cfg.Topic), nil
}

func newPublisher(producer sarama.AsyncProducer, topic string) *Publisher {
	p := &Publisher{
		producer: producer,
		topic:    topic,
		done:     make(chan struct{}),
	}
	go p.drain()
	return p
}

// Publish will JSON encode the message and queue it for the Kafka topic.
func (p *Publisher) Publish(ctx context.Context, key string, m interface{}) error {
	mb, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return p.PublishRaw(ctx, key, mb)
}

// PublishRaw will queue the byte array for the Kafka topic. It only blocks
// if the producer's input buffer is full, and gives up when ctx is done.
func (p *Publisher) PublishRaw(ctx context.Context, key string, m []byte) error {
	if p.isStopped() {
		return ErrPublisherStopped
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(m),
	}
	p.incrementInFlight()
	select {
	case p.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		p.decrementInFlight()
		return ctx.Err()
	}
}

// Flush will block until every queued message has been acknowledged or
// failed. If ctx is done first, the number of messages still in flight
// is reported in the returned error.
func (p *Publisher) Flush(ctx context.Context) error {
	ticker := time.NewTicker(flushPollInterval)
	defer ticker.Stop()
	for {
		n := p.inFlightCount()
		if n <= 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return perrors.Wrapf(ctx.Err(), "kafka flush gave up with %d messages in flight", n)
		case <-ticker.C:
		}
	}
}

// Stop will close the producer and wait for its remaining results to
// be drained.
func (p *Publisher) Stop() error {
	if !atomic.CompareAndSwapUint32(&p.stopped, 0, 1) {
		return errors.New("kafka publisher is already stopped")
	}
	p.producer.AsyncClose()
	<-p.done
	return nil
}

// Failed returns the number of messages the producer gave up on.
func (p *Publisher) Failed() uint64 {
	return atomic.LoadUint64(&p.failed)
}

func (p *Publisher) drain() {
	defer close(p.done)
	successes, errs := p.producer.Successes(), p.producer.Errors()
	for successes != nil || errs != nil {
		select {
		case _, ok := <-successes:
			if !ok {
				successes = nil
				continue
			}
			p.decrementInFlight()
		case perr, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			p.decrementInFlight()
			atomic.AddUint64(&p.failed, 1)
			pubsub.Log.WithFields(logrus.Fields{
				"topic": p.topic,
				"error": perr.Err,
			}).Error("unable to deliver message")
		}
	}
}

func (p *Publisher) incrementInFlight() {
	atomic.AddInt64(&p.inFlight, 1)
}

func (p *Publisher) decrementInFlight() {
	atomic.AddInt64(&p.inFlight, -1)
}

func (p *Publisher) inFlightCount() int64 {
	return atomic.LoadInt64(&p.inFlight)
}

func (p *Publisher) isStopped() bool {
	return atomic.LoadUint32(&p.stopped) == 1
}
