package aws // import "github.com/davidcode/streamtap/pubsub/aws"

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/kinesis"
	"github.com/aws/aws-sdk-go/service/kinesis/kinesisiface"
	perrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/davidcode/streamtap/pubsub"
)

var (
	// defaultKinesisMaxRecords is the default, and the maximum, number of
	// records the subscriber will request on each fetch.
	defaultKinesisMaxRecords int64 = 10
	// defaultKinesisPollInterval is the default time.Duration the
	// subscriber will wait between fetches.
	defaultKinesisPollInterval = time.Second
	// defaultKinesisIteratorType starts reading at the oldest
	// record still retained by the shard.
	defaultKinesisIteratorType = kinesis.ShardIteratorTypeTrimHorizon
)

var (
	// ErrNoShards is returned when the stream reports no shards.
	ErrNoShards = errors.New("kinesis stream has no shards")
	// ErrShardClosed is reported by Err() once the shard has been
	// closed and fully read.
	ErrShardClosed = errors.New("kinesis shard is closed")
)

func defaultKinesisConfig(cfg *KinesisConfig) error {
	if cfg.StreamName == "" {
		return errors.New("kinesis stream name is required")
	}

	if cfg.MaxRecords == nil {
		cfg.MaxRecords = &defaultKinesisMaxRecords
	}
	if *cfg.MaxRecords < 1 || *cfg.MaxRecords > defaultKinesisMaxRecords {
		return fmt.Errorf("kinesis max records must be between 1 and %d, got %d",
			defaultKinesisMaxRecords, *cfg.MaxRecords)
	}

	if cfg.PollInterval == nil {
		cfg.PollInterval = &defaultKinesisPollInterval
	}

	switch cfg.IteratorType {
	case "":
		cfg.IteratorType = defaultKinesisIteratorType
	case kinesis.ShardIteratorTypeTrimHorizon, kinesis.ShardIteratorTypeLatest:
	default:
		return fmt.Errorf("unsupported kinesis iterator type %q", cfg.IteratorType)
	}

	if cfg.ShardSelector == nil {
		cfg.ShardSelector = FirstShard
		if cfg.ShardID != "" {
			cfg.ShardSelector = ShardByID(cfg.ShardID)
		}
	}
	return nil
}

// ShardSelector picks which of a stream's shards the subscriber reads.
type ShardSelector func([]*kinesis.Shard) (*kinesis.Shard, error)

// FirstShard selects the first shard the stream describes, whatever its state.
func FirstShard(shards []*kinesis.Shard) (*kinesis.Shard, error) {
	if len(shards) == 0 {
		return nil, ErrNoShards
	}
	return shards[0], nil
}

// ShardByID selects the shard with the given ID.
func ShardByID(id string) ShardSelector {
	return func(shards []*kinesis.Shard) (*kinesis.Shard, error) {
		if len(shards) == 0 {
			return nil, ErrNoShards
		}
		for _, shard := range shards {
			if aws.StringValue(shard.ShardId) == id {
				return shard, nil
			}
		}
		return nil, fmt.Errorf("kinesis shard %q not found", id)
	}
}

type (
	// subscriber polls a single Kinesis shard and emits its records
	// via the pubsub.Subscriber interface. The shard iterator is owned by
	// the polling goroutine and is never persisted, so a new subscriber
	// starts over at IteratorType.
	subscriber struct {
		kinesis kinesisiface.KinesisAPI

		cfg      KinesisConfig
		shardID  string
		iterator *string

		ctx     context.Context
		cancel  context.CancelFunc
		done    chan struct{}
		started uint32
		stopped uint32

		kerr error
	}

	// subscriberMessage is the Kinesis implementation of `SubscriberMessage`.
	subscriberMessage struct {
		record *kinesis.Record
	}
)

// NewSubscriber will set up the Kinesis client, select a shard of the
// stream and fetch the initial shard iterator. Any failure along the way
// is returned and nothing is retried beyond the SDK's own retryer.
func NewSubscriber(cfg KinesisConfig) (pubsub.Subscriber, error) {
	sess, acfg, err := cfg.NewSession()
	if err != nil {
		return nil, perrors.Wrap(err, "unable to create aws session")
	}
	return newSubscriber(kinesis.New(sess, acfg), cfg)
}

func newSubscriber(api kinesisiface.KinesisAPI, cfg KinesisConfig) (*subscriber, error) {
	if err := defaultKinesisConfig(&cfg); err != nil {
		return nil, err
	}
	s := &subscriber{
		kinesis: api,
		cfg:     cfg,
		done:    make(chan struct{}),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	shards, err := s.describeShards()
	if err != nil {
		return nil, perrors.Wrapf(err, "unable to describe stream %q", cfg.StreamName)
	}
	shard, err := cfg.ShardSelector(shards)
	if err != nil {
		return nil, err
	}
	s.shardID = aws.StringValue(shard.ShardId)

	out, err := s.kinesis.GetShardIteratorWithContext(s.ctx, &kinesis.GetShardIteratorInput{
		StreamName:        aws.String(cfg.StreamName),
		ShardId:           shard.ShardId,
		ShardIteratorType: aws.String(cfg.IteratorType),
	})
	if err != nil {
		return nil, perrors.Wrapf(err, "unable to get iterator for shard %q", s.shardID)
	}
	s.iterator = out.ShardIterator

	pubsub.Log.WithFields(logrus.Fields{
		"stream":        cfg.StreamName,
		"shard":         s.shardID,
		"iterator_type": cfg.IteratorType,
	}).Info("resolved kinesis shard")
	return s, nil
}

// describeShards pages through the stream description until every
// shard has been listed.
func (s *subscriber) describeShards() ([]*kinesis.Shard, error) {
	var (
		shards []*kinesis.Shard
		input  = &kinesis.DescribeStreamInput{StreamName: aws.String(s.cfg.StreamName)}
	)
	for {
		out, err := s.kinesis.DescribeStreamWithContext(s.ctx, input)
		if err != nil {
			return nil, err
		}
		desc := out.StreamDescription
		if desc == nil {
			return shards, nil
		}
		shards = append(shards, desc.Shards...)
		if !aws.BoolValue(desc.HasMoreShards) || len(desc.Shards) == 0 {
			return shards, nil
		}
		input.ExclusiveStartShardId = desc.Shards[len(desc.Shards)-1].ShardId
	}
}

// Message will return the record's data blob.
func (m *subscriberMessage) Message() []byte {
	return m.record.Data
}

// Done has no effect. Read positions are not checkpointed.
func (m *subscriberMessage) Done() error {
	return nil
}

// Start will start fetching records from the shard and emit them, in
// order, to the returned channel. After every fetch the iterator is
// replaced by the one Kinesis returned and the subscriber sleeps for
// PollInterval. If it encounters any issues, it will populate the Err()
// error and close the returned channel.
func (s *subscriber) Start() <-chan pubsub.SubscriberMessage {
	output := make(chan pubsub.SubscriberMessage)
	if !atomic.CompareAndSwapUint32(&s.started, 0, 1) {
		close(output)
		return output
	}

	go func(s *subscriber, output chan pubsub.SubscriberMessage) {
		defer close(s.done)
		defer close(output)
		for {
			resp, err := s.kinesis.GetRecordsWithContext(s.ctx, &kinesis.GetRecordsInput{
				ShardIterator: s.iterator,
				Limit:         s.cfg.MaxRecords,
			})
			if err != nil {
				// cancellation from Stop is not an error
				if s.ctx.Err() == nil {
					s.kerr = err
				}
				return
			}

			pubsub.Log.WithFields(logrus.Fields{
				"shard":         s.shardID,
				"records":       len(resp.Records),
				"millis_behind": aws.Int64Value(resp.MillisBehindLatest),
			}).Debug("fetched records")

			for _, rec := range resp.Records {
				select {
				case output <- &subscriberMessage{record: rec}:
				case <-s.ctx.Done():
					return
				}
			}

			if resp.NextShardIterator == nil {
				s.kerr = ErrShardClosed
				return
			}
			s.iterator = resp.NextShardIterator

			select {
			case <-s.ctx.Done():
				return
			case <-time.After(*s.cfg.PollInterval):
			}
		}
	}(s, output)
	return output
}

// Stop will block until the subscriber has stopped fetching records.
func (s *subscriber) Stop() error {
	if !atomic.CompareAndSwapUint32(&s.stopped, 0, 1) {
		return errors.New("kinesis subscriber is already stopped")
	}
	s.cancel()
	if atomic.LoadUint32(&s.started) == 1 {
		<-s.done
	}
	return nil
}

// Err will contain any errors that occurred during
// consumption. This method should be checked after
// a user encounters a closed channel.
func (s *subscriber) Err() error {
	return s.kerr
}
