package aws

import (
	"time"

	"github.com/davidcode/streamtap/config"
	"github.com/davidcode/streamtap/config/aws"
)

// KinesisConfig holds the info required to read a shard of an Amazon
// Kinesis stream.
type KinesisConfig struct {
	aws.Config

	StreamName string `envconfig:"AWS_KINESIS_STREAM_NAME" default:"output-stream"`
	// ShardID pins the subscriber to one shard. If empty, ShardSelector
	// decides, and it defaults to FirstShard.
	ShardID string `envconfig:"AWS_KINESIS_SHARD_ID"`
	// IteratorType is where in the shard reading begins. It defaults to
	// TRIM_HORIZON, the oldest record still retained. Only types that need
	// no sequence number or timestamp are accepted.
	IteratorType string `envconfig:"AWS_KINESIS_ITERATOR_TYPE"`
	// MaxRecords will override the defaultKinesisMaxRecords. It can not
	// exceed that default.
	MaxRecords *int64 `envconfig:"AWS_KINESIS_MAX_RECORDS"`
	// PollInterval will override the defaultKinesisPollInterval.
	PollInterval *time.Duration `envconfig:"AWS_KINESIS_POLL_INTERVAL"`

	// ShardSelector picks the shard to read when ShardID is empty.
	ShardSelector ShardSelector `ignored:"true" json:"-"`
}

// LoadKinesisConfigFromEnv will attempt to load the KinesisConfig struct
// from environment variables.
func LoadKinesisConfigFromEnv() KinesisConfig {
	var cfg KinesisConfig
	config.LoadEnvConfig(&cfg)
	return cfg
}
