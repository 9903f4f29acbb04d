package emitter

import (
	"time"

	"github.com/davidcode/streamtap/config"
	"github.com/davidcode/streamtap/config/metrics"
	"github.com/davidcode/streamtap/pubsub/kafka"
)

// Config holds everything the emitter program needs.
type Config struct {
	// Interval is how long the emitter sleeps after each tick.
	Interval time.Duration `envconfig:"EMITTER_INTERVAL" default:"1s"`
	// BatchSize is the number of records submitted per tick.
	BatchSize int `envconfig:"EMITTER_BATCH_SIZE" default:"1"`
	// FlushTimeout bounds the wait for in-flight records at shutdown.
	FlushTimeout time.Duration `envconfig:"EMITTER_FLUSH_TIMEOUT" default:"10s"`

	Kafka   *kafka.Config   `ignored:"true"`
	Metrics metrics.Metrics `ignored:"true"`
	Log     config.Log      `ignored:"true"`
}

// LoadConfigFromEnv will load the emitter Config and each of its
// children from environment variables.
func LoadConfigFromEnv() *Config {
	var cfg Config
	config.LoadEnvConfig(&cfg)
	cfg.Kafka = kafka.LoadConfigFromEnv()
	cfg.Metrics = metrics.LoadFromEnv()
	config.LoadEnvConfig(&cfg.Log)
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Interval <= 0 {
		c.Interval = time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 1
	}
	if c.FlushTimeout <= 0 {
		c.FlushTimeout = 10 * time.Second
	}
}
