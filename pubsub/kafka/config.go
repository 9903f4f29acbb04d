package kafka

import (
	"strings"

	"github.com/IBM/sarama"
	"github.com/davidcode/streamtap/config"
)

// Config holds the basic information for working with Kafka.
type Config struct {
	BrokerHosts []string
	// BrokerHostsString is used when loading the list from environment variables
	// or a config file. NewPublisher splits it into BrokerHosts when
	// BrokerHosts is empty.
	BrokerHostsString string `envconfig:"KAFKA_BROKER_HOSTS" default:"localhost:9092"`

	Topic    string `envconfig:"KAFKA_TOPIC" default:"input-topic"`
	ClientID string `envconfig:"KAFKA_CLIENT_ID" default:"streamtap-emitter"`

	// MaxRetry is handed to the producer as Producer.Retry.Max. Nothing
	// above the producer retries on its own.
	MaxRetry int `envconfig:"KAFKA_MAX_RETRY" default:"3"`

	// Config is a sarama config struct for more control over the underlying Kafka client.
	Config *sarama.Config `ignored:"true" json:"-"`
}

// LoadConfigFromEnv will attempt to load a Kafka Config
// from environment variables, falling back to the local
// broker defaults.
func LoadConfigFromEnv() *Config {
	var kafka Config
	config.LoadEnvConfig(&kafka)
	return &kafka
}

// SplitBrokerHosts will populate BrokerHosts from the comma separated
// BrokerHostsString if BrokerHosts is empty.
func (c *Config) SplitBrokerHosts() {
	if len(c.BrokerHosts) > 0 || c.BrokerHostsString == "" {
		return
	}
	for _, host := range strings.Split(c.BrokerHostsString, ",") {
		if host = strings.TrimSpace(host); host != "" {
			c.BrokerHosts = append(c.BrokerHosts, host)
		}
	}
}
