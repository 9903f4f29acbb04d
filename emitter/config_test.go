package emitter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/davidcode/streamtap/config"
)

func TestLoadConfigFromEnv(t *testing.T) {
	os.Unsetenv("KAFKA_BROKER_HOSTS")
	os.Unsetenv("EMITTER_INTERVAL")

	cfg := LoadConfigFromEnv()
	if cfg.Interval != time.Second || cfg.BatchSize != 1 {
		t.Errorf("expected 1 record every 1s, got %d every %s", cfg.BatchSize, cfg.Interval)
	}
	cfg.Kafka.SplitBrokerHosts()
	if want := []string{"localhost:9092"}; !cmp.Equal(cfg.Kafka.BrokerHosts, want) {
		t.Errorf("unexpected broker hosts: %s", cmp.Diff(cfg.Kafka.BrokerHosts, want))
	}
}

func TestLoadConfigSourceBrokerHosts(t *testing.T) {
	dir, err := os.MkdirTemp("", "streamtap-emitter")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	fileName := filepath.Join(dir, "emitter.json")
	body := `{"Kafka": {"BrokerHostsString": "kafka-a:9092,kafka-b:9092", "Topic": "other-topic"}}`
	if err := os.WriteFile(fileName, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	os.Unsetenv("KAFKA_BROKER_HOSTS")
	cfg := LoadConfigFromEnv()
	config.LoadSource(fileName, cfg)
	cfg.Kafka.SplitBrokerHosts()

	if want := []string{"kafka-a:9092", "kafka-b:9092"}; !cmp.Equal(cfg.Kafka.BrokerHosts, want) {
		t.Errorf("expected the file's broker hosts: %s", cmp.Diff(cfg.Kafka.BrokerHosts, want))
	}
	if cfg.Kafka.Topic != "other-topic" {
		t.Errorf("expected the file's topic, got %q", cfg.Kafka.Topic)
	}
}
