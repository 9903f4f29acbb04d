package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

type testConfig struct {
	Name     string        `envconfig:"STREAMTAP_TEST_NAME" default:"emitter"`
	Interval time.Duration `envconfig:"STREAMTAP_TEST_INTERVAL" default:"1s"`
	Hosts    []string      `envconfig:"STREAMTAP_TEST_HOSTS"`
}

func TestLoadEnvConfig(t *testing.T) {
	os.Setenv("STREAMTAP_TEST_HOSTS", "a:1,b:2")
	defer os.Unsetenv("STREAMTAP_TEST_HOSTS")

	var got testConfig
	LoadEnvConfig(&got)

	want := testConfig{Name: "emitter", Interval: time.Second, Hosts: []string{"a:1", "b:2"}}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected config: %s", cmp.Diff(got, want))
	}
}

func TestLoadSourceFile(t *testing.T) {
	dir, err := os.MkdirTemp("", "streamtap-config")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	fileName := filepath.Join(dir, "conf.json")
	if err := os.WriteFile(fileName, []byte(`{"Name": "poller"}`), 0644); err != nil {
		t.Fatal(err)
	}

	got := testConfig{Name: "emitter", Interval: time.Second}
	LoadSource(fileName, &got)

	want := testConfig{Name: "poller", Interval: time.Second}
	if !cmp.Equal(got, want) {
		t.Errorf("expected the file to overlay the given config: %s", cmp.Diff(got, want))
	}
}

func TestLoadSourceEmpty(t *testing.T) {
	got := testConfig{Name: "emitter"}
	LoadSource("", &got)
	if got.Name != "emitter" {
		t.Errorf("expected an empty source to leave the config alone, got %q", got.Name)
	}
}

func TestLogApply(t *testing.T) {
	l := logrus.New()
	if err := (Log{Level: "debug"}).Apply(l); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if l.Level != logrus.DebugLevel {
		t.Errorf("expected debug level, got %s", l.Level)
	}
	if l.Out != os.Stderr {
		t.Error("expected stderr output without a log path")
	}

	if err := (Log{Level: "loud"}).Apply(l); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestLogApplyFile(t *testing.T) {
	dir, err := os.MkdirTemp("", "streamtap-log")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	l := logrus.New()
	path := filepath.Join(dir, "app.log")
	if err := (Log{Path: path, Level: "info"}).Apply(l); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	l.Info("hello")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unable to read log file: %s", err)
	}
	if _, ok := l.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("expected JSON formatted file logs, got %T", l.Formatter)
	}
	if len(b) == 0 {
		t.Error("expected the log line to be written to the file")
	}
}
