package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/davidcode/streamtap/config"
	"github.com/davidcode/streamtap/emitter"
	"github.com/davidcode/streamtap/healthcheck"
	"github.com/davidcode/streamtap/pubsub"
	"github.com/davidcode/streamtap/pubsub/kafka"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := emitter.LoadConfigFromEnv()
	var source string
	config.SetFlagOverrides(&cfg.Log.Path, &source)
	config.LoadSource(source, cfg)

	if err := cfg.Log.Apply(pubsub.Log); err != nil {
		pubsub.Log.Fatal("unable to set up logging: ", err)
	}

	provider, err := cfg.Metrics.NewProvider()
	if err != nil {
		pubsub.Log.WithField("type", cfg.Metrics.Type).Fatal("unable to init metrics provider: ", err)
	}
	defer provider.Stop()
	if srv := cfg.Metrics.NewServer(healthcheck.NewSimple("")); srv != nil {
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				pubsub.Log.WithField("error", err).Error("metrics server stopped")
			}
		}()
		defer srv.Close()
	}

	pub, err := kafka.NewPublisher(cfg.Kafka)
	if err != nil {
		pubsub.Log.WithFields(logrus.Fields{
			"brokers": cfg.Kafka.BrokerHosts,
			"error":   err,
		}).Fatal("unable to init publisher")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pubsub.Log.WithField("topic", cfg.Kafka.Topic).
		Infof("starting producer on topic: %s. Press Ctrl+C to stop.", cfg.Kafka.Topic)

	e := emitter.New(pub, *cfg, provider.NewCounter("records_submitted"))
	if err := e.Run(ctx); err != nil {
		pubsub.Log.Fatal("emitter encountered a fatal error: ", err)
	}

	pubsub.Log.Info("emitter process shutting down")
}
