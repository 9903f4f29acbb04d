package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/davidcode/streamtap/config"
	"github.com/davidcode/streamtap/healthcheck"
	"github.com/davidcode/streamtap/poller"
	"github.com/davidcode/streamtap/pubsub"
	"github.com/davidcode/streamtap/pubsub/aws"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := poller.LoadConfigFromEnv()
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

	sub, err := aws.NewSubscriber(cfg.Kinesis)
	if err != nil {
		pubsub.Log.WithFields(logrus.Fields{
			"stream":   cfg.Kinesis.StreamName,
			"endpoint": cfg.Kinesis.EndpointURL,
			"error":    err,
		}).Fatal("unable to init subscriber")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p := poller.New(sub, os.Stdout, provider.NewCounter("records_received"))
	if err := p.Run(ctx); err != nil {
		pubsub.Log.Fatal("poller encountered a fatal error: ", err)
	}

	pubsub.Log.Info("poller process shutting down")
}
