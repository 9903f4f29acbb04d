package metrics

import (
	"expvar"
	"net/http"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/davidcode/streamtap/config"
	"github.com/davidcode/streamtap/healthcheck"
)

// Type acts as an 'enum' type to represent
// the available metrics providers
type Type string

const (
	// Statsd is used by config to indicate use of the statsdProvider.
	Statsd Type = "statsd"
	// DogStatsd is used by config to indicate use of the dogstatsdProvider.
	DogStatsd Type = "dogstatsd"
	// Prometheus is used by config to indicate use of the prometheusProvider.
	Prometheus Type = "prometheus"
	// Graphite is used by config to indicate use of the graphiteProvider.
	Graphite Type = "graphite"
	// Expvar is used by config to indicate use of the expvarProvider.
	Expvar Type = "expvar"
	// Discard is used by config to indicate use of the discardProvider.
	Discard Type = "discard"
)

// Metrics config can be used to configure and instantiate a new
// go-kit/kit/metrics/provider.Provider.
type Metrics struct {
	Type Type `envconfig:"METRICS_TYPE" default:"discard"`

	// Prefix will be prefixed onto
	// any metric name.
	Prefix string `envconfig:"METRICS_PREFIX"`

	// Namespace is used by prometheus.
	Namespace string `envconfig:"METRICS_NAMESPACE" default:"streamtap"`
	// Subsystem is used by prometheus.
	Subsystem string `envconfig:"METRICS_SUBSYSTEM"`

	// Used by statsd, graphite and dogstatsd.
	// If empty, will default to 30s.
	Interval time.Duration `envconfig:"METRICS_INTERVAL"`

	// Used by statsd, graphite and dogstatsd.
	Addr string `envconfig:"METRICS_ADDR"`
	// Used by statsd, graphite and dogstatsd to dial a connection.
	// If empty, will default to "udp".
	Network string `envconfig:"METRICS_NETWORK"`

	// HTTPAddr is the listen address for the metrics and health check
	// endpoints. If empty, no HTTP listener is started.
	HTTPAddr string `envconfig:"METRICS_HTTP_ADDR"`
	// Path the prometheus or expvar handler is served on.
	// If empty, will default to "/metrics" for prometheus
	// and "/debug/vars" for expvar.
	Path string `envconfig:"METRICS_PATH"`

	// Used by statsd, graphite and dogstatsd.
	// If none provided, kit/log/NewNopLogger will be used.
	Logger log.Logger `ignored:"true" json:"-"`
}

// LoadFromEnv will attempt to load a Metrics object
// from environment variables.
func LoadFromEnv() Metrics {
	var mets Metrics
	config.LoadEnvConfig(&mets)
	return mets
}

// NewProvider will use the values in the Metrics config object
// to generate a new go-kit/metrics/provider.Provider implementation.
// If no type is given, a no-op implementation will be used.
func (cfg Metrics) NewProvider() (provider.Provider, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.NewNopLogger()
	}
	if cfg.Interval == 0 {
		cfg.Interval = time.Second * 30
	}
	if cfg.Network == "" {
		cfg.Network = "udp"
	}
	switch cfg.Type {
	case Statsd:
		return provider.NewStatsdProvider(cfg.Network, cfg.Addr,
			cfg.Prefix, cfg.Interval, cfg.Logger)
	case DogStatsd:
		return provider.NewDogStatsdProvider(cfg.Network, cfg.Addr,
			cfg.Prefix, cfg.Interval, cfg.Logger)
	case Graphite:
		return provider.NewGraphiteProvider(cfg.Network, cfg.Addr,
			cfg.Prefix, cfg.Interval, cfg.Logger)
	case Prometheus:
		return provider.NewPrometheusProvider(cfg.Namespace, cfg.Subsystem), nil
	case Expvar:
		return provider.NewExpvarProvider(cfg.Prefix), nil
	default:
		return provider.NewDiscardProvider(), nil
	}
}

// Handler returns the HTTP handler that exposes the provider along
// with the path it belongs on. Push providers and discard return a
// nil handler.
func (cfg Metrics) Handler() (string, http.Handler) {
	switch cfg.Type {
	case Prometheus:
		if cfg.Path == "" {
			return "/metrics", promhttp.Handler()
		}
		return cfg.Path, promhttp.Handler()
	case Expvar:
		if cfg.Path == "" {
			return "/debug/vars", expvar.Handler()
		}
		return cfg.Path, expvar.Handler()
	default:
		return "", nil
	}
}

// NewServer builds the HTTP server for HTTPAddr, routing the metrics
// handler and the given health check. It returns nil if HTTPAddr is unset.
func (cfg Metrics) NewServer(hc healthcheck.Handler) *http.Server {
	if cfg.HTTPAddr == "" {
		return nil
	}
	r := mux.NewRouter()
	if path, h := cfg.Handler(); h != nil {
		r.Handle(path, h).Methods(http.MethodGet)
	}
	if hc != nil {
		r.Handle(hc.Path(), hc).Methods(http.MethodGet)
	}
	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}
