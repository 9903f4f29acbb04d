package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/davidcode/streamtap/healthcheck"
)

func TestNewServerNoAddr(t *testing.T) {
	if srv := (Metrics{Type: Prometheus}).NewServer(healthcheck.NewSimple("")); srv != nil {
		t.Errorf("expected no server without an HTTP address, got %#v", srv)
	}
}

func TestNewServerPrometheus(t *testing.T) {
	cfg := Metrics{Type: Prometheus, Namespace: "streamtap", Subsystem: "servertest", HTTPAddr: ":0"}
	p, err := cfg.NewProvider()
	if err != nil {
		t.Fatalf("unable to create provider: %s", err)
	}
	p.NewCounter("served_total").Add(2)

	srv := cfg.NewServer(healthcheck.NewSimple(""))
	if srv == nil {
		t.Fatal("expected a server")
	}

	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/metrics", http.StatusOK, "streamtap_servertest_served_total 2"},
		{healthcheck.DefaultPath, http.StatusOK, "ok"},
		{"/nope", http.StatusNotFound, ""},
	}

	for _, test := range tests {
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, test.path, nil))
		if w.Code != test.wantCode {
			t.Errorf("%s: expected status %d, got %d", test.path, test.wantCode, w.Code)
		}
		body, _ := io.ReadAll(w.Body)
		if !strings.Contains(string(body), test.wantBody) {
			t.Errorf("%s: expected body to contain %q, got %q", test.path, test.wantBody, body)
		}
	}
}

func TestNewServerDiscard(t *testing.T) {
	cfg := Metrics{Type: Discard, HTTPAddr: ":0"}
	srv := cfg.NewServer(healthcheck.NewSimple("/healthz"))

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected no metrics route for the discard provider, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected health check to respond, got %d", w.Code)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		cfg      Metrics
		wantPath string
	}{
		{Metrics{Type: Statsd, Addr: "127.0.0.1:8125", Prefix: "streamtap.", Interval: time.Hour}, ""},
		{Metrics{Type: DogStatsd, Addr: "127.0.0.1:8125", Prefix: "streamtap.", Interval: time.Hour}, ""},
		{Metrics{Type: Graphite, Addr: "127.0.0.1:2003", Network: "udp", Prefix: "streamtap.", Interval: time.Hour}, ""},
		{Metrics{Type: Prometheus, Namespace: "streamtap", Subsystem: "providertest"}, "/metrics"},
		{Metrics{Type: Expvar, Prefix: "streamtap_providertest_"}, "/debug/vars"},
		{Metrics{Type: Discard}, ""},
		{Metrics{}, ""},
	}

	for _, test := range tests {
		t.Run(string(test.cfg.Type), func(t *testing.T) {
			p, err := test.cfg.NewProvider()
			if err != nil {
				t.Fatalf("unable to create provider: %s", err)
			}
			defer p.Stop()
			p.NewCounter("records_total").Add(1)

			path, h := test.cfg.Handler()
			if path != test.wantPath {
				t.Errorf("expected handler path %q, got %q", test.wantPath, path)
			}
			if (h != nil) != (test.wantPath != "") {
				t.Errorf("expected a handler only for scraped providers, got %v", h)
			}
		})
	}
}

func TestNewServerExpvar(t *testing.T) {
	cfg := Metrics{Type: Expvar, Prefix: "streamtap_servertest_", HTTPAddr: ":0"}
	p, err := cfg.NewProvider()
	if err != nil {
		t.Fatalf("unable to create provider: %s", err)
	}
	p.NewCounter("received").Add(3)

	srv := cfg.NewServer(healthcheck.NewSimple(""))
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debug/vars", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected the expvar route, got %d", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, `"streamtap_servertest_received": 3`) {
		t.Errorf("expected the counter in the expvar output, got %q", body)
	}
}
