package healthcheck

import (
	"io"
	"net/http"
)

// DefaultPath is where the status endpoint is served if no path is given.
const DefaultPath = "/status.txt"

// Handler is an interface used by the metrics listener to allow programs
// to customize their health check.
type Handler interface {
	http.Handler
	Path() string
}

// Simple is a basic Handler implementation
// that _always_ returns with an "ok" status.
type Simple struct {
	path string
}

// NewSimple will return a new Simple instance. An empty path
// falls back to DefaultPath.
func NewSimple(path string) *Simple {
	if path == "" {
		path = DefaultPath
	}
	return &Simple{path: path}
}

// Path will return the configured status path to server on.
func (s *Simple) Path() string {
	return s.path
}

// ServeHTTP will always respond with "ok".
func (s *Simple) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	io.WriteString(w, "ok")
}
