package config

import (
	"os"

	"github.com/NYTimes/logrotate"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Log holds the logging options shared by the streamtap programs.
type Log struct {
	// Path is the location of the application log. If empty,
	// logs go to stderr.
	Path string `envconfig:"APP_LOG"`
	// Level is any level logrus can parse. It defaults to "info".
	Level string `envconfig:"APP_LOG_LEVEL" default:"info"`
}

// Apply points the logger at the configured destination. File logs are
// JSON formatted and reopened on SIGHUP by logrotate.
func (c Log) Apply(l *logrus.Logger) error {
	if c.Level != "" {
		lvl, err := logrus.ParseLevel(c.Level)
		if err != nil {
			return errors.Wrapf(err, "invalid log level %q", c.Level)
		}
		l.SetLevel(lvl)
	}

	if c.Path == "" {
		l.Out = os.Stderr
		return nil
	}

	lf, err := logrotate.NewFile(c.Path)
	if err != nil {
		return errors.Wrap(err, "unable to access log file")
	}
	l.Out = lf
	l.Formatter = &logrus.JSONFormatter{}
	return nil
}
