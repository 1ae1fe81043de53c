package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Init configures the standard logrus logger with the given level name
// (trace, debug, info, warn, error). If w is nil, os.Stderr is used.
func Init(level string, w ...io.Writer) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	var writer io.Writer = os.Stderr
	if len(w) > 0 && w[0] != nil {
		writer = w[0]
	}
	logrus.SetOutput(writer)
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	return nil
}

// New returns a logger with a "component" field for package-scoped logging.
func New(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}
