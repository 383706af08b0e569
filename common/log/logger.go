// Package log configures the process wide logrus logger.
package log

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/scootdev/batchsim/common/log/hooks"
)

// Setup parses level and applies it to the standard logrus logger.
// At debug level and below every entry also carries its file:line.
func Setup(level string) error {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(l)
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if l >= logrus.DebugLevel {
		logrus.AddHook(hooks.NewContextHook())
	}
	return nil
}

// SetupFromEnv applies $BATCHSIM_LOGLEVEL if set, otherwise logs errors only.
// Used by tests to get proper logging on demand.
func SetupFromEnv() {
	if loglevel := os.Getenv("BATCHSIM_LOGLEVEL"); loglevel != "" {
		if err := Setup(loglevel); err != nil {
			logrus.Error(err)
		}
		return
	}
	logrus.SetLevel(logrus.ErrorLevel)
}
