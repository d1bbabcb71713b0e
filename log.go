package gsx126x

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.Formatter = new(logrus.TextFormatter)
	log.Level = logrus.InfoLevel
	log.Out = os.Stdout
}

// SetLogger redirects driver logging to the given logrus instance.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		log = l
	}
}

// SetLogLevel adjusts the verbosity of the package logger.
func SetLogLevel(level logrus.Level) {
	log.Level = level
}
