package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

// newLogger creates a logger whose level comes from the verbose flag, or from
// the LOG_LEVEL environment variable when the flag is off.
func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
		return log
	}

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
