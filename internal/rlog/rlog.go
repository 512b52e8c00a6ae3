// Package rlog constructs the zap logger used across the riverstream
// command-line driver.
package rlog

import "go.uber.org/zap"

// New returns a production zap.Logger, or a development one with
// human-readable console output when dev is true.
func New(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Must is New, panicking on construction failure. Intended for use at
// program startup, before there is anywhere better to report the error.
func Must(dev bool) *zap.Logger {
	logger, err := New(dev)
	if err != nil {
		panic(err)
	}
	return logger
}
