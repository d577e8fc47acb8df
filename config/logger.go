package config

import (
	"github.com/MonkyMars/gecho"
)

// InitializeLogger builds the application logger at the environment's log level.
func InitializeLogger() *gecho.Logger {
	return NewLogger(true)
}

// NewLogger returns a logger at the configured level; request logging runs without caller info.
func NewLogger(showCaller bool) *gecho.Logger {
	level := gecho.ParseLogLevel(GetLogLevel())
	return gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(showCaller), gecho.WithLogLevel(level)))
}
