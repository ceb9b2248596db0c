// Package logger provides a zap-based application logger.
package logger

import "go.uber.org/zap"

// Log is the global zap logger used across the project.
var Log = zap.NewNop()

// Init configures the global logger in production mode, tagging every entry
// with the service name.
func Init(service string) {
	log, err := zap.NewProduction(zap.Fields(zap.String("service", service)))
	if err != nil {
		panic(err)
	}
	Log = log
}

// Sync flushes any buffered log entries. Call it on shutdown.
func Sync() {
	_ = Log.Sync()
}
