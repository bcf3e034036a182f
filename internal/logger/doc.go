// Package logger wraps a global zap sugared logger behind context-aware helpers.
// The level is atomic so configuration can change verbosity after startup,
// and a logger with extra fields can travel inside a context.Context.
package logger
