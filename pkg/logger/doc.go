// Package logger builds application loggers on top of log/slog and
// provides attribute helpers for the keys used across LifeHub, so
// log records stay consistent between services.
package logger
