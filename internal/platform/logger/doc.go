// Package logger configures structured JSON logging via log/slog and
// carries request-scoped loggers through context so lower layers inherit
// trace and user attributes attached by the HTTP middleware.
package logger
