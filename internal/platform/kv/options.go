package kv

import "receiptjar/internal/platform/logger"

// Option mutates opener state before a driver is constructed
type Option func(*opener)

// opener carries cross-driver dependencies during Open
type opener struct {
	log    logger.Logger
	hasLog bool
}

// WithLogger attaches a logger used for SQL tracing and open diagnostics
func WithLogger(l logger.Logger) Option {
	return func(o *opener) { o.log, o.hasLog = l, true }
}
