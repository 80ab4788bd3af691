package server

import (
	"log/slog"
	"time"
)

// Option configures the server.
type Option func(*config)

// WithAddr sets the address the server listens on.
func WithAddr(addr string) Option {
	if addr == "" {
		panic("WithAddr: addr cannot be empty")
	}
	return func(c *config) { c.addr = addr }
}

// WithMaxClients caps the number of simultaneously served connections.
// Accepted connections beyond the cap wait for a slot to free up.
func WithMaxClients(n int64) Option {
	if n <= 0 {
		panic("WithMaxClients: n must be > 0")
	}
	return func(c *config) { c.maxClients = n }
}

// WithShutdownTimeout sets the time allowed for live connections to drain
// during graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithShutdownTimeout: duration must be > 0")
	}
	return func(c *config) { c.shutdownTimeout = d }
}

// WithMaxRequestBytes bounds the length of a single request line.
func WithMaxRequestBytes(n int) Option {
	if n <= 0 {
		panic("WithMaxRequestBytes: n must be > 0")
	}
	return func(c *config) { c.maxRequestBytes = n }
}

// WithLogger supplies an external slog.Logger instance. If nil, logs are
// discarded.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithStartHook registers a callback that runs when the server begins listening.
func WithStartHook(h func(*slog.Logger)) Option {
	if h == nil {
		panic("WithStartHook: nil hook")
	}
	return func(c *config) {
		c.startHooks = append(c.startHooks, h)
	}
}

// WithStopHook registers a callback that runs after the server shuts down.
func WithStopHook(h func(*slog.Logger)) Option {
	if h == nil {
		panic("WithStopHook: nil hook")
	}
	return func(c *config) {
		c.stopHooks = append(c.stopHooks, h)
	}
}
