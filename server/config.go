package server

import "time"

// Config holds server settings with environment variable mapping.
type Config struct {
	Addr            string        `env:"SERVER_ADDR" envDefault:":9595"`                 // Addr is the address the server listens on.
	MaxClients      int64         `env:"SERVER_MAX_CLIENTS" envDefault:"32"`             // MaxClients caps simultaneously served connections.
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"5s"`        // ShutdownTimeout is the time allowed for graceful shutdown.
	MaxRequestBytes int           `env:"SERVER_MAX_REQUEST_BYTES" envDefault:"1048576"`  // MaxRequestBytes bounds a single request line.
}

// NewFromConfig creates a new Server from the provided Config.
// Only non-zero values from the config are applied.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	configOpts := make([]Option, 0, 4+len(opts))

	if cfg.Addr != "" {
		configOpts = append(configOpts, WithAddr(cfg.Addr))
	}
	if cfg.MaxClients > 0 {
		configOpts = append(configOpts, WithMaxClients(cfg.MaxClients))
	}
	if cfg.ShutdownTimeout > 0 {
		configOpts = append(configOpts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}
	if cfg.MaxRequestBytes > 0 {
		configOpts = append(configOpts, WithMaxRequestBytes(cfg.MaxRequestBytes))
	}

	configOpts = append(configOpts, opts...)

	return New(configOpts...)
}
