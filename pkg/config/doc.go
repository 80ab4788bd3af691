// Package config loads typed configuration structs from environment
// variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: the
// default .env file is loaded once per process (missing files are fine),
// then environment variables are parsed into any struct annotated with
// `env` field tags.
//
// # Usage
//
//	type ServerConfig struct {
//		Addr       string `env:"SERVER_ADDR" envDefault:":9595"`
//		MaxClients int64  `env:"SERVER_MAX_CLIENTS" envDefault:"32"`
//	}
//
//	cfg, err := config.Load[ServerConfig]()
//	if err != nil {
//		// errors.Is(err, config.ErrParsingConfig)
//	}
//
// MustLoad panics on failure and suits configuration the process cannot
// start without.
package config
