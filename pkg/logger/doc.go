// Package logger builds configured log/slog loggers.
//
// It provides a small factory around slog's JSON and text handlers with
// level, format and output selection, plus attribute helpers for common
// fields.
//
// # Usage
//
//	log := logger.New(
//		logger.WithFormat(logger.FormatJSON),
//		logger.WithLevel(slog.LevelInfo),
//		logger.WithAttr(slog.String("service", "wikimediator")),
//	)
//	log.Info("started", slog.String("addr", addr))
//
// Configuration can also come from the environment via Config and
// NewFromConfig:
//
//	cfg, _ := config.Load[logger.Config]()
//	log := logger.NewFromConfig(cfg)
package logger
