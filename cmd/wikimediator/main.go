package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/mgkim990427/wikimediator/pkg/config"
	"github.com/mgkim990427/wikimediator/pkg/logger"
	"github.com/mgkim990427/wikimediator/search"
	"github.com/mgkim990427/wikimediator/server"
	"github.com/mgkim990427/wikimediator/wikimediator"
)

// appConfig selects the remote source backing the mediator.
type appConfig struct {
	Source string `env:"SOURCE" envDefault:"wikipedia"` // "wikipedia" or "opensearch"
}

func main() {
	log := logger.NewFromConfig(
		config.MustLoad[logger.Config](),
		logger.WithAttr(slog.String("service", "wikimediator")),
	)

	ctx := context.Background()

	src, err := newSource(ctx, config.MustLoad[appConfig]())
	if err != nil {
		log.Error("source initialization failed", logger.Error(err))
		os.Exit(1)
	}

	mediator, err := wikimediator.New(
		src,
		config.MustLoad[wikimediator.Config](),
		wikimediator.WithLogger(log),
	)
	if err != nil {
		log.Error("mediator initialization failed", logger.Error(err))
		os.Exit(1)
	}

	srv := server.NewFromConfig(
		config.MustLoad[server.Config](),
		server.WithLogger(log),
		server.WithStartHook(func(l *slog.Logger) { l.Info("server listening") }),
		server.WithStopHook(func(l *slog.Logger) { l.Info("server stopped") }),
	)

	if err := srv.Run(ctx, mediator); err != nil {
		log.Error("server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func newSource(ctx context.Context, cfg appConfig) (search.Source, error) {
	if cfg.Source == "opensearch" {
		return search.NewOpenSearch(ctx, config.MustLoad[search.OpenSearchConfig]())
	}
	return search.NewWikipedia(config.MustLoad[search.WikipediaConfig]()), nil
}
