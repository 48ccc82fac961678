package app

import (
	"context"
	"log/slog"

	"github.com/kapu/imas-line-bot-go/internal/config"
	"github.com/kapu/imas-line-bot-go/internal/server"
)

// InitializeBotRuntime: 구성요소를 의존 순서대로 조립한다.
// 실패하면 그때까지 만든 자원을 역순으로 정리한다.
func InitializeBotRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*BotRuntime, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	tracer, err := ProvideTelemetry(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanups = append(cleanups, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWindow())
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.Any("error", err))
		}
	})

	registry, collector, err := ProvideMetrics()
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	sparqlClient := ProvideSparqlClient(cfg, collector, logger)
	assembler, err := ProvideCardAssembler(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	searchService := ProvideSearchService(sparqlClient, assembler, collector, logger)

	store, closeStore, err := ProvideDedupStore(cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, closeStore)

	replier, err := ProvideReplier(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	b, err := ProvideBot(cfg, searchService, replier, store, collector, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	probes := ProvideHealthProbes(sparqlClient, store)
	router, err := ProvideRouter(ctx, cfg, b, searchService, probes, registry, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	addr := ProvideAPIAddr(cfg)
	return &BotRuntime{
		Config:    cfg,
		Logger:    logger,
		Bot:       b,
		Search:    searchService,
		Telemetry: tracer,
		Addr:      addr,
		Server:    server.NewHTTPServer(addr, router),
	}, cleanup, nil
}
