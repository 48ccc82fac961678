package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kapu/imas-line-bot-go/internal/adapter"
	"github.com/kapu/imas-line-bot-go/internal/bot"
	"github.com/kapu/imas-line-bot-go/internal/config"
	"github.com/kapu/imas-line-bot-go/internal/constants"
	"github.com/kapu/imas-line-bot-go/internal/domain"
	"github.com/kapu/imas-line-bot-go/internal/health"
	"github.com/kapu/imas-line-bot-go/internal/metrics"
	"github.com/kapu/imas-line-bot-go/internal/server"
	"github.com/kapu/imas-line-bot-go/internal/service/dedup"
	"github.com/kapu/imas-line-bot-go/internal/service/keyword"
	"github.com/kapu/imas-line-bot-go/internal/service/search"
	"github.com/kapu/imas-line-bot-go/internal/service/sparql"
	"github.com/kapu/imas-line-bot-go/internal/telemetry"
	"github.com/kapu/imas-line-bot-go/internal/util"
)

// ProvideTelemetry: OTel TracerProvider를 초기화한다. 비활성화 상태면 no-op provider를 돌려준다.
func ProvideTelemetry(ctx context.Context, cfg *config.Config) (*telemetry.Provider, error) {
	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Environment:    cfg.Telemetry.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure:   cfg.Telemetry.OTLPInsecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("telemetry init failed: %w", err)
	}
	return provider, nil
}

// ProvideMetrics: 전용 레지스트리에 봇 지표와 런타임 지표를 등록한다.
func ProvideMetrics() (*prometheus.Registry, *metrics.Collector, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector, err := metrics.NewCollector(registry)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics init failed: %w", err)
	}
	return registry, collector, nil
}

// ProvideSparqlClient: im@sparql 클라이언트
func ProvideSparqlClient(cfg *config.Config, observer sparql.Observer, logger *slog.Logger) *sparql.Client {
	clientCfg := sparql.DefaultClientConfig()
	clientCfg.Endpoint = cfg.Sparql.Endpoint
	clientCfg.Timeout = cfg.Sparql.Timeout
	clientCfg.RequestsPerSecond = cfg.Sparql.RequestsPerSecond
	clientCfg.Burst = cfg.Sparql.Burst
	clientCfg.MaxAttempts = cfg.Sparql.RetryAttempts
	clientCfg.Tracing = cfg.Telemetry.Enabled

	client := sparql.NewClient(clientCfg, nil, logger)
	if observer != nil {
		client.SetObserver(observer)
	}
	return client
}

// ProvideCardAssembler: 이미지 테이블을 읽어 카드 조립기를 만든다.
func ProvideCardAssembler(cfg *config.Config) (*adapter.CardAssembler, error) {
	images, err := domain.LoadImageTable()
	if err != nil {
		return nil, fmt.Errorf("image table load failed: %w", err)
	}
	return adapter.NewCardAssembler(images, adapter.CardOptions{
		ImageBaseURL:        cfg.Card.ImageBaseURL,
		NoImageURL:          cfg.Card.NoImageURL,
		GradientImageURL:    cfg.Card.GradientImageURL,
		DefaultAccentColor:  cfg.Card.DefaultAccentColor,
		DarkenWhitishFooter: cfg.Card.DarkenWhitishFooter,
	}), nil
}

// ProvideSearchService 는 동작을 수행한다.
func ProvideSearchService(
	fetcher sparql.Fetcher,
	assembler *adapter.CardAssembler,
	recorder search.Recorder,
	logger *slog.Logger,
) *search.Service {
	return search.NewService(keyword.NewResolver(util.SystemClock), fetcher, assembler, recorder, logger)
}

// ProvideDedupStore: CACHE_HOST가 있으면 Valkey, 없으면 no-op 저장소를 쓴다.
func ProvideDedupStore(cfg *config.Config, logger *slog.Logger) (dedup.Store, func(), error) {
	if !cfg.Valkey.Enabled() {
		logger.Warn("Dedup store disabled", slog.String("reason", "CACHE_HOST not set"))
		return dedup.NoopStore{}, func() {}, nil
	}

	store, err := dedup.NewValkeyStore(dedup.Config{
		Host:     cfg.Valkey.Host,
		Port:     cfg.Valkey.Port,
		Password: cfg.Valkey.Password,
		DB:       cfg.Valkey.DB,
		TTL:      cfg.Valkey.DedupTTL,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("dedup store init failed: %w", err)
	}
	return store, store.Close, nil
}

// ProvideReplier: LINE Messaging API 클라이언트
func ProvideReplier(cfg *config.Config) (*bot.LineReplier, error) {
	httpClient := &http.Client{Timeout: constants.WorkerConfig.ReplyTimeout}
	replier, err := bot.NewLineReplier(cfg.Line.ChannelAccessToken, "", httpClient)
	if err != nil {
		return nil, fmt.Errorf("line client init failed: %w", err)
	}
	return replier, nil
}

// ProvideBot 는 동작을 수행한다.
func ProvideBot(
	cfg *config.Config,
	searcher bot.Searcher,
	replier bot.Replier,
	store dedup.Store,
	recorder bot.Recorder,
	logger *slog.Logger,
) (*bot.Bot, error) {
	b, err := bot.NewBot(&bot.Dependencies{
		Logger:        logger,
		Searcher:      searcher,
		Replier:       replier,
		Dedup:         store,
		Recorder:      recorder,
		MaxGoroutines: cfg.Worker.MaxGoroutines,
		EventTimeout:  cfg.Worker.EventTimeout,
		ReplyTimeout:  constants.WorkerConfig.ReplyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("bot init failed: %w", err)
	}
	return b, nil
}

// ProvideHealthProbes: /health에 노출할 구성요소 상태 확인 함수들
func ProvideHealthProbes(client *sparql.Client, store dedup.Store) map[string]health.Probe {
	probes := map[string]health.Probe{
		"sparql": func(context.Context) health.ComponentStatus {
			status := client.CircuitStatus()
			if status.State == util.CircuitStateClosed {
				return health.ComponentStatus{Status: health.StatusOK}
			}
			return health.ComponentStatus{
				Status: string(status.State),
				Detail: fmt.Sprintf("failures=%d", status.FailureCount),
			}
		},
	}

	if pinger, ok := store.(interface{ Ping(context.Context) error }); ok {
		probes["dedup"] = func(ctx context.Context) health.ComponentStatus {
			pingCtx, cancel := context.WithTimeout(ctx, constants.ValkeyConfig.ReadyTimeout)
			defer cancel()
			if err := pinger.Ping(pingCtx); err != nil {
				return health.ComponentStatus{Status: "unavailable", Detail: err.Error()}
			}
			return health.ComponentStatus{Status: health.StatusOK}
		}
	}
	return probes
}

// ProvideAPIAddr: HTTP 서버 리슨 주소
func ProvideAPIAddr(cfg *config.Config) string {
	return fmt.Sprintf(":%d", cfg.Server.Port)
}

// ProvideRouter: 웹훅/운영 API 라우터
func ProvideRouter(
	ctx context.Context,
	cfg *config.Config,
	dispatcher server.Dispatcher,
	searcher server.Searcher,
	probes map[string]health.Probe,
	registry *prometheus.Registry,
	logger *slog.Logger,
) (http.Handler, error) {
	routes := server.Routes{
		Webhook: server.NewWebhookHandler(cfg.Line.ChannelSecret, dispatcher, logger),
		API:     server.NewAPIHandler(searcher, probes, logger),
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	router, err := server.NewRouter(ctx, server.RouterConfig{
		APIKey:           cfg.Server.MetricsAPIKey,
		TelemetryEnabled: cfg.Telemetry.Enabled,
		ServiceName:      cfg.Telemetry.ServiceName,
		TrustedProxies:   cfg.Server.TrustedProxies,
	}, routes, logger)
	if err != nil {
		return nil, fmt.Errorf("router init failed: %w", err)
	}
	return router, nil
}
