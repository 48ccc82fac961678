package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kapu/imas-line-bot-go/internal/config"
	"github.com/kapu/imas-line-bot-go/internal/constants"
	"github.com/kapu/imas-line-bot-go/internal/health"
	"github.com/kapu/imas-line-bot-go/internal/service/dedup"
	"github.com/kapu/imas-line-bot-go/internal/service/sparql"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(endpoint string) *config.Config {
	return &config.Config{
		Line: config.LineConfig{ChannelSecret: "secret", ChannelAccessToken: "token"},
		Sparql: config.SparqlConfig{
			Endpoint:      endpoint,
			Timeout:       time.Second,
			Burst:         1,
			RetryAttempts: 1,
		},
		Card: config.CardConfig{
			ImageBaseURL:       constants.CardConfig.ImageBaseURL,
			NoImageURL:         constants.CardConfig.NoImageURL,
			GradientImageURL:   constants.CardConfig.GradientImageURL,
			DefaultAccentColor: constants.CardConfig.DefaultAccentColor,
		},
		Server:  config.ServerConfig{Port: 8080, MetricsAPIKey: "debug"},
		Worker:  config.WorkerConfig{MaxGoroutines: 2, EventTimeout: time.Second},
		Logging: config.LoggingConfig{Level: "info"},
		Version: "test",
	}
}

func TestBuildRuntimeServesHealthAndSearch(t *testing.T) {
	sparqlSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/sparql-results+json")
		_, _ = w.Write([]byte(`{"head":{"vars":[]},"results":{"bindings":[]}}`))
	}))
	t.Cleanup(sparqlSrv.Close)

	runtime, err := BuildRuntime(context.Background(), testConfig(sparqlSrv.URL), testLogger())
	if err != nil {
		t.Fatalf("BuildRuntime: %v", err)
	}
	t.Cleanup(runtime.Close)

	if runtime.Addr != ":8080" {
		t.Fatalf("unexpected addr: %q", runtime.Addr)
	}

	rec := httptest.NewRecorder()
	runtime.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"sparql"`) {
		t.Fatalf("unexpected health response: %d %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"text":"存在しないアイドル"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "debug")
	rec = httptest.NewRecorder()
	runtime.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), constants.BotMessages.NotFoundTitle) {
		t.Fatalf("unexpected search response: %d %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("X-API-Key", "debug")
	rec = httptest.NewRecorder()
	runtime.Server.Handler.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), "imas_bot_searches_total") {
		t.Fatalf("search metrics should be exported")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	runtime, err := BuildRuntime(context.Background(), testConfig("http://127.0.0.1:1/sparql"), testLogger())
	if err != nil {
		t.Fatalf("BuildRuntime: %v", err)
	}
	t.Cleanup(runtime.Close)
	runtime.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runtime.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}

func TestProvideDedupStore(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1/sparql")

	store, cleanup, err := ProvideDedupStore(cfg, testLogger())
	if err != nil {
		t.Fatalf("ProvideDedupStore: %v", err)
	}
	cleanup()
	if _, ok := store.(dedup.NoopStore); !ok {
		t.Fatalf("expected noop store without CACHE_HOST, got %T", store)
	}

	mini := miniredis.RunT(t)
	cfg.Valkey = config.ValkeyConfig{Host: mini.Host(), Port: mustPort(t, mini.Port()), DedupTTL: time.Hour}
	store, cleanup, err = ProvideDedupStore(cfg, testLogger())
	if err != nil {
		t.Fatalf("ProvideDedupStore: %v", err)
	}
	t.Cleanup(cleanup)

	probes := ProvideHealthProbes(sparql.NewClient(sparql.DefaultClientConfig(), nil, testLogger()), store)
	status := probes["dedup"](context.Background())
	if status.Status != health.StatusOK {
		t.Fatalf("dedup probe should be ok, got %+v", status)
	}
	if probes["sparql"](context.Background()).Status != health.StatusOK {
		t.Fatalf("fresh circuit should be ok")
	}
}

func mustPort(t *testing.T, raw string) int {
	t.Helper()
	port, err := strconv.Atoi(raw)
	if err != nil {
		t.Fatalf("invalid port %q: %v", raw, err)
	}
	return port
}
