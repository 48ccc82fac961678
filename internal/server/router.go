package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/kapu/imas-line-bot-go/internal/constants"
)

// RouterConfig: 라우터 구성 옵션
type RouterConfig struct {
	APIKey           string
	TelemetryEnabled bool
	ServiceName      string
	TrustedProxies   []string
}

// Routes: 라우터에 연결할 핸들러 묶음
type Routes struct {
	Webhook *WebhookHandler
	API     *APIHandler
	Metrics http.Handler
}

// NewRouter: 웹훅/운영 API를 서빙하는 gin 라우터를 만든다.
func NewRouter(ctx context.Context, cfg RouterConfig, routes Routes, logger *slog.Logger) (*gin.Engine, error) {
	if routes.Webhook == nil || routes.API == nil {
		return nil, fmt.Errorf("webhook and api handlers are required")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	if cfg.TelemetryEnabled {
		serviceName := cfg.ServiceName
		if serviceName == "" {
			serviceName = "imas-line-bot"
		}
		router.Use(otelgin.Middleware(serviceName))
		logger.Info("otel_http_middleware_enabled", slog.String("service", serviceName))
	}

	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(ctx, logger, "/health", "/metrics"))
	router.Use(ResponseHeadersMiddleware())
	router.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/callback", "/metrics"}),
	))

	router.POST("/callback", routes.Webhook.Callback)
	router.GET("/health", routes.API.Health)

	protected := router.Group("/")
	protected.Use(APIKeyAuthMiddleware(cfg.APIKey))
	protected.POST("/api/search", routes.API.Search)
	if routes.Metrics != nil {
		protected.GET("/metrics", gin.WrapH(routes.Metrics))
	}

	if cfg.APIKey == "" {
		logger.Warn("api_key_auth_disabled", slog.String("reason", "METRICS_API_KEY not set; /api/search and /metrics are closed"))
	}

	return router, nil
}

// NewHTTPServer: 타임아웃이 설정된 http.Server를 만든다. 핸들러는 H2C로 감싼다.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           WrapH2C(handler),
		ReadHeaderTimeout: constants.ServerTimeoutConfig.ReadHeader,
		ReadTimeout:       constants.ServerTimeoutConfig.Read,
		WriteTimeout:      constants.ServerTimeoutConfig.Write,
		IdleTimeout:       constants.ServerTimeoutConfig.Idle,
	}
}
