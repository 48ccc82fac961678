package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kapu/imas-line-bot-go/internal/bot"
	"github.com/kapu/imas-line-bot-go/internal/config"
	"github.com/kapu/imas-line-bot-go/internal/constants"
	"github.com/kapu/imas-line-bot-go/internal/service/search"
	"github.com/kapu/imas-line-bot-go/internal/telemetry"
)

// BotRuntime 는 타입이다.
type BotRuntime struct {
	Config *config.Config
	Logger *slog.Logger

	Bot       *bot.Bot
	Search    *search.Service
	Telemetry *telemetry.Provider
	Addr      string
	Server    *http.Server

	cleanup func()
}

// Close - 런타임 리소스 정리 (Valkey 연결, TracerProvider)
func (r *BotRuntime) Close() {
	if r != nil && r.cleanup != nil {
		r.cleanup()
	}
}

// BuildRuntime 는 동작을 수행한다.
func BuildRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*BotRuntime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	runtime, cleanup, err := InitializeBotRuntime(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("런타임 초기화 실패: %w", err)
	}
	runtime.cleanup = cleanup

	return runtime, nil
}

// Run: SIGINT/SIGTERM 또는 ctx 취소까지 HTTP 서버를 돌리고, 종료 시 서버와 워커 풀을 순서대로 내린다.
func (r *BotRuntime) Run(ctx context.Context) error {
	if r == nil || r.Server == nil {
		return fmt.Errorf("runtime is not initialized")
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", r.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.Server.Addr, err)
	}
	r.Addr = listener.Addr().String()

	g, gctx := errgroup.WithContext(signalCtx)

	g.Go(func() error {
		r.Logger.Info("server_start", slog.String("addr", r.Addr), slog.String("version", r.Config.Version))
		if err := r.Server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server serve failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		r.Logger.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWindow())
		defer cancel()

		// 웹훅 수신을 먼저 닫아야 워커 풀에 새 이벤트가 들어오지 않는다.
		var errs []error
		if err := r.Server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("HTTP server shutdown failed: %w", err))
		}
		if err := r.Bot.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run bot runtime failed: %w", err)
	}
	r.Logger.Info("Bot stopped")
	return nil
}

func shutdownWindow() time.Duration {
	if constants.WorkerConfig.ShutdownWindow > constants.ServerTimeoutConfig.Shutdown {
		return constants.WorkerConfig.ShutdownWindow
	}
	return constants.ServerTimeoutConfig.Shutdown
}
