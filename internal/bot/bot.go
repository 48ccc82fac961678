// Package bot: LINE 웹훅 이벤트를 받아 검색 결과를 reply 하는 디스패처.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/sourcegraph/conc/pool"

	"github.com/kapu/imas-line-bot-go/internal/constants"
	"github.com/kapu/imas-line-bot-go/internal/service/dedup"
	"github.com/kapu/imas-line-bot-go/pkg/errors"
)

// 이벤트 처리 결과 라벨
const (
	ResultHandled   = "handled"
	ResultDuplicate = "duplicate"
	ResultIgnored   = "ignored"
	ResultFailed    = "failed"
	ResultDropped   = "dropped"
)

// Bot: 웹훅 이벤트를 워커 풀에 분배하고 검색 응답을 보내는 메인 구조체
type Bot struct {
	logger       *slog.Logger
	searcher     Searcher
	replier      Replier
	dedup        dedup.Store
	recorder     Recorder
	eventTimeout time.Duration
	replyTimeout time.Duration

	mu      sync.RWMutex
	workers *pool.Pool
	closed  bool
}

// NewBot: 의존성을 검증하고 워커 풀을 준비한다.
func NewBot(deps *Dependencies) (*Bot, error) {
	if deps == nil {
		return nil, fmt.Errorf("bot dependencies are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger dependency is required")
	}
	if deps.Searcher == nil {
		return nil, fmt.Errorf("searcher dependency is required")
	}
	if deps.Replier == nil {
		return nil, fmt.Errorf("replier dependency is required")
	}

	store := deps.Dedup
	if store == nil {
		store = dedup.NoopStore{}
	}
	maxGoroutines := deps.MaxGoroutines
	if maxGoroutines <= 0 {
		maxGoroutines = constants.WorkerConfig.MaxGoroutines
	}
	eventTimeout := deps.EventTimeout
	if eventTimeout <= 0 {
		eventTimeout = constants.WorkerConfig.EventTimeout
	}
	replyTimeout := deps.ReplyTimeout
	if replyTimeout <= 0 {
		replyTimeout = constants.WorkerConfig.ReplyTimeout
	}

	return &Bot{
		logger:       deps.Logger,
		searcher:     deps.Searcher,
		replier:      deps.Replier,
		dedup:        store,
		recorder:     deps.Recorder,
		eventTimeout: eventTimeout,
		replyTimeout: replyTimeout,
		workers:      pool.New().WithMaxGoroutines(maxGoroutines),
	}, nil
}

// Dispatch: 이벤트를 워커 풀에 넣는다. 풀이 가득 차면 빈 자리가 날 때까지 블록된다.
// 종료가 시작된 뒤 들어온 이벤트는 버린다.
func (b *Bot) Dispatch(events []webhook.EventInterface) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, event := range events {
		if b.closed {
			b.logger.Warn("Bot is shutting down, dropping webhook event",
				slog.String("event_type", eventType(event)),
			)
			b.observe(ResultDropped)
			continue
		}
		ev := event
		b.workers.Go(func() {
			ctx, cancel := context.WithTimeout(context.Background(), b.eventTimeout)
			defer cancel()
			b.HandleEvent(ctx, ev)
		})
	}
}

// HandleEvent: 이벤트 하나를 동기적으로 처리한다. 패닉은 여기서 흡수된다.
func (b *Bot) HandleEvent(ctx context.Context, event webhook.EventInterface) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Panic while handling webhook event",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			b.observe(ResultFailed)
		}
	}()

	msgEvent, ok := event.(webhook.MessageEvent)
	if !ok {
		b.logger.Debug("Ignoring non-message event", slog.String("event_type", eventType(event)))
		b.observe(ResultIgnored)
		return
	}

	text, ok := msgEvent.Message.(webhook.TextMessageContent)
	if !ok {
		b.logger.Debug("Ignoring non-text message", slog.String("event_id", msgEvent.WebhookEventId))
		b.observe(ResultIgnored)
		return
	}

	claimed, err := b.dedup.Claim(ctx, msgEvent.WebhookEventId)
	if err != nil {
		// 저장소 장애 시에는 응답 누락보다 중복 응답을 택한다.
		b.logger.Warn("Dedup claim failed, processing anyway",
			slog.String("event_id", msgEvent.WebhookEventId),
			slog.Any("error", err),
		)
	} else if !claimed {
		b.logger.Info("Duplicate webhook event skipped",
			slog.String("event_id", msgEvent.WebhookEventId),
			slog.Bool("redelivery", isRedelivery(msgEvent)),
		)
		b.observe(ResultDuplicate)
		return
	}

	msg := b.searcher.Search(ctx, text.Text)
	if msg == nil {
		b.observe(ResultIgnored)
		return
	}

	// 회신 기한은 이벤트 기한과 별개다. 조회가 기한을 다 써도 오류 카드는 나간다.
	replyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.replyTimeout)
	defer cancel()

	if err := b.replier.Reply(replyCtx, msgEvent.ReplyToken, msg); err != nil {
		wrapped := errors.NewServiceError("line", "reply", err)
		b.logger.Error("Failed to send reply",
			slog.String("event_id", msgEvent.WebhookEventId),
			slog.Any("error", wrapped),
		)
		if b.recorder != nil {
			b.recorder.ObserveReplyFailure()
		}
		b.observe(ResultFailed)
		return
	}

	b.observe(ResultHandled)
}

// Shutdown: 새 이벤트 접수를 막고 처리 중인 이벤트가 끝날 때까지 ctx 범위에서 기다린다.
func (b *Bot) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("Webhook workers drained")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for webhook workers: %w", ctx.Err())
	}
}

func (b *Bot) observe(result string) {
	if b.recorder != nil {
		b.recorder.ObserveWebhookEvent(result)
	}
}

func isRedelivery(e webhook.MessageEvent) bool {
	return e.DeliveryContext != nil && e.DeliveryContext.IsRedelivery
}

func eventType(event webhook.EventInterface) string {
	if event == nil {
		return "<nil>"
	}
	return event.GetType()
}
