package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/kapu/imas-line-bot-go/internal/service/dedup"
)

// Searcher: 텍스트 한 건을 응답 메시지로 바꾸는 검색 파이프라인
type Searcher interface {
	Search(ctx context.Context, text string) *messaging_api.FlexMessage
}

// Replier: reply token으로 메시지를 돌려보내는 전송 계층
type Replier interface {
	Reply(ctx context.Context, replyToken string, messages ...messaging_api.MessageInterface) error
}

// Recorder: 웹훅 이벤트 처리 결과 메트릭 훅
type Recorder interface {
	ObserveWebhookEvent(result string)
	ObserveReplyFailure()
}

// Dependencies 는 타입이다.
type Dependencies struct {
	Logger        *slog.Logger
	Searcher      Searcher
	Replier       Replier
	Dedup         dedup.Store
	Recorder      Recorder
	MaxGoroutines int
	EventTimeout  time.Duration
	ReplyTimeout  time.Duration
}
