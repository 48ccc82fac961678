package server

import (
	stdErrors "errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// Dispatcher: 검증된 웹훅 이벤트를 비동기 처리기로 넘긴다.
type Dispatcher interface {
	Dispatch(events []webhook.EventInterface)
}

// WebhookHandler: LINE 웹훅 수신 핸들러
type WebhookHandler struct {
	channelSecret string
	dispatcher    Dispatcher
	logger        *slog.Logger
}

// NewWebhookHandler 는 생성자다.
func NewWebhookHandler(channelSecret string, dispatcher Dispatcher, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		channelSecret: channelSecret,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// Callback: 서명을 검증하고 이벤트를 분배한 뒤 바로 200을 돌려준다.
func (h *WebhookHandler) Callback(c *gin.Context) {
	cb, err := webhook.ParseRequest(h.channelSecret, c.Request)
	if err != nil {
		if stdErrors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.Warn("Webhook signature rejected", slog.String("ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_signature"})
			return
		}
		h.logger.Error("Failed to parse webhook request", slog.Any("error", err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "parse_failed"})
		return
	}

	h.logger.Debug("Webhook received",
		slog.String("destination", cb.Destination),
		slog.Int("events", len(cb.Events)),
	)
	if len(cb.Events) > 0 {
		h.dispatcher.Dispatch(cb.Events)
	}
	c.Status(http.StatusOK)
}
