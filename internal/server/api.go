package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/kapu/imas-line-bot-go/internal/health"
)

// Searcher: 디버그 검색 API가 사용하는 검색 파이프라인
type Searcher interface {
	Search(ctx context.Context, text string) *messaging_api.FlexMessage
}

// APIHandler: 운영용 HTTP API (디버그 검색, 헬스 체크)
type APIHandler struct {
	searcher Searcher
	probes   map[string]health.Probe
	logger   *slog.Logger
}

// NewAPIHandler 는 생성자다.
func NewAPIHandler(searcher Searcher, probes map[string]health.Probe, logger *slog.Logger) *APIHandler {
	return &APIHandler{searcher: searcher, probes: probes, logger: logger}
}

type searchRequest struct {
	Text string `json:"text" binding:"required"`
}

// Search: POST /api/search. LINE으로 보낼 Flex 메시지 JSON을 그대로 돌려준다.
func (h *APIHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "text is required",
		})
		return
	}

	msg := h.searcher.Search(c.Request.Context(), req.Text)
	body, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to encode flex message", slog.Any("error", err))
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "encode_failed"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// Health: GET /health
func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, health.Get(c.Request.Context(), h.probes))
}
