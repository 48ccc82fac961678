package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// APIKeyHeader: 디버그 검색/메트릭 엔드포인트 인증 헤더
	APIKeyHeader = "X-API-Key" //nolint:gosec // G101: 헤더 이름일 뿐 실제 credentials가 아님
)

// APIKeyAuthMiddleware: X-API-Key 헤더를 검증한다.
// apiKey가 비어 있으면 보호 대상 라우트 자체를 닫는다 (404).
func APIKeyAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "endpoint not found",
			})
			return
		}

		providedKey := c.GetHeader(APIKeyHeader)
		if providedKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "API key required",
			})
			return
		}

		if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "invalid API key",
			})
			return
		}

		c.Next()
	}
}
