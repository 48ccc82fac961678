package server

import (
	"github.com/gin-gonic/gin"
)

// ResponseHeadersMiddleware: JSON 응답만 내보내는 서버용 헤더.
// 검색 결과와 메트릭은 캐시되면 안 되고, 문서로 렌더링될 일도 없다.
func ResponseHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Cache-Control", "no-store")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Referrer-Policy", "no-referrer")
		c.Next()
	}
}
