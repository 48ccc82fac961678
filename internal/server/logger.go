package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// slowRequestThreshold 이상 걸린 요청만 latency 필드를 남긴다.
const slowRequestThreshold = 500 * time.Millisecond

// LoggerMiddleware: slog 기반 HTTP 접속 로그.
// skipPaths는 "/exact", "/prefix*", "*suffix" 형식을 받는다.
func LoggerMiddleware(ctx context.Context, logger *slog.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := newPathMatcher(skipPaths)

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skip.match(path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		level := slog.LevelDebug
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		if !logger.Enabled(ctx, level) {
			return
		}

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.String("ip", c.ClientIP()),
			slog.String("ua", truncateUA(c.Request.UserAgent())),
		}
		if latency >= slowRequestThreshold {
			attrs = append(attrs, slog.Duration("latency", latency))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		logger.LogAttrs(ctx, level, "HTTP", attrs...)
	}
}

type pathMatcher struct {
	exact    map[string]bool
	prefixes []string
	suffixes []string
}

func newPathMatcher(patterns []string) pathMatcher {
	m := pathMatcher{exact: make(map[string]bool)}
	for _, pattern := range patterns {
		switch {
		case len(pattern) > 1 && strings.HasPrefix(pattern, "*"):
			m.suffixes = append(m.suffixes, pattern[1:])
		case len(pattern) > 1 && strings.HasSuffix(pattern, "*"):
			m.prefixes = append(m.prefixes, pattern[:len(pattern)-1])
		default:
			m.exact[pattern] = true
		}
	}
	return m
}

func (m pathMatcher) match(path string) bool {
	if m.exact[path] {
		return true
	}
	for _, prefix := range m.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, suffix := range m.suffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// truncateUA: User-Agent를 로그용 길이로 자른다.
func truncateUA(ua string) string {
	const maxLen = 80
	if len(ua) > maxLen {
		return ua[:maxLen] + "..."
	}
	return ua
}
