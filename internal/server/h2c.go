package server

import (
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kapu/imas-line-bot-go/internal/constants"
)

// WrapH2C: 앞단 프록시가 TLS를 끊고 평문 HTTP/2로 넘겨주는 요청을 받는다.
// 스트림 수는 웹훅 워커 풀보다 넉넉하게만 열어 둔다.
func WrapH2C(handler http.Handler) http.Handler {
	return h2c.NewHandler(handler, &http2.Server{
		MaxConcurrentStreams: constants.HTTP2Config.MaxConcurrentStreams,
		IdleTimeout:          constants.ServerTimeoutConfig.Idle,
	})
}
