package bot

import (
	"context"
	"fmt"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// LineReplier: LINE Messaging API reply 엔드포인트 클라이언트
type LineReplier struct {
	api *messaging_api.MessagingApiAPI
}

// NewLineReplier: 채널 액세스 토큰으로 Messaging API 클라이언트를 만든다.
// endpoint가 비어 있으면 SDK 기본 엔드포인트를 사용한다.
func NewLineReplier(channelToken, endpoint string, httpClient *http.Client) (*LineReplier, error) {
	var opts []messaging_api.MessagingApiAPIOption
	if endpoint != "" {
		opts = append(opts, messaging_api.WithEndpoint(endpoint))
	}
	if httpClient != nil {
		opts = append(opts, messaging_api.WithHTTPClient(httpClient))
	}

	api, err := messaging_api.NewMessagingApiAPI(channelToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("create messaging api client: %w", err)
	}
	return &LineReplier{api: api}, nil
}

// Reply: reply token 한 번으로 메시지를 보낸다.
func (r *LineReplier) Reply(ctx context.Context, replyToken string, messages ...messaging_api.MessageInterface) error {
	if replyToken == "" {
		return fmt.Errorf("reply token is empty")
	}
	_, err := r.api.WithContext(ctx).ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	})
	if err != nil {
		return fmt.Errorf("reply message: %w", err)
	}
	return nil
}
