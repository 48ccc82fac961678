package adapter

import (
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/kapu/imas-line-bot-go/internal/constants"
)

// ErrorCard: 제목과 본문으로 된 단일 버블 메시지. 오류와 검색 결과 없음 모두 이 렌더러를 쓴다.
func ErrorCard(title, body string) *messaging_api.FlexMessage {
	content := NewFlexBox("vertical",
		NewFlexText(title).WithBold().WithSize("md").FlexText,
		NewFlexText(body).WithSize("xs").WithColor(colorLabel).WithMargin("sm").FlexText,
	)
	return NewFlexMessage(title, &messaging_api.FlexBubble{Body: content.FlexBox})
}

// NotFoundCard: 검색 결과 0건
func NotFoundCard() *messaging_api.FlexMessage {
	return ErrorCard(constants.BotMessages.NotFoundTitle, constants.BotMessages.NotFoundBody)
}

// FetchFailedCard: 엔드포인트 접근 실패
func FetchFailedCard() *messaging_api.FlexMessage {
	return ErrorCard(constants.BotMessages.FetchFailedTitle, constants.BotMessages.FetchFailedBody)
}
