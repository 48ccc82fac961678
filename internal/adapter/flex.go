package adapter

import "github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

// Flex 컴포넌트 빌더. 컴포넌트는 포인터로 담아야 SDK의 MarshalJSON이 "type"을 채운다.

// FlexBox: messaging_api.FlexBox 빌더
type FlexBox struct {
	*messaging_api.FlexBox
}

// NewFlexBox: layout(vertical, horizontal, baseline)과 하위 컴포넌트로 박스를 만든다.
func NewFlexBox(layout string, contents ...messaging_api.FlexComponentInterface) *FlexBox {
	if contents == nil {
		contents = []messaging_api.FlexComponentInterface{}
	}
	return &FlexBox{&messaging_api.FlexBox{
		Layout:   messaging_api.FlexBoxLAYOUT(layout),
		Contents: contents,
	}}
}

func (b *FlexBox) WithSpacing(spacing string) *FlexBox {
	b.Spacing = spacing
	return b
}

func (b *FlexBox) WithMargin(margin string) *FlexBox {
	b.Margin = margin
	return b
}

func (b *FlexBox) WithAbsolute() *FlexBox {
	b.Position = messaging_api.FlexBoxPOSITION("absolute")
	return b
}

func (b *FlexBox) WithOffsetTop(offset string) *FlexBox {
	b.OffsetTop = offset
	return b
}

func (b *FlexBox) WithPaddingAll(padding string) *FlexBox {
	b.PaddingAll = padding
	return b
}

// WithPadding: 상, 하, 좌(시작), 우(끝) 패딩을 지정한다. 빈 문자열은 건너뛴다.
func (b *FlexBox) WithPadding(top, bottom, start, end string) *FlexBox {
	b.PaddingTop = top
	b.PaddingBottom = bottom
	b.PaddingStart = start
	b.PaddingEnd = end
	return b
}

// FlexText: messaging_api.FlexText 빌더
type FlexText struct {
	*messaging_api.FlexText
}

func NewFlexText(text string) *FlexText {
	return &FlexText{&messaging_api.FlexText{Text: text}}
}

func (t *FlexText) WithSize(size string) *FlexText {
	t.Size = size
	return t
}

func (t *FlexText) WithColor(color string) *FlexText {
	t.Color = color
	return t
}

func (t *FlexText) WithBold() *FlexText {
	t.Weight = messaging_api.FlexTextWEIGHT("bold")
	return t
}

func (t *FlexText) WithWrap() *FlexText {
	t.Wrap = true
	return t
}

func (t *FlexText) WithFlex(flex int32) *FlexText {
	t.Flex = flex
	return t
}

func (t *FlexText) WithMargin(margin string) *FlexText {
	t.Margin = margin
	return t
}

// FlexImage: messaging_api.FlexImage 빌더
type FlexImage struct {
	*messaging_api.FlexImage
}

// NewFlexImage: 가로 전체, cover, 16:9 기본 이미지를 만든다.
func NewFlexImage(url string) *FlexImage {
	return &FlexImage{&messaging_api.FlexImage{
		Url:         url,
		Size:        "full",
		AspectMode:  messaging_api.FlexImageASPECT_MODE("cover"),
		AspectRatio: "16:9",
	}}
}

func (i *FlexImage) WithGravityCenter() *FlexImage {
	i.Gravity = messaging_api.FlexImageGRAVITY("center")
	return i
}

func (i *FlexImage) WithAbsolute() *FlexImage {
	i.Position = messaging_api.FlexImagePOSITION("absolute")
	return i
}

// FlexButton: messaging_api.FlexButton 빌더
type FlexButton struct {
	*messaging_api.FlexButton
}

func NewFlexButton(action messaging_api.ActionInterface) *FlexButton {
	return &FlexButton{&messaging_api.FlexButton{
		Action: action,
		Height: messaging_api.FlexButtonHEIGHT("sm"),
	}}
}

func (b *FlexButton) WithStyle(style string) *FlexButton {
	b.Style = messaging_api.FlexButtonSTYLE(style)
	return b
}

func (b *FlexButton) WithColor(color string) *FlexButton {
	b.Color = color
	return b
}

func (b *FlexButton) WithOffsetTop(offset string) *FlexButton {
	b.OffsetTop = offset
	return b
}

// NewURIAction: URI 액션을 만든다.
func NewURIAction(label, uri string) *messaging_api.UriAction {
	return &messaging_api.UriAction{Label: label, Uri: uri}
}

// NewFlexMessage: altText와 컨테이너(bubble 또는 carousel)로 Flex 메시지를 만든다.
func NewFlexMessage(altText string, contents messaging_api.FlexContainerInterface) *messaging_api.FlexMessage {
	return &messaging_api.FlexMessage{
		AltText:  altText,
		Contents: contents,
	}
}
