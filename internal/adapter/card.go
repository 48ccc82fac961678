// Package adapter: 로컬라이즈된 프로필 레코드를 LINE Flex 메시지(카드/캐러셀)로 조립한다.
package adapter

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/kapu/imas-line-bot-go/internal/constants"
	"github.com/kapu/imas-line-bot-go/internal/domain"
	"github.com/kapu/imas-line-bot-go/internal/util"
)

const (
	colorWhite      = "#ffffff"
	colorLabel      = "#949494"
	colorValue      = "#666666"
	subtitleDivider = "・"
	missingName     = "不明"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// hiddenAttributes: 속성 목록에 표시하지 않는 필드 (헤더/버튼에서 따로 사용)
var hiddenAttributes = map[domain.Field]struct{}{
	domain.FieldName:        {},
	domain.FieldNameReading: {},
	domain.FieldAffiliation: {},
	domain.FieldProfileURL:  {},
}

// CardOptions: 카드 렌더링 설정
type CardOptions struct {
	ImageBaseURL        string
	NoImageURL          string
	GradientImageURL    string
	DefaultAccentColor  string
	DarkenWhitishFooter bool // 흰색 계열 강조색을 기본색으로 대체
}

// DefaultCardOptions: constants 기반 기본 카드 설정
func DefaultCardOptions() CardOptions {
	return CardOptions{
		ImageBaseURL:       constants.CardConfig.ImageBaseURL,
		NoImageURL:         constants.CardConfig.NoImageURL,
		GradientImageURL:   constants.CardConfig.GradientImageURL,
		DefaultAccentColor: constants.CardConfig.DefaultAccentColor,
	}
}

// CardAssembler: LocalizedRecord 목록을 Flex 캐러셀 메시지로 변환한다.
type CardAssembler struct {
	images map[string]string
	opts   CardOptions
}

// NewCardAssembler: 이미지 테이블(이름 -> 파일명 또는 전체 URL)과 설정으로 조립기를 만든다.
// 빈 설정 값은 기본값으로 채운다.
func NewCardAssembler(images map[string]string, opts CardOptions) *CardAssembler {
	defaults := DefaultCardOptions()
	if opts.ImageBaseURL == "" {
		opts.ImageBaseURL = defaults.ImageBaseURL
	}
	if opts.NoImageURL == "" {
		opts.NoImageURL = defaults.NoImageURL
	}
	if opts.GradientImageURL == "" {
		opts.GradientImageURL = defaults.GradientImageURL
	}
	if opts.DefaultAccentColor == "" {
		opts.DefaultAccentColor = defaults.DefaultAccentColor
	}
	if images == nil {
		images = map[string]string{}
	}
	return &CardAssembler{images: images, opts: opts}
}

// Assemble: 레코드가 없으면 검색 결과 없음 카드, 있으면 레코드당 버블 1개짜리 캐러셀을 반환한다.
func (a *CardAssembler) Assemble(records []domain.LocalizedRecord) *messaging_api.FlexMessage {
	if len(records) == 0 {
		return NotFoundCard()
	}

	bubbles := make([]messaging_api.FlexBubble, 0, len(records))
	for _, record := range records {
		bubbles = append(bubbles, a.Bubble(record))
	}

	return NewFlexMessage(
		fmt.Sprintf(constants.BotMessages.FoundAltTextFormat, len(records)),
		&messaging_api.FlexCarousel{Contents: bubbles},
	)
}

// Bubble: 프로필 1건을 버블로 만든다.
func (a *CardAssembler) Bubble(record domain.LocalizedRecord) messaging_api.FlexBubble {
	name := displayName(record)

	hero := NewFlexImage(a.ImageURL(name)).WithGravityCenter()
	gradient := NewFlexImage(a.opts.GradientImageURL).WithAbsolute()

	body := NewFlexBox("vertical",
		hero.FlexImage,
		gradient.FlexImage,
		nameBox(name, Subtitle(record)).FlexBox,
		attributeBox(record).FlexBox,
	).WithPaddingAll("0px")

	return messaging_api.FlexBubble{
		Size:   messaging_api.FlexBubbleSIZE("mega"),
		Body:   body.FlexBox,
		Footer: a.footer(record, name).FlexBox,
	}
}

// ImageURL: 이름으로 이미지 URL을 찾는다.
// 테이블 값이 전체 URL이면 그대로, 파일명이면 CDN 경로를 붙이고, 없으면 대체 이미지를 쓴다.
func (a *CardAssembler) ImageURL(name string) string {
	value, ok := a.images[name]
	if !ok || strings.TrimSpace(value) == "" {
		return a.opts.NoImageURL
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value
	}
	return a.opts.ImageBaseURL + value
}

// AccentColor: 검색 버튼 색. カラー 값이 없거나 형식이 잘못되면 기본색.
func (a *CardAssembler) AccentColor(record domain.LocalizedRecord) string {
	color, ok := record.Get(domain.FieldAccentColor)
	if !ok || !hexColorPattern.MatchString(color) {
		return a.opts.DefaultAccentColor
	}
	if a.opts.DarkenWhitishFooter && util.IsWhitishColor(color) {
		return a.opts.DefaultAccentColor
	}
	return color
}

// Subtitle: 읽는 법, 소속이 있으면 "읽는 법・소속".
func Subtitle(record domain.LocalizedRecord) string {
	reading := strings.TrimSpace(record.Value(domain.FieldNameReading))
	affiliation := strings.TrimSpace(record.Value(domain.FieldAffiliation))

	switch {
	case reading != "" && affiliation != "":
		return reading + subtitleDivider + affiliation
	case reading != "":
		return reading
	default:
		return affiliation
	}
}

// SearchURL: "アイドルマスター <이름>" 구글 검색 URL
func SearchURL(name string) string {
	params := url.Values{}
	params.Set("hl", "ja")
	params.Set("source", "hp")
	params.Set("q", constants.CardConfig.SearchQueryPrefix+name)
	return constants.CardConfig.SearchURLBase + "?" + strings.ReplaceAll(params.Encode(), "+", "%20")
}

func displayName(record domain.LocalizedRecord) string {
	if name := strings.TrimSpace(record.Value(domain.FieldName)); name != "" {
		return name
	}
	return missingName
}

func nameBox(name, subtitle string) *FlexBox {
	contents := []messaging_api.FlexComponentInterface{
		NewFlexText(name).WithSize("xl").WithColor(colorWhite).WithBold().FlexText,
	}
	// LINE은 빈 text를 거부한다.
	if subtitle != "" {
		contents = append(contents, NewFlexText(subtitle).WithSize("xs").WithColor(colorWhite).FlexText)
	}

	box := NewFlexBox("vertical", contents...).WithAbsolute().WithOffsetTop("110px")
	box.PaddingStart = "15px"
	return box
}

func attributeBox(record domain.LocalizedRecord) *FlexBox {
	rows := make([]messaging_api.FlexComponentInterface, 0, record.Len())
	for _, field := range record.Present() {
		if _, hidden := hiddenAttributes[field]; hidden {
			continue
		}
		value := strings.TrimSpace(record.Value(field))
		if value == "" {
			continue
		}
		rows = append(rows, attributeRow(field.String(), value).FlexBox)
	}
	return NewFlexBox("vertical", rows...).WithPadding("15px", "10px", "15px", "15px")
}

func attributeRow(label, value string) *FlexBox {
	return NewFlexBox("baseline",
		NewFlexText(label).WithSize("sm").WithColor(colorLabel).WithFlex(2).FlexText,
		NewFlexText(value).WithWrap().WithSize("sm").WithFlex(4).WithColor(colorValue).FlexText,
	).WithSpacing("sm")
}

func (a *CardAssembler) footer(record domain.LocalizedRecord, name string) *FlexBox {
	buttons := make([]messaging_api.FlexComponentInterface, 0, 2)

	if profileURL := strings.TrimSpace(record.Value(domain.FieldProfileURL)); profileURL != "" {
		buttons = append(buttons, NewFlexButton(NewURIAction(constants.BotMessages.ProfileLinkLabel, profileURL)).
			WithStyle("link").
			WithOffsetTop("-10px").FlexButton)
	}

	buttons = append(buttons, NewFlexButton(NewURIAction(constants.BotMessages.SearchButtonLabel, SearchURL(name))).
		WithStyle("primary").
		WithColor(a.AccentColor(record)).
		WithOffsetTop("-5px").FlexButton)

	return NewFlexBox("vertical", buttons...)
}
