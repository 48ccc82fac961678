package keyword

import (
	"strings"
	"time"

	"golang.org/x/text/width"

	"github.com/kapu/imas-line-bot-go/internal/domain"
	"github.com/kapu/imas-line-bot-go/internal/util"
)

const (
	birthdayKeyword  = "誕生日"
	tomorrowKeyword  = "明日"
	yesterdayKeyword = "昨日"
)

// dateLayouts: 날짜 해석에 시도하는 레이아웃 (순서대로, 첫 성공 채택)
var dateLayouts = []string{
	"1月2日",
	"1/2",
}

// Resolver: 정규화된 텍스트를 검색 키로 변환한다.
type Resolver struct {
	now util.Clock
}

// NewResolver: Resolver를 생성한다. clock이 nil이면 시스템 시계를 사용한다.
func NewResolver(clock util.Clock) *Resolver {
	if clock == nil {
		clock = util.SystemClock
	}
	return &Resolver{now: clock}
}

// Resolve: 텍스트를 정규화하고 검색 키를 결정한다.
//
// 우선순위:
//  1. "誕生日" 포함 -> 오늘(JST) 기준 DateKey ("明日" +1일, "昨日" -1일)
//  2. "M月D日" / "M/D" 형식 -> 해당 DateKey (전각 숫자/슬래시 허용)
//  3. 그 외 -> 정규화된 텍스트 그대로 TextKey
func (r *Resolver) Resolve(text string) domain.SearchKey {
	normalized := Normalize(text)

	if strings.Contains(normalized, birthdayKeyword) {
		return domain.NewDateKey(r.today().AddDate(0, 0, relativeDayOffset(normalized)))
	}

	if key, ok := parseMonthDay(normalized); ok {
		return key
	}

	return domain.TextKey(normalized)
}

func (r *Resolver) today() time.Time {
	return util.ToJST(r.now())
}

func relativeDayOffset(text string) int {
	switch {
	case strings.Contains(text, tomorrowKeyword):
		return 1
	case strings.Contains(text, yesterdayKeyword):
		return -1
	default:
		return 0
	}
}

// parseMonthDay: 월/일 표기를 엄격하게 해석한다. 연도는 버린다.
// 연도 0은 윤년이므로 2月29日도 유효한 날짜로 받아들인다.
func parseMonthDay(text string) (domain.DateKey, bool) {
	if text == "" {
		return domain.DateKey{}, false
	}
	folded := width.Narrow.String(text)
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, folded)
		if err != nil {
			continue
		}
		return domain.NewDateKey(parsed), true
	}
	return domain.DateKey{}, false
}
