package domain

import (
	"fmt"
	"time"
)

// SearchKey: 자유 텍스트에서 도출된 검색 키. DateKey 또는 TextKey 중 하나다.
// 쿼리 빌더는 타입 스위치로 분기하며 문자열을 다시 해석하지 않는다.
type SearchKey interface {
	fmt.Stringer
	searchKey()
}

// DateKey: 월/일 검색 키 (연도 없음)
type DateKey struct {
	Month time.Month
	Day   int
}

// NewDateKey: 주어진 시각의 월/일로 DateKey를 만든다.
func NewDateKey(t time.Time) DateKey {
	return DateKey{Month: t.Month(), Day: t.Day()}
}

// String: 항상 MM-DD 형식으로 직렬화한다.
func (k DateKey) String() string {
	return fmt.Sprintf("%02d-%02d", int(k.Month), k.Day)
}

func (DateKey) searchKey() {}

// TextKey: 이름 부분 일치 검색 키
type TextKey string

func (k TextKey) String() string {
	return string(k)
}

func (TextKey) searchKey() {}

// SearchMode: 메트릭/로그 라벨용 검색 모드 이름을 반환한다.
func SearchMode(key SearchKey) string {
	switch key.(type) {
	case DateKey:
		return "date"
	case TextKey:
		return "name"
	default:
		return "unknown"
	}
}
