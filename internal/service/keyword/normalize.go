// Package keyword: 채팅 텍스트를 정규화하고 검색 키(DateKey/TextKey)로 해석한다.
package keyword

import (
	"strings"
	"unicode"
)

// Normalize: 앞뒤 공백을 제거한 뒤 모든 개행/공백 문자를 삭제한다. (축약이 아니라 삭제)
func Normalize(text string) string {
	trimmed := strings.TrimSpace(text)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, trimmed)
}
