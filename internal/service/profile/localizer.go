// Package profile: 원본 프로필 레코드를 표시용 값(라벨, 날짜, 단위)으로 변환한다.
package profile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kapu/imas-line-bot-go/internal/domain"
)

var (
	// 생일은 gMonthDay 형식(--MM-DD)이나 -MM-DD로 들어온다.
	birthDatePattern = regexp.MustCompile(`^-{0,2}(\d{1,2})-(\d{1,2})$`)
	unitValuePattern = regexp.MustCompile(`[a-zA-Z0-9?]`)
)

// Localize: RawRecord를 표시용 LocalizedRecord로 변환한다.
// 입력 레코드는 변경하지 않으며, 이미 변환된 값을 다시 넣어도 결과가 같다.
func Localize(raw domain.RawRecord) domain.LocalizedRecord {
	values := raw.Map()

	if v, ok := values[domain.FieldAffiliation]; ok {
		values[domain.FieldAffiliation] = AffiliationLabel(v)
	}
	if v, ok := values[domain.FieldGender]; ok {
		values[domain.FieldGender] = lookupLabel(genderLabels, v)
	}
	if v, ok := values[domain.FieldHandedness]; ok {
		values[domain.FieldHandedness] = lookupLabel(handednessLabels, v)
	}
	if v, ok := values[domain.FieldBirthDate]; ok {
		values[domain.FieldBirthDate] = FormatBirthDate(v)
	}
	for _, s := range unitSuffixes {
		if v, ok := values[s.field]; ok {
			values[s.field] = appendUnit(v, s.unit)
		}
	}

	return domain.NewLocalizedRecord(values)
}

// LocalizeAll: 레코드 목록을 순서대로 변환한다.
func LocalizeAll(raws []domain.RawRecord) []domain.LocalizedRecord {
	out := make([]domain.LocalizedRecord, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Localize(raw))
	}
	return out
}

// lookupLabel: 코드 -> 라벨. 이미 라벨인 값은 그대로, 그 외는 不明.
func lookupLabel(table map[string]string, value string) string {
	if label, ok := table[value]; ok {
		return label
	}
	for _, label := range table {
		if label == value {
			return value
		}
	}
	return unknownLabel
}

// FormatBirthDate: "--03-05" / "-03-05" 를 "3月5日" 로 바꾼다. 형식이 다르면 그대로 반환한다.
func FormatBirthDate(value string) string {
	m := birthDatePattern.FindStringSubmatch(value)
	if m == nil {
		return value
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return value
	}
	return fmt.Sprintf("%d月%d日", month, day)
}

func appendUnit(value, unit string) string {
	if !unitValuePattern.MatchString(value) || strings.HasSuffix(value, unit) {
		return value
	}
	return value + unit
}
