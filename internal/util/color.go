package util

import (
	"math"
	"regexp"
	"strconv"
)

var hexPairRegex = regexp.MustCompile(`[0-9A-Fa-f]{2}`)

// whitishThreshold: 0~100 그레이스케일 기준 흰색 계열 판정 경계
const whitishThreshold = 65

// IsWhitishColor: 16진수 색상 코드가 흰색에 가까운지 판정한다.
// 그레이스케일 = (0.299R + 0.587G + 0.114B) / 2.55 (0~100). 65 초과면 흰색 계열이다.
// 색상 코드를 해석할 수 없으면 false.
func IsWhitishColor(hexColor string) bool {
	pairs := hexPairRegex.FindAllString(hexColor, 3)
	if len(pairs) < 3 {
		return false
	}

	rgb := make([]float64, 3)
	for i, pair := range pairs {
		v, err := strconv.ParseUint(pair, 16, 8)
		if err != nil {
			return false
		}
		rgb[i] = float64(v)
	}

	gs := math.Floor((rgb[0]*0.299 + rgb[1]*0.587 + rgb[2]*0.114) / 2.55)
	return gs > whitishThreshold
}
