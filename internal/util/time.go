package util

import "time"

var jstLocation *time.Location

func init() {
	var err error
	jstLocation, err = time.LoadLocation("Asia/Tokyo")
	if err != nil {
		jstLocation = time.FixedZone("JST", 9*60*60)
	}
}

// ToJST: 주어진 시간을 일본 표준시(JST)로 변환합니다.
func ToJST(t time.Time) time.Time {
	return t.In(jstLocation)
}

// Clock: 현재 시각 공급자. 테스트에서 고정 시각을 주입할 때 사용한다.
type Clock func() time.Time

// SystemClock: time.Now 기반 Clock
func SystemClock() time.Time {
	return time.Now()
}

// FixedClock: 항상 같은 시각을 반환하는 Clock을 만든다.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
