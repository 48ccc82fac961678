package util

import (
	"errors"

	"github.com/valkey-io/valkey-go"
)

// IsValkeyNil: 에러가 Valkey nil 응답인지 확인합니다.
// SET NX가 기존 키 때문에 거부된 경우도 nil 응답으로 돌아온다.
// 래핑된 에러도 언랩하여 판별한다.
func IsValkeyNil(err error) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		if valkey.IsValkeyNil(err) {
			return true
		}
	}
	return false
}
