// Package errors: im@s 프로필 봇 전체에서 사용되는 에러 타입들을 정의한다.
package errors

import "fmt"

// FetchError: im@sparql 엔드포인트 호출 실패 (네트워크, 타임아웃, 비정상 상태 코드, 서킷 오픈)
type FetchError struct {
	Operation  string // 수행 중이던 작업
	StatusCode int    // HTTP 상태 코드 (0이면 네트워크 오류)
	Err        error  // 원인 에러
}

func (e FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch error operation=%s status=%d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("fetch error operation=%s status=%d: %v", e.Operation, e.StatusCode, e.Err)
}

func (e FetchError) Unwrap() error { return e.Err }

// NewFetchError: 조회 실패 에러를 생성한다.
func NewFetchError(operation string, statusCode int, cause error) *FetchError {
	return &FetchError{
		Operation:  operation,
		StatusCode: statusCode,
		Err:        cause,
	}
}

// ParseError: 응답 JSON이 results.bindings 배열 구조가 아닐 때 발생하는 에러
type ParseError struct {
	Reason string
	Err    error
}

func (e ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse error: %s", e.Reason)
	}
	return fmt.Sprintf("parse error: %s: %v", e.Reason, e.Err)
}

func (e ParseError) Unwrap() error { return e.Err }

// NewParseError: 파싱 에러를 생성한다.
func NewParseError(reason string, cause error) *ParseError {
	return &ParseError{
		Reason: reason,
		Err:    cause,
	}
}

// NotFoundError: 검색 결과가 0건일 때의 에러. 조회 자체는 성공한 정상 응답이다.
type NotFoundError struct {
	Key string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("no profile matched key=%s", e.Key)
}

// NewNotFoundError: 검색 결과 없음 에러를 생성한다.
func NewNotFoundError(key string) *NotFoundError {
	return &NotFoundError{Key: key}
}

// CacheError: 캐시(valkey) 작업 중 발생한 에러
type CacheError struct {
	Operation string // get, set, delete 등
	Key       string // 캐시 키
	Err       error  // 원인 에러
}

func (e CacheError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cache error operation=%s key=%s", e.Operation, e.Key)
	}
	return fmt.Sprintf("cache error operation=%s key=%s: %v", e.Operation, e.Key, e.Err)
}

func (e CacheError) Unwrap() error { return e.Err }

// NewCacheError: 캐시 에러를 생성한다.
func NewCacheError(operation, key string, cause error) *CacheError {
	return &CacheError{
		Operation: operation,
		Key:       key,
		Err:       cause,
	}
}

// CircuitOpenError: 서킷 브레이커가 열려있을 때 발생하는 에러
type CircuitOpenError struct {
	RetryAfterMs int64
}

func (e CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit breaker open retry_after_ms=%d", e.RetryAfterMs)
}

// ValidationError: 입력 검증 실패 에러
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error field=%s: %s", e.Field, e.Message)
}

// NewValidationError: 검증 에러를 생성한다.
func NewValidationError(message, field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// ServiceError: 내부 서비스 로직 에러
type ServiceError struct {
	Service   string // 서비스 이름
	Operation string // 작업 이름
	Err       error  // 원인 에러
}

func (e ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("service error service=%s operation=%s", e.Service, e.Operation)
	}
	return fmt.Sprintf("service error service=%s operation=%s: %v", e.Service, e.Operation, e.Err)
}

func (e ServiceError) Unwrap() error { return e.Err }

// NewServiceError: 서비스 에러를 생성한다.
func NewServiceError(service, operation string, cause error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Err:       cause,
	}
}
