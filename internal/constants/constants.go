package constants

import "time"

// SparqlConfig 는 im@sparql 엔드포인트 호출 기본값이다.
var SparqlConfig = struct {
	Endpoint    string
	Timeout     time.Duration
	ResultLimit int
	UserAgent   string
}{
	Endpoint:    "https://sparql.crssnky.xyz/spql/imas/query",
	Timeout:     5 * time.Second,
	ResultLimit: 5,
	UserAgent:   "imas-line-bot-go",
}

// SparqlTransportConfig 는 SPARQL HTTP Transport 설정이다.
var SparqlTransportConfig = struct {
	MaxConnsPerHost     int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}{
	MaxConnsPerHost:     20,
	MaxIdleConnsPerHost: 20,
	IdleConnTimeout:     30 * time.Second,
}

// RateLimitConfig 는 패키지 변수다.
var RateLimitConfig = struct {
	RequestsPerSecond float64
	Burst             int
}{
	RequestsPerSecond: 5, // 공개 엔드포인트 보호
	Burst:             2,
}

// RetryConfig 는 패키지 변수다.
var RetryConfig = struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      float64
}{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	MaxDelay:    3 * time.Second,
	Jitter:      0.2,
}

// CircuitBreakerConfig 는 패키지 변수다.
var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 3,                // 3회 연속 실패 시 Circuit OPEN
	ResetTimeout:     30 * time.Second, // 재시도 대기 시간
}

// CardConfig 는 Flex 카드 렌더링 기본값이다.
var CardConfig = struct {
	ImageBaseURL       string
	NoImageURL         string
	GradientImageURL   string
	DefaultAccentColor string
	SearchURLBase      string
	SearchQueryPrefix  string
}{
	ImageBaseURL:       "https://idollist.idolmaster-official.jp/images/character_main/",
	NoImageURL:         "https://arrow2nd.github.io/images/linebot-imas/noimage.png",
	GradientImageURL:   "https://arrow2nd.github.io/images/img/gradation.png",
	DefaultAccentColor: "#ff73cc",
	SearchURLBase:      "http://www.google.co.jp/search",
	SearchQueryPrefix:  "アイドルマスター ",
}

// DedupConfig 는 웹훅 재전송 중복 제거 설정이다.
var DedupConfig = struct {
	KeyPrefix string
	TTL       time.Duration
}{
	KeyPrefix: "imas:webhook:event:",
	TTL:       24 * time.Hour, // LINE 재전송 창보다 길게
}

// ValkeyConfig 는 패키지 변수다.
var ValkeyConfig = struct {
	ReadyTimeout      time.Duration
	PipelineMultiplex int
}{
	ReadyTimeout:      5 * time.Second,
	PipelineMultiplex: 2,
}

// WorkerConfig 는 웹훅 이벤트 처리 워커 풀 설정이다.
var WorkerConfig = struct {
	MaxGoroutines  int
	EventTimeout   time.Duration
	ReplyTimeout   time.Duration
	ShutdownWindow time.Duration
}{
	MaxGoroutines:  8,
	EventTimeout:   25 * time.Second, // SPARQL 재시도 예산보다 길게
	ReplyTimeout:   5 * time.Second,
	ShutdownWindow: 10 * time.Second,
}

// ServerTimeoutConfig 는 HTTP 서버 타임아웃 설정이다.
var ServerTimeoutConfig = struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
}{
	ReadHeader: 5 * time.Second,
	Read:       10 * time.Second,
	Write:      30 * time.Second,
	Idle:       60 * time.Second,
	Shutdown:   10 * time.Second,
}

// ImageScrapeConfig 는 이미지 테이블 생성 도구 설정이다.
var ImageScrapeConfig = struct {
	Concurrency int
	Timeout     time.Duration
	Delay       time.Duration
}{
	Concurrency: 4,
	Timeout:     15 * time.Second,
	Delay:       300 * time.Millisecond, // 공식 사이트 부하 완화
}

// BotMessages 는 사용자에게 표시되는 고정 문구다.
var BotMessages = struct {
	FoundAltTextFormat string
	NotFoundTitle      string
	NotFoundBody       string
	FetchFailedTitle   string
	FetchFailedBody    string
	ProfileLinkLabel   string
	SearchButtonLabel  string
}{
	FoundAltTextFormat: "%d人みつかりました！",
	NotFoundTitle:      "みつかりませんでした…",
	NotFoundBody:       "ごめんなさい！",
	FetchFailedTitle:   "検索できませんでした",
	FetchFailedBody:    "im@sparqlにアクセスできません",
	ProfileLinkLabel:   "アイドル名鑑を開く！",
	SearchButtonLabel:  "Googleで検索！",
}

// HTTP2Config 는 h2c 서버 설정이다.
var HTTP2Config = struct {
	MaxConcurrentStreams uint32
}{
	MaxConcurrentStreams: 64,
}
