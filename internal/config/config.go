package config

import (
	stdErrors "errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/kapu/imas-line-bot-go/internal/constants"
	"github.com/kapu/imas-line-bot-go/internal/util"
	"github.com/kapu/imas-line-bot-go/pkg/errors"
)

// Config: im@s 프로필 봇의 전체 동작에 필요한 설정을 담는 구조체
type Config struct {
	Line      LineConfig
	Sparql    SparqlConfig
	Card      CardConfig
	Server    ServerConfig
	Valkey    ValkeyConfig
	Worker    WorkerConfig
	Logging   LoggingConfig
	Telemetry TelemetryConfig
	Version   string
}

// LineConfig: LINE Messaging API 채널 설정
type LineConfig struct {
	ChannelSecret      string `validate:"required"`
	ChannelAccessToken string `validate:"required"`
}

// SparqlConfig: im@sparql 엔드포인트 호출 설정
type SparqlConfig struct {
	Endpoint          string        `validate:"required,url"`
	Timeout           time.Duration `validate:"gt=0"`
	RequestsPerSecond float64       `validate:"gte=0"`
	Burst             int           `validate:"gte=1"`
	RetryAttempts     int           `validate:"gte=1,lte=10"`
}

// RetryBudget: 모든 재시도가 타임아웃으로 끝날 때 조회 한 번이 쓰는 최대 시간 (지터 포함)
func (c SparqlConfig) RetryBudget() time.Duration {
	attempts := max(c.RetryAttempts, 1)
	maxDelay := time.Duration(float64(constants.RetryConfig.MaxDelay) * (1 + constants.RetryConfig.Jitter)).Round(time.Millisecond)
	return c.Timeout*time.Duration(attempts) + maxDelay*time.Duration(attempts-1)
}

// CardConfig: Flex 카드 렌더링 설정
type CardConfig struct {
	ImageBaseURL        string `validate:"required,url"`
	NoImageURL          string `validate:"required,url"`
	GradientImageURL    string `validate:"required,url"`
	DefaultAccentColor  string `validate:"required,hexcolor"`
	DarkenWhitishFooter bool
}

// ServerConfig: 웹훅/관리 HTTP 서버 설정
type ServerConfig struct {
	Port           int `validate:"min=1,max=65535"`
	MetricsAPIKey  string
	TrustedProxies []string `validate:"dive,cidr|ip"`
}

// ValkeyConfig: 웹훅 중복 제거용 Valkey 연결 설정. Host가 비어 있으면 사용하지 않는다.
type ValkeyConfig struct {
	Host     string
	Port     int `validate:"min=0,max=65535"`
	Password string
	DB       int `validate:"gte=0"`
	DedupTTL time.Duration
}

// Enabled: Valkey 사용 여부
func (c ValkeyConfig) Enabled() bool {
	return util.TrimSpace(c.Host) != ""
}

// WorkerConfig: 웹훅 이벤트 처리 워커 설정
type WorkerConfig struct {
	MaxGoroutines int           `validate:"gte=1"`
	EventTimeout  time.Duration `validate:"gt=0"`
}

// LoggingConfig: 애플리케이션 로그 설정 (레벨, 디렉토리, 로테이션 정책)
type LoggingConfig struct {
	Level      string `validate:"oneof=debug info warn warning error"`
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// TelemetryConfig: OpenTelemetry 추적 설정
type TelemetryConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	OTLPInsecure   bool
	SampleRate     float64 `validate:"gte=0,lte=1"`
}

// Load: .env 파일 및 환경 변수로부터 설정을 로드하고, 기본값을 적용하여 Config 객체를 생성한다.
func Load() (*Config, error) {
	_ = godotenv.Load()

	version := util.TrimSpace(getEnv("APP_VERSION", "1.0.0-go"))

	cfg := &Config{
		Line: LineConfig{
			ChannelSecret:      util.TrimSpace(getEnv("LINE_CHANNEL_SECRET", "")),
			ChannelAccessToken: util.TrimSpace(getEnv("LINE_CHANNEL_ACCESS_TOKEN", "")),
		},
		Sparql: SparqlConfig{
			Endpoint: getEnv("SPARQL_ENDPOINT", constants.SparqlConfig.Endpoint),
			Timeout: time.Duration(getEnvInt("SPARQL_TIMEOUT_SECONDS",
				int(constants.SparqlConfig.Timeout.Seconds()))) * time.Second,
			RequestsPerSecond: getEnvFloat("SPARQL_RATE_LIMIT_RPS", constants.RateLimitConfig.RequestsPerSecond),
			Burst:             getEnvInt("SPARQL_RATE_LIMIT_BURST", constants.RateLimitConfig.Burst),
			RetryAttempts:     getEnvInt("SPARQL_RETRY_ATTEMPTS", constants.RetryConfig.MaxAttempts),
		},
		Card: CardConfig{
			ImageBaseURL:        getEnv("IMAGE_BASE_URL", constants.CardConfig.ImageBaseURL),
			NoImageURL:          getEnv("NO_IMAGE_URL", constants.CardConfig.NoImageURL),
			GradientImageURL:    getEnv("GRADIENT_IMAGE_URL", constants.CardConfig.GradientImageURL),
			DefaultAccentColor:  getEnv("DEFAULT_ACCENT_COLOR", constants.CardConfig.DefaultAccentColor),
			DarkenWhitishFooter: getEnvBool("CARD_DARKEN_WHITISH_FOOTER", false),
		},
		Server: ServerConfig{
			Port:           getEnvInt("SERVER_PORT", 8080),
			MetricsAPIKey:  util.TrimSpace(getEnv("METRICS_API_KEY", "")),
			TrustedProxies: util.SplitCommaSeparated(getEnv("TRUSTED_PROXIES", "")),
		},
		Valkey: ValkeyConfig{
			Host:     getEnv("CACHE_HOST", ""),
			Port:     getEnvInt("CACHE_PORT", 6379),
			Password: getEnv("CACHE_PASSWORD", ""),
			DB:       getEnvInt("CACHE_DB", 0),
			DedupTTL: time.Duration(getEnvInt("DEDUP_TTL_HOURS",
				int(constants.DedupConfig.TTL.Hours()))) * time.Hour,
		},
		Worker: WorkerConfig{
			MaxGoroutines: getEnvInt("WORKER_MAX_GOROUTINES", constants.WorkerConfig.MaxGoroutines),
			EventTimeout: time.Duration(getEnvInt("WORKER_EVENT_TIMEOUT_SECONDS",
				int(constants.WorkerConfig.EventTimeout.Seconds()))) * time.Second,
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Dir:        getEnv("LOG_DIR", "logs"),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 30),
			Compress:   getEnvBool("LOG_COMPRESS", true),
		},
		Telemetry: TelemetryConfig{
			Enabled:        getEnvBool("OTEL_ENABLED", false),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "imas-line-bot"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", version),
			Environment:    getEnv("OTEL_ENVIRONMENT", "production"),
			OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "jaeger:4317"),
			OTLPInsecure:   getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			SampleRate:     getEnvFloat("OTEL_SAMPLE_RATE", 1.0),
		},
		Version: version,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate: 필수 설정값 누락과 형식 오류를 검증한다.
// 첫 번째로 실패한 필드를 *errors.ValidationError로 반환한다.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return toValidationError(err)
	}

	// SPARQL 재시도 예산은 이벤트 기한보다 짧아야 한다.
	if budget := c.Sparql.RetryBudget(); budget >= c.Worker.EventTimeout {
		return errors.NewValidationError(
			fmt.Sprintf("sparql retry budget %s must be shorter than event timeout %s", budget, c.Worker.EventTimeout),
			"Config.Worker.EventTimeout",
		)
	}
	return nil
}

func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if stdErrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errors.NewValidationError(
			fmt.Sprintf("failed on '%s' (value=%v)", fe.Tag(), redact(fe)),
			fe.Namespace(),
		)
	}
	return errors.NewValidationError(err.Error(), "")
}

// redact: 비밀 값은 로그/에러에 남기지 않는다.
func redact(fe validator.FieldError) any {
	switch fe.StructField() {
	case "ChannelSecret", "ChannelAccessToken", "MetricsAPIKey", "Password":
		return "***"
	default:
		return fe.Value()
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
