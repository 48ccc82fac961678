package config

import (
	stdErrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/kapu/imas-line-bot-go/pkg/errors"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LINE_CHANNEL_SECRET", "secret")
	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN", "token")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sparql.Endpoint != "https://sparql.crssnky.xyz/spql/imas/query" {
		t.Fatalf("unexpected endpoint: %s", cfg.Sparql.Endpoint)
	}
	if cfg.Sparql.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Sparql.Timeout)
	}
	if cfg.Card.DefaultAccentColor != "#ff73cc" || cfg.Card.DarkenWhitishFooter {
		t.Fatalf("unexpected card defaults: %+v", cfg.Card)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("unexpected port: %d", cfg.Server.Port)
	}
	if cfg.Valkey.Enabled() {
		t.Fatalf("valkey must be disabled without CACHE_HOST")
	}
	if cfg.Valkey.DedupTTL != 24*time.Hour {
		t.Fatalf("unexpected dedup ttl: %v", cfg.Valkey.DedupTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SPARQL_TIMEOUT_SECONDS", "3")
	t.Setenv("SPARQL_RATE_LIMIT_RPS", "2.5")
	t.Setenv("CARD_DARKEN_WHITISH_FOOTER", "true")
	t.Setenv("CACHE_HOST", "valkey")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("OTEL_SAMPLE_RATE", "0.5")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sparql.Timeout != 3*time.Second || cfg.Sparql.RequestsPerSecond != 2.5 {
		t.Fatalf("unexpected sparql config: %+v", cfg.Sparql)
	}
	if !cfg.Card.DarkenWhitishFooter || !cfg.Valkey.Enabled() || cfg.Server.Port != 9000 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.Server.TrustedProxies) != 2 || cfg.Server.TrustedProxies[1] != "127.0.0.1" {
		t.Fatalf("unexpected trusted proxies: %v", cfg.Server.TrustedProxies)
	}
	if cfg.Telemetry.SampleRate != 0.5 {
		t.Fatalf("unexpected sample rate: %v", cfg.Telemetry.SampleRate)
	}
}

func TestLoadValidationFailures(t *testing.T) {
	tests := map[string]struct {
		env       map[string]string
		wantField string
	}{
		"missing secret": {
			env:       map[string]string{"LINE_CHANNEL_ACCESS_TOKEN": "token"},
			wantField: "Config.Line.ChannelSecret",
		},
		"invalid endpoint": {
			env: map[string]string{
				"LINE_CHANNEL_SECRET":       "secret",
				"LINE_CHANNEL_ACCESS_TOKEN": "token",
				"SPARQL_ENDPOINT":           "not a url",
			},
			wantField: "Config.Sparql.Endpoint",
		},
		"invalid accent color": {
			env: map[string]string{
				"LINE_CHANNEL_SECRET":       "secret",
				"LINE_CHANNEL_ACCESS_TOKEN": "token",
				"DEFAULT_ACCENT_COLOR":      "pink",
			},
			wantField: "Config.Card.DefaultAccentColor",
		},
		"invalid log level": {
			env: map[string]string{
				"LINE_CHANNEL_SECRET":       "secret",
				"LINE_CHANNEL_ACCESS_TOKEN": "token",
				"LOG_LEVEL":                 "verbose",
			},
			wantField: "Config.Logging.Level",
		},
		"invalid trusted proxy": {
			env: map[string]string{
				"LINE_CHANNEL_SECRET":       "secret",
				"LINE_CHANNEL_ACCESS_TOKEN": "token",
				"TRUSTED_PROXIES":           "10.0.0.0/8,proxy.local",
			},
			wantField: "Config.Server.TrustedProxies[1]",
		},
		"retry budget exceeds event timeout": {
			env: map[string]string{
				"LINE_CHANNEL_SECRET":          "secret",
				"LINE_CHANNEL_ACCESS_TOKEN":    "token",
				"SPARQL_TIMEOUT_SECONDS":       "10",
				"WORKER_EVENT_TIMEOUT_SECONDS": "20",
			},
			wantField: "Config.Worker.EventTimeout",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("LINE_CHANNEL_SECRET", "")
			t.Setenv("LINE_CHANNEL_ACCESS_TOKEN", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			var validationErr *errors.ValidationError
			if !stdErrors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validationErr.Field != tt.wantField {
				t.Fatalf("unexpected field: %s", validationErr.Field)
			}
		})
	}
}

func TestSparqlRetryBudget(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg      SparqlConfig
		expected time.Duration
	}{
		"single attempt": {
			cfg:      SparqlConfig{Timeout: 5 * time.Second, RetryAttempts: 1},
			expected: 5 * time.Second,
		},
		"default attempts": {
			cfg:      SparqlConfig{Timeout: 5 * time.Second, RetryAttempts: 3},
			expected: 15*time.Second + 2*3600*time.Millisecond,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := tt.cfg.RetryBudget(); got != tt.expected {
				t.Fatalf("RetryBudget() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestDefaultRetryBudgetFitsEventTimeout(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if budget := cfg.Sparql.RetryBudget(); budget >= cfg.Worker.EventTimeout {
		t.Fatalf("retry budget %v must be shorter than event timeout %v", budget, cfg.Worker.EventTimeout)
	}
}

func TestValidateRedactsSecrets(t *testing.T) {
	cfg := &Config{Line: LineConfig{ChannelAccessToken: "token"}}

	err := cfg.Validate()
	var validationErr *errors.ValidationError
	if !stdErrors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(validationErr.Message, "value=***") {
		t.Fatalf("secret value must be redacted: %s", validationErr.Message)
	}
}
