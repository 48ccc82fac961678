package telemetry

import (
	"context"
	"testing"
)

func TestNewProviderDisabled(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.IsEnabled() {
		t.Fatalf("disabled provider must report disabled")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown failed: %v", err)
	}
}

func TestRootSampler(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		rate float64
		want string
	}{
		"always": {rate: 1.5, want: "AlwaysOnSampler"},
		"never":  {rate: 0, want: "AlwaysOffSampler"},
		"ratio":  {rate: 0.25, want: "TraceIDRatioBased{0.25}"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := rootSampler(tt.rate).Description(); got != tt.want {
				t.Fatalf("rootSampler(%v) = %s, want %s", tt.rate, got, tt.want)
			}
		})
	}
}
