package util

import (
	"testing"
	"time"
)

func TestToJST(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		input    time.Time
		expected string
	}{
		"evening UTC rolls over to next day": {
			input:    time.Date(2024, time.March, 14, 20, 0, 0, 0, time.UTC),
			expected: "2024-03-15 05:00",
		},
		"morning UTC stays on same day": {
			input:    time.Date(2024, time.March, 14, 1, 30, 0, 0, time.UTC),
			expected: "2024-03-14 10:30",
		},
		"other zone input": {
			input:    time.Date(2024, time.December, 31, 10, 0, 0, 0, time.FixedZone("PST", -8*60*60)),
			expected: "2025-01-01 03:00",
		},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := ToJST(tc.input).Format("2006-01-02 15:04"); got != tc.expected {
				t.Fatalf("ToJST() = %s, expected %s", got, tc.expected)
			}
		})
	}
}

func TestFixedClock(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, time.March, 14, 20, 0, 0, 0, time.UTC)
	clock := FixedClock(fixed)
	if !clock().Equal(fixed) || !clock().Equal(fixed) {
		t.Fatalf("fixed clock drifted")
	}
}
