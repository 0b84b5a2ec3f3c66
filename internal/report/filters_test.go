package report

import (
	"encoding/json"
	"math"
	"testing"
)

func TestFormatPercentage(t *testing.T) {
	cases := []struct {
		value  any
		digits int
		want   string
	}{
		{0.5, 0, "50%"},
		{0.75, 0, "75%"},
		{1, 0, "100%"},
		{0, 0, "0%"},
		{0.756, 0, "76%"},
		{0.7561, 1, "75.6%"},
		{0.125, 2, "12.50%"},
		{-0.001, 0, "0%"},
		{float32(0.25), 0, "25%"},
		{uint8(2), 0, "200%"},
		{json.Number("0.3"), 0, "30%"},
		{" 0.42 ", 0, "42%"},
		{0.5, -3, "50%"},
	}
	for _, tc := range cases {
		got, err := FormatPercentage(tc.value, tc.digits)
		if err != nil {
			t.Errorf("FormatPercentage(%v, %d) error: %v", tc.value, tc.digits, err)
			continue
		}
		if got != tc.want {
			t.Errorf("FormatPercentage(%v, %d) = %q, want %q", tc.value, tc.digits, got, tc.want)
		}
	}
}

func TestFormatPercentageRejects(t *testing.T) {
	for _, value := range []any{nil, "abc", true, []int{1}, math.NaN(), math.Inf(1), math.MaxFloat64, -1e307} {
		if _, err := FormatPercentage(value, 0); err == nil {
			t.Errorf("FormatPercentage(%v) expected error", value)
		}
	}
}

func TestLength(t *testing.T) {
	cases := []struct {
		value any
		want  int
	}{
		{nil, 0},
		{[]string{"a", "b"}, 2},
		{[0]int{}, 0},
		{map[string]int{"a": 1}, 1},
		{"abc", 3},
	}
	for _, tc := range cases {
		got, err := Length(tc.value)
		if err != nil || got != tc.want {
			t.Errorf("Length(%v) = %d, %v; want %d", tc.value, got, err, tc.want)
		}
	}
	if _, err := Length(42); err == nil {
		t.Error("Length(42) expected error")
	}
}

func TestTrim(t *testing.T) {
	if got := Trim("  Traceback...\n"); got != "Traceback..." {
		t.Fatalf("Trim = %q", got)
	}
}
