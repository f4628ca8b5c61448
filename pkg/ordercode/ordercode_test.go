package ordercode

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateShape(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		code, err := Generate(now)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !Valid(code) {
			t.Fatalf("generated code %q does not match BT-\\d{6}-[A-Z0-9]{4}", code)
		}
		if !strings.HasPrefix(code, "BT-260115-") {
			t.Fatalf("expected date segment 260115 in %q", code)
		}
	}
}

func TestGenerateVaries(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := Generate(now)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		seen[code] = true
	}
	// 36^4 suffixes; 50 draws colliding down to a single value is not credible
	if len(seen) < 2 {
		t.Fatalf("expected varied suffixes, got %d distinct codes", len(seen))
	}
}

func TestValid(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"BT-260115-7KQ2", true},
		{"BT-260115-7kq2", false},
		{"BT-2601157KQ2", false},
		{"XX-260115-7KQ2", false},
		{"BT-260115-7KQ22", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := Valid(tc.code); got != tc.want {
			t.Fatalf("Valid(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}
