package app

import (
	"math"
	"testing"
)

func TestComputeCost(t *testing.T) {
	cases := []struct {
		name   string
		tokens int
		model  string
		want   float64
	}{
		{"default rate", 2000, "some-unlisted-model", 0.01},
		{"gpt-4o", 2000, "gpt-4o", 0.01},
		{"gpt-4-turbo", 1000, "gpt-4-turbo", 0.01},
		{"zero tokens", 0, "gpt-4o", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := computeCost(tc.tokens, tc.model)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("computeCost(%d, %q) = %v, want %v", tc.tokens, tc.model, got, tc.want)
			}
		})
	}
}

func TestQuotaTotals(t *testing.T) {
	if QuotaTotal("anonymous") != 1 || QuotaTotal("basic") != 3 || QuotaTotal("premium") != 30 || QuotaTotal("pro") != 100 {
		t.Fatal("tier quota table changed unexpectedly")
	}
	if QuotaTotal("made-up-tier") != 1 {
		t.Fatalf("unrecognized tier should fall back to anonymous limit, got %d", QuotaTotal("made-up-tier"))
	}
}
