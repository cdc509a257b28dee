package scoring

import "testing"

func TestIsBuySignal(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		previous string
		want     bool
	}{
		{"plain buy", "Buy", "", true},
		{"strong buy", "Strong Buy", "", true},
		{"outperform", "Outperform", "Neutral", true},
		{"overweight", "Overweight", "", true},
		{"hold is not a buy", "Hold", "", false},
		{"upgrade sell to hold", "Hold", "Sell", true},
		{"upgrade underperform to neutral", "Neutral", "Underperform", true},
		{"downgrade", "Hold", "Buy", false},
		{"lateral hold to neutral", "Neutral", "Hold", false},
		{"unknown previous never upgrade", "Hold", "Market Perform", false},
		{"unknown current not buy", "Market Perform", "Sell", false},
		{"case and whitespace", "  BUY ", "", true},
		{"empty grades", "", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsBuySignal(tc.current, tc.previous); got != tc.want {
				t.Fatalf("IsBuySignal(%q, %q) = %v, want %v", tc.current, tc.previous, got, tc.want)
			}
		})
	}
}
