package extract

import (
	"testing"

	"github.com/junhyuk-im/receipt-ocr/internal/clova"
)

func priceFields(formatted, text string) *clova.ReceiptFields {
	tf := &clova.TextField{Text: text}
	if formatted != "" {
		tf.Formatted = &clova.FormattedValue{Value: formatted}
	}
	return &clova.ReceiptFields{TotalPrice: &clova.TotalPrice{Price: tf}}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"4,500원", 4500},
		{"12000", 12000},
		{"₩ 1,000", 1000},
		{"", 0},
		{"원", 0},
	}
	for _, tc := range cases {
		if got := parseAmount(tc.in); got != tc.want {
			t.Errorf("parseAmount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestStructuredPriceGate(t *testing.T) {
	// A plausible structured price wins regardless of full-text content.
	fullText := "합계 99,999원\n결제금액 88,888원"
	for _, v := range []string{"100", "4,500원", "1,250,000"} {
		got := resolvePrice(priceFields("", v), fullText)
		want := parseAmount(v)
		if got != want {
			t.Errorf("structured %q: price = %d, want %d", v, got, want)
		}
	}
}

func TestStructuredFormattedPrecedence(t *testing.T) {
	if got := resolvePrice(priceFields("5500", "9,900원"), ""); got != 5500 {
		t.Errorf("price = %d, want formatted value 5500", got)
	}
}

func TestTierOrdering(t *testing.T) {
	// Tier 1 (합계) short-circuits before tier 2 (금액) is attempted.
	got := resolvePrice(priceFields("", ""), "합계 5,000원\n금액 9,000원")
	if got != 5000 {
		t.Errorf("price = %d, want 5000", got)
	}
}

func TestPriorityKeywordFirstMatchWins(t *testing.T) {
	// Within tier 1 the first in-range match is taken, not the largest.
	got := resolvePrice(priceFields("", ""), "결제금액 3,000원 승인금액 7,000원")
	if got != 3000 {
		t.Errorf("price = %d, want 3000", got)
	}
}

func TestSecondaryKeywordMaxWins(t *testing.T) {
	got := resolvePrice(priceFields("", ""), "금액 2,000원 요금 8,000원")
	if got != 8000 {
		t.Errorf("price = %d, want 8000", got)
	}
}

func TestCancellationExcluded(t *testing.T) {
	// A cancelled amount must never leak into the price, not even as a
	// bare-number match.
	got := resolvePrice(priceFields("", ""), "취소 5000원")
	if got != 0 {
		t.Errorf("price = %d, want 0", got)
	}
}

func TestCancellationStrippedBeforeKeywordTiers(t *testing.T) {
	got := resolvePrice(priceFields("", ""), "취소 금액 9,000원 합계 4,000원")
	if got != 4000 {
		t.Errorf("price = %d, want 4000", got)
	}
}

func TestBareAmountBounds(t *testing.T) {
	cases := []struct {
		name     string
		fullText string
		want     int
	}{
		{"largest bare amount wins", "1,000원 과자 3,500원", 3500},
		{"over bare bound ignored", "1,500,000원", 0},
		{"under plausibility floor ignored", "50원", 0},
		{"keyword bound is looser", "합계 1,500,000원", 1500000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolvePrice(priceFields("", ""), tc.fullText); got != tc.want {
				t.Errorf("price = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestImplausibleStructuredPriceSurvivesWhenTiersFail(t *testing.T) {
	// Below the gate the full text is consulted, but a failed cascade
	// leaves the structured value in place rather than zeroing it.
	if got := resolvePrice(priceFields("", "50원"), "no numbers here"); got != 50 {
		t.Errorf("price = %d, want 50", got)
	}
}
