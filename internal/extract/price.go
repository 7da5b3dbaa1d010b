package extract

import (
	"regexp"
	"strconv"

	"github.com/junhyuk-im/receipt-ocr/internal/clova"
)

// Plausibility bounds for KRW amounts. Anything under minPlausible is OCR
// noise (quantities, partial digits); keyword-labelled amounts are trusted
// up to maxKeywordAmount, bare "<n>원" matches only up to maxBareAmount.
const (
	minPlausibleAmount = 100
	maxKeywordAmount   = 10_000_000
	maxBareAmount      = 1_000_000
)

var (
	reNonDigit   = regexp.MustCompile(`[^0-9]`)
	reNewline    = regexp.MustCompile(`\n`)
	reWhitespace = regexp.MustCompile(`\s+`)

	// Voided, requested or pre-approved amounts. The phrase and its
	// trailing number are stripped before any full-text tier runs so a
	// cancelled amount can never surface as the total, not even as a
	// last-resort bare-number match.
	reCancelledAmount = regexp.MustCompile(`(?i)(?:취소|요청|선승인)[^0-9]*[0-9,]+\s*원[^0-9]*`)
)

// parseAmount strips every non-digit rune and parses the remainder as an
// integer. Empty or non-numeric input yields 0.
func parseAmount(s string) int {
	digits := reNonDigit.ReplaceAllString(s, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// amountTier is one stage of the full-text price cascade: a prioritized
// pattern list, an exclusive upper bound, and a selection strategy.
// First-match tiers stop at the first in-range candidate; max tiers take
// the largest candidate exceeding the running price.
type amountTier struct {
	patterns []*regexp.Regexp
	maxValue int
	takeMax  bool
}

var priceTiers = []amountTier{
	{
		// Clearly labelled totals: payment / approved amount, 합계.
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:결제금액|승인금액|결제요금)[:\s]*([0-9,]+)\s*원?`),
			regexp.MustCompile(`(?i)합\s*계[:\s]*([0-9,]+)\s*원?`),
		},
		maxValue: maxKeywordAmount,
	},
	{
		// Weaker labels: 금액/요금 (원 required), 총액.
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:금액|요금)[:\s]*([0-9,]+)\s*원`),
			regexp.MustCompile(`(?i)총\s*액[:\s]*([0-9,]+)`),
		},
		maxValue: maxKeywordAmount,
		takeMax:  true,
	},
	{
		// Bare amounts, least trusted.
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`([0-9,]+)\s*원`),
		},
		maxValue: maxBareAmount,
		takeMax:  true,
	},
}

func (t amountTier) apply(text string, current int) int {
	best := current
	for _, re := range t.patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v := parseAmount(m[1])
			if v < minPlausibleAmount || v >= t.maxValue {
				continue
			}
			if !t.takeMax {
				return v
			}
			if v > best {
				best = v
			}
		}
	}
	return best
}

// resolvePrice returns the total in whole KRW, or the structured value
// (possibly 0) when nothing better was found. The structured field wins
// outright whenever it clears the plausibility gate; otherwise the
// full-text tiers run in order over the cancellation-stripped text and
// the cascade stops as soon as a tier accepts.
func resolvePrice(fields *clova.ReceiptFields, fullText string) int {
	price := structuredPrice(fields)
	if price >= minPlausibleAmount || fullText == "" {
		return price
	}

	flat := reWhitespace.ReplaceAllString(reNewline.ReplaceAllString(fullText, " "), " ")
	clean := reCancelledAmount.ReplaceAllString(flat, " ")

	for _, tier := range priceTiers {
		price = tier.apply(clean, price)
		if price >= minPlausibleAmount {
			break
		}
	}
	return price
}

// structuredPrice is tier 0: the provider's own best guess at the total.
// The pre-parsed formatted value takes precedence over the raw text.
func structuredPrice(fields *clova.ReceiptFields) int {
	if fields == nil || fields.TotalPrice == nil || fields.TotalPrice.Price == nil {
		return 0
	}
	p := fields.TotalPrice.Price
	if p.Formatted != nil && p.Formatted.Value != "" {
		return parseAmount(p.Formatted.Value)
	}
	return parseAmount(p.Text)
}
