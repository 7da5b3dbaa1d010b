package extract

import (
	"regexp"
	"strings"

	"github.com/junhyuk-im/receipt-ocr/constants"
	"github.com/junhyuk-im/receipt-ocr/internal/clova"
)

var (
	// Full-text fallbacks in priority order, first match wins: a
	// label-anchored token (거래일시/날짜/일시, OCR may scatter spaces
	// between the characters), then a bare 4-digit-year date, then a
	// bare 2-digit-year date.
	dateFallbacks = []*regexp.Regexp{
		regexp.MustCompile(`(?:거\s*래\s*일\s*시|날\s*짜|일\s*시)[:\s]*([0-9]{2,4}[-./][0-9]{1,2}[-./][0-9]{1,2})`),
		regexp.MustCompile(`(\d{4}[-./]\d{1,2}[-./]\d{1,2})`),
		regexp.MustCompile(`(\d{2}[-./]\d{1,2}[-./]\d{1,2})`),
	}

	reAnySpace = regexp.MustCompile(`\s`)
	reDateYMD4 = regexp.MustCompile(`(\d{4})[-./](\d{1,2})[-./](\d{1,2})`)
	reDateYMD2 = regexp.MustCompile(`(\d{2})[-./](\d{1,2})[-./](\d{1,2})`)
)

// resolveDate returns the transaction date as YYYY-MM-DD, or the sentinel
// when no candidate survives normalization. The structured field is
// preferred; the full text is consulted only when the structured branch
// produced nothing, or produced the "-"-prefixed incomplete-date marker.
func resolveDate(fields *clova.ReceiptFields, fullText string) string {
	raw := structuredDate(fields)

	if (raw == "" || strings.HasPrefix(raw, "-")) && fullText != "" {
		for _, re := range dateFallbacks {
			if m := re.FindStringSubmatch(fullText); m != nil {
				raw = m[1]
				break
			}
		}
	}

	// Every candidate, structured or fallback, goes through the same
	// normalization so the output format is unconditional.
	if norm, ok := normalizeDate(raw); ok {
		return norm
	}
	return constants.NotAvailable
}

// structuredDate builds the raw candidate from the provider's date field:
// formatted components joined verbatim when the year looks usable,
// otherwise the free-text variant.
func structuredDate(fields *clova.ReceiptFields) string {
	if fields == nil || fields.PaymentInfo == nil || fields.PaymentInfo.Date == nil {
		return ""
	}
	d := fields.PaymentInfo.Date
	if f := d.Formatted; f != nil && len(f.Year) >= 2 {
		return f.Year + "-" + f.Month + "-" + f.Day
	}
	return d.Text
}

// normalizeDate canonicalizes a raw date token to YYYY-MM-DD. Two-digit
// years are assumed to be 20YY. Returns ok=false when the token does not
// contain a recognizable date.
func normalizeDate(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	clean := reAnySpace.ReplaceAllString(raw, "")
	if m := reDateYMD4.FindStringSubmatch(clean); m != nil {
		return m[1] + "-" + pad2(m[2]) + "-" + pad2(m[3]), true
	}
	if m := reDateYMD2.FindStringSubmatch(clean); m != nil {
		return "20" + m[1] + "-" + pad2(m[2]) + "-" + pad2(m[3]), true
	}
	return "", false
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
