package extract

import (
	"strings"

	"github.com/junhyuk-im/receipt-ocr/internal/clova"
)

// Flatten joins the general-OCR text fragments into a single
// newline-separated string, preserving provider (reading) order.
// Total function: a nil or empty result yields "".
func Flatten(general *clova.GeneralResult) string {
	if general == nil || len(general.Images) == 0 {
		return ""
	}
	fields := general.Images[0].Fields
	if len(fields) == 0 {
		return ""
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.InferText
	}
	return strings.Join(parts, "\n")
}
