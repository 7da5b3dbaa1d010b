package entity

import (
	"encoding/json"

	"github.com/junhyuk-im/receipt-ocr/constants"
)

// Receipt is the canonical record produced for one analyzed image.
// String fields hold constants.NotAvailable when unresolved; Price holds
// the total in whole KRW and is non-positive when unresolved.
// Immutable once returned from the resolver.
type Receipt struct {
	MerchantName   string `json:"merchant_name"`
	Division       string `json:"division"`
	BusinessNumber string `json:"business_number"`
	Price          int    `json:"-"`
	Date           string `json:"date"`
}

// PriceResolved reports whether a plausible total was extracted.
func (r *Receipt) PriceResolved() bool {
	return r.Price > 0
}

// MarshalJSON renders Price as an integer when resolved and as the
// "N/A" sentinel otherwise, matching the wire contract of the API.
func (r *Receipt) MarshalJSON() ([]byte, error) {
	type alias Receipt
	out := struct {
		*alias
		Price any `json:"price"`
	}{alias: (*alias)(r)}
	if r.PriceResolved() {
		out.Price = r.Price
	} else {
		out.Price = constants.NotAvailable
	}
	return json.Marshal(out)
}
