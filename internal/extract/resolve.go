package extract

import (
	"github.com/junhyuk-im/receipt-ocr/constants"
	"github.com/junhyuk-im/receipt-ocr/internal/clova"
	"github.com/junhyuk-im/receipt-ocr/internal/common"
	"github.com/junhyuk-im/receipt-ocr/internal/entity"
)

// Resolve produces the canonical record from the structured receipt
// payload and the flattened general text. Pure function of its inputs.
//
// The only hard failure is a payload structurally missing its
// images[0].receipt.result node; every per-field shortfall degrades to a
// sentinel instead, so a record with several "N/A" fields is the expected
// common case, not an error.
func Resolve(receipt *clova.ReceiptResult, fullText string) (*entity.Receipt, error) {
	fields := receipt.Result()
	if fields == nil {
		return nil, common.ErrNotRecognized
	}
	return &entity.Receipt{
		MerchantName:   merchantName(fields),
		Division:       constants.DivisionExpense,
		BusinessNumber: businessNumber(fields),
		Price:          resolvePrice(fields, fullText),
		Date:           resolveDate(fields, fullText),
	}, nil
}

// merchantName takes the structured store name verbatim. No full-text
// fallback: the provider is reliable enough for this field.
func merchantName(fields *clova.ReceiptFields) string {
	if fields.StoreInfo != nil && fields.StoreInfo.Name != nil && fields.StoreInfo.Name.Text != "" {
		return fields.StoreInfo.Name.Text
	}
	return constants.NotAvailable
}

// businessNumber canonicalizes the registration number to digits only.
func businessNumber(fields *clova.ReceiptFields) string {
	raw := ""
	if fields.StoreInfo != nil && fields.StoreInfo.BizNum != nil {
		raw = fields.StoreInfo.BizNum.Text
	}
	digits := reNonDigit.ReplaceAllString(raw, "")
	if digits == "" {
		return constants.NotAvailable
	}
	return digits
}
