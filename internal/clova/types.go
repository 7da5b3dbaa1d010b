package clova

// Raw payload shapes for the two OCR endpoints. Every leaf is optional:
// the provider omits whatever it could not read, and absence is handled
// by the resolver's fallback tiers, not here.

// ReceiptResult is the structured payload of the receipt endpoint.
type ReceiptResult struct {
	Version   string         `json:"version"`
	RequestID string         `json:"requestId"`
	Timestamp int64          `json:"timestamp"`
	Images    []ReceiptImage `json:"images"`
}

type ReceiptImage struct {
	UID         string       `json:"uid"`
	Name        string       `json:"name"`
	InferResult string       `json:"inferResult"`
	Message     string       `json:"message"`
	Receipt     *ReceiptNode `json:"receipt"`
}

type ReceiptNode struct {
	Result *ReceiptFields `json:"result"`
}

// ReceiptFields is the provider's semantically tagged read of the image.
type ReceiptFields struct {
	StoreInfo   *StoreInfo   `json:"storeInfo"`
	PaymentInfo *PaymentInfo `json:"paymentInfo"`
	TotalPrice  *TotalPrice  `json:"totalPrice"`
}

type StoreInfo struct {
	Name   *TextField `json:"name"`
	BizNum *TextField `json:"bizNum"`
}

type PaymentInfo struct {
	Date *DateField `json:"date"`
}

type TotalPrice struct {
	Price *TextField `json:"price"`
}

// TextField carries the provider's raw text plus an optional pre-parsed
// variant. When both are present the formatted value takes precedence.
type TextField struct {
	Text      string          `json:"text"`
	Formatted *FormattedValue `json:"formatted"`
}

type FormattedValue struct {
	Value string `json:"value"`
}

type DateField struct {
	Text      string         `json:"text"`
	Formatted *FormattedDate `json:"formatted"`
}

type FormattedDate struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
}

// Result returns the nested receipt.result node, or nil when the payload
// is structurally missing it. A nil result is the pipeline's sole hard
// failure condition.
func (r *ReceiptResult) Result() *ReceiptFields {
	if r == nil || len(r.Images) == 0 {
		return nil
	}
	node := r.Images[0].Receipt
	if node == nil {
		return nil
	}
	return node.Result
}

// GeneralResult is the untagged payload of the general-text endpoint:
// an ordered list of recognized text fragments in reading order.
type GeneralResult struct {
	Version   string         `json:"version"`
	RequestID string         `json:"requestId"`
	Timestamp int64          `json:"timestamp"`
	Images    []GeneralImage `json:"images"`
}

type GeneralImage struct {
	UID    string         `json:"uid"`
	Name   string         `json:"name"`
	Fields []GeneralField `json:"fields"`
}

type GeneralField struct {
	InferText       string  `json:"inferText"`
	InferConfidence float64 `json:"inferConfidence"`
}
