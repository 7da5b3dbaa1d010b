package extract

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/junhyuk-im/receipt-ocr/internal/entity"
)

// recordSchema pins the canonical record's invariants: division is the
// fixed expense tag, business number is digits-only or the sentinel,
// date is YYYY-MM-DD or the sentinel, price a positive integer or the
// sentinel. Used as a guard before persistence and in tests.
const recordSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"merchant_name": {"type": "string", "minLength": 1},
		"division": {"const": "지출"},
		"business_number": {"type": "string", "pattern": "^([0-9]+|N/A)$"},
		"price": {
			"anyOf": [
				{"type": "integer", "minimum": 1},
				{"const": "N/A"}
			]
		},
		"date": {"type": "string", "pattern": "^([0-9]{4}-[0-9]{2}-[0-9]{2}|N/A)$"}
	},
	"required": ["merchant_name", "division", "business_number", "price", "date"]
}`

var compiledRecordSchema = jsonschema.MustCompileString("receipt-record.schema.json", recordSchema)

// ValidateRecord checks a canonical record against the schema above.
// A violation indicates a resolver bug, not bad input; callers log it
// rather than failing the request.
func ValidateRecord(rec *entity.Receipt) error {
	bs, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	var doc any
	if err := json.Unmarshal(bs, &doc); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := compiledRecordSchema.Validate(doc); err != nil {
		return fmt.Errorf("record schema: %w", err)
	}
	return nil
}
