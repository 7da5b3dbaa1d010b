package entity

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMarshalResolvedPrice(t *testing.T) {
	rec := &Receipt{
		MerchantName:   "스타벅스",
		Division:       "지출",
		BusinessNumber: "1234567890",
		Price:          4500,
		Date:           "2024-03-05",
	}
	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"price":4500`) {
		t.Errorf("price not rendered as number: %s", out)
	}
	if !rec.PriceResolved() {
		t.Error("PriceResolved() = false for positive price")
	}
}

func TestMarshalUnresolvedPrice(t *testing.T) {
	for _, price := range []int{0, -1} {
		out, err := json.Marshal(&Receipt{Price: price})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if !strings.Contains(string(out), `"price":"N/A"`) {
			t.Errorf("price %d not rendered as N/A: %s", price, out)
		}
	}
}
