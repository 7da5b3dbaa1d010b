package extract

import (
	"testing"

	"github.com/junhyuk-im/receipt-ocr/internal/entity"
)

func TestValidateRecord(t *testing.T) {
	cases := []struct {
		name    string
		rec     entity.Receipt
		wantErr bool
	}{
		{
			"fully resolved",
			entity.Receipt{MerchantName: "스타벅스", Division: "지출", BusinessNumber: "1234567890", Price: 4500, Date: "2024-01-15"},
			false,
		},
		{
			"all sentinels",
			entity.Receipt{MerchantName: "N/A", Division: "지출", BusinessNumber: "N/A", Price: 0, Date: "N/A"},
			false,
		},
		{
			"wrong division",
			entity.Receipt{MerchantName: "N/A", Division: "수입", BusinessNumber: "N/A", Price: 0, Date: "N/A"},
			true,
		},
		{
			"unpadded date",
			entity.Receipt{MerchantName: "N/A", Division: "지출", BusinessNumber: "N/A", Price: 0, Date: "2024-3-5"},
			true,
		},
		{
			"non-digit business number",
			entity.Receipt{MerchantName: "N/A", Division: "지출", BusinessNumber: "123-45", Price: 0, Date: "N/A"},
			true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRecord(&tc.rec)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateRecord = %v, wantErr %t", err, tc.wantErr)
			}
		})
	}
}
