package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/junhyuk-im/receipt-ocr/internal/clova"
	"github.com/junhyuk-im/receipt-ocr/internal/entity"
	"github.com/junhyuk-im/receipt-ocr/internal/export"
	"github.com/junhyuk-im/receipt-ocr/internal/pipeline"
	"github.com/junhyuk-im/receipt-ocr/internal/repository"
)

type fakeGateway struct {
	receipt    *clova.ReceiptResult
	receiptErr error
	general    *clova.GeneralResult
	generalErr error
}

func (f *fakeGateway) Receipt(context.Context, string) (*clova.ReceiptResult, error) {
	return f.receipt, f.receiptErr
}

func (f *fakeGateway) General(context.Context, string) (*clova.GeneralResult, error) {
	return f.general, f.generalErr
}

type fakeExpenseRepo struct {
	created []*entity.Receipt
}

func (f *fakeExpenseRepo) Create(_ context.Context, rec *entity.Receipt, _ string) (*repository.Expense, error) {
	f.created = append(f.created, rec)
	return &repository.Expense{}, nil
}

func (f *fakeExpenseRepo) List(context.Context, *time.Time, *time.Time) ([]repository.Expense, error) {
	return nil, nil
}

func newTestRouter(t *testing.T, gw pipeline.OCRGateway, repo *fakeExpenseRepo) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	uploadDir := t.TempDir()
	pipe := pipeline.New(gw, nil)
	ocrH := NewOCRHandler(pipe, repo, uploadDir, nil)
	expH := NewExpenseHandler(repo, export.NewService(repo, nil), nil)
	return NewRouter(ocrH, expH, nil), uploadDir
}

func multipartImage(t *testing.T, field, filename string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("fake image bytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, w.FormDataContentType()
}

func recognizedGateway() *fakeGateway {
	return &fakeGateway{
		receipt: &clova.ReceiptResult{
			Images: []clova.ReceiptImage{{
				Receipt: &clova.ReceiptNode{Result: &clova.ReceiptFields{
					StoreInfo:  &clova.StoreInfo{Name: &clova.TextField{Text: "스타벅스"}},
					TotalPrice: &clova.TotalPrice{Price: &clova.TextField{Text: "4,500원"}},
				}},
			}},
		},
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	repo := &fakeExpenseRepo{}
	router, uploadDir := newTestRouter(t, recognizedGateway(), repo)

	body, contentType := multipartImage(t, "file", "receipt.jpg")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Data struct {
			MerchantName string          `json:"merchant_name"`
			Price        json.RawMessage `json:"price"`
			Date         string          `json:"date"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.MerchantName != "스타벅스" {
		t.Errorf("merchant = %q", resp.Data.MerchantName)
	}
	if string(resp.Data.Price) != "4500" {
		t.Errorf("price = %s, want 4500", resp.Data.Price)
	}
	if resp.Data.Date != "N/A" {
		t.Errorf("date = %q, want N/A", resp.Data.Date)
	}

	if len(repo.created) != 1 {
		t.Errorf("expected one persisted expense, got %d", len(repo.created))
	}

	// The temp upload must be gone whatever the outcome.
	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("upload dir not cleaned: %d entries left", len(entries))
	}
}

func TestAnalyzePriceSentinel(t *testing.T) {
	gw := recognizedGateway()
	gw.receipt.Images[0].Receipt.Result.TotalPrice = nil
	router, _ := newTestRouter(t, gw, &fakeExpenseRepo{})

	body, contentType := multipartImage(t, "file", "receipt.jpg")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Data struct {
			Price json.RawMessage `json:"price"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if string(resp.Data.Price) != `"N/A"` {
		t.Errorf("price = %s, want \"N/A\"", resp.Data.Price)
	}
}

func TestAnalyzeUnrecognized(t *testing.T) {
	router, uploadDir := newTestRouter(t, &fakeGateway{receiptErr: errors.New("boom")}, &fakeExpenseRepo{})

	body, contentType := multipartImage(t, "file", "receipt.jpg")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		t.Fatalf("read upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("upload dir not cleaned on error: %d entries left", len(entries))
	}
}

func TestAnalyzeRejectsBadUpload(t *testing.T) {
	router, _ := newTestRouter(t, recognizedGateway(), &fakeExpenseRepo{})

	t.Run("missing file part", func(t *testing.T) {
		body, contentType := multipartImage(t, "attachment", "receipt.jpg")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/analyze", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		body, contentType := multipartImage(t, "file", "receipt.pdf")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/analyze", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})
}
