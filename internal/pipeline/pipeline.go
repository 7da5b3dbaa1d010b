package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/junhyuk-im/receipt-ocr/internal/clova"
	"github.com/junhyuk-im/receipt-ocr/internal/common"
	"github.com/junhyuk-im/receipt-ocr/internal/entity"
	"github.com/junhyuk-im/receipt-ocr/internal/extract"
)

// OCRGateway is the provider dependency: one call per modality.
type OCRGateway interface {
	Receipt(ctx context.Context, imagePath string) (*clova.ReceiptResult, error)
	General(ctx context.Context, imagePath string) (*clova.GeneralResult, error)
}

// Pipeline runs the full extraction for one image: both OCR modalities,
// text flattening, and field resolution.
type Pipeline struct {
	Logger *slog.Logger
	OCR    OCRGateway
}

func New(gw OCRGateway, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{Logger: logger, OCR: gw}
}

// Run analyzes one image and returns the canonical record.
//
// The two OCR calls have no data dependency and are issued concurrently.
// A failed general call only costs fallback accuracy; a failed receipt
// call (or a structurally empty receipt payload) is the single terminal
// condition and surfaces as common.ErrNotRecognized.
func (p *Pipeline) Run(ctx context.Context, imagePath string) (*entity.Receipt, error) {
	base := filepath.Base(imagePath)

	var (
		receiptRes *clova.ReceiptResult
		generalRes *clova.GeneralResult
		receiptErr error
		generalErr error
	)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		receiptRes, receiptErr = p.OCR.Receipt(ctx, imagePath)
	}()
	go func() {
		defer wg.Done()
		generalRes, generalErr = p.OCR.General(ctx, imagePath)
	}()
	wg.Wait()

	if generalErr != nil {
		p.Logger.Warn("pipeline.general.unavailable", "image", base, "error", generalErr)
		generalRes = nil
	}
	fullText := extract.Flatten(generalRes)

	if receiptErr != nil {
		p.Logger.Error("pipeline.receipt.failed", "image", base, "error", receiptErr)
		return nil, fmt.Errorf("%w: %v", common.ErrNotRecognized, receiptErr)
	}

	rec, err := extract.Resolve(receiptRes, fullText)
	if err != nil {
		p.Logger.Error("pipeline.resolve.failed", "image", base, "error", err)
		return nil, err
	}

	p.Logger.Info("pipeline.resolve.ok",
		"image", base,
		"merchant", rec.MerchantName,
		"price", rec.Price,
		"date", rec.Date,
		"full_text_bytes", len(fullText),
	)
	return rec, nil
}
