package server

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/junhyuk-im/receipt-ocr/constants"
	"github.com/junhyuk-im/receipt-ocr/internal/common"
	"github.com/junhyuk-im/receipt-ocr/internal/extract"
	"github.com/junhyuk-im/receipt-ocr/internal/pipeline"
	"github.com/junhyuk-im/receipt-ocr/internal/repository"
)

// OCRHandler accepts one uploaded receipt image, runs the extraction
// pipeline, and returns the canonical record. The temporary upload is
// deleted whether or not the analysis succeeds.
type OCRHandler struct {
	pipeline  *pipeline.Pipeline
	expenses  repository.ExpenseRepository
	uploadDir string
	logger    *slog.Logger
}

func NewOCRHandler(p *pipeline.Pipeline, expenses repository.ExpenseRepository, uploadDir string, logger *slog.Logger) *OCRHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRHandler{pipeline: p, expenses: expenses, uploadDir: uploadDir, logger: logger}
}

func (h *OCRHandler) Analyze(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !constants.IsImageExt(ext) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only jpg, jpeg and png files are allowed"})
		return
	}

	tmpPath := filepath.Join(h.uploadDir, uuid.New().String()+ext)
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		h.logger.Error("failed to persist upload", "filename", file.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}
	defer func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			h.logger.Warn("upload cleanup failed", "path", tmpPath, "error", rmErr)
		}
	}()

	rec, err := h.pipeline.Run(c.Request.Context(), tmpPath)
	if err != nil {
		if errors.Is(err, common.ErrNotRecognized) {
			c.JSON(http.StatusBadRequest, gin.H{"error": common.ErrNotRecognized.Error()})
			return
		}
		h.logger.Error("ocr analysis failed", "filename", file.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ocr analysis failed"})
		return
	}

	// Invariant guard, never user-facing: a violation is a resolver bug.
	if verr := extract.ValidateRecord(rec); verr != nil {
		h.logger.Warn("record failed schema check", "filename", file.Filename, "error", verr)
	}

	if h.expenses != nil {
		if _, serr := h.expenses.Create(c.Request.Context(), rec, file.Filename); serr != nil {
			// The caller still gets the record; persistence is best-effort here.
			h.logger.Error("failed to save expense", "filename", file.Filename, "error", serr)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "analysis complete",
		"data":    rec,
	})
}
