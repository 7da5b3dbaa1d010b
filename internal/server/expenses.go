package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/junhyuk-im/receipt-ocr/internal/export"
	"github.com/junhyuk-im/receipt-ocr/internal/repository"
)

// ExpenseHandler serves the persisted expense ledger.
type ExpenseHandler struct {
	expenses repository.ExpenseRepository
	exporter *export.Service
	logger   *slog.Logger
}

func NewExpenseHandler(expenses repository.ExpenseRepository, exporter *export.Service, logger *slog.Logger) *ExpenseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenseHandler{expenses: expenses, exporter: exporter, logger: logger}
}

func (h *ExpenseHandler) List(c *gin.Context) {
	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, err := h.expenses.List(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("failed to list expenses", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list expenses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": rows, "count": len(rows)})
}

func (h *ExpenseHandler) ExportXLSX(c *gin.Context) {
	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bs, err := h.exporter.ExportXLSX(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("failed to export expenses", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export expenses"})
		return
	}

	filename := fmt.Sprintf("expenses-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", bs)
}

func parseDateParam(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return &t, nil
}
