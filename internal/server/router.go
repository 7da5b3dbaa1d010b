package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the HTTP surface: one OCR analyze endpoint plus the
// expense ledger (list + XLSX export) and a health probe.
func NewRouter(ocrH *OCRHandler, expenseH *ExpenseHandler, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		ocr := api.Group("/ocr")
		{
			ocr.POST("/analyze", ocrH.Analyze)
		}
		expenses := api.Group("/expenses")
		{
			expenses.GET("", expenseH.List)
			expenses.GET("/export", expenseH.ExportXLSX)
		}
	}
	return r
}
