package clova

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/junhyuk-im/receipt-ocr/internal/common"
)

// Endpoint describes one OCR endpoint: where to post, how to authenticate,
// and the prefix used to synthesize the per-request correlation id.
type Endpoint struct {
	URL             string
	Secret          string
	RequestIDPrefix string
}

// Client talks to the document OCR provider. It holds one endpoint per
// modality; the two calls are independent and carry no shared state.
type Client struct {
	receipt    Endpoint
	general    Endpoint
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg common.ClovaConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		receipt:    Endpoint{URL: cfg.ReceiptURL, Secret: cfg.ReceiptSecret, RequestIDPrefix: "receipt-"},
		general:    Endpoint{URL: cfg.GeneralURL, Secret: cfg.GeneralSecret, RequestIDPrefix: "general-"},
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// requestMessage is the JSON "message" part of the multipart request.
type requestMessage struct {
	Version   string         `json:"version"`
	RequestID string         `json:"requestId"`
	Timestamp int64          `json:"timestamp"`
	Images    []messageImage `json:"images"`
}

type messageImage struct {
	Format string `json:"format"`
	Name   string `json:"name"`
}

// Receipt posts the image to the receipt-structured endpoint.
// A non-nil error means this modality is unavailable; the caller decides
// whether that is fatal.
func (c *Client) Receipt(ctx context.Context, imagePath string) (*ReceiptResult, error) {
	raw, err := c.call(ctx, c.receipt, imagePath)
	if err != nil {
		return nil, err
	}
	var out ReceiptResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode receipt response: %w", err)
	}
	return &out, nil
}

// General posts the image to the general-text endpoint.
func (c *Client) General(ctx context.Context, imagePath string) (*GeneralResult, error) {
	raw, err := c.call(ctx, c.general, imagePath)
	if err != nil {
		return nil, err
	}
	var out GeneralResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode general response: %w", err)
	}
	return &out, nil
}

// call builds the provider's two-part multipart request (binary image +
// JSON message) and returns the raw response body. The image file is read
// exactly once, here.
func (c *Client) call(ctx context.Context, ep Endpoint, imagePath string) ([]byte, error) {
	start := time.Now()
	now := start.UnixMilli()
	reqID := fmt.Sprintf("%s%d", ep.RequestIDPrefix, now)

	f, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			c.logger.Warn("clova.image_close_error", "req_id", reqID, "error", cerr)
		}
	}()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", filepath.Base(imagePath))
	if err != nil {
		return nil, fmt.Errorf("build file part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copy image: %w", err)
	}

	msg := requestMessage{
		Version:   "V2",
		RequestID: reqID,
		Timestamp: now,
		Images: []messageImage{
			{Format: "jpg", Name: filepath.Base(imagePath)},
		},
	}
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	if err := w.WriteField("message", string(msgBytes)); err != nil {
		return nil, fmt.Errorf("build message part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-OCR-SECRET", ep.Secret)

	c.logger.Info("clova.request",
		"req_id", reqID,
		"url", ep.URL,
		"image", filepath.Base(imagePath),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("clova.send_error", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	defer func(rc io.ReadCloser) {
		if cerr := rc.Close(); cerr != nil {
			c.logger.Warn("clova.response_body_close_error", "req_id", reqID, "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	c.logger.Info("clova.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}
	return raw, nil
}
