package stock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/joseph-ayodele/live-orders/internal/common"
)

const defaultTimeout = 5 * time.Second

// HTTPChecker asks a remote stock service over JSON.
type HTTPChecker struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewHTTPChecker posts availability requests to url.
func NewHTTPChecker(url string, timeout time.Duration, logger *slog.Logger) *HTTPChecker {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPChecker{url: url, client: &http.Client{Timeout: timeout}, logger: logger}
}

type availabilityRequest struct {
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
}

type availabilityResponse struct {
	InStock     *bool  `json:"in_stock"`
	Quantity    int    `json:"quantity"`
	Alternative string `json:"alternative"`
}

// CheckAvailability implements Checker. A response without in_stock counts as in stock.
func (c *HTTPChecker) CheckAvailability(ctx context.Context, productCode string, quantity int) (Availability, error) {
	ctx, reqID := common.EnsureRequestID(ctx)
	start := time.Now()

	bs, err := json.Marshal(availabilityRequest{ProductCode: productCode, Quantity: quantity})
	if err != nil {
		return Availability{}, fmt.Errorf("encode json: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(bs))
	if err != nil {
		return Availability{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("stock.http.send_error", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return Availability{}, common.WrapError(fmt.Errorf("%w: %v", common.ErrUnavailable, err), "stock service")
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.logger.Warn("stock.http.response_body_close_error", "req_id", reqID, "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	c.logger.Debug("stock.http.response",
		"req_id", reqID,
		"product_code", productCode,
		"status", resp.StatusCode,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if resp.StatusCode/100 != 2 {
		return Availability{}, fmt.Errorf("stock service: %w: status %d", common.ErrUnavailable, resp.StatusCode)
	}

	var out availabilityResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return Availability{}, fmt.Errorf("decode stock response: %w", err)
	}
	inStock := true
	if out.InStock != nil {
		inStock = *out.InStock
	}
	return Availability{InStock: inStock, Quantity: out.Quantity, Alternative: out.Alternative}, nil
}
