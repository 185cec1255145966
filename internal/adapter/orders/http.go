package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"supportbot/internal/domain"
)

// HTTPClient asks the order status service for an order. It never retries;
// an unreachable service is reported as domain.ErrServiceUnavailable.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With(zap.String("component", "orders.http")),
	}
}

type orderStatusResponse struct {
	Status            string `json:"status"`
	EstimatedDelivery string `json:"estimated_delivery"`
	Error             string `json:"error,omitempty"`
}

func (c *HTTPClient) Lookup(ctx context.Context, orderID string) (domain.Order, error) {
	endpoint := c.baseURL + "/order_status/" + url.PathEscape(orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("order service unreachable", zap.String("order_id", orderID), zap.Error(err))
		return domain.Order{}, fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.Order{}, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	case resp.StatusCode >= 500:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("order service error",
			zap.String("order_id", orderID),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return domain.Order{}, fmt.Errorf("%w: status %d", domain.ErrServiceUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return domain.Order{}, fmt.Errorf("order service: unexpected status %s", resp.Status)
	}

	var payload orderStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return domain.Order{}, fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
		}
		return domain.Order{}, fmt.Errorf("decode order status: %w", err)
	}

	return domain.Order{
		ID:                orderID,
		Status:            payload.Status,
		EstimatedDelivery: payload.EstimatedDelivery,
	}, nil
}
