package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"barbershop-booking/pkg/apperror"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type httpClient struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewHTTPClient talks to the shop service REST API under baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration, log *zap.Logger) Client {
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log.With(zap.String("client", "directory")),
	}
}

func (c *httpClient) GetShop(ctx context.Context, shopID int64) (*Shop, error) {
	var shop Shop
	if err := c.get(ctx, fmt.Sprintf("/api/shops/%d", shopID), "shop", shopID, &shop); err != nil {
		return nil, err
	}
	return &shop, nil
}

func (c *httpClient) GetService(ctx context.Context, serviceID int64) (*Service, error) {
	var service Service
	if err := c.get(ctx, fmt.Sprintf("/api/services/%d", serviceID), "service", serviceID, &service); err != nil {
		return nil, err
	}
	return &service, nil
}

func (c *httpClient) GetEmployee(ctx context.Context, employeeID int64) (*Employee, error) {
	var employee Employee
	if err := c.get(ctx, fmt.Sprintf("/api/employees/%d", employeeID), "employee", employeeID, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (c *httpClient) get(ctx context.Context, path, resource string, id int64, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return apperror.Internal("build directory request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("Directory request failed",
			zap.Error(err),
			zap.String("resource", resource),
			zap.Int64("id", id),
		)
		return apperror.Unavailable("shop directory unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperror.NotFound("%s %d not found", resource, id)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.log.Error("Directory returned unexpected status",
			zap.Int("status", resp.StatusCode),
			zap.String("resource", resource),
			zap.Int64("id", id),
		)
		return apperror.Unavailable("shop directory error", fmt.Errorf("%s %d: status %d", resource, id, resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Error("Failed to decode directory response",
			zap.Error(err),
			zap.String("resource", resource),
			zap.Int64("id", id),
		)
		return apperror.Unavailable("malformed shop directory response", err)
	}

	c.log.Debug("Directory lookup", zap.String("resource", resource), zap.Int64("id", id))
	return nil
}
