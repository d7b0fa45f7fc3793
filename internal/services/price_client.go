package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"spotprice/backend-go/internal/config"
	"spotprice/backend-go/internal/models"
)

const maxErrorBody = 4096

// UpstreamError is a non-2xx answer from an upstream service.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Upstream error: %d %s", e.Status, e.Body)
}

// TransportError means the upstream could not be reached or did not answer in time.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Upstream error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// UpstreamResponse is a 2xx upstream reply, body untouched.
type UpstreamResponse struct {
	Status int
	Body   []byte
}

type PriceClient struct {
	rc      *resty.Client
	retries int
	backoff time.Duration
}

func NewPriceClient(cfg config.Config) *PriceClient {
	rc := resty.New().
		SetTimeout(cfg.UpstreamTimeout).
		SetHeader("Content-Type", "application/json")
	return &PriceClient{
		rc:      rc,
		retries: cfg.TransportRetries,
		backoff: 300 * time.Millisecond,
	}
}

// FetchPrice posts {"date": date} to the commodity's upstream. Only transport
// failures are retried, and only as many times as configured.
func (c *PriceClient) FetchPrice(ctx context.Context, commodity Commodity, date string) (UpstreamResponse, error) {
	var out UpstreamResponse
	if commodity.UpstreamURL == "" {
		return out, fmt.Errorf("no upstream configured for %s", commodity.Slug)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return out, &TransportError{URL: commodity.UpstreamURL, Err: ctx.Err()}
			case <-time.After(time.Duration(attempt) * c.backoff):
			}
		}

		res, err := c.rc.R().
			SetContext(ctx).
			SetBody(models.PriceRequest{Date: date}).
			Post(commodity.UpstreamURL)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		status := res.StatusCode()
		if status < 200 || status >= 300 {
			return out, &UpstreamError{Status: status, Body: truncate(strings.TrimSpace(res.String()), maxErrorBody)}
		}
		return UpstreamResponse{Status: status, Body: res.Body()}, nil
	}
	return out, &TransportError{URL: commodity.UpstreamURL, Err: lastErr}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
