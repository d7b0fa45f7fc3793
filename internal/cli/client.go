package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"

	"spotprice/backend-go/internal/models"
)

// APIError is a non-200 answer from the backend, carrying its "error" field.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// Client talks to the price backend. It renders what the backend returns and
// never interprets upstream payloads itself.
type Client struct {
	rc *resty.Client
}

func NewClient(server string, timeout time.Duration) *Client {
	return &Client{
		rc: resty.New().
			SetBaseURL(strings.TrimRight(server, "/")).
			SetTimeout(timeout),
	}
}

func (c *Client) Lookup(ctx context.Context, commodity, date string) (models.PriceResult, error) {
	var out models.PriceResult
	res, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.PriceRequest{Date: date}).
		Post("/price/" + commodity)
	if err != nil {
		return out, err
	}
	if res.StatusCode() != 200 {
		return out, apiError(res.StatusCode(), res.Body())
	}
	if err := json.Unmarshal(res.Body(), &out); err != nil {
		return out, fmt.Errorf("decode price result: %w", err)
	}
	return out, nil
}

// LookupResult pairs a commodity with its outcome for batch display.
type LookupResult struct {
	Commodity string
	Result    models.PriceResult
	Err       error
}

// LookupAll queries each commodity concurrently. Per-commodity failures are
// reported in the results, not returned.
func (c *Client) LookupAll(ctx context.Context, commodities []string, date string) []LookupResult {
	out := make([]LookupResult, len(commodities))
	g, gctx := errgroup.WithContext(ctx)
	for i, commodity := range commodities {
		i, commodity := i, commodity
		g.Go(func() error {
			res, err := c.Lookup(gctx, commodity, date)
			out[i] = LookupResult{Commodity: commodity, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Healthcheck calls the backend's health-check proxy and returns the relayed body.
func (c *Client) Healthcheck(ctx context.Context, target string) (int, string, error) {
	req := c.rc.R().SetContext(ctx)
	if target != "" {
		req.SetQueryParam("url", target)
	}
	res, err := req.Get("/healthcheck")
	if err != nil {
		return 0, "", err
	}
	// The proxy's own failures are JSON with an "error" field; anything else is relayed.
	if res.StatusCode() == 500 || res.StatusCode() == 502 {
		if msg, ok := errorField(res.Body()); ok {
			return res.StatusCode(), "", &APIError{Status: res.StatusCode(), Message: msg}
		}
	}
	return res.StatusCode(), string(res.Body()), nil
}

func apiError(status int, body []byte) *APIError {
	msg, ok := errorField(body)
	if !ok {
		msg = strings.TrimSpace(string(body))
	}
	return &APIError{Status: status, Message: msg}
}

func errorField(body []byte) (string, bool) {
	var payload struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		return "", false
	}
	if payload.Details != "" {
		return payload.Error + ": " + payload.Details, true
	}
	return payload.Error, true
}
