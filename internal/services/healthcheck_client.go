package services

import (
	"context"

	"github.com/go-resty/resty/v2"

	"spotprice/backend-go/internal/config"
)

// RelayedResponse is an upstream answer passed through without interpretation.
type RelayedResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

type HealthcheckClient struct {
	rc         *resty.Client
	defaultURL string
}

func NewHealthcheckClient(cfg config.Config) *HealthcheckClient {
	return &HealthcheckClient{
		rc:         resty.New().SetTimeout(cfg.HealthcheckTimeout),
		defaultURL: cfg.HealthcheckURL,
	}
}

// Target picks the override when given, else the configured default.
// An empty result means nothing is configured.
func (c *HealthcheckClient) Target(override string) string {
	if override != "" {
		return override
	}
	return c.defaultURL
}

func (c *HealthcheckClient) Configured() bool {
	return c.defaultURL != ""
}

// Fetch GETs target once. Any HTTP status counts as success; only failing to
// get a response is an error.
func (c *HealthcheckClient) Fetch(ctx context.Context, target string) (RelayedResponse, error) {
	res, err := c.rc.R().SetContext(ctx).Get(target)
	if err != nil {
		return RelayedResponse{}, &TransportError{URL: target, Err: err}
	}
	ct := res.Header().Get("Content-Type")
	if ct == "" {
		ct = "text/plain"
	}
	return RelayedResponse{
		Status:      res.StatusCode(),
		ContentType: ct,
		Body:        res.Body(),
	}, nil
}
