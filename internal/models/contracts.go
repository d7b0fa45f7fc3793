package models

// PriceRequest is the body accepted by the lookup endpoint and forwarded upstream.
type PriceRequest struct {
	Date string `json:"date"`
}

// PriceQuery is a validated lookup, built once per request.
type PriceQuery struct {
	Commodity string
	Date      string
}

type ResultKind string

const (
	KindOK            ResultKind = "ok"
	KindNoData        ResultKind = "no_data"
	KindUpstreamError ResultKind = "upstream_error"
)

// PriceResult is the normalized outcome of one lookup.
//
// Price holds a json.Number for KindOK and the upstream message string for
// KindNoData, so the wire field keeps the number-or-string convention.
type PriceResult struct {
	Kind      ResultKind `json:"kind"`
	Commodity string     `json:"commodity,omitempty"`
	Date      string     `json:"date,omitempty"`
	Price     any        `json:"price,omitempty"`
	Unit      string     `json:"unit,omitempty"`
	Display   string     `json:"display,omitempty"`
	Message   string     `json:"message,omitempty"`
	Prefix    string     `json:"prefix,omitempty"`
	DatePart  string     `json:"datePart,omitempty"`
	Status    int        `json:"status,omitempty"`
	Detail    string     `json:"detail,omitempty"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Upstream  int    `json:"upstream_status,omitempty"`
	Details   string `json:"details,omitempty"`
	Attempted string `json:"attempted,omitempty"`
}

type CommodityStatus struct {
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	Unit       string `json:"unit"`
	Configured bool   `json:"configured"`
}

type HealthResponse struct {
	Ok          bool              `json:"ok"`
	TsISO       string            `json:"tsISO"`
	Service     string            `json:"service"`
	Version     string            `json:"version"`
	Commodities []CommodityStatus `json:"commodities"`
	RateLimiter string            `json:"rate_limiter"`
	DateRange   [2]string         `json:"date_range"`
	Healthcheck bool              `json:"healthcheck_configured"`
}
