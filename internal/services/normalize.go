package services

import (
	"bytes"
	"encoding/json"
	"regexp"

	"github.com/shopspring/decimal"

	"spotprice/backend-go/internal/models"
)

const unexpectedPayload = "unexpected payload shape"

// maxExponent bounds accepted prices so exponent notation like 1e20000000
// cannot expand into a huge string when formatted.
const maxExponent = 64

var quotedDate = regexp.MustCompile(`'\d{4}-\d{2}-\d{2}'`)

// Normalize classifies an upstream body. A numeric price is OK, a string price
// is a no-data message, and anything else is an upstream error. Unit and
// display fields are left for the caller.
func Normalize(body []byte) models.PriceResult {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		return unexpected()
	}
	raw, ok := payload["price"]
	if !ok {
		return unexpected()
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return unexpected()
	}

	switch c := raw[0]; {
	case c == '-' || (c >= '0' && c <= '9'):
		if _, ok := parseAmount(string(raw)); !ok {
			return unexpected()
		}
		return models.PriceResult{
			Kind:  models.KindOK,
			Price: json.Number(raw),
		}
	case c == '"':
		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			return unexpected()
		}
		prefix, datePart := SplitQuotedDate(msg)
		return models.PriceResult{
			Kind:     models.KindNoData,
			Price:    msg,
			Message:  msg,
			Prefix:   prefix,
			DatePart: datePart,
		}
	}
	return unexpected()
}

// SplitQuotedDate cuts msg before its first single-quoted YYYY-MM-DD token so
// the message can be shown on two lines. A token at the very start does not
// split, matching how the form has always rendered these messages.
func SplitQuotedDate(msg string) (prefix, datePart string) {
	loc := quotedDate.FindStringIndex(msg)
	if loc == nil || loc[0] == 0 {
		return msg, ""
	}
	return msg[:loc[0]], msg[loc[0]:]
}

// Amount extracts the decimal price of an OK result.
func Amount(res models.PriceResult) (decimal.Decimal, bool) {
	if res.Kind != models.KindOK {
		return decimal.Zero, false
	}
	n, ok := res.Price.(json.Number)
	if !ok {
		return decimal.Zero, false
	}
	return parseAmount(n.String())
}

func parseAmount(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, false
	}
	return d, true
}

// FormatUSD renders a price the way the lookup form shows it, e.g. "$64.21".
func FormatUSD(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

func unexpected() models.PriceResult {
	return models.PriceResult{Kind: models.KindUpstreamError, Detail: unexpectedPayload}
}
