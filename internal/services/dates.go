package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrMalformedDate     = errors.New("malformed date")
	ErrOutOfRange        = errors.New("date out of range")
	ErrWeekendNotAllowed = errors.New("weekend dates are not allowed")
)

// ValidationError explains why a candidate date was rejected. Kind is one of
// the Err* sentinels and is matched by errors.Is.
type ValidationError struct {
	Kind   error
	Date   string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// Code is the machine-readable form of Kind used in API error bodies.
func (e *ValidationError) Code() string {
	switch e.Kind {
	case ErrMalformedDate:
		return "malformed_date"
	case ErrOutOfRange:
		return "out_of_range"
	case ErrWeekendNotAllowed:
		return "weekend_not_allowed"
	}
	return "invalid_date"
}

// DateRange is an inclusive [Min, Max] window of quotable dates.
type DateRange struct {
	Min time.Time
	Max time.Time
}

func NewDateRange(minDate, maxDate string) (DateRange, error) {
	lo, err := time.Parse(DateLayout, minDate)
	if err != nil {
		return DateRange{}, fmt.Errorf("min date %q: %w", minDate, err)
	}
	hi, err := time.Parse(DateLayout, maxDate)
	if err != nil {
		return DateRange{}, fmt.Errorf("max date %q: %w", maxDate, err)
	}
	if lo.After(hi) {
		return DateRange{}, fmt.Errorf("min date %s is after max date %s", minDate, maxDate)
	}
	return DateRange{Min: lo, Max: hi}, nil
}

// Validate checks candidate for format, then range, then the weekday-only
// policy, and returns the canonical YYYY-MM-DD form.
func (r DateRange) Validate(candidate string) (string, error) {
	candidate = strings.TrimSpace(candidate)
	d, err := time.Parse(DateLayout, candidate)
	if err != nil {
		return "", &ValidationError{
			Kind:   ErrMalformedDate,
			Date:   candidate,
			Reason: fmt.Sprintf("date %q must be a valid YYYY-MM-DD date", candidate),
		}
	}
	if d.Before(r.Min) || d.After(r.Max) {
		return "", &ValidationError{
			Kind: ErrOutOfRange,
			Date: candidate,
			Reason: fmt.Sprintf("date %s is outside the allowed range %s to %s",
				candidate, r.Min.Format(DateLayout), r.Max.Format(DateLayout)),
		}
	}
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return "", &ValidationError{
			Kind:   ErrWeekendNotAllowed,
			Date:   candidate,
			Reason: fmt.Sprintf("date %s is a %s; only weekdays have quotes", candidate, wd),
		}
	}
	return d.Format(DateLayout), nil
}

// Validate is the stateless form of DateRange.Validate. Invalid bounds are
// reported as an error rather than a ValidationError.
func Validate(candidate, minDate, maxDate string) (string, error) {
	r, err := NewDateRange(minDate, maxDate)
	if err != nil {
		return "", err
	}
	return r.Validate(candidate)
}
