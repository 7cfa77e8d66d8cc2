package service

import (
	"math"
	"strings"
	"time"

	"github.com/walletly/walletly-api/internal/domain"
)

// minTransactionDate is the earliest date the tracker accepts.
// The product launched in 2021; anything earlier is a typo.
var minTransactionDate = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

func validateAmount(field string, amount *float64) (float64, error) {
	if amount == nil {
		return 0, &domain.ErrValidation{Field: field, Message: field + " is required"}
	}
	v := *amount
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &domain.ErrValidation{Field: field, Message: field + " must be a finite number"}
	}
	if v <= 0 {
		return 0, &domain.ErrValidation{Field: field, Message: field + " must be greater than zero"}
	}
	return v, nil
}

func requireField(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &domain.ErrValidation{Field: field, Message: field + " is required"}
	}
	return nil
}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates,
// normalized to UTC. Future dates and pre-launch dates are rejected.
func parseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, &domain.ErrValidation{Field: field, Message: "date must be an RFC 3339 timestamp or YYYY-MM-DD"}
		}
	}
	t = t.UTC()
	if t.After(time.Now().UTC()) {
		return time.Time{}, &domain.ErrValidation{Field: field, Message: "date cannot be in the future"}
	}
	if t.Before(minTransactionDate) {
		return time.Time{}, &domain.ErrValidation{Field: field, Message: "date cannot be before 2021-01-01"}
	}
	return t, nil
}

// resolveDate parses an optional date field, defaulting to now when empty.
func resolveDate(field, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Now().UTC(), nil
	}
	return parseDate(field, raw)
}

// validateMonthYear checks a limit period.
func validateMonthYear(month, year int) error {
	if month < 1 || month > 12 {
		return &domain.ErrValidation{Field: "month", Message: "month must be between 1 and 12"}
	}
	if year < minTransactionDate.Year() || year > time.Now().UTC().Year()+1 {
		return &domain.ErrValidation{Field: "year", Message: "year is out of range"}
	}
	return nil
}
