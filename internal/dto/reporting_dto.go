package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
)

// DateLayout is the calendar date format accepted in report queries.
const DateLayout = "2006-01-02"

// AsOfQuery carries the optional as-of date of point-in-time reports.
type AsOfQuery struct {
	AsOf string `form:"asOf"`
}

// CashFlowQuery carries the closed period of a cash flow report.
type CashFlowQuery struct {
	FromDate string `form:"fromDate" binding:"required"`
	ToDate   string `form:"toDate" binding:"required"`
}

// ParseDate parses a YYYY-MM-DD date, returning fallback when s is empty.
func ParseDate(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", apperrors.ErrValidation, s)
	}
	return t, nil
}

// Period parses and checks the cash flow period.
func (q CashFlowQuery) Period() (time.Time, time.Time, error) {
	from, err := ParseDate(q.FromDate, time.Time{})
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := ParseDate(q.ToDate, time.Time{})
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: toDate must not be before fromDate", apperrors.ErrValidation)
	}
	return from, to, nil
}
