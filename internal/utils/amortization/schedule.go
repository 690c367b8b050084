// Package amortization derives installment state from a schedule and a date.
// Balances decrease linearly: interest is never compounded.
package amortization

import (
	"fmt"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
)

// stepper locates scheduled payment dates relative to the first payment.
type stepper interface {
	// DateOf returns the date of payment k, k = 0 being the first payment.
	DateOf(first time.Time, k int) time.Time
	// LastIndexOnOrBefore returns the largest k with DateOf(first, k) <= asOf.
	// asOf must not be before first.
	LastIndexOnOrBefore(first, asOf time.Time) int
}

// dayStepper steps by a fixed number of days.
type dayStepper struct{ days int }

func (s dayStepper) DateOf(first time.Time, k int) time.Time {
	return first.AddDate(0, 0, s.days*k)
}

func (s dayStepper) LastIndexOnOrBefore(first, asOf time.Time) int {
	elapsed := int(asOf.Sub(first).Hours() / 24)
	return elapsed / s.days
}

// monthStepper steps by calendar months from the anchor day, clamping to
// the last day of shorter months. Dates are always derived from the anchor
// so Jan 31 yields Feb 28, Mar 31, Apr 30.
type monthStepper struct{}

func (monthStepper) DateOf(first time.Time, k int) time.Time {
	return AddMonthsClamped(first, k)
}

func (s monthStepper) LastIndexOnOrBefore(first, asOf time.Time) int {
	k := (asOf.Year()-first.Year())*12 + int(asOf.Month()) - int(first.Month())
	if s.DateOf(first, k).After(asOf) {
		k--
	}
	return k
}

var steppers = map[domain.Frequency]stepper{
	domain.Weekly:   dayStepper{days: 7},
	domain.Biweekly: dayStepper{days: 14},
	domain.Monthly:  monthStepper{},
}

func stepperFor(f domain.Frequency) (stepper, error) {
	s, ok := steppers[f]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported installment frequency %q", apperrors.ErrValidation, f)
	}
	return s, nil
}

// AddMonthsClamped adds months to t keeping its day of month when possible
// and using the last day of the target month otherwise.
func AddMonthsClamped(t time.Time, months int) time.Time {
	t = domain.DateOnly(t)
	idx := int(t.Month()) - 1 + months
	year := t.Year() + idx/12
	idx %= 12
	if idx < 0 {
		idx += 12
		year--
	}
	month := time.Month(idx + 1)
	day := t.Day()
	if last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day(); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// PaymentDate returns the date of the k-th payment, k = 0 being the first.
func PaymentDate(first time.Time, f domain.Frequency, k int) (time.Time, error) {
	s, err := stepperFor(f)
	if err != nil {
		return time.Time{}, err
	}
	return s.DateOf(domain.DateOnly(first), k), nil
}
