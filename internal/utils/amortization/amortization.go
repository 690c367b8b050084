package amortization

import (
	"fmt"
	"time"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentsMade counts the scheduled payment dates on or before asOf, capped at n.
// It is zero before the first payment date.
func PaymentsMade(first time.Time, f domain.Frequency, n int, asOf time.Time) (int, error) {
	s, err := stepperFor(f)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: number of payments must be at least 1", apperrors.ErrValidation)
	}
	first, asOf = domain.DateOnly(first), domain.DateOnly(asOf)
	if asOf.Before(first) {
		return 0, nil
	}
	made := s.LastIndexOnOrBefore(first, asOf) + 1
	if made > n {
		made = n
	}
	return made, nil
}

// RemainingBalance is total minus what has been paid, floored at zero.
func RemainingBalance(total, perPayment decimal.Decimal, made int) decimal.Decimal {
	remaining := total.Sub(perPayment.Mul(decimal.NewFromInt(int64(made))))
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// PayoffDate is the date of the last scheduled payment.
func PayoffDate(first time.Time, f domain.Frequency, n int) (time.Time, error) {
	if n < 1 {
		return time.Time{}, fmt.Errorf("%w: number of payments must be at least 1", apperrors.ErrValidation)
	}
	return PaymentDate(first, f, n-1)
}

// Validate checks the fields Recompute relies on.
func Validate(s domain.InstallmentSchedule) error {
	if s.NumberOfPayments < 1 {
		return apperrors.NewValidationError("number of payments must be at least 1")
	}
	if !s.TotalAmount.IsPositive() {
		return apperrors.NewValidationError("total amount must be positive")
	}
	if !s.AmountPerPayment.IsPositive() {
		return apperrors.NewValidationError("amount per payment must be positive")
	}
	if s.FirstPaymentDate.IsZero() {
		return apperrors.NewValidationError("first payment date is required")
	}
	if !s.StartDate.IsZero() && domain.DateOnly(s.StartDate).After(domain.DateOnly(s.FirstPaymentDate)) {
		return apperrors.NewValidationError("start date is after the first payment date")
	}
	if _, err := stepperFor(s.Frequency); err != nil {
		return err
	}
	return nil
}

// Recompute derives the installment state of s as of asOf.
func Recompute(s domain.InstallmentSchedule, asOf time.Time) (domain.InstallmentState, error) {
	if err := Validate(s); err != nil {
		return domain.InstallmentState{}, err
	}

	made, err := PaymentsMade(s.FirstPaymentDate, s.Frequency, s.NumberOfPayments, asOf)
	if err != nil {
		return domain.InstallmentState{}, err
	}
	payoff, err := PayoffDate(s.FirstPaymentDate, s.Frequency, s.NumberOfPayments)
	if err != nil {
		return domain.InstallmentState{}, err
	}

	state := domain.InstallmentState{
		PaymentsMade:     made,
		RemainingBalance: RemainingBalance(s.TotalAmount, s.AmountPerPayment, made),
		PayoffDate:       payoff,
		IsPaidOff:        made == s.NumberOfPayments,
	}
	if !state.IsPaidOff {
		next, err := PaymentDate(s.FirstPaymentDate, s.Frequency, made)
		if err != nil {
			return domain.InstallmentState{}, err
		}
		state.NextPaymentDate = &next
	}
	return state, nil
}
