package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentSchedule is a calendar-scheduled loan paid in equal installments.
// InterestRate is informational only; balances amortize linearly.
type InstallmentSchedule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	TotalAmount      decimal.Decimal  `json:"totalAmount"`
	AmountPerPayment decimal.Decimal  `json:"amountPerPayment"`
	CurrencyCode     string           `json:"currencyCode"`
	InterestRate     *decimal.Decimal `json:"interestRate,omitempty"`
	Frequency        Frequency        `json:"frequency"`
	NumberOfPayments int              `json:"numberOfPayments"`
	FirstPaymentDate time.Time        `json:"firstPaymentDate"`
	StartDate        time.Time        `json:"startDate"`
	IsActive         bool             `json:"isActive"`
}

// InstallmentState is derived from a schedule and "now". It is recomputed on
// every read and never treated as authoritative when persisted.
type InstallmentState struct {
	PaymentsMade     int             `json:"paymentsMade"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	PayoffDate       time.Time       `json:"payoffDate"`
	NextPaymentDate  *time.Time      `json:"nextPaymentDate,omitempty"`
	IsPaidOff        bool            `json:"isPaidOff"`
}
