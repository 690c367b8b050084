package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
)

// Frequency is how often a periodic amount recurs.
type Frequency string

const (
	OneTime   Frequency = "ONE_TIME"
	Weekly    Frequency = "WEEKLY"
	Biweekly  Frequency = "BIWEEKLY"
	Monthly   Frequency = "MONTHLY"
	Quarterly Frequency = "QUARTERLY"
	Annually  Frequency = "ANNUALLY"
)

// frequencyAliases maps the spellings found in stored records to canonical values.
var frequencyAliases = map[string]Frequency{
	"ONE_TIME":  OneTime,
	"ONETIME":   OneTime,
	"ONCE":      OneTime,
	"WEEKLY":    Weekly,
	"BIWEEKLY":  Biweekly,
	"BI_WEEKLY": Biweekly,
	"MONTHLY":   Monthly,
	"QUARTERLY": Quarterly,
	"ANNUALLY":  Annually,
	"ANNUAL":    Annually,
	"YEARLY":    Annually,
}

// ParseFrequency converts a stored frequency string into a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	if f, ok := frequencyAliases[key]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown frequency %q", apperrors.ErrValidation, s)
}

// IsRecurring is false only for ONE_TIME.
func (f Frequency) IsRecurring() bool {
	return f != OneTime
}

// PeriodicAmount is an amount that recurs at a frequency.
// Monthly and annual equivalents are derived by the frequency package, never stored.
type PeriodicAmount struct {
	Amount    MonetaryAmount `json:"amount"`
	Frequency Frequency      `json:"frequency"`
}
