package services

import (
	"strings"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	three     = decimal.NewFromInt(3)
	five      = decimal.NewFromInt(5)
	ten       = decimal.NewFromInt(10)
	sixteen   = decimal.NewFromInt(16)
	thirtySix = decimal.NewFromInt(36)
)

// emergencyFundScore rewards savings covering three months of expenses.
func emergencyFundScore(savings, monthlyExpenses decimal.Decimal) decimal.Decimal {
	if !monthlyExpenses.IsPositive() {
		return twenty
	}
	score := savings.Div(three.Mul(monthlyExpenses)).Mul(twenty)
	return clamp(score, decimal.Zero, twenty)
}

// debtToIncomeScore is 20 up to a 20% ratio, 10 at 36%, then loses a point per 5%.
func debtToIncomeScore(totalDebt, monthlyIncome decimal.Decimal) decimal.Decimal {
	if !monthlyIncome.IsPositive() {
		if totalDebt.IsPositive() {
			return decimal.Zero
		}
		return twenty
	}

	ratio := totalDebt.Div(monthlyIncome).Mul(hundred)
	switch {
	case ratio.LessThanOrEqual(twenty):
		return twenty
	case ratio.LessThanOrEqual(thirtySix):
		return twenty.Sub(ratio.Sub(twenty).Div(sixteen).Mul(ten))
	default:
		return clamp(ten.Sub(ratio.Sub(thirtySix).Div(five)), decimal.Zero, twenty)
	}
}

// savingsRateScore maps a savings rate percentage linearly onto [0, 20].
func savingsRateScore(savingsRate decimal.Decimal) decimal.Decimal {
	return clamp(savingsRate, decimal.Zero, twenty)
}

func diversityScore(distinctTypes int) decimal.Decimal {
	return clamp(decimal.NewFromInt(int64(distinctTypes)).Mul(five), decimal.Zero, twenty)
}

// goalsProgressScore averages progress over active and completed goals.
// It also returns how many goals were scored.
func goalsProgressScore(goals []domain.Goal) (decimal.Decimal, int) {
	total := decimal.Zero
	n := 0
	for _, g := range goals {
		if g.Status != domain.GoalActive && g.Status != domain.GoalCompleted {
			continue
		}
		total = total.Add(g.ProgressPercentage())
		n++
	}
	if n == 0 {
		return decimal.Zero, 0
	}
	avg := total.Div(decimal.NewFromInt(int64(n)))
	return clamp(avg.Div(hundred).Mul(twenty), decimal.Zero, twenty), n
}

func distinctAssetTypes(assets []domain.PortfolioAsset) int {
	seen := make(map[string]struct{})
	for _, a := range assets {
		if !a.IsActive {
			continue
		}
		t := strings.ToUpper(strings.TrimSpace(a.AssetType))
		if t == "" {
			continue
		}
		seen[t] = struct{}{}
	}
	return len(seen)
}

func ratingFor(score decimal.Decimal) domain.HealthRating {
	switch {
	case score.GreaterThanOrEqual(decimal.NewFromInt(80)):
		return domain.RatingExcellent
	case score.GreaterThanOrEqual(decimal.NewFromInt(60)):
		return domain.RatingGood
	case score.GreaterThanOrEqual(decimal.NewFromInt(40)):
		return domain.RatingFair
	default:
		return domain.RatingNeedsImprovement
	}
}

func roundComponents(c domain.HealthScoreComponents) domain.HealthScoreComponents {
	return domain.HealthScoreComponents{
		EmergencyFund:       c.EmergencyFund.Round(2),
		DebtToIncome:        c.DebtToIncome.Round(2),
		SavingsRate:         c.SavingsRate.Round(2),
		InvestmentDiversity: c.InvestmentDiversity.Round(2),
		GoalsProgress:       c.GoalsProgress.Round(2),
	}
}

func clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}
