package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SavingsPlan is a simple-interest savings product. Interest accrues over the
// locking period only: interest = principal * rate * (days/365) / 100.
type SavingsPlan struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	InterestRate  float64         `json:"interest_rate"`
	MinimumAmount decimal.Decimal `json:"minimum_amount"`
	LockingPeriod string          `json:"locking_period"`
	LockingDays   int             `json:"locking_days"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
}

// Deposit adds amount to the plan. Deposits below the plan minimum are
// rejected.
func (plan *SavingsPlan) Deposit(amount decimal.Decimal) error {
	if amount.LessThan(plan.MinimumAmount) {
		return fmt.Errorf("minimum deposit amount is %s", plan.MinimumAmount.StringFixed(2))
	}
	plan.CurrentAmount = plan.CurrentAmount.Add(amount)
	return nil
}

// Interest returns the simple interest earned over the locking period.
func (plan *SavingsPlan) Interest() decimal.Decimal {
	rate := decimal.NewFromFloat(plan.InterestRate)
	years := decimal.NewFromInt(int64(plan.LockingDays)).Div(decimal.NewFromInt(365))
	return plan.CurrentAmount.Mul(rate).Mul(years).Div(decimal.NewFromInt(100))
}

// Total is the principal plus the interest it will have earned.
func (plan *SavingsPlan) Total() decimal.Decimal {
	return plan.CurrentAmount.Add(plan.Interest())
}

// Withdraw drains the plan and returns principal plus interest.
func (plan *SavingsPlan) Withdraw() decimal.Decimal {
	total := plan.Total()
	plan.CurrentAmount = decimal.Zero
	return total
}

func newPlan(name, description string, rate float64, minimum int64, period string, days int) SavingsPlan {
	return SavingsPlan{
		Name:          name,
		Description:   description,
		InterestRate:  rate,
		MinimumAmount: decimal.NewFromInt(minimum),
		LockingPeriod: period,
		LockingDays:   days,
	}
}

// DefaultSavingsPlans is the catalogue shown to callers with no account.
func DefaultSavingsPlans() []SavingsPlan {
	return []SavingsPlan{
		newPlan("Quick Save", "Perfect for short-term savings with quick access", 3.5, 100, "3 months", 90),
		newPlan("Growth Plan", "Build your wealth over 6 months with better returns", 4.5, 200, "6 months", 180),
		newPlan("Premium Save", "Maximum returns for committed long-term savings", 5.5, 500, "1 year", 365),
		newPlan("Emergency Fund", "Flexible access to your emergency savings anytime", 2.0, 50, "Anytime", 0),
		newPlan("Investment Plus", "High returns for strategic long-term investment", 6.5, 1000, "18 months", 540),
	}
}

// SavingsPlansForTier returns the plan table for an account tier. Plans are
// data; a new tier means a new table entry, not a new type.
func SavingsPlansForTier(tier Tier) []SavingsPlan {
	switch tier {
	case TierPremium:
		return []SavingsPlan{
			newPlan("Premium Growth", "Excellent returns for medium-term savings", 4.0, 500, "6 months", 180),
			newPlan("Executive Invest", "Maximum returns for serious investors", 5.0, 1000, "1 year", 365),
			newPlan("Premium Reserve", "Flexible premium emergency savings", 2.5, 200, "Anytime", 0),
			newPlan("VIP Investment", "Elite returns for committed capital", 6.0, 5000, "18 months", 540),
		}
	default:
		return []SavingsPlan{
			newPlan("Limited Saver", "Perfect for small amounts with quick returns", 2.0, 50, "3 months", 90),
			newPlan("Basic Growth", "Grow your money with basic commitment", 2.5, 100, "6 months", 180),
			newPlan("Quick Cash", "Emergency savings with instant access", 1.0, 50, "Anytime", 0),
		}
	}
}

// SavingsPlanByName looks a plan up in the default catalogue.
func SavingsPlanByName(name string) (SavingsPlan, bool) {
	for _, plan := range DefaultSavingsPlans() {
		if plan.Name == name {
			return plan, true
		}
	}
	return SavingsPlan{}, false
}
