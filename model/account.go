package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tier classifies an account for fee and limit purposes.
type Tier string

const (
	TierBasic   Tier = "BASIC"
	TierPremium Tier = "PREMIUM"
)

// Account is a wallet-style account tracked by the directory. Balances are
// mutated only by the ledger, under its per-account locking discipline.
type Account struct {
	Address   string          `json:"address"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Tier      Tier            `json:"tier"`
	CreatedAt time.Time       `json:"created_at"`
}

// tierPolicy is one row of the fee schedule.
type tierPolicy struct {
	Limit   decimal.Decimal
	FeeRate decimal.Decimal
}

// feeSchedule is the closed tier table. Adding a tier is a data change here,
// not a new type.
var feeSchedule = map[Tier]tierPolicy{
	TierBasic: {
		Limit:   decimal.NewFromInt(500),
		FeeRate: decimal.NewFromFloat(0.01),
	},
	TierPremium: {
		Limit:   decimal.NewFromInt(10000),
		FeeRate: decimal.NewFromFloat(0.005),
	},
}

func policyFor(tier Tier) tierPolicy {
	if p, ok := feeSchedule[tier]; ok {
		return p
	}
	// Unknown tiers get the most restrictive schedule.
	return feeSchedule[TierBasic]
}

// TransactionLimit returns the per-transaction cap for a tier.
func TransactionLimit(tier Tier) decimal.Decimal {
	return policyFor(tier).Limit
}

// TransactionFee returns the fee charged on top of amount for a tier.
func TransactionFee(tier Tier, amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(policyFor(tier).FeeRate)
}
