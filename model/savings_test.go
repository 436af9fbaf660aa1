package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSavingsPlanInterest(t *testing.T) {
	tests := []struct {
		name    string
		rate    float64
		days    int
		deposit int64
		want    string
	}{
		{name: "one year at 5 percent", rate: 5.0, days: 365, deposit: 1000, want: "50"},
		{name: "half year at 4 percent", rate: 4.0, days: 180, deposit: 500, want: "9.8630136986301369863013698630136986"},
		{name: "no locking period earns nothing", rate: 2.0, days: 0, deposit: 100, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := newPlan("Test", "test plan", tt.rate, 1, "n/a", tt.days)
			if err := plan.Deposit(decimal.NewFromInt(tt.deposit)); err != nil {
				t.Fatalf("Deposit() error = %v", err)
			}
			want := decimal.RequireFromString(tt.want)
			if got := plan.Interest(); !got.Sub(want).Abs().LessThan(decimal.NewFromFloat(0.0001)) {
				t.Errorf("Interest() = %s, want %s", got, want)
			}
		})
	}
}

func TestSavingsPlanDepositMinimum(t *testing.T) {
	plan := newPlan("Premium Growth", "test", 4.0, 500, "6 months", 180)
	if err := plan.Deposit(decimal.NewFromInt(100)); err == nil {
		t.Error("deposit below minimum should fail")
	}
	if err := plan.Deposit(decimal.NewFromInt(500)); err != nil {
		t.Errorf("deposit at minimum should succeed, got %v", err)
	}
}

func TestSavingsPlanWithdraw(t *testing.T) {
	plan := newPlan("Test", "test", 5.0, 1, "1 year", 365)
	_ = plan.Deposit(decimal.NewFromInt(1000))

	got := plan.Withdraw()
	if !got.Equal(decimal.NewFromInt(1050)) {
		t.Errorf("Withdraw() = %s, want 1050", got)
	}
	if !plan.CurrentAmount.IsZero() {
		t.Errorf("plan should be drained after withdraw, has %s", plan.CurrentAmount)
	}
}

func TestSavingsPlansForTier(t *testing.T) {
	if got := len(SavingsPlansForTier(TierBasic)); got != 3 {
		t.Errorf("basic tier has %d plans, want 3", got)
	}
	if got := len(SavingsPlansForTier(TierPremium)); got != 4 {
		t.Errorf("premium tier has %d plans, want 4", got)
	}
	if got := len(DefaultSavingsPlans()); got != 5 {
		t.Errorf("default catalogue has %d plans, want 5", got)
	}
}

func TestSavingsPlanByName(t *testing.T) {
	plan, ok := SavingsPlanByName("Growth Plan")
	if !ok || plan.InterestRate != 4.5 {
		t.Errorf("SavingsPlanByName(Growth Plan) = %+v, %v", plan, ok)
	}
	if _, ok := SavingsPlanByName("No Such Plan"); ok {
		t.Error("unknown plan name should not resolve")
	}
}
