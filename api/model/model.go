package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/karim-saleh/guardpay/model"
)

// CreateAccount is the request body for registering a wallet account.
type CreateAccount struct {
	Name           string          `json:"name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

func (a *CreateAccount) ValidateCreateAccount() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Name, validation.Required, validation.Length(1, 100)),
	)
}

// RecordTransfer is the request body for moving funds between addresses.
type RecordTransfer struct {
	Sender    string          `json:"sender"`
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
}

func (t *RecordTransfer) ValidateRecordTransfer() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.Sender, validation.Required),
		validation.Field(&t.Recipient, validation.Required),
		validation.Field(&t.Amount, validation.Required, validation.By(positiveAmount)),
	)
}

// CreateGuardian is the request body for adding a guardian to a vault.
type CreateGuardian struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Role    string `json:"role"`
}

func (g *CreateGuardian) ValidateCreateGuardian() error {
	return validation.ValidateStruct(g,
		validation.Field(&g.Name, validation.Required),
		validation.Field(&g.Address, validation.Required),
	)
}

func (g *CreateGuardian) ToGuardian() model.Guardian {
	return model.Guardian{
		Name:    g.Name,
		Address: g.Address,
		Role:    g.Role,
		Active:  true,
	}
}

// CreateVault is the request body for opening an escrow vault.
type CreateVault struct {
	Name           string           `json:"name"`
	Purpose        string           `json:"purpose"`
	CreatorAddress string           `json:"creator"`
	TotalAmount    decimal.Decimal  `json:"total_amount"`
	Guardians      []CreateGuardian `json:"guardians"`
}

func (v *CreateVault) ValidateCreateVault() error {
	return validation.ValidateStruct(v,
		validation.Field(&v.Name, validation.Required),
		validation.Field(&v.CreatorAddress, validation.Required),
		validation.Field(&v.TotalAmount, validation.Required, validation.By(positiveAmount)),
	)
}

func (v *CreateVault) ToGuardians() []model.Guardian {
	guardians := make([]model.Guardian, 0, len(v.Guardians))
	for _, g := range v.Guardians {
		guardians = append(guardians, g.ToGuardian())
	}
	return guardians
}

// CreateWithdrawalRequest is the request body for asking a vault to release
// funds.
type CreateWithdrawalRequest struct {
	RequesterAddress string          `json:"requester"`
	Amount           decimal.Decimal `json:"amount"`
	Purpose          string          `json:"purpose"`
	Proof            string          `json:"proof"`
}

func (r *CreateWithdrawalRequest) ValidateCreateWithdrawalRequest() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RequesterAddress, validation.Required),
		validation.Field(&r.Amount, validation.Required, validation.By(positiveAmount)),
		validation.Field(&r.Purpose, validation.Required),
	)
}

// CastVote is the request body for a guardian's decision on a withdrawal
// request.
type CastVote struct {
	GuardianAddress string `json:"guardian"`
	Approve         *bool  `json:"approve"`
}

func (v *CastVote) ValidateCastVote() error {
	return validation.ValidateStruct(v,
		validation.Field(&v.GuardianAddress, validation.Required),
		validation.Field(&v.Approve, validation.NotNil),
	)
}

func positiveAmount(value interface{}) error {
	amount, ok := value.(decimal.Decimal)
	if !ok {
		return validation.NewError("validation_amount", "invalid amount type")
	}
	if !amount.IsPositive() {
		return validation.NewError("validation_amount", "amount must be greater than zero")
	}
	return nil
}
