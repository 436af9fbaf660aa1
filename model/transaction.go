package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending = "PENDING"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// Transaction is one settled or failed transfer. Once Status reaches a
// terminal value the record is never mutated again.
type Transaction struct {
	Seq              int64           `json:"-"`
	TransactionID    string          `json:"id"`
	SenderAddress    string          `json:"sender"`
	RecipientAddress string          `json:"recipient"`
	Amount           decimal.Decimal `json:"amount"`
	Fee              decimal.Decimal `json:"fee"`
	Status           string          `json:"status"`
	FailureReason    string          `json:"failure_reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// TotalCost is the amount the sender is debited: amount plus fee.
func (transaction *Transaction) TotalCost() decimal.Decimal {
	return transaction.Amount.Add(transaction.Fee)
}

// Terminal reports whether the transaction has reached a final status.
func (transaction *Transaction) Terminal() bool {
	return transaction.Status == StatusSuccess || transaction.Status == StatusFailed
}

func (transaction *Transaction) ToJSON() ([]byte, error) {
	return json.Marshal(transaction)
}
