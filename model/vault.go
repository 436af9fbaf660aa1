package model

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	VaultStatusActive    = "ACTIVE"
	VaultStatusLocked    = "LOCKED"
	VaultStatusDisputed  = "DISPUTED"
	VaultStatusCompleted = "COMPLETED"
)

const (
	RequestStatusPending  = "PENDING"
	RequestStatusApproved = "APPROVED"
	RequestStatusRejected = "REJECTED"
)

// VoteOutcome is the caller-visible result of casting a guardian vote.
type VoteOutcome string

const (
	VoteStillPending           VoteOutcome = "STILL_PENDING"
	VoteReleased               VoteOutcome = "RELEASED"
	VoteRejected               VoteOutcome = "REJECTED"
	VoteInsufficientVaultFunds VoteOutcome = "INSUFFICIENT_VAULT_FUNDS"
	VoteAlreadyVoted           VoteOutcome = "ALREADY_VOTED"
	VoteAlreadyFinalized       VoteOutcome = "ALREADY_FINALIZED"
)

// Guardian is a party entitled to vote on withdrawal requests from one vault.
type Guardian struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Role    string `json:"role"`
	Active  bool   `json:"active"`
}

// WithdrawalRequest asks a vault to release part of its funds. Approvals and
// rejections are ordered sets of guardian addresses; a guardian appears in at
// most one of the two. Terminal requests are never mutated.
type WithdrawalRequest struct {
	RequestID        string          `json:"id"`
	VaultID          string          `json:"vault_id"`
	RequesterAddress string          `json:"requester"`
	Amount           decimal.Decimal `json:"amount"`
	Purpose          string          `json:"purpose"`
	Proof            string          `json:"proof"`
	Approvals        []string        `json:"approvals"`
	Rejections       []string        `json:"rejections"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
}

// HasVoted reports whether the guardian address is already counted on either
// side of the request.
func (request *WithdrawalRequest) HasVoted(guardianAddress string) bool {
	for _, addr := range request.Approvals {
		if addr == guardianAddress {
			return true
		}
	}
	for _, addr := range request.Rejections {
		if addr == guardianAddress {
			return true
		}
	}
	return false
}

// Terminal reports whether the request has reached a final status.
func (request *WithdrawalRequest) Terminal() bool {
	return request.Status == RequestStatusApproved || request.Status == RequestStatusRejected
}

// Vault is a multi-guardian escrow holding a fixed total, released
// incrementally through approved withdrawal requests. Its own balance is
// independent of the account directory. Mutex serializes the vote-tally-and-
// release sequence; callers in the service layer hold it for the full
// check-then-act region.
type Vault struct {
	VaultID        string               `json:"id"`
	Name           string               `json:"name"`
	Purpose        string               `json:"purpose"`
	TotalAmount    decimal.Decimal      `json:"total_amount"`
	ReleasedAmount decimal.Decimal      `json:"released_amount"`
	CreatorAddress string               `json:"creator"`
	Status         string               `json:"status"`
	Guardians      []Guardian           `json:"guardians"`
	Requests       []*WithdrawalRequest `json:"requests"`
	CreatedAt      time.Time            `json:"created_at"`

	Mutex sync.Mutex `json:"-"`
}

// RemainingBalance is TotalAmount minus ReleasedAmount. The two always sum
// back to TotalAmount.
func (vault *Vault) RemainingBalance() decimal.Decimal {
	return vault.TotalAmount.Sub(vault.ReleasedAmount)
}

// ProgressPercentage is the released share of the vault, 0-100.
func (vault *Vault) ProgressPercentage() float64 {
	if vault.TotalAmount.IsZero() {
		return 0
	}
	pct, _ := vault.ReleasedAmount.Div(vault.TotalAmount).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// QuorumThreshold is the majority rule: floor((guardians+1)/2). With zero
// guardians this is 0, which makes a guardianless vault finalize on its
// first recorded vote. That behavior is deliberate and covered by tests.
func (vault *Vault) QuorumThreshold() int {
	return (len(vault.Guardians) + 1) / 2
}

// FindGuardian returns the guardian with the given address, if present.
func (vault *Vault) FindGuardian(address string) (Guardian, bool) {
	for _, g := range vault.Guardians {
		if g.Address == address {
			return g, true
		}
	}
	return Guardian{}, false
}

// FindRequest returns the withdrawal request with the given id, if present.
func (vault *Vault) FindRequest(requestID string) (*WithdrawalRequest, bool) {
	for _, r := range vault.Requests {
		if r.RequestID == requestID {
			return r, true
		}
	}
	return nil, false
}

// PendingRequests returns the requests that have not reached a terminal
// status, in submission order.
func (vault *Vault) PendingRequests() []*WithdrawalRequest {
	pending := make([]*WithdrawalRequest, 0)
	for _, r := range vault.Requests {
		if r.Status == RequestStatusPending {
			pending = append(pending, r)
		}
	}
	return pending
}

// Snapshot returns an independent copy of the request with its own vote
// slices. The copy is safe to marshal after the vault lock is released.
func (request *WithdrawalRequest) Snapshot() WithdrawalRequest {
	out := *request
	out.Approvals = append([]string(nil), request.Approvals...)
	out.Rejections = append([]string(nil), request.Rejections...)
	return out
}

// Snapshot returns an independent copy of the vault, including its guardians
// and requests, safe to read and marshal outside the vault lock. The caller
// must hold Mutex.
func (vault *Vault) Snapshot() *Vault {
	requests := make([]*WithdrawalRequest, len(vault.Requests))
	for i, request := range vault.Requests {
		copied := request.Snapshot()
		requests[i] = &copied
	}
	return &Vault{
		VaultID:        vault.VaultID,
		Name:           vault.Name,
		Purpose:        vault.Purpose,
		TotalAmount:    vault.TotalAmount,
		ReleasedAmount: vault.ReleasedAmount,
		CreatorAddress: vault.CreatorAddress,
		Status:         vault.Status,
		Guardians:      append([]Guardian(nil), vault.Guardians...),
		Requests:       requests,
		CreatedAt:      vault.CreatedAt,
	}
}

// HasMember reports whether the address is the vault creator or one of its
// guardians.
func (vault *Vault) HasMember(address string) bool {
	if vault.CreatorAddress == address {
		return true
	}
	_, ok := vault.FindGuardian(address)
	return ok
}
