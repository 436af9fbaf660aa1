package guardpay

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/karim-saleh/guardpay/internal/apierror"
	"github.com/karim-saleh/guardpay/model"
)

// VaultStore holds every vault and owns the identifier sequences shared
// across them.
type VaultStore struct {
	mu     sync.RWMutex
	vaults map[string]*model.Vault
	order  []string

	seq    *model.Sequence
	reqSeq *model.Sequence
}

func NewVaultStore() *VaultStore {
	return &VaultStore{
		vaults: make(map[string]*model.Vault),
		seq:    model.NewSequence("VAULT", 1000),
		reqSeq: model.NewSequence("REQ", 5000),
	}
}

// Create registers a new active vault and assigns its identifier.
func (s *VaultStore) Create(name, purpose, creatorAddress string, totalAmount decimal.Decimal, guardians []model.Guardian) (*model.Vault, error) {
	if !totalAmount.IsPositive() {
		return nil, apierror.Newf(apierror.ErrInvalidInput, "vault total amount must be positive")
	}
	seen := make(map[string]struct{}, len(guardians))
	for _, guardian := range guardians {
		if _, dup := seen[guardian.Address]; dup {
			return nil, apierror.Newf(apierror.ErrDuplicateGuardian,
				"guardian %s listed more than once", guardian.Address)
		}
		seen[guardian.Address] = struct{}{}
	}

	vaultID, _ := s.seq.Next()
	vault := &model.Vault{
		VaultID:        vaultID,
		Name:           name,
		Purpose:        purpose,
		TotalAmount:    totalAmount,
		ReleasedAmount: decimal.Zero,
		CreatorAddress: creatorAddress,
		Status:         model.VaultStatusActive,
		Guardians:      guardians,
		CreatedAt:      time.Now(),
	}

	s.mu.Lock()
	s.vaults[vaultID] = vault
	s.order = append(s.order, vaultID)
	s.mu.Unlock()

	logrus.Infof("created vault %s (%s) holding %s", vaultID, name, totalAmount.StringFixed(2))
	return vault, nil
}

func (s *VaultStore) Get(vaultID string) (*model.Vault, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vault, ok := s.vaults[vaultID]
	return vault, ok
}

// All returns the vaults in creation order.
func (s *VaultStore) All() []*model.Vault {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Vault, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.vaults[id])
	}
	return out
}

// ListFor returns vaults where the address is the creator or a guardian.
func (s *VaultStore) ListFor(address string) []*model.Vault {
	out := make([]*model.Vault, 0)
	for _, vault := range s.All() {
		vault.Mutex.Lock()
		member := vault.HasMember(address)
		vault.Mutex.Unlock()
		if member {
			out = append(out, vault)
		}
	}
	return out
}

// CreateVault opens a guardian-controlled escrow vault.
func (g *Guardpay) CreateVault(name, purpose, creatorAddress string, totalAmount decimal.Decimal, guardians []model.Guardian) (*model.Vault, error) {
	vault, err := g.vaults.Create(name, purpose, creatorAddress, totalAmount, guardians)
	if err != nil {
		return nil, err
	}
	vault.Mutex.Lock()
	snapshot := vault.Snapshot()
	vault.Mutex.Unlock()
	g.postEvent("vault.created", snapshot)
	return snapshot, nil
}

// vault returns the live stored vault. Reads and writes on it must hold its
// Mutex; only snapshots leave the service layer.
func (g *Guardpay) vault(vaultID string) (*model.Vault, error) {
	vault, ok := g.vaults.Get(vaultID)
	if !ok {
		return nil, apierror.Newf(apierror.ErrVaultNotFound, "no vault with id %s", vaultID)
	}
	return vault, nil
}

// GetVault returns a snapshot of the vault with the given id.
func (g *Guardpay) GetVault(vaultID string) (*model.Vault, error) {
	vault, err := g.vault(vaultID)
	if err != nil {
		return nil, err
	}
	vault.Mutex.Lock()
	defer vault.Mutex.Unlock()
	return vault.Snapshot(), nil
}

// ListVaults returns snapshots of all vaults, or only those an address
// belongs to when one is given.
func (g *Guardpay) ListVaults(address string) []*model.Vault {
	var vaults []*model.Vault
	if address == "" {
		vaults = g.vaults.All()
	} else {
		vaults = g.vaults.ListFor(address)
	}
	out := make([]*model.Vault, len(vaults))
	for i, vault := range vaults {
		vault.Mutex.Lock()
		out[i] = vault.Snapshot()
		vault.Mutex.Unlock()
	}
	return out
}

// PendingRequests returns snapshots of the withdrawal requests on a vault
// that are still awaiting quorum, in submission order.
func (g *Guardpay) PendingRequests(vaultID string) ([]*model.WithdrawalRequest, error) {
	vault, err := g.vault(vaultID)
	if err != nil {
		return nil, err
	}
	vault.Mutex.Lock()
	defer vault.Mutex.Unlock()
	pending := vault.PendingRequests()
	out := make([]*model.WithdrawalRequest, len(pending))
	for i, request := range pending {
		copied := request.Snapshot()
		out[i] = &copied
	}
	return out, nil
}

// AddGuardian appends a guardian to a vault. Duplicate addresses within one
// vault are rejected; the same address may guard any number of vaults.
func (g *Guardpay) AddGuardian(vaultID string, guardian model.Guardian) error {
	vault, err := g.vault(vaultID)
	if err != nil {
		return err
	}

	vault.Mutex.Lock()
	defer vault.Mutex.Unlock()

	if _, ok := vault.FindGuardian(guardian.Address); ok {
		return apierror.Newf(apierror.ErrDuplicateGuardian,
			"guardian %s already registered on vault %s", guardian.Address, vaultID)
	}

	guardian.Active = true
	vault.Guardians = append(vault.Guardians, guardian)
	logrus.Infof("guardian %s (%s) added to vault %s", guardian.Name, guardian.Address, vaultID)
	return nil
}

// SubmitWithdrawalRequest opens a withdrawal request on an active vault and
// notifies its guardians.
func (g *Guardpay) SubmitWithdrawalRequest(vaultID, requesterAddress string, amount decimal.Decimal, purpose, proof string) (*model.WithdrawalRequest, error) {
	vault, err := g.vault(vaultID)
	if err != nil {
		return nil, err
	}

	vault.Mutex.Lock()
	defer vault.Mutex.Unlock()

	if vault.Status != model.VaultStatusActive {
		return nil, apierror.Newf(apierror.ErrVaultNotActive,
			"vault %s is %s, withdrawal requests need an active vault", vaultID, vault.Status)
	}
	if !amount.IsPositive() {
		return nil, apierror.Newf(apierror.ErrInvalidInput, "withdrawal amount must be positive")
	}

	requestID, _ := g.vaults.reqSeq.Next()
	request := &model.WithdrawalRequest{
		RequestID:        requestID,
		VaultID:          vaultID,
		RequesterAddress: requesterAddress,
		Amount:           amount,
		Purpose:          purpose,
		Proof:            proof,
		Status:           model.RequestStatusPending,
		CreatedAt:        time.Now(),
	}
	vault.Requests = append(vault.Requests, request)

	for _, guardian := range vault.Guardians {
		logrus.Infof("guardian %s notified of request %s on vault %s", guardian.Address, requestID, vaultID)
	}
	snapshot := request.Snapshot()
	g.postEvent("vault.request.created", snapshot)
	return &snapshot, nil
}

// Vote records one guardian's decision on a withdrawal request and reports
// the resulting state. Tallying and release happen under the vault lock, so
// exactly one approval can cross the quorum threshold and trigger the
// release. Only the tally the cast vote lands on is checked against the
// threshold; on a vault with no guardians the threshold of zero finalizes on
// the first vote, released or rejected by its direction.
func (g *Guardpay) Vote(ctx context.Context, vaultID, requestID, guardianAddress string, approve bool) (model.VoteOutcome, error) {
	_, span := otel.Tracer("guardpay.vault").Start(ctx, "Casting guardian vote")
	defer span.End()

	vault, err := g.vault(vaultID)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	vault.Mutex.Lock()
	defer vault.Mutex.Unlock()

	request, ok := vault.FindRequest(requestID)
	if !ok {
		err := apierror.Newf(apierror.ErrRequestNotFound, "no request %s on vault %s", requestID, vaultID)
		span.RecordError(err)
		return "", err
	}

	if len(vault.Guardians) > 0 {
		if _, ok := vault.FindGuardian(guardianAddress); !ok {
			err := apierror.Newf(apierror.ErrGuardianNotFound,
				"%s is not a guardian of vault %s", guardianAddress, vaultID)
			span.RecordError(err)
			return "", err
		}
	}

	if request.Terminal() {
		return model.VoteAlreadyFinalized, nil
	}
	if request.HasVoted(guardianAddress) {
		return model.VoteAlreadyVoted, nil
	}

	if approve {
		request.Approvals = append(request.Approvals, guardianAddress)
	} else {
		request.Rejections = append(request.Rejections, guardianAddress)
	}

	threshold := vault.QuorumThreshold()
	logrus.Infof("vote recorded on %s: %d approvals, %d rejections, threshold %d",
		requestID, len(request.Approvals), len(request.Rejections), threshold)

	if approve && len(request.Approvals) >= threshold {
		if vault.RemainingBalance().LessThan(request.Amount) {
			logrus.Warnf("request %s approved but vault %s holds only %s of the %s requested",
				requestID, vaultID, vault.RemainingBalance().StringFixed(2), request.Amount.StringFixed(2))
			return model.VoteInsufficientVaultFunds, nil
		}
		vault.ReleasedAmount = vault.ReleasedAmount.Add(request.Amount)
		request.Status = model.RequestStatusApproved
		g.postEvent("vault.request.approved", request.Snapshot())
		g.postEvent("vault.funds.released", vault.Snapshot())
		logrus.Infof("released %s from vault %s for request %s", request.Amount.StringFixed(2), vaultID, requestID)
		return model.VoteReleased, nil
	}

	if !approve && len(request.Rejections) >= threshold {
		request.Status = model.RequestStatusRejected
		g.postEvent("vault.request.rejected", request.Snapshot())
		return model.VoteRejected, nil
	}

	return model.VoteStillPending, nil
}
