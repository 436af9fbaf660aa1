package guardpay

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/karim-saleh/guardpay/internal/apierror"
	"github.com/karim-saleh/guardpay/model"
)

// AccountDirectory maps wallet address to account record. It is a pure
// lookup/insert structure; balances are mutated only by the ledger under its
// per-account locks.
type AccountDirectory struct {
	mu       sync.RWMutex
	accounts map[string]*model.Account
	order    []string
}

func NewAccountDirectory() *AccountDirectory {
	return &AccountDirectory{accounts: make(map[string]*model.Account)}
}

// Register adds an account to the directory. Re-registering an address fails
// with DUPLICATE_ADDRESS.
func (d *AccountDirectory) Register(account model.Account) (model.Account, error) {
	if account.Address == "" {
		return model.Account{}, apierror.Newf(apierror.ErrInvalidInput, "account address is required")
	}
	if account.Balance.IsNegative() {
		return model.Account{}, apierror.Newf(apierror.ErrInvalidInput, "account balance cannot be negative")
	}
	if account.Tier == "" {
		account.Tier = model.TierBasic
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.accounts[account.Address]; exists {
		return model.Account{}, apierror.Newf(apierror.ErrDuplicateAddress, "address %s is already registered", account.Address)
	}
	stored := account
	d.accounts[account.Address] = &stored
	d.order = append(d.order, account.Address)

	logrus.Infof("account registered: %s (%s)", account.Name, account.Address)
	return account, nil
}

// Lookup returns a copy of the account for an address. A miss is not an
// error: transfers to unknown addresses are valid external transfers.
func (d *AccountDirectory) Lookup(address string) (model.Account, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	account, ok := d.accounts[address]
	if !ok {
		return model.Account{}, false
	}
	return *account, true
}

// Addresses returns the registered addresses in registration order.
func (d *AccountDirectory) Addresses() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.order...)
}

// account returns the live record for ledger-internal mutation. Callers must
// hold the per-account lock for the address.
func (d *AccountDirectory) account(address string) (*model.Account, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	account, ok := d.accounts[address]
	return account, ok
}

// RegisterAccount creates and registers a wallet with a generated address.
// Self-registered wallets start on the Basic tier.
func (g *Guardpay) RegisterAccount(name string, openingBalance decimal.Decimal) (model.Account, error) {
	if name == "" {
		return model.Account{}, apierror.Newf(apierror.ErrInvalidInput, "account name is required")
	}
	account := model.Account{
		Address: model.GenerateWalletAddress(),
		Name:    name,
		Balance: openingBalance,
		Tier:    model.TierBasic,
	}
	return g.accounts.Register(account)
}

// GetAccount reads a consistent copy of one account, serialized against any
// in-flight transfer touching it.
func (g *Guardpay) GetAccount(address string) (model.Account, error) {
	unlock := g.locker.Lock(address)
	defer unlock()
	account, ok := g.accounts.Lookup(address)
	if !ok {
		return model.Account{}, apierror.Newf(apierror.ErrAccountNotFound, "no account with address %s", address)
	}
	return account, nil
}

// GetAllAccounts lists every account sorted by creation time. Balances are
// mutated under the ledger's per-account locks, not the directory mutex, so
// the copies are taken with every listed account's lock held and no
// in-flight transfer can be observed half applied.
func (g *Guardpay) GetAllAccounts() []model.Account {
	addresses := g.accounts.Addresses()
	unlock := g.locker.Lock(addresses...)
	accounts := make([]model.Account, 0, len(addresses))
	for _, address := range addresses {
		if account, ok := g.accounts.Lookup(address); ok {
			accounts = append(accounts, account)
		}
	}
	unlock()
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts
}

// SavingsPlansFor returns the savings plan table for the account's tier, or
// the default catalogue when the address is unknown.
func (g *Guardpay) SavingsPlansFor(address string) []model.SavingsPlan {
	unlock := g.locker.Lock(address)
	account, ok := g.accounts.Lookup(address)
	unlock()
	if !ok {
		return model.DefaultSavingsPlans()
	}
	return model.SavingsPlansForTier(account.Tier)
}
