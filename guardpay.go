package guardpay

import (
	"sync"
	"time"

	"github.com/karim-saleh/guardpay/config"
	"github.com/karim-saleh/guardpay/internal/cache"
	"github.com/karim-saleh/guardpay/internal/lock"
	"github.com/karim-saleh/guardpay/model"
)

// Guardpay wires the transaction ledger, the guardian vaults and their
// supporting services together. One instance is constructed at process start
// and passed by reference to every caller; there is no hidden global state.
type Guardpay struct {
	accounts *AccountDirectory
	vaults   *VaultStore
	bus      *NotificationBus
	rates    *ExchangeRateService
	queue    *Queue // nil when Redis is not configured

	txnSeq  *model.Sequence
	locker  *lock.Registry
	histMu  sync.RWMutex
	history []*model.Transaction

	networkDelay time.Duration

	// processHook, when set, runs after the sender debit and before the
	// recipient credit. Tests use it to inject processing faults.
	processHook func(*model.Transaction) error
}

// NewGuardpay initializes a service instance from the loaded configuration.
// Redis is optional: without it the rate cache is skipped and webhook events
// are delivered directly instead of through the queue.
func NewGuardpay() (*Guardpay, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	var rateCache cache.Cache
	var queue *Queue
	if configuration.Redis.Dns != "" {
		c, err := cache.NewCache([]string{configuration.Redis.Dns})
		if err != nil {
			return nil, err
		}
		rateCache = c
		queue = NewQueue(configuration)
	}

	service := &Guardpay{
		accounts:     NewAccountDirectory(),
		vaults:       NewVaultStore(),
		bus:          NewNotificationBus(),
		rates:        NewExchangeRateService(rateCache),
		queue:        queue,
		txnSeq:       model.NewSequence("TXN", 1000),
		locker:       lock.NewRegistry(),
		networkDelay: configuration.NetworkDelay(),
	}

	if configuration.Notification.Webhook.Url != "" {
		service.bus.Subscribe(&WebhookListener{service: service})
	}

	return service, nil
}

// Accounts exposes the account directory.
func (g *Guardpay) Accounts() *AccountDirectory {
	return g.accounts
}

// Vaults exposes the vault store.
func (g *Guardpay) Vaults() *VaultStore {
	return g.vaults
}

// Bus exposes the notification bus for subscribing listeners.
func (g *Guardpay) Bus() *NotificationBus {
	return g.bus
}

// Rates exposes the exchange rate service.
func (g *Guardpay) Rates() *ExchangeRateService {
	return g.rates
}
