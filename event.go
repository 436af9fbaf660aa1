package guardpay

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/karim-saleh/guardpay/model"
)

// TransactionListener receives terminal transaction outcomes. Callbacks run
// on their own goroutines and get value copies, so a listener can neither
// block the ledger nor mutate its records.
type TransactionListener interface {
	OnTransactionCompleted(transaction model.Transaction)
	OnTransactionFailed(transaction model.Transaction, reason string)
}

// NotificationBus fans transaction outcomes out to registered listeners.
type NotificationBus struct {
	mu        sync.RWMutex
	listeners []TransactionListener
}

func NewNotificationBus() *NotificationBus {
	return &NotificationBus{}
}

// Subscribe registers a listener for all subsequent transaction outcomes.
func (b *NotificationBus) Subscribe(listener TransactionListener) {
	b.mu.Lock()
	b.listeners = append(b.listeners, listener)
	b.mu.Unlock()
}

func (b *NotificationBus) publishCompleted(transaction model.Transaction) {
	b.mu.RLock()
	listeners := make([]TransactionListener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	for _, listener := range listeners {
		go func(l TransactionListener) {
			defer recoverListener(transaction.TransactionID)
			l.OnTransactionCompleted(transaction)
		}(listener)
	}
}

func (b *NotificationBus) publishFailed(transaction model.Transaction, reason string) {
	b.mu.RLock()
	listeners := make([]TransactionListener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	for _, listener := range listeners {
		go func(l TransactionListener) {
			defer recoverListener(transaction.TransactionID)
			l.OnTransactionFailed(transaction, reason)
		}(listener)
	}
}

func recoverListener(transactionID string) {
	if r := recover(); r != nil {
		logrus.Errorf("listener panicked handling transaction %s: %v", transactionID, r)
	}
}
