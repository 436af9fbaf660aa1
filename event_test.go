package guardpay

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karim-saleh/guardpay/model"
)

type recordingListener struct {
	completed chan model.Transaction
	failed    chan string
}

func newRecordingListener() *recordingListener {
	return &recordingListener{
		completed: make(chan model.Transaction, 8),
		failed:    make(chan string, 8),
	}
}

func (l *recordingListener) OnTransactionCompleted(transaction model.Transaction) {
	l.completed <- transaction
}

func (l *recordingListener) OnTransactionFailed(_ model.Transaction, reason string) {
	l.failed <- reason
}

type panickyListener struct{}

func (panickyListener) OnTransactionCompleted(model.Transaction)      { panic("boom") }
func (panickyListener) OnTransactionFailed(model.Transaction, string) { panic("boom") }

func TestBusDeliversCompleted(t *testing.T) {
	bus := NewNotificationBus()
	listener := newRecordingListener()
	bus.Subscribe(listener)

	bus.publishCompleted(model.Transaction{TransactionID: "TXN1001", Amount: decimal.NewFromInt(10)})

	select {
	case txn := <-listener.completed:
		assert.Equal(t, "TXN1001", txn.TransactionID)
	case <-time.After(time.Second):
		t.Fatal("listener not notified")
	}
}

func TestBusDeliversFailureReason(t *testing.T) {
	bus := NewNotificationBus()
	listener := newRecordingListener()
	bus.Subscribe(listener)

	bus.publishFailed(model.Transaction{TransactionID: "TXN1001"}, "insufficient balance")

	select {
	case reason := <-listener.failed:
		assert.Equal(t, "insufficient balance", reason)
	case <-time.After(time.Second):
		t.Fatal("listener not notified")
	}
}

func TestBusSurvivesPanickingListener(t *testing.T) {
	bus := NewNotificationBus()
	bus.Subscribe(panickyListener{})
	listener := newRecordingListener()
	bus.Subscribe(listener)

	bus.publishCompleted(model.Transaction{TransactionID: "TXN1001"})

	select {
	case txn := <-listener.completed:
		assert.Equal(t, "TXN1001", txn.TransactionID)
	case <-time.After(time.Second):
		t.Fatal("healthy listener starved by panicking one")
	}
}

func TestListenerGetsValueCopy(t *testing.T) {
	service := newTestService(t)
	listener := newRecordingListener()
	service.Bus().Subscribe(listener)

	sender := registerAccount(t, service, "Amina", 600, model.TierBasic)
	recipient := registerAccount(t, service, "Bilal", 0, model.TierBasic)

	txn, err := service.Transfer(context.Background(), sender.Address, recipient.Address, decimal.NewFromInt(100))
	require.NoError(t, err)

	select {
	case received := <-listener.completed:
		assert.Equal(t, txn.TransactionID, received.TransactionID)
		received.Amount = decimal.NewFromInt(999)
		stored, err := service.GetTransaction(txn.TransactionID)
		require.NoError(t, err)
		assert.True(t, stored.Amount.Equal(decimal.NewFromInt(100)))
	case <-time.After(time.Second):
		t.Fatal("listener not notified")
	}
}
