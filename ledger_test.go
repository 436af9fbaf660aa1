package guardpay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karim-saleh/guardpay/config"
	"github.com/karim-saleh/guardpay/internal/apierror"
	"github.com/karim-saleh/guardpay/model"
)

func newTestService(t *testing.T) *Guardpay {
	t.Helper()
	config.MockConfig(&config.Configuration{})
	service, err := NewGuardpay()
	require.NoError(t, err)
	return service
}

func registerAccount(t *testing.T, service *Guardpay, name string, balance float64, tier model.Tier) model.Account {
	t.Helper()
	account, err := service.Accounts().Register(model.Account{
		Address: model.GenerateWalletAddress(),
		Name:    name,
		Balance: decimal.NewFromFloat(balance),
		Tier:    tier,
	})
	require.NoError(t, err)
	return account
}

func TestTransferBasicTier(t *testing.T) {
	service := newTestService(t)
	sender := registerAccount(t, service, "Amina", 600, model.TierBasic)
	recipient := registerAccount(t, service, "Bilal", 0, model.TierBasic)

	txn, err := service.Transfer(context.Background(), sender.Address, recipient.Address, decimal.NewFromInt(500))
	require.NoError(t, err)

	assert.Contains(t, txn.TransactionID, "TXN")
	assert.Equal(t, model.StatusSuccess, txn.Status)
	assert.True(t, txn.Fee.Equal(decimal.NewFromFloat(5.00)), "fee was %s", txn.Fee)

	updatedSender, err := service.GetAccount(sender.Address)
	require.NoError(t, err)
	assert.True(t, updatedSender.Balance.Equal(decimal.NewFromFloat(95.00)), "sender balance was %s", updatedSender.Balance)

	updatedRecipient, err := service.GetAccount(recipient.Address)
	require.NoError(t, err)
	assert.True(t, updatedRecipient.Balance.Equal(decimal.NewFromInt(500)))
}

func TestTransferPremiumTierFee(t *testing.T) {
	service := newTestService(t)
	sender := registerAccount(t, service, "Premium", 20000, model.TierPremium)
	recipient := registerAccount(t, service, "Recipient", 0, model.TierBasic)

	txn, err := service.Transfer(context.Background(), sender.Address, recipient.Address, decimal.NewFromInt(1000))
	require.NoError(t, err)

	assert.True(t, txn.Fee.Equal(decimal.NewFromFloat(5.00)), "fee was %s", txn.Fee)
}

func TestTransferLimitExceeded(t *testing.T) {
	service := newTestService(t)
	sender := registerAccount(t, service, "Amina", 10000, model.TierBasic)
	recipient := registerAccount(t, service, "Bilal", 0, model.TierBasic)

	_, err := service.Transfer(context.Background(), sender.Address, recipient.Address, decimal.NewFromInt(600))
	require.Error(t, err)
	assert.Equal(t, apierror.ErrLimitExceeded, apierror.CodeOf(err))

	// Validation failures leave no transaction record behind.
	assert.Empty(t, service.History())

	unchanged, err := service.GetAccount(sender.Address)
	require.NoError(t, err)
	assert.True(t, unchanged.Balance.Equal(decimal.NewFromInt(10000)))
}

func TestTransferInvalidRecipient(t *testing.T) {
	service := newTestService(t)
	sender := registerAccount(t, service, "Amina", 600, model.TierBasic)

	_, err := service.Transfer(context.Background(), sender.Address, "short", decimal.NewFromInt(10))
	require.Error(t, err)
	assert.Equal(t, apierror.ErrInvalidAddress, apierror.CodeOf(err))
	assert.Empty(t, service.History())
}

func TestTransferUnknownSender(t *testing.T) {
	service := newTestService(t)

	_, err := service.Transfer(context.Background(), model.GenerateWalletAddress(), model.GenerateWalletAddress(), decimal.NewFromInt(10))
	require.Error(t, err)
	assert.Equal(t, apierror.ErrAccountNotFound, apierror.CodeOf(err))
}

func TestTransferInsufficientBalanceIncludesFee(t *testing.T) {
	service := newTestService(t)
	// 500 covers the amount but not the 1% fee on top.
	sender := registerAccount(t, service, "Amina", 500, model.TierBasic)
	recipient := registerAccount(t, service, "Bilal", 0, model.TierBasic)

	_, err := service.Transfer(context.Background(), sender.Address, recipient.Address, decimal.NewFromInt(500))
	require.Error(t, err)
	assert.Equal(t, apierror.ErrInsufficientBalance, apierror.CodeOf(err))
	assert.Empty(t, service.History())
}

func TestTransferToExternalAddress(t *testing.T) {
	service := newTestService(t)
	sender := registerAccount(t, service, "Amina", 600, model.TierBasic)
	external := model.GenerateWalletAddress()

	txn, err := service.Transfer(context.Background(), sender.Address, external, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, txn.Status)

	updatedSender, err := service.GetAccount(sender.Address)
	require.NoError(t, err)
	assert.True(t, updatedSender.Balance.Equal(decimal.NewFromInt(499)), "sender balance was %s", updatedSender.Balance)
}

func TestTransferCanceledContext(t *testing.T) {
	service := newTestService(t)
	sender := registerAccount(t, service, "Amina", 600, model.TierBasic)
	recipient := registerAccount(t, service, "Bilal", 0, model.TierBasic)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Transfer(ctx, sender.Address, recipient.Address, decimal.NewFromInt(100))
	require.Error(t, err)
	assert.Equal(t, apierror.ErrTransferAborted, apierror.CodeOf(err))

	history := service.History()
	require.Len(t, history, 1)
	assert.Equal(t, model.StatusFailed, history[0].Status)
	assert.NotEmpty(t, history[0].FailureReason)

	unchanged, err := service.GetAccount(sender.Address)
	require.NoError(t, err)
	assert.True(t, unchanged.Balance.Equal(decimal.NewFromInt(600)))
}

func TestTransferProcessingFaultRefundsSender(t *testing.T) {
	service := newTestService(t)
	sender := registerAccount(t, service, "Amina", 600, model.TierBasic)
	recipient := registerAccount(t, service, "Bilal", 0, model.TierBasic)

	service.processHook = func(*model.Transaction) error {
		return errors.New("settlement node unavailable")
	}

	_, err := service.Transfer(context.Background(), sender.Address, recipient.Address, decimal.NewFromInt(100))
	require.Error(t, err)
	assert.Equal(t, apierror.ErrTransferAborted, apierror.CodeOf(err))

	refunded, err := service.GetAccount(sender.Address)
	require.NoError(t, err)
	assert.True(t, refunded.Balance.Equal(decimal.NewFromInt(600)), "sender balance was %s", refunded.Balance)

	untouched, err := service.GetAccount(recipient.Address)
	require.NoError(t, err)
	assert.True(t, untouched.Balance.IsZero())

	history := service.History()
	require.Len(t, history, 1)
	assert.Equal(t, model.StatusFailed, history[0].Status)
}

func TestHistoryNewestFirst(t *testing.T) {
	service := newTestService(t)
	base := time.Now()

	for i, offset := range []time.Duration{0, time.Second, 2 * time.Second} {
		id, seq := service.txnSeq.Next()
		service.appendHistory(&model.Transaction{
			Seq:           seq,
			TransactionID: id,
			Amount:        decimal.NewFromInt(int64(i + 1)),
			Status:        model.StatusSuccess,
			CreatedAt:     base.Add(offset),
		})
	}

	history := service.History()
	require.Len(t, history, 3)
	assert.True(t, history[0].Amount.Equal(decimal.NewFromInt(3)))
	assert.True(t, history[1].Amount.Equal(decimal.NewFromInt(2)))
	assert.True(t, history[2].Amount.Equal(decimal.NewFromInt(1)))
}

func TestHistoryEqualTimestampsKeepInsertionOrder(t *testing.T) {
	service := newTestService(t)
	now := time.Now()

	for i := 0; i < 3; i++ {
		id, seq := service.txnSeq.Next()
		service.appendHistory(&model.Transaction{
			Seq:           seq,
			TransactionID: id,
			Amount:        decimal.NewFromInt(int64(i + 1)),
			Status:        model.StatusSuccess,
			CreatedAt:     now,
		})
	}

	history := service.History()
	require.Len(t, history, 3)
	assert.True(t, history[0].Amount.Equal(decimal.NewFromInt(1)))
	assert.True(t, history[1].Amount.Equal(decimal.NewFromInt(2)))
	assert.True(t, history[2].Amount.Equal(decimal.NewFromInt(3)))
}

func TestGetTransaction(t *testing.T) {
	service := newTestService(t)
	sender := registerAccount(t, service, "Amina", 600, model.TierBasic)
	recipient := registerAccount(t, service, "Bilal", 0, model.TierBasic)

	txn, err := service.Transfer(context.Background(), sender.Address, recipient.Address, decimal.NewFromInt(100))
	require.NoError(t, err)

	found, err := service.GetTransaction(txn.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, txn.TransactionID, found.TransactionID)

	_, err = service.GetTransaction("TXN999999")
	require.Error(t, err)
	assert.Equal(t, apierror.ErrNotFound, apierror.CodeOf(err))
}

func TestConcurrentTransfersSerializePerAccount(t *testing.T) {
	service := newTestService(t)
	sender := registerAccount(t, service, "Amina", 1000, model.TierBasic)
	recipient := registerAccount(t, service, "Bilal", 0, model.TierBasic)

	const workers = 10
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := service.Transfer(context.Background(), sender.Address, recipient.Address, decimal.NewFromInt(50))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Each transfer costs 50 plus the 0.50 fee.
	final, err := service.GetAccount(sender.Address)
	require.NoError(t, err)
	assert.True(t, final.Balance.Equal(decimal.NewFromFloat(495)), "sender balance was %s", final.Balance)

	received, err := service.GetAccount(recipient.Address)
	require.NoError(t, err)
	assert.True(t, received.Balance.Equal(decimal.NewFromInt(500)))
	assert.Len(t, service.History(), workers)
}

func TestListAccountsDuringTransfers(t *testing.T) {
	service := newTestService(t)
	sender := registerAccount(t, service, "Amina", 1000, model.TierBasic)
	recipient := registerAccount(t, service, "Bilal", 0, model.TierBasic)

	const transfers = 10
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < transfers; i++ {
			_, err := service.Transfer(context.Background(), sender.Address, recipient.Address, decimal.NewFromInt(50))
			assert.NoError(t, err)
		}
	}()

	// Listing runs against the same accounts the transfers are debiting.
	// Every snapshot must land between whole transfers: each completed
	// transfer moves 50 and retains the 0.50 fee, so the directory total
	// only ever reads 1000 minus 0.50 per completed transfer.
	running := true
	for running {
		select {
		case <-done:
			running = false
		default:
		}
		total := decimal.Zero
		for _, account := range service.GetAllAccounts() {
			total = total.Add(account.Balance)
		}
		steps := decimal.NewFromInt(1000).Sub(total).Div(decimal.NewFromFloat(0.5))
		require.True(t, steps.IsInteger(), "observed partial transfer, total was %s", total)
		require.True(t, steps.GreaterThanOrEqual(decimal.Zero))
		require.True(t, steps.LessThanOrEqual(decimal.NewFromInt(transfers)))
	}

	final, err := service.GetAccount(sender.Address)
	require.NoError(t, err)
	assert.True(t, final.Balance.Equal(decimal.NewFromFloat(495)), "sender balance was %s", final.Balance)
}
