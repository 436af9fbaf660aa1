package guardpay

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/karim-saleh/guardpay/internal/apierror"
	"github.com/karim-saleh/guardpay/model"
)

var tracer = otel.Tracer("guardpay.ledger")

func logAndRecordError(span trace.Span, msg string, err error) error {
	span.RecordError(err)
	logrus.Error(msg, err)
	return err
}

// Transfer moves amount from sender to recipient as one logical operation.
// Validation failures surface as typed errors before any transaction record
// exists. Once the pending record is allocated, every outcome resolves it to
// a terminal status: cancellation during the settlement delay and processing
// faults both roll it to FAILED, and the sender debit is never left applied
// without a terminal record.
func (g *Guardpay) Transfer(ctx context.Context, senderAddress, recipientAddress string, amount decimal.Decimal) (*model.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Recording transfer")
	defer span.End()

	sender, fee, err := g.validateTransfer(senderAddress, recipientAddress, amount)
	if err != nil {
		return nil, logAndRecordError(span, "transfer validation failed: ", err)
	}
	total := amount.Add(fee)

	transactionID, seq := g.txnSeq.Next()
	transaction := &model.Transaction{
		Seq:              seq,
		TransactionID:    transactionID,
		SenderAddress:    senderAddress,
		RecipientAddress: recipientAddress,
		Amount:           amount,
		Fee:              fee,
		Status:           model.StatusPending,
		CreatedAt:        time.Now(),
	}

	// Settlement latency is a real suspension point: the caller may cancel
	// or time out here, before any balance has moved.
	if err := g.awaitSettlement(ctx); err != nil {
		g.failTransaction(transaction, err.Error())
		return nil, logAndRecordError(span, "transfer aborted: ",
			apierror.Newf(apierror.ErrTransferAborted, "transfer %s aborted: %v", transactionID, err))
	}

	unlock := g.locker.Lock(senderAddress, recipientAddress)
	defer unlock()

	// The balance may have moved while we waited; this check and the debit
	// below are one exclusive region per account.
	if sender.Balance.LessThan(total) {
		insufficient := apierror.Newf(apierror.ErrInsufficientBalance,
			"insufficient balance. required: %s, available: %s", total.StringFixed(2), sender.Balance.StringFixed(2))
		g.failTransaction(transaction, insufficient.Message)
		return nil, logAndRecordError(span, "transfer failed: ", insufficient)
	}

	sender.Balance = sender.Balance.Sub(total)

	if hook := g.processHook; hook != nil {
		if hookErr := hook(transaction); hookErr != nil {
			// Roll the debit back so the failure leaves no balance applied.
			sender.Balance = sender.Balance.Add(total)
			g.failTransaction(transaction, hookErr.Error())
			return nil, logAndRecordError(span, "transfer processing fault: ",
				apierror.Newf(apierror.ErrTransferAborted, "transfer %s failed: %v", transactionID, hookErr))
		}
	}

	// The fee is retained by the system; only the amount is forwarded.
	if recipient, ok := g.accounts.account(recipientAddress); ok {
		recipient.Balance = recipient.Balance.Add(amount)
	} else {
		logrus.Infof("recipient %s not in directory, settled as external transfer", recipientAddress)
	}

	transaction.Status = model.StatusSuccess
	g.appendHistory(transaction)
	g.bus.publishCompleted(*transaction)

	return transaction, nil
}

// validateTransfer runs the ordered pre-flight checks. Each failure is a
// distinct typed error and produces no transaction record.
func (g *Guardpay) validateTransfer(senderAddress, recipientAddress string, amount decimal.Decimal) (*model.Account, decimal.Decimal, error) {
	if !model.ValidAddress(recipientAddress) {
		return nil, decimal.Zero, apierror.Newf(apierror.ErrInvalidAddress, "invalid recipient address: %s", recipientAddress)
	}

	sender, ok := g.accounts.account(senderAddress)
	if !ok {
		return nil, decimal.Zero, apierror.Newf(apierror.ErrAccountNotFound, "no account with address %s", senderAddress)
	}

	if !amount.IsPositive() {
		return nil, decimal.Zero, apierror.Newf(apierror.ErrInvalidInput, "transfer amount must be positive")
	}

	limit := model.TransactionLimit(sender.Tier)
	if amount.GreaterThan(limit) {
		return nil, decimal.Zero, apierror.Newf(apierror.ErrLimitExceeded,
			"amount %s exceeds limit of %s", amount.StringFixed(2), limit.StringFixed(2))
	}

	fee := model.TransactionFee(sender.Tier, amount)
	total := amount.Add(fee)

	unlock := g.locker.Lock(senderAddress)
	available := sender.Balance
	unlock()
	if available.LessThan(total) {
		return nil, decimal.Zero, apierror.Newf(apierror.ErrInsufficientBalance,
			"insufficient balance. required: %s, available: %s", total.StringFixed(2), available.StringFixed(2))
	}

	return sender, fee, nil
}

// awaitSettlement simulates network settlement latency. It honors
// cancellation through the context.
func (g *Guardpay) awaitSettlement(ctx context.Context) error {
	if g.networkDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(g.networkDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// failTransaction resolves a pending transaction to FAILED, records it and
// reports it. No balance change accompanies this path.
func (g *Guardpay) failTransaction(transaction *model.Transaction, reason string) {
	transaction.Status = model.StatusFailed
	transaction.FailureReason = reason
	g.appendHistory(transaction)
	g.bus.publishFailed(*transaction, reason)
	logrus.Warnf("transaction %s failed: %s", transaction.TransactionID, reason)
}

func (g *Guardpay) appendHistory(transaction *model.Transaction) {
	g.histMu.Lock()
	g.history = append(g.history, transaction)
	g.histMu.Unlock()
}

// History returns an immutable snapshot of all recorded transactions, newest
// first. Records with identical timestamps keep their insertion order.
// Reading never blocks writers beyond the copy itself.
func (g *Guardpay) History() []model.Transaction {
	g.histMu.RLock()
	snapshot := make([]model.Transaction, len(g.history))
	for i, transaction := range g.history {
		snapshot[i] = *transaction
	}
	g.histMu.RUnlock()

	sort.SliceStable(snapshot, func(i, j int) bool {
		if !snapshot[i].CreatedAt.Equal(snapshot[j].CreatedAt) {
			return snapshot[i].CreatedAt.After(snapshot[j].CreatedAt)
		}
		return snapshot[i].Seq < snapshot[j].Seq
	})
	return snapshot
}

// GetTransaction finds one transaction by id.
func (g *Guardpay) GetTransaction(transactionID string) (model.Transaction, error) {
	g.histMu.RLock()
	defer g.histMu.RUnlock()
	for _, transaction := range g.history {
		if transaction.TransactionID == transactionID {
			return *transaction, nil
		}
	}
	return model.Transaction{}, apierror.Newf(apierror.ErrNotFound, "transaction %s not found", transactionID)
}

// TransactionsFor returns the slice of history involving an address, newest
// first.
func (g *Guardpay) TransactionsFor(address string) []model.Transaction {
	all := g.History()
	out := make([]model.Transaction, 0)
	for _, transaction := range all {
		if transaction.SenderAddress == address || transaction.RecipientAddress == address {
			out = append(out, transaction)
		}
	}
	return out
}
