// Package ledger implements the balance-mutation engine: credit, debit and
// transfer against versioned wallets, with configurable amount limits.
// Every operation returns an OperationResult value; infrastructure failures
// are folded into UNKNOWN_ERROR rather than escaping as panics.
package ledger

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tomiwa/kudi/internal/cache"
	"github.com/tomiwa/kudi/internal/repository"
	"github.com/tomiwa/kudi/internal/stream"
)

// compensationAttempts bounds the retry loop for a transfer's compensating
// credit. Losing a compensation silently is worse than a brief retry loop,
// but we will not spin forever either; past this we escalate.
const compensationAttempts = 3

type Engine struct {
	Store  repository.LedgerStore
	Limits *LimitPolicy

	// Per-operation ceilings, independent of the rolling daily/monthly caps.
	// Both checks must pass.
	MaxCredit decimal.Decimal
	MaxDebit  decimal.Decimal

	Logger *slog.Logger

	// Cache and Stream are optional; the engine works without either.
	Cache  *cache.Cache
	Stream *stream.KafkaStream
}

func New(engine *Engine) *Engine {
	return &Engine{
		Store:     engine.Store,
		Limits:    engine.Limits,
		MaxCredit: engine.MaxCredit,
		MaxDebit:  engine.MaxDebit,
		Logger:    engine.Logger,
		Cache:     engine.Cache,
		Stream:    engine.Stream,
	}
}

// TransactionEvent is published to the transaction.completed topic after
// every committed credit or debit.
type TransactionEvent struct {
	TransactionID int64  `json:"transaction_id"`
	WalletID      int64  `json:"wallet_id"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	Description   string `json:"description"`
}

// ReconciliationAlert is published to the transfer.reconciliation topic when
// a transfer's compensating credit could not be applied. The source wallet is
// short by Amount until an operator intervenes.
type ReconciliationAlert struct {
	FromWalletID int64  `json:"from_wallet_id"`
	ToWalletID   int64  `json:"to_wallet_id"`
	Amount       string `json:"amount"`
	Reason       string `json:"reason"`
}

func (e *Engine) Credit(walletID int64, amount decimal.Decimal, description string) OperationResult {
	e.Logger.Info("credit request", "wallet_id", walletID, "amount", amount.String())

	if amount.Sign() <= 0 {
		return Failure{Code: CodeInvalidAmount, Reason: "amount must be greater than zero"}
	}

	if amount.GreaterThan(e.MaxCredit) {
		return Failure{Code: CodeLimitExceeded, Reason: "amount exceeds the maximum credit per operation"}
	}

	wallet, found, err := e.Store.LoadWallet(walletID)
	if err != nil {
		return e.unknownFailure("credit", walletID, err)
	}
	if !found {
		return Failure{Code: CodeWalletNotFound, Reason: fmt.Sprintf("wallet %d not found", walletID)}
	}

	reason, err := e.Limits.Check(walletID, repository.TransactionTypeCredit, amount)
	if err != nil {
		return e.unknownFailure("credit", walletID, err)
	}
	if reason != "" {
		e.Logger.Warn("credit rejected by limit policy", "wallet_id", walletID, "reason", reason)
		return Failure{Code: CodeLimitExceeded, Reason: reason}
	}

	return e.apply(wallet, wallet.Balance.Add(amount), repository.TransactionTypeCredit, amount, description)
}

func (e *Engine) Debit(walletID int64, amount decimal.Decimal, description string) OperationResult {
	e.Logger.Info("debit request", "wallet_id", walletID, "amount", amount.String())

	if amount.Sign() <= 0 {
		return Failure{Code: CodeInvalidAmount, Reason: "amount must be greater than zero"}
	}

	wallet, found, err := e.Store.LoadWallet(walletID)
	if err != nil {
		return e.unknownFailure("debit", walletID, err)
	}
	if !found {
		return Failure{Code: CodeWalletNotFound, Reason: fmt.Sprintf("wallet %d not found", walletID)}
	}

	if amount.GreaterThan(e.MaxDebit) {
		return Failure{Code: CodeLimitExceeded, Reason: "amount exceeds the maximum debit per operation"}
	}

	// The insufficient-funds check runs on the loaded balance before the
	// limit policy gets a say, so the most specific error wins when both
	// would reject.
	if wallet.Balance.LessThan(amount) {
		e.Logger.Warn("debit rejected", "wallet_id", walletID, "reason", "insufficient funds")
		return Failure{Code: CodeInsufficientFunds, Reason: "insufficient funds"}
	}

	reason, err := e.Limits.Check(walletID, repository.TransactionTypeDebit, amount)
	if err != nil {
		return e.unknownFailure("debit", walletID, err)
	}
	if reason != "" {
		e.Logger.Warn("debit rejected by limit policy", "wallet_id", walletID, "reason", reason)
		return Failure{Code: CodeLimitExceeded, Reason: reason}
	}

	return e.apply(wallet, wallet.Balance.Sub(amount), repository.TransactionTypeDebit, amount, description)
}

// Transfer debits the source wallet, then credits the destination. The two
// legs are separate units of work, not one atomic transaction; when the
// credit leg fails, a compensating credit restores the source wallet.
func (e *Engine) Transfer(fromWalletID, toWalletID int64, amount decimal.Decimal, description string) OperationResult {
	if fromWalletID == toWalletID {
		return Failure{Code: CodeInvalidTransfer, Reason: "cannot transfer to the same wallet"}
	}

	if amount.Sign() <= 0 {
		return Failure{Code: CodeInvalidAmount, Reason: "amount must be greater than zero"}
	}

	debitResult := e.Debit(fromWalletID, amount, description)
	if failure, ok := debitResult.(Failure); ok {
		// Nothing was mutated; the debit failure stands on its own.
		return failure
	}

	creditResult := e.Credit(toWalletID, amount, description)
	failure, ok := creditResult.(Failure)
	if !ok {
		success := creditResult.(Success)
		return Success{TransactionID: success.TransactionID, Message: "amount transferred successfully"}
	}

	// The debit has committed, so the source wallet must be made whole
	// before the credit failure is surfaced.
	e.compensate(fromWalletID, toWalletID, amount, failure)

	return failure
}

func (e *Engine) compensate(fromWalletID, toWalletID int64, amount decimal.Decimal, cause Failure) {
	var lastFailure Failure

	for attempt := 1; attempt <= compensationAttempts; attempt++ {
		result := e.Credit(fromWalletID, amount, "rollback of failed transfer")

		compensationFailure, ok := result.(Failure)
		if !ok {
			e.Logger.Info("transfer compensation applied",
				"from_wallet_id", fromWalletID, "amount", amount.String(), "attempt", attempt)
			return
		}

		lastFailure = compensationFailure
		if compensationFailure.Code != CodeConflict {
			break
		}
	}

	// Money is missing from the source wallet and the engine cannot put it
	// back. This must reach an operator, not disappear into a return value.
	e.Logger.Error("transfer compensation failed, reconciliation required",
		"from_wallet_id", fromWalletID,
		"to_wallet_id", toWalletID,
		"amount", amount.String(),
		"credit_failure", cause.Reason,
		"compensation_failure", lastFailure.Reason,
	)

	e.publishReconciliation(ReconciliationAlert{
		FromWalletID: fromWalletID,
		ToWalletID:   toWalletID,
		Amount:       amount.StringFixed(2),
		Reason:       fmt.Sprintf("credit failed (%s); compensation failed (%s)", cause.Reason, lastFailure.Reason),
	})
}

func (e *Engine) GetBalance(walletID int64) OperationResult {
	if e.Cache != nil {
		cached, err := e.Cache.Get(cache.WalletBalanceKey(walletID))
		if err == nil && cached != "" {
			return Balance{WalletID: walletID, Balance: cached, Message: "balance retrieved successfully"}
		}
	}

	wallet, found, err := e.Store.LoadWallet(walletID)
	if err != nil {
		return e.unknownFailure("balance", walletID, err)
	}
	if !found {
		return Failure{Code: CodeWalletNotFound, Reason: fmt.Sprintf("wallet %d not found", walletID)}
	}

	formatted := wallet.Balance.StringFixed(2)

	if e.Cache != nil {
		if err := e.Cache.Set(cache.WalletBalanceKey(walletID), formatted, cache.BalanceTTL); err != nil {
			e.Logger.Warn("failed to cache wallet balance", "wallet_id", walletID, "error", err)
		}
	}

	return Balance{WalletID: walletID, Balance: formatted, Message: "balance retrieved successfully"}
}

// apply persists the new balance and the justifying transaction row as one
// unit of work, then emits the side effects that never influence the result.
func (e *Engine) apply(wallet *repository.Wallet, newBalance decimal.Decimal, transactionType string, amount decimal.Decimal, description string) OperationResult {
	updated := *wallet
	updated.Balance = newBalance

	transaction := &repository.Transaction{
		WalletID:        wallet.ID,
		Amount:          amount,
		Type:            transactionType,
		Description:     sql.NullString{String: description, Valid: description != ""},
		ReferenceNumber: uuid.NewString(),
	}

	transactionID, err := e.Store.SaveWalletWithTransaction(&updated, wallet.Version, transaction)
	if err != nil {
		if errors.Is(err, repository.ErrStaleWallet) {
			e.Logger.Warn("concurrent wallet update detected", "wallet_id", wallet.ID)
			return Failure{Code: CodeConflict, Reason: "wallet was updated concurrently, please retry"}
		}
		return e.unknownFailure(transactionType, wallet.ID, err)
	}

	if e.Cache != nil {
		if err := e.Cache.Delete(cache.WalletBalanceKey(wallet.ID)); err != nil {
			e.Logger.Warn("failed to invalidate balance cache", "wallet_id", wallet.ID, "error", err)
		}
	}

	e.publishCompleted(TransactionEvent{
		TransactionID: transactionID,
		WalletID:      wallet.ID,
		Type:          transactionType,
		Amount:        amount.StringFixed(2),
		Description:   description,
	})

	e.Logger.Info("transaction committed",
		"wallet_id", wallet.ID, "transaction_id", transactionID, "type", transactionType, "new_balance", newBalance.StringFixed(2))

	return Success{TransactionID: transactionID, Message: "new balance = " + newBalance.StringFixed(2)}
}

func (e *Engine) unknownFailure(operation string, walletID int64, err error) Failure {
	e.Logger.Error("unexpected "+operation+" error", "wallet_id", walletID, "error", err)
	return Failure{Code: CodeUnknownError, Reason: "unexpected error: " + err.Error()}
}

func (e *Engine) publishCompleted(event TransactionEvent) {
	if e.Stream == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		e.Logger.Warn("failed to encode transaction event", "error", err)
		return
	}

	if err := e.Stream.ProduceMessage(stream.TransactionCompletedTopic, string(payload)); err != nil {
		e.Logger.Warn("failed to publish transaction event", "transaction_id", event.TransactionID, "error", err)
	}
}

func (e *Engine) publishReconciliation(alert ReconciliationAlert) {
	if e.Stream == nil {
		return
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		e.Logger.Error("failed to encode reconciliation alert", "error", err)
		return
	}

	if err := e.Stream.ProduceMessage(stream.TransferReconciliationTopic, string(payload)); err != nil {
		e.Logger.Error("failed to publish reconciliation alert",
			"from_wallet_id", alert.FromWalletID, "error", err)
	}
}
