package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// ErrStaleWallet is returned when a wallet write is rejected because another
// writer advanced the version stamp after this caller read the row.
var ErrStaleWallet = errors.New("wallet version is stale")

// LedgerStore is the storage surface the balance engine runs on.
// SaveWalletWithTransaction persists the balance update and appends the
// justifying transaction row in one database transaction; the pair either
// commits together or not at all.
type LedgerStore interface {
	LoadWallet(id int64) (*Wallet, bool, error)
	SaveWalletWithTransaction(wallet *Wallet, expectedVersion int64, transaction *Transaction) (int64, error)
	SumTransactions(walletID int64, transactionType string, since time.Time) (decimal.Decimal, error)
}

type LedgerStoreImpl struct {
	db *sqlx.DB
}

func NewLedgerStore(db *sqlx.DB) LedgerStore {
	return &LedgerStoreImpl{db: db}
}

func (store *LedgerStoreImpl) LoadWallet(id int64) (*Wallet, bool, error) {
	return NewWalletRepository(store.db).GetOne(id)
}

func (store *LedgerStoreImpl) SaveWalletWithTransaction(wallet *Wallet, expectedVersion int64, transaction *Transaction) (int64, error) {
	// The balance write is conditioned on the version read at the start of the
	// operation. No row lock is held during the read-modify-write window;
	// a stale version simply makes the UPDATE match zero rows.

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	tx, err := store.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}

	defer tx.Rollback()

	query := `
		UPDATE wallets
		SET balance = $1, version = version + 1, updated_at = now()
		WHERE id = $2 AND version = $3`

	result, err := tx.ExecContext(ctx, query, wallet.Balance, wallet.ID, expectedVersion)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, ErrStaleWallet
	}

	var transactionID int64

	query = `
		INSERT INTO transactions (wallet_id, amount, type, description, reference_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err = tx.QueryRowContext(ctx, query,
		transaction.WalletID,
		transaction.Amount,
		transaction.Type,
		transaction.Description,
		transaction.ReferenceNumber,
	).Scan(&transactionID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return transactionID, nil
}

func (store *LedgerStoreImpl) SumTransactions(walletID int64, transactionType string, since time.Time) (decimal.Decimal, error) {
	return NewTransactionRepository(store.db).SumByTypeSince(walletID, transactionType, since)
}
