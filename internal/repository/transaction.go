package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID              int64           `db:"id"`
	WalletID        int64           `db:"wallet_id"`
	Amount          decimal.Decimal `db:"amount"`
	Type            string          `db:"type"`
	Description     sql.NullString  `db:"description"`
	ReferenceNumber string          `db:"reference_number"`
	CreatedAt       time.Time       `db:"created_at"`
}

// define possible transaction types
// A transfer is recorded as a DEBIT on the source wallet and a CREDIT on the
// destination wallet, never as a single cross-wallet row.
const (
	TransactionTypeCredit = "CREDIT"
	TransactionTypeDebit  = "DEBIT"
)

// TransactionSum is one row of the per-type aggregation used by the
// transaction summary endpoint.
type TransactionSum struct {
	Type  string          `db:"type"`
	Total decimal.Decimal `db:"total"`
}

type TransactionRepository interface {
	GetAllByWalletID(walletID int64, limit, offset int) ([]Transaction, error)
	FindByReference(referenceNumber string) (*Transaction, bool, error)
	SumByTypeSince(walletID int64, transactionType string, since time.Time) (decimal.Decimal, error)
	SumsByType(walletID int64) ([]TransactionSum, error)
}

type TransactionRepositoryImpl struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) TransactionRepository {
	return &TransactionRepositoryImpl{db: db}
}

func (repo *TransactionRepositoryImpl) GetAllByWalletID(walletID int64, limit, offset int) ([]Transaction, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	transactions := []Transaction{}

	query := `
		SELECT * FROM transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	err := repo.db.SelectContext(ctx, &transactions, query, walletID, limit, offset)
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

func (repo *TransactionRepositoryImpl) FindByReference(referenceNumber string) (*Transaction, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var transaction Transaction

	query := `SELECT * FROM transactions WHERE reference_number = $1`

	err := repo.db.GetContext(ctx, &transaction, query, referenceNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &transaction, true, nil
}

func (repo *TransactionRepositoryImpl) SumByTypeSince(walletID int64, transactionType string, since time.Time) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var total decimal.Decimal

	query := `
		SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE wallet_id = $1 AND type = $2 AND created_at >= $3`

	err := repo.db.GetContext(ctx, &total, query, walletID, transactionType, since)
	if err != nil {
		return decimal.Zero, err
	}

	return total, nil
}

func (repo *TransactionRepositoryImpl) SumsByType(walletID int64) ([]TransactionSum, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	sums := []TransactionSum{}

	query := `
		SELECT type, COALESCE(SUM(amount), 0) AS total FROM transactions
		WHERE wallet_id = $1
		GROUP BY type
		ORDER BY type`

	err := repo.db.SelectContext(ctx, &sums, query, walletID)
	if err != nil {
		return nil, err
	}

	return sums, nil
}
