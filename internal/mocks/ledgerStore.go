package mocks

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/tomiwa/kudi/internal/repository"
)

type MockLedgerStore struct {
	mock.Mock
}

func (m *MockLedgerStore) LoadWallet(id int64) (*repository.Wallet, bool, error) {
	args := m.Called(id)

	wallet, _ := args.Get(0).(*repository.Wallet)
	return wallet, args.Bool(1), args.Error(2)
}

func (m *MockLedgerStore) SaveWalletWithTransaction(wallet *repository.Wallet, expectedVersion int64, transaction *repository.Transaction) (int64, error) {
	args := m.Called(wallet, expectedVersion, transaction)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerStore) SumTransactions(walletID int64, transactionType string, since time.Time) (decimal.Decimal, error) {
	args := m.Called(walletID, transactionType, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
