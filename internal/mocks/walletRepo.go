package mocks

import (
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
	"github.com/tomiwa/kudi/internal/repository"
)

type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) Insert(wallet *repository.Wallet, tx *sqlx.Tx) (int64, error) {
	args := m.Called(wallet, tx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletRepo) GetOne(id int64) (*repository.Wallet, bool, error) {
	args := m.Called(id)

	wallet, _ := args.Get(0).(*repository.Wallet)
	return wallet, args.Bool(1), args.Error(2)
}

func (m *MockWalletRepo) GetAllByUserID(userID int64) ([]repository.Wallet, error) {
	args := m.Called(userID)

	wallets, _ := args.Get(0).([]repository.Wallet)
	return wallets, args.Error(1)
}
