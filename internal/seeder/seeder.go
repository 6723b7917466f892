// Seeds demo accounts for local development. Each demo user gets one
// zero-balance wallet so the ledger endpoints can be exercised straight
// after startup. Seeding is idempotent: users that already exist are
// skipped.
package seeder

import (
	"context"
	"log/slog"
	"time"

	"github.com/cradoe/gopass"
	"github.com/tomiwa/kudi/internal/repository"
)

const defaultTimeout = 10 * time.Second

type Seeder struct {
	DB     repository.Database
	Logger *slog.Logger
}

func New(db repository.Database, logger *slog.Logger) *Seeder {
	return &Seeder{DB: db, Logger: logger}
}

type demoAccount struct {
	firstName  string
	lastName   string
	email      string
	password   string
	walletName string
}

var demoAccounts = []demoAccount{
	{"Ada", "Obi", "ada@example.com", "Password1!", "Main"},
	{"Tunde", "Bello", "tunde@example.com", "Password1!", "Main"},
}

func (s *Seeder) Run() error {
	for _, account := range demoAccounts {
		err := s.seedAccount(account)
		if err != nil {
			return err
		}
	}

	return nil
}

// seedAccount inserts the user and their wallet in one transaction so a
// half-seeded account can never be observed.
func (s *Seeder) seedAccount(account demoAccount) error {
	_, exists, err := s.DB.User().GetByEmail(account.email)
	if err != nil {
		return err
	}
	if exists {
		s.Logger.Info("seed user already exists, skipping", "email", account.email)
		return nil
	}

	hashedPassword, err := gopass.Hash(account.password)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	userID, err := s.DB.User().Insert(&repository.User{
		FirstName:      account.firstName,
		LastName:       account.lastName,
		Email:          account.email,
		HashedPassword: hashedPassword,
	}, tx)
	if err != nil {
		return err
	}

	_, err = s.DB.Wallet().Insert(&repository.Wallet{
		UserID: userID,
		Name:   account.walletName,
	}, tx)
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return err
	}

	s.Logger.Info("seeded demo account", "email", account.email)
	return nil
}
