package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tomiwa/kudi/internal/repository"
)

// LimitCaps holds the four rolling-window ceilings. All values are loaded
// once at process start and treated as immutable afterwards.
type LimitCaps struct {
	DailyCredit   decimal.Decimal
	MonthlyCredit decimal.Decimal
	DailyDebit    decimal.Decimal
	MonthlyDebit  decimal.Decimal
}

// LimitPolicy decides whether a candidate amount, on top of what the wallet
// has already moved today and this month, fits under the configured caps.
// It only reads and sums; it is safe to call before any write is attempted.
type LimitPolicy struct {
	Store repository.LedgerStore
	Caps  LimitCaps

	// Now is swappable for tests. Defaults to time.Now.
	Now func() time.Time
}

func NewLimitPolicy(store repository.LedgerStore, caps LimitCaps) *LimitPolicy {
	return &LimitPolicy{
		Store: store,
		Caps:  caps,
		Now:   time.Now,
	}
}

// Check returns an empty reason when the amount is admitted. A non-empty
// reason names the first window breached; the daily window is always
// evaluated before the monthly one, so daily wins ties.
func (p *LimitPolicy) Check(walletID int64, transactionType string, amount decimal.Decimal) (string, error) {
	now := p.Now()

	dailyCap, monthlyCap := p.capsFor(transactionType)

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	dailyTotal, err := p.Store.SumTransactions(walletID, transactionType, startOfDay)
	if err != nil {
		return "", err
	}

	if dailyTotal.Add(amount).GreaterThan(dailyCap) {
		return fmt.Sprintf("%s daily limit exceeded", transactionType), nil
	}

	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	monthlyTotal, err := p.Store.SumTransactions(walletID, transactionType, startOfMonth)
	if err != nil {
		return "", err
	}

	if monthlyTotal.Add(amount).GreaterThan(monthlyCap) {
		return fmt.Sprintf("%s monthly limit exceeded", transactionType), nil
	}

	return "", nil
}

func (p *LimitPolicy) capsFor(transactionType string) (daily, monthly decimal.Decimal) {
	if transactionType == repository.TransactionTypeDebit {
		return p.Caps.DailyDebit, p.Caps.MonthlyDebit
	}
	return p.Caps.DailyCredit, p.Caps.MonthlyCredit
}
