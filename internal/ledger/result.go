package ledger

// Error codes carried by Failure results. The engine never panics for a
// business-rule violation; every rejected operation maps to exactly one of
// these.
const (
	CodeInvalidAmount     = "INVALID_AMOUNT"
	CodeWalletNotFound    = "WALLET_NOT_FOUND"
	CodeLimitExceeded     = "LIMIT_EXCEEDED"
	CodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	CodeInvalidTransfer   = "INVALID_TRANSFER"
	CodeConflict          = "CONFLICT"
	CodeUnknownError      = "UNKNOWN_ERROR"
)

// OperationResult is a closed variant: exactly one of Success, Failure or
// Balance comes back from every engine call. Callers type-switch on it rather
// than assuming success.
type OperationResult interface {
	operationResult()
}

// Success reports a committed credit or debit.
type Success struct {
	TransactionID int64
	Message       string
}

// Failure reports a rejected operation. Reason is safe to show to the caller.
type Failure struct {
	Code   string
	Reason string
}

// Balance reports a read-only balance lookup, formatted to two decimal
// places.
type Balance struct {
	WalletID int64
	Balance  string
	Message  string
}

func (Success) operationResult() {}
func (Failure) operationResult() {}
func (Balance) operationResult() {}
