package handler

import (
	"net/http"
	"time"

	"github.com/tomiwa/kudi/internal/context"
	"github.com/tomiwa/kudi/internal/errHandler"
	"github.com/tomiwa/kudi/internal/repository"
	"github.com/tomiwa/kudi/internal/response"
)

type TransactionHandler struct {
	TransactionRepo repository.TransactionRepository
	WalletRepo      repository.WalletRepository
	ErrHandler      *errHandler.ErrorHandler
}

func NewTransactionHandler(handler *TransactionHandler) *TransactionHandler {
	return &TransactionHandler{
		TransactionRepo: handler.TransactionRepo,
		WalletRepo:      handler.WalletRepo,
		ErrHandler:      handler.ErrHandler,
	}
}

type TransactionResponseData struct {
	ID              int64     `json:"id"`
	WalletID        int64     `json:"wallet_id"`
	Amount          string    `json:"amount"`
	Type            string    `json:"type"`
	Description     string    `json:"description,omitempty"`
	ReferenceNumber string    `json:"reference_number"`
	CreatedAt       time.Time `json:"created_at"`
}

func newTransactionResponseData(transaction *repository.Transaction) TransactionResponseData {
	return TransactionResponseData{
		ID:              transaction.ID,
		WalletID:        transaction.WalletID,
		Amount:          transaction.Amount.StringFixed(2),
		Type:            transaction.Type,
		Description:     transaction.Description.String,
		ReferenceNumber: transaction.ReferenceNumber,
		CreatedAt:       transaction.CreatedAt,
	}
}

// ownedWallet loads the wallet and verifies it belongs to the caller.
// A nil return means the response has already been written.
func (h *TransactionHandler) ownedWallet(w http.ResponseWriter, r *http.Request, walletID int64) *repository.Wallet {
	user := context.ContextGetAuthenticatedUser(r)

	wallet, found, err := h.WalletRepo.GetOne(walletID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return nil
	}
	if !found || wallet.UserID != user.ID {
		h.ErrHandler.NotFound(w, r)
		return nil
	}

	return wallet
}

func (h *TransactionHandler) HandleWalletTransactions(w http.ResponseWriter, r *http.Request) {
	walletID, err := parsePathID(r, "id")
	if err != nil {
		h.ErrHandler.NotFound(w, r)
		return
	}

	if h.ownedWallet(w, r, walletID) == nil {
		return
	}

	queryValues := retrieveUrlQueryValues(r)

	transactions, err := h.TransactionRepo.GetAllByWalletID(walletID, queryValues.Limit, queryValues.Offset)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := make([]TransactionResponseData, 0, len(transactions))
	for i := range transactions {
		data = append(data, newTransactionResponseData(&transactions[i]))
	}

	err = response.JSONOkResponse(w, data, "Transactions retrieved successfully", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *TransactionHandler) HandleTransactionSummary(w http.ResponseWriter, r *http.Request) {
	walletID, err := parsePathID(r, "id")
	if err != nil {
		h.ErrHandler.NotFound(w, r)
		return
	}

	wallet := h.ownedWallet(w, r, walletID)
	if wallet == nil {
		return
	}

	sums, err := h.TransactionRepo.SumsByType(walletID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	totals := map[string]string{
		repository.TransactionTypeCredit: "0.00",
		repository.TransactionTypeDebit:  "0.00",
	}
	for _, sum := range sums {
		totals[sum.Type] = sum.Total.StringFixed(2)
	}

	data := map[string]any{
		"wallet_id":    walletID,
		"balance":      wallet.Balance.StringFixed(2),
		"total_credit": totals[repository.TransactionTypeCredit],
		"total_debit":  totals[repository.TransactionTypeDebit],
	}

	err = response.JSONOkResponse(w, data, "Transaction summary retrieved successfully", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *TransactionHandler) HandleTransactionByReference(w http.ResponseWriter, r *http.Request) {
	referenceNumber := r.PathValue("reference")

	transaction, found, err := h.TransactionRepo.FindByReference(referenceNumber)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}

	// the owning wallet decides who may see the transaction
	if h.ownedWallet(w, r, transaction.WalletID) == nil {
		return
	}

	err = response.JSONOkResponse(w, newTransactionResponseData(transaction), "Transaction retrieved successfully", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
