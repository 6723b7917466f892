package handler

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tomiwa/kudi/internal/context"
	"github.com/tomiwa/kudi/internal/errHandler"
	"github.com/tomiwa/kudi/internal/ledger"
	"github.com/tomiwa/kudi/internal/repository"
	"github.com/tomiwa/kudi/internal/request"
	"github.com/tomiwa/kudi/internal/response"
	"github.com/tomiwa/kudi/internal/validator"
)

type WalletHandler struct {
	WalletRepo repository.WalletRepository
	Engine     *ledger.Engine
	ErrHandler *errHandler.ErrorHandler
}

func NewWalletHandler(handler *WalletHandler) *WalletHandler {
	return &WalletHandler{
		WalletRepo: handler.WalletRepo,
		Engine:     handler.Engine,
		ErrHandler: handler.ErrHandler,
	}
}

type WalletResponseData struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

type amountInput struct {
	Amount      decimal.Decimal     `json:"amount"`
	Description string              `json:"description"`
	Validator   validator.Validator `json:"-"`
}

// requireOwnedWallet checks that the authenticated user owns the wallet
// before any engine call touches it. Returns false when the response has
// already been written.
func (h *WalletHandler) requireOwnedWallet(w http.ResponseWriter, r *http.Request, walletID int64) bool {
	user := context.ContextGetAuthenticatedUser(r)

	wallet, found, err := h.WalletRepo.GetOne(walletID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return false
	}
	if !found {
		h.ErrHandler.NotFound(w, r)
		return false
	}

	if wallet.UserID != user.ID {
		h.ErrHandler.NotFound(w, r)
		return false
	}

	return true
}

func (h *WalletHandler) HandleListWallets(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	wallets, err := h.WalletRepo.GetAllByUserID(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := make([]WalletResponseData, 0, len(wallets))
	for _, wallet := range wallets {
		data = append(data, WalletResponseData{
			ID:        wallet.ID,
			Name:      wallet.Name,
			Balance:   wallet.Balance.StringFixed(2),
			CreatedAt: wallet.CreatedAt,
		})
	}

	err = response.JSONOkResponse(w, data, "Wallets retrieved successfully", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *WalletHandler) HandleWalletDetails(w http.ResponseWriter, r *http.Request) {
	walletID, err := parsePathID(r, "id")
	if err != nil {
		h.ErrHandler.NotFound(w, r)
		return
	}

	user := context.ContextGetAuthenticatedUser(r)

	wallet, found, err := h.WalletRepo.GetOne(walletID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found || wallet.UserID != user.ID {
		h.ErrHandler.NotFound(w, r)
		return
	}

	data := WalletResponseData{
		ID:        wallet.ID,
		Name:      wallet.Name,
		Balance:   wallet.Balance.StringFixed(2),
		CreatedAt: wallet.CreatedAt,
	}

	err = response.JSONOkResponse(w, data, "Wallet retrieved successfully", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *WalletHandler) HandleCreditWallet(w http.ResponseWriter, r *http.Request) {
	walletID, err := parsePathID(r, "id")
	if err != nil {
		h.ErrHandler.NotFound(w, r)
		return
	}

	var input amountInput

	err = request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(input.Amount.Sign() > 0, "Amount must be greater than zero")
	input.Validator.Check(validator.MaxRunes(input.Description, 255), "Description is too long")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	if !h.requireOwnedWallet(w, r, walletID) {
		return
	}

	result := h.Engine.Credit(walletID, input.Amount, input.Description)
	writeOperationResult(w, r, h.ErrHandler, result)
}

func (h *WalletHandler) HandleDebitWallet(w http.ResponseWriter, r *http.Request) {
	walletID, err := parsePathID(r, "id")
	if err != nil {
		h.ErrHandler.NotFound(w, r)
		return
	}

	var input amountInput

	err = request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(input.Amount.Sign() > 0, "Amount must be greater than zero")
	input.Validator.Check(validator.MaxRunes(input.Description, 255), "Description is too long")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	if !h.requireOwnedWallet(w, r, walletID) {
		return
	}

	result := h.Engine.Debit(walletID, input.Amount, input.Description)
	writeOperationResult(w, r, h.ErrHandler, result)
}

func (h *WalletHandler) HandleWalletBalance(w http.ResponseWriter, r *http.Request) {
	walletID, err := parsePathID(r, "id")
	if err != nil {
		h.ErrHandler.NotFound(w, r)
		return
	}

	if !h.requireOwnedWallet(w, r, walletID) {
		return
	}

	result := h.Engine.GetBalance(walletID)
	writeOperationResult(w, r, h.ErrHandler, result)
}

func (h *WalletHandler) HandleTransferMoney(w http.ResponseWriter, r *http.Request) {
	var input struct {
		FromWalletID int64               `json:"from_wallet_id"`
		ToWalletID   int64               `json:"to_wallet_id"`
		Amount       decimal.Decimal     `json:"amount"`
		Description  string              `json:"description"`
		Validator    validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(input.FromWalletID > 0, "Source wallet is required")
	input.Validator.Check(input.ToWalletID > 0, "Destination wallet is required")
	input.Validator.Check(input.Amount.Sign() > 0, "Amount must be greater than zero")
	input.Validator.Check(validator.MaxRunes(input.Description, 255), "Description is too long")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	// only the source wallet needs to be owned by the caller; the
	// destination may belong to anyone
	if !h.requireOwnedWallet(w, r, input.FromWalletID) {
		return
	}

	result := h.Engine.Transfer(input.FromWalletID, input.ToWalletID, input.Amount, input.Description)
	writeOperationResult(w, r, h.ErrHandler, result)
}
