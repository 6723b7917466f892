package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tomiwa/kudi/internal/context"
	"github.com/tomiwa/kudi/internal/errHandler"
	"github.com/tomiwa/kudi/internal/helper"
	"github.com/tomiwa/kudi/internal/ledger"
	"github.com/tomiwa/kudi/internal/mocks"
	"github.com/tomiwa/kudi/internal/repository"
)

func newTestErrHandler() *errHandler.ErrorHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var baseURL = "http://localhost"
	var wg sync.WaitGroup
	help := helper.New(&baseURL, &wg, logger)

	// empty notification address keeps the mailer out of the picture
	return errHandler.New("", nil, logger, help)
}

func newTestWalletHandler(store *mocks.MockLedgerStore, walletRepo *mocks.MockWalletRepo) *WalletHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	engine := ledger.New(&ledger.Engine{
		Store: store,
		Limits: ledger.NewLimitPolicy(store, ledger.LimitCaps{
			DailyCredit:   decimal.NewFromInt(1000),
			MonthlyCredit: decimal.NewFromInt(5000),
			DailyDebit:    decimal.NewFromInt(1000),
			MonthlyDebit:  decimal.NewFromInt(5000),
		}),
		MaxCredit: decimal.NewFromInt(10000),
		MaxDebit:  decimal.NewFromInt(10000),
		Logger:    logger,
	})

	return NewWalletHandler(&WalletHandler{
		WalletRepo: walletRepo,
		Engine:     engine,
		ErrHandler: newTestErrHandler(),
	})
}

func authenticatedRequest(t *testing.T, method, target string, body any, userID int64) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	return context.ContextSetAuthenticatedUser(req, &repository.User{ID: userID, Email: "test@example.com"})
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope map[string]any
	err := json.Unmarshal(rr.Body.Bytes(), &envelope)
	require.NoError(t, err)

	return envelope
}

func TestHandleCreditWallet_Success(t *testing.T) {
	mockStore := new(mocks.MockLedgerStore)
	mockWalletRepo := new(mocks.MockWalletRepo)

	wallet := &repository.Wallet{ID: 1, UserID: 7, Balance: decimal.NewFromInt(100), Version: 3}

	mockWalletRepo.On("GetOne", int64(1)).Return(wallet, true, nil)
	mockStore.On("LoadWallet", int64(1)).Return(wallet, true, nil)
	mockStore.On("SumTransactions", int64(1), repository.TransactionTypeCredit, mock.Anything).
		Return(decimal.Zero, nil)
	mockStore.On("SaveWalletWithTransaction", mock.Anything, int64(3), mock.Anything).
		Return(int64(42), nil)

	h := newTestWalletHandler(mockStore, mockWalletRepo)

	req := authenticatedRequest(t, "POST", "/v1/wallets/1/credit", map[string]any{
		"amount":      "250.00",
		"description": "salary",
	}, 7)
	req.SetPathValue("id", "1")

	rr := httptest.NewRecorder()
	h.HandleCreditWallet(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	envelope := decodeEnvelope(t, rr)
	require.Equal(t, true, envelope["success"])
	require.Equal(t, "new balance = 350.00", envelope["message"])

	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(42), data["transaction_id"])

	mockStore.AssertExpectations(t)
}

func TestHandleCreditWallet_RejectsNegativeAmount(t *testing.T) {
	mockStore := new(mocks.MockLedgerStore)
	mockWalletRepo := new(mocks.MockWalletRepo)

	h := newTestWalletHandler(mockStore, mockWalletRepo)

	req := authenticatedRequest(t, "POST", "/v1/wallets/1/credit", map[string]any{
		"amount": "-5",
	}, 7)
	req.SetPathValue("id", "1")

	rr := httptest.NewRecorder()
	h.HandleCreditWallet(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	mockStore.AssertNotCalled(t, "LoadWallet", mock.Anything)
	mockWalletRepo.AssertNotCalled(t, "GetOne", mock.Anything)
}

func TestHandleDebitWallet_InsufficientFunds(t *testing.T) {
	mockStore := new(mocks.MockLedgerStore)
	mockWalletRepo := new(mocks.MockWalletRepo)

	wallet := &repository.Wallet{ID: 1, UserID: 7, Balance: decimal.NewFromInt(50), Version: 1}

	mockWalletRepo.On("GetOne", int64(1)).Return(wallet, true, nil)
	mockStore.On("LoadWallet", int64(1)).Return(wallet, true, nil)

	h := newTestWalletHandler(mockStore, mockWalletRepo)

	req := authenticatedRequest(t, "POST", "/v1/wallets/1/debit", map[string]any{
		"amount": "80.00",
	}, 7)
	req.SetPathValue("id", "1")

	rr := httptest.NewRecorder()
	h.HandleDebitWallet(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	envelope := decodeEnvelope(t, rr)
	require.Equal(t, false, envelope["success"])
	require.Equal(t, "insufficient funds", envelope["message"])

	errData, ok := envelope["error"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, ledger.CodeInsufficientFunds, errData["error_code"])
}

func TestHandleWalletBalance_OtherUsersWalletIsHidden(t *testing.T) {
	mockStore := new(mocks.MockLedgerStore)
	mockWalletRepo := new(mocks.MockWalletRepo)

	wallet := &repository.Wallet{ID: 1, UserID: 99, Balance: decimal.NewFromInt(500), Version: 1}
	mockWalletRepo.On("GetOne", int64(1)).Return(wallet, true, nil)

	h := newTestWalletHandler(mockStore, mockWalletRepo)

	req := authenticatedRequest(t, "GET", "/v1/wallets/1/balance", nil, 7)
	req.SetPathValue("id", "1")

	rr := httptest.NewRecorder()
	h.HandleWalletBalance(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	mockStore.AssertNotCalled(t, "LoadWallet", mock.Anything)
}

func TestHandleWalletBalance_Success(t *testing.T) {
	mockStore := new(mocks.MockLedgerStore)
	mockWalletRepo := new(mocks.MockWalletRepo)

	wallet := &repository.Wallet{ID: 1, UserID: 7, Balance: decimal.RequireFromString("1234.5"), Version: 2}

	mockWalletRepo.On("GetOne", int64(1)).Return(wallet, true, nil)
	mockStore.On("LoadWallet", int64(1)).Return(wallet, true, nil)

	h := newTestWalletHandler(mockStore, mockWalletRepo)

	req := authenticatedRequest(t, "GET", "/v1/wallets/1/balance", nil, 7)
	req.SetPathValue("id", "1")

	rr := httptest.NewRecorder()
	h.HandleWalletBalance(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	envelope := decodeEnvelope(t, rr)
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(1), data["wallet_id"])
	require.Equal(t, "1234.50", data["balance"])
}

func TestHandleTransferMoney_SourceOwnershipRequired(t *testing.T) {
	mockStore := new(mocks.MockLedgerStore)
	mockWalletRepo := new(mocks.MockWalletRepo)

	source := &repository.Wallet{ID: 1, UserID: 99, Balance: decimal.NewFromInt(500), Version: 1}
	mockWalletRepo.On("GetOne", int64(1)).Return(source, true, nil)

	h := newTestWalletHandler(mockStore, mockWalletRepo)

	req := authenticatedRequest(t, "POST", "/v1/transfers", map[string]any{
		"from_wallet_id": 1,
		"to_wallet_id":   2,
		"amount":         "50.00",
	}, 7)

	rr := httptest.NewRecorder()
	h.HandleTransferMoney(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	mockStore.AssertNotCalled(t, "LoadWallet", mock.Anything)
}

func TestHandleTransferMoney_Success(t *testing.T) {
	mockStore := new(mocks.MockLedgerStore)
	mockWalletRepo := new(mocks.MockWalletRepo)

	source := &repository.Wallet{ID: 1, UserID: 7, Balance: decimal.NewFromInt(500), Version: 1}
	destination := &repository.Wallet{ID: 2, UserID: 9, Balance: decimal.NewFromInt(100), Version: 4}

	mockWalletRepo.On("GetOne", int64(1)).Return(source, true, nil)

	mockStore.On("LoadWallet", int64(1)).Return(source, true, nil)
	mockStore.On("LoadWallet", int64(2)).Return(destination, true, nil)
	mockStore.On("SumTransactions", mock.Anything, mock.Anything, mock.Anything).
		Return(decimal.Zero, nil)
	mockStore.On("SaveWalletWithTransaction", mock.Anything, int64(1), mock.Anything).
		Return(int64(10), nil)
	mockStore.On("SaveWalletWithTransaction", mock.Anything, int64(4), mock.Anything).
		Return(int64(11), nil)

	h := newTestWalletHandler(mockStore, mockWalletRepo)

	req := authenticatedRequest(t, "POST", "/v1/transfers", map[string]any{
		"from_wallet_id": 1,
		"to_wallet_id":   2,
		"amount":         "50.00",
		"description":    "rent split",
	}, 7)

	rr := httptest.NewRecorder()
	h.HandleTransferMoney(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	envelope := decodeEnvelope(t, rr)
	require.Equal(t, "amount transferred successfully", envelope["message"])

	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(11), data["transaction_id"])
}

func TestHandleListWallets_ReturnsOnlyOwnWallets(t *testing.T) {
	mockStore := new(mocks.MockLedgerStore)
	mockWalletRepo := new(mocks.MockWalletRepo)

	now := time.Now()
	mockWalletRepo.On("GetAllByUserID", int64(7)).Return([]repository.Wallet{
		{ID: 1, UserID: 7, Name: "Main", Balance: decimal.NewFromInt(100), CreatedAt: now},
		{ID: 3, UserID: 7, Name: "Savings", Balance: decimal.RequireFromString("20.5"), CreatedAt: now},
	}, nil)

	h := newTestWalletHandler(mockStore, mockWalletRepo)

	req := authenticatedRequest(t, "GET", "/v1/wallets", nil, 7)

	rr := httptest.NewRecorder()
	h.HandleListWallets(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	envelope := decodeEnvelope(t, rr)
	data, ok := envelope["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 2)

	first, ok := data[0].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Main", first["name"])
	require.Equal(t, "100.00", first["balance"])
}
