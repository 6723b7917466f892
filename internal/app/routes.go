package app

import (
	"net/http"

	"github.com/tomiwa/kudi/internal/handler"
	"github.com/tomiwa/kudi/internal/middleware"
)

func (app *Application) routes() http.Handler {
	mux := http.NewServeMux()

	middlewareRepo := middleware.New(app.ErrorHandler, app.Logger, app.DB.User(), &app.Config)

	healthHandler := handler.NewHealthCheckHandler(app.ErrorHandler)
	authHandler := handler.NewAuthHandler(&handler.AuthHandler{
		UserRepo:   app.DB.User(),
		ErrHandler: app.ErrorHandler,
		Config:     &app.Config,
	})
	walletHandler := handler.NewWalletHandler(&handler.WalletHandler{
		WalletRepo: app.DB.Wallet(),
		Engine:     app.Engine,
		ErrHandler: app.ErrorHandler,
	})
	transactionHandler := handler.NewTransactionHandler(&handler.TransactionHandler{
		TransactionRepo: app.DB.Transaction(),
		WalletRepo:      app.DB.Wallet(),
		ErrHandler:      app.ErrorHandler,
	})

	mux.HandleFunc("GET /status", healthHandler.HandleHealthCheck)
	mux.HandleFunc("POST /v1/auth/login", authHandler.HandleAuthLogin)

	requireAuth := middlewareRepo.RequireAuthenticatedUser

	mux.Handle("GET /v1/wallets", requireAuth(http.HandlerFunc(walletHandler.HandleListWallets)))
	mux.Handle("GET /v1/wallets/{id}", requireAuth(http.HandlerFunc(walletHandler.HandleWalletDetails)))
	mux.Handle("GET /v1/wallets/{id}/balance", requireAuth(http.HandlerFunc(walletHandler.HandleWalletBalance)))
	mux.Handle("POST /v1/wallets/{id}/credit", requireAuth(http.HandlerFunc(walletHandler.HandleCreditWallet)))
	mux.Handle("POST /v1/wallets/{id}/debit", requireAuth(http.HandlerFunc(walletHandler.HandleDebitWallet)))
	mux.Handle("POST /v1/transfers", requireAuth(http.HandlerFunc(walletHandler.HandleTransferMoney)))

	mux.Handle("GET /v1/wallets/{id}/transactions", requireAuth(http.HandlerFunc(transactionHandler.HandleWalletTransactions)))
	mux.Handle("GET /v1/wallets/{id}/transactions/summary", requireAuth(http.HandlerFunc(transactionHandler.HandleTransactionSummary)))
	mux.Handle("GET /v1/transactions/{reference}", requireAuth(http.HandlerFunc(transactionHandler.HandleTransactionByReference)))

	return middlewareRepo.LogAccess(middlewareRepo.RecoverPanic(middlewareRepo.Authenticate(mux)))
}
