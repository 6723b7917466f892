package worker

import (
	"context"

	"github.com/tomiwa/kudi/internal/errHandler"
	"github.com/tomiwa/kudi/internal/helper"
	"github.com/tomiwa/kudi/internal/repository"
	"github.com/tomiwa/kudi/internal/smtp"
	"github.com/tomiwa/kudi/internal/stream"
)

type Worker struct {
	KafkaStream *stream.KafkaStream
	DB          repository.Database
	Ctx         context.Context
	Helper      *helper.HelperRepository
	Mailer      smtp.MailerInterface
	ErrHandler  *errHandler.ErrorHandler

	// OpsEmail receives reconciliation alerts when a transfer could not be
	// compensated automatically.
	OpsEmail string
}

const (
	// transactionReceiptGroupID is used for workers that send receipts after a
	// credit or debit has been committed
	transactionReceiptGroupID = "transaction-receipt-group"

	// transferReconciliationGroupID is used for workers that escalate transfers
	// whose compensating credit could not be applied
	transferReconciliationGroupID = "transfer-reconciliation-group"
)

// Our workers typically need access to the database and the kafka event stream
// worker-specific dependencies can be passed as arguments to the worker
func New(wk *Worker) *Worker {
	return &Worker{
		KafkaStream: wk.KafkaStream,
		DB:          wk.DB,
		Ctx:         wk.Ctx,
		Helper:      wk.Helper,
		Mailer:      wk.Mailer,
		ErrHandler:  wk.ErrHandler,
		OpsEmail:    wk.OpsEmail,
	}
}
