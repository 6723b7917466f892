// A reconciliation alert means a transfer debited the source wallet but the
// matching credit could not be applied and the compensating refund failed
// after retries. Money is effectively in limbo until an operator intervenes,
// so this worker escalates loudly: error log plus an email to operations.
package worker

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/tomiwa/kudi/internal/ledger"
	"github.com/tomiwa/kudi/internal/stream"
)

func (wk *Worker) TransferReconciliationWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: transferReconciliationGroupID,
		Topic:   stream.TransferReconciliationTopic,
	})

	if err != nil {
		log.Fatalf("Error creating consumer: %v", err)
	}
	defer consumer.Close()

	for {
		select {
		case <-wk.Ctx.Done():
			log.Println("TransferReconciliationWorker received cancellation signal, shutting down...")
			return
		default:
			event := consumer.Poll(100)
			switch e := event.(type) {
			case *kafka.Message:
				var alert ledger.ReconciliationAlert
				if err := json.Unmarshal(e.Value, &alert); err != nil {
					log.Printf("Error decoding reconciliation alert: %v", err)
					continue
				}

				wk.escalateReconciliation(&alert)
			case kafka.Error:
				log.Printf("Error: %v\n", e)
			case *kafka.AssignedPartitions:
				consumer.Assign(e.Partitions)
			case *kafka.RevokedPartitions:
				consumer.Unassign()
			}
		}
	}
}

func (wk *Worker) escalateReconciliation(alert *ledger.ReconciliationAlert) {
	err := fmt.Errorf(
		"transfer needs manual reconciliation: %s short on wallet %d (to wallet %d): %s",
		alert.Amount, alert.FromWalletID, alert.ToWalletID, alert.Reason,
	)
	wk.ErrHandler.ReportServerError(nil, err)

	if wk.OpsEmail == "" {
		return
	}

	wk.Helper.BackgroundTask(nil, func() error {
		emailData := wk.Helper.NewEmailData()
		emailData["FromWalletID"] = alert.FromWalletID
		emailData["ToWalletID"] = alert.ToWalletID
		emailData["Amount"] = alert.Amount
		emailData["Reason"] = alert.Reason

		err := wk.Mailer.Send(wk.OpsEmail, emailData, "reconciliation-alert.tmpl")
		if err != nil {
			log.Printf("Error sending reconciliation alert email: %v", err)
			return err
		}

		return nil
	})
}
