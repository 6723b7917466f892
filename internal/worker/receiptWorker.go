// Receipts are sent after a credit or debit has been committed to the
// ledger. The engine publishes the completed transaction to kafka; this
// worker resolves the wallet owner and emails them a receipt.
package worker

import (
	"encoding/json"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/tomiwa/kudi/internal/ledger"
	"github.com/tomiwa/kudi/internal/stream"
)

func (wk *Worker) TransactionReceiptWorker() {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: transactionReceiptGroupID,
		Topic:   stream.TransactionCompletedTopic,
	})

	if err != nil {
		log.Fatalf("Error creating consumer: %v", err)
	}
	defer consumer.Close()

	for {
		select {
		case <-wk.Ctx.Done():
			log.Println("TransactionReceiptWorker received cancellation signal, shutting down...")
			return
		default:
			event := consumer.Poll(100)
			switch e := event.(type) {
			case *kafka.Message:
				var completed ledger.TransactionEvent
				if err := json.Unmarshal(e.Value, &completed); err != nil {
					log.Printf("Error decoding transaction event: %v", err)
					continue
				}

				wk.sendTransactionReceipt(&completed)
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

func (wk *Worker) sendTransactionReceipt(completed *ledger.TransactionEvent) bool {
	wallet, found, err := wk.DB.Wallet().GetOne(completed.WalletID)
	if err != nil || !found {
		log.Printf("Error finding wallet %d for receipt: %v", completed.WalletID, err)
		return false
	}

	owner, found, err := wk.DB.User().GetOne(wallet.UserID)
	if err != nil || !found {
		log.Printf("Error finding owner of wallet %d for receipt: %v", completed.WalletID, err)
		return false
	}

	wk.Helper.BackgroundTask(nil, func() error {
		emailData := wk.Helper.NewEmailData()
		emailData["Name"] = owner.FirstName + " " + owner.LastName
		emailData["WalletName"] = wallet.Name
		emailData["Type"] = completed.Type
		emailData["Amount"] = completed.Amount
		emailData["Description"] = completed.Description
		emailData["NewBalance"] = wallet.Balance.StringFixed(2)

		err := wk.Mailer.Send(owner.Email, emailData, "transaction-receipt.tmpl")
		if err != nil {
			log.Printf("Error sending transaction receipt: %v", err)
			return err
		}

		return nil
	})

	return true
}
