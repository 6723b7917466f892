package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/tomiwa/kudi/internal/app"
	"github.com/tomiwa/kudi/internal/seeder"
	"github.com/tomiwa/kudi/internal/version"
	"github.com/tomiwa/kudi/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	showVersion := flag.Bool("version", false, "display version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	application, err := app.NewApplication(logger)
	if err != nil {
		return err
	}
	defer application.DB.Close()

	if application.Config.Db.Seed {
		err = seeder.New(application.DB, logger).Run()
		if err != nil {
			return err
		}
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	workers := worker.New(&worker.Worker{
		KafkaStream: application.Kafka,
		DB:          application.DB,
		Ctx:         workerCtx,
		Helper:      application.Helper,
		Mailer:      application.Mailer,
		ErrHandler:  application.ErrorHandler,
		OpsEmail:    application.Config.Notifications.Email,
	})

	go workers.TransactionReceiptWorker()
	go workers.TransferReconciliationWorker()

	return application.ServeHTTP()
}
