package app

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/tomiwa/kudi/internal/cache"
	"github.com/tomiwa/kudi/internal/config"
	"github.com/tomiwa/kudi/internal/env"
	"github.com/tomiwa/kudi/internal/errHandler"
	"github.com/tomiwa/kudi/internal/helper"
	"github.com/tomiwa/kudi/internal/ledger"
	"github.com/tomiwa/kudi/internal/repository"
	"github.com/tomiwa/kudi/internal/smtp"
	"github.com/tomiwa/kudi/internal/stream"
	"github.com/joho/godotenv"
)

// Essential services and resources are exposed to the application
// this makes it possible for methods to have access to these items when they need them
type Application struct {
	Config       config.Config
	DB           repository.Database
	Logger       *slog.Logger
	Mailer       *smtp.Mailer
	WG           sync.WaitGroup
	ErrorHandler *errHandler.ErrorHandler
	Helper       *helper.HelperRepository
	Kafka        *stream.KafkaStream
	Cache        *cache.Cache
	Engine       *ledger.Engine
}

func NewApplication(logger *slog.Logger) (*Application, error) {
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", "error", err)
	}

	var cfg config.Config

	// config values are loaded from the .env file
	// Default values are provided for these items and these should strictly be values for development mode only
	// make sure no production-level value is exposed as default value here
	cfg.BaseURL = env.GetString("BASE_URL", "http://localhost:4444")
	cfg.HttpPort = env.GetInt("HTTP_PORT", 4444)

	cfg.Db.Dsn = env.GetString("DB_DSN", "user:pass@localhost:5432/kudi?sslmode=disable")
	cfg.Db.Automigrate = env.GetBool("DB_AUTOMIGRATE", true)
	cfg.Db.Seed = env.GetBool("DB_SEED", false)

	cfg.Jwt.SecretKey = env.GetString("JWT_SECRET_KEY", "ajf5nx3qmp6zquevllxocxqvyz42ypuo")

	// server errors won't be sent via email if the NOTIFICATIONS_EMAIL wasn't set in the .env file
	cfg.Notifications.Email = env.GetString("NOTIFICATIONS_EMAIL", "")

	cfg.Smtp.Host = env.GetString("SMTP_HOST", "example.smtp.host")
	cfg.Smtp.Port = env.GetInt("SMTP_PORT", 25)
	cfg.Smtp.Username = env.GetString("SMTP_USERNAME", "example_username")
	cfg.Smtp.Password = env.GetString("SMTP_PASSWORD", "pa55word")
	cfg.Smtp.From = env.GetString("SMTP_FROM", "Kudi <no_reply@example.org>")

	cfg.Redis.Addr = env.GetString("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Db = env.GetInt("REDIS_DB", 0)

	cfg.KafkaServers = env.GetString("KAFKA_SERVERS", "localhost:9092")

	cfg.Limits.MaxCredit = env.GetDecimal("WALLET_MAX_CREDIT", "10000")
	cfg.Limits.MaxDebit = env.GetDecimal("WALLET_MAX_DEBIT", "10000")
	cfg.Limits.DailyCredit = env.GetDecimal("WALLET_DAILY_CREDIT_LIMIT", "1000")
	cfg.Limits.MonthlyCredit = env.GetDecimal("WALLET_MONTHLY_CREDIT_LIMIT", "5000")
	cfg.Limits.DailyDebit = env.GetDecimal("WALLET_DAILY_DEBIT_LIMIT", "1000")
	cfg.Limits.MonthlyDebit = env.GetDecimal("WALLET_MONTHLY_DEBIT_LIMIT", "5000")

	db, err := repository.New(cfg.Db.Dsn, cfg.Db.Automigrate)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	mailer, err := smtp.NewMailer(cfg.Smtp.Host, cfg.Smtp.Port, cfg.Smtp.Username, cfg.Smtp.Password, cfg.Smtp.From)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	app := &Application{
		Config: cfg,
		DB:     db,
		Logger: logger,
		Mailer: mailer,
	}

	app.Helper = helper.New(&cfg.BaseURL, &app.WG, logger)
	app.ErrorHandler = errHandler.New(cfg.Notifications.Email, mailer, logger, app.Helper)
	app.Kafka = stream.New(cfg.KafkaServers)
	app.Cache = cache.New(cfg.Redis.Addr, cfg.Redis.Db)

	app.Engine = ledger.New(&ledger.Engine{
		Store: db.Ledger(),
		Limits: ledger.NewLimitPolicy(db.Ledger(), ledger.LimitCaps{
			DailyCredit:   cfg.Limits.DailyCredit,
			MonthlyCredit: cfg.Limits.MonthlyCredit,
			DailyDebit:    cfg.Limits.DailyDebit,
			MonthlyDebit:  cfg.Limits.MonthlyDebit,
		}),
		MaxCredit: cfg.Limits.MaxCredit,
		MaxDebit:  cfg.Limits.MaxDebit,
		Logger:    logger,
		Cache:     app.Cache,
		Stream:    app.Kafka,
	})

	return app, nil
}
