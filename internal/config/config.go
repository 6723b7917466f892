package config

import "github.com/shopspring/decimal"

type Config struct {
	BaseURL  string
	HttpPort int
	Db       struct {
		Dsn         string
		Automigrate bool
		Seed        bool
	}
	Jwt struct {
		SecretKey string
	}
	Notifications struct {
		Email string
	}
	Smtp struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	Redis struct {
		Addr string
		Db   int
	}
	// Limits are loaded once at boot and never change for the lifetime of
	// the process.
	Limits struct {
		MaxCredit     decimal.Decimal
		MaxDebit      decimal.Decimal
		DailyCredit   decimal.Decimal
		MonthlyCredit decimal.Decimal
		DailyDebit    decimal.Decimal
		MonthlyDebit  decimal.Decimal
	}
	KafkaServers string
}
