package env

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

func GetString(key string, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	return value
}

func GetInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		panic(fmt.Sprintf("invalid int value for %s: %s", key, value))
	}

	return intValue
}

func GetBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		panic(fmt.Sprintf("invalid bool value for %s: %s", key, value))
	}

	return boolValue
}

// GetDecimal is used for monetary configuration values, which must never
// go through float parsing.
func GetDecimal(key string, defaultValue string) decimal.Decimal {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = defaultValue
	}

	decimalValue, err := decimal.NewFromString(value)
	if err != nil {
		panic(fmt.Sprintf("invalid decimal value for %s: %s", key, value))
	}

	return decimalValue
}
