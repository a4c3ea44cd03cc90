/*

Process configuration. Values come from the environment (optionally seeded
from a .env file) and are held in package variables populated once by
LoadConfig at startup.

*/

package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

var (
	// LogLevel controls the global zerolog level.
	LogLevel string
	// LogFile, when set, receives a copy of every log line.
	LogFile string
	// RPCEndpoint is the JSON-RPC node the contract clients talk to.
	RPCEndpoint string
	// OperatorAccount is the account the engine signs and stakes as.
	OperatorAccount string
	// TreasuryAccount receives the protocol share of harvested fees.
	TreasuryAccount string
	// SentryAccount is credited the sentry fee for scheduled harvests.
	SentryAccount string
	// DatabaseURL is the postgres connection string for state persistence.
	DatabaseURL string
	// ListenAddr is the bind address of the operations HTTP server.
	ListenAddr string
	// HarvestSchedule is the cron expression driving the harvest runner.
	HarvestSchedule string
	// StrategiesFile is the yaml file with strategy definitions and the
	// token whitelist.
	StrategiesFile string
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadConfig populates the package variables. A missing .env file is fine;
// missing required values are not.
func LoadConfig() error {
	_ = godotenv.Load()

	LogLevel = getEnv("LOG_LEVEL", "info")
	LogFile = os.Getenv("LOG_FILE")
	RPCEndpoint = os.Getenv("RPC_ENDPOINT")
	OperatorAccount = os.Getenv("OPERATOR_ACCOUNT")
	TreasuryAccount = os.Getenv("TREASURY_ACCOUNT")
	SentryAccount = getEnv("SENTRY_ACCOUNT", os.Getenv("OPERATOR_ACCOUNT"))
	DatabaseURL = os.Getenv("DATABASE_URL")
	ListenAddr = getEnv("LISTEN_ADDR", ":8080")
	HarvestSchedule = getEnv("HARVEST_SCHEDULE", "@every 5m")
	StrategiesFile = getEnv("STRATEGIES_FILE", "strategies.yaml")

	for key, val := range map[string]string{
		"RPC_ENDPOINT":     RPCEndpoint,
		"OPERATOR_ACCOUNT": OperatorAccount,
		"TREASURY_ACCOUNT": TreasuryAccount,
		"DATABASE_URL":     DatabaseURL,
	} {
		if val == "" {
			return fmt.Errorf("required environment variable %s is not set", key)
		}
	}
	return nil
}
