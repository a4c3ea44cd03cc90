package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/logger"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/state"
)

// Drops every operator table and recreates the schema empty. Destructive;
// meant for development databases only.
func main() {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Initialize(logLevel)
	log.Info().Msg("Starting database reset script...")

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found or error loading .env file. Relying on OS environment variables.")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}

	if err := state.Init(databaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer state.Close()

	drop := `
	DROP TABLE IF EXISTS harvests;
	DROP TABLE IF EXISTS harvest_counter;
	DROP TABLE IF EXISTS seed_totals;
	DROP TABLE IF EXISTS share_balances;
	DROP TABLE IF EXISTS strategies;
	`
	if _, err := state.DB.Exec(drop); err != nil {
		log.Fatal().Err(err).Msg("Failed to drop tables")
	}
	log.Info().Msg("Existing tables dropped")

	if err := state.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to recreate schema")
	}
	log.Info().Msg("Database reset complete")
}
