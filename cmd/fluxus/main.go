package main

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/config"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/exchange"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/logger"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/sentry"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/shares"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/state"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/strategy"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/web"
)

func main() {
	if err := config.LoadConfig(); err != nil {
		logger.Initialize("info")
		logger.Get().Fatal().Err(err).Msg("configuration error")
	}
	var logWriters []io.Writer
	if config.LogFile != "" {
		fw, err := logger.FileWriter(config.LogFile)
		if err != nil {
			logger.Initialize(config.LogLevel)
			logger.Get().Fatal().Err(err).Str("path", config.LogFile).Msg("log file open failed")
		}
		logWriters = append(logWriters, fw)
	}
	logger.Initialize(config.LogLevel, logWriters...)
	log := logger.Get()
	log.Info().Msg("fluxus operator starting")

	if err := state.Init(config.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}
	defer state.Close()

	store, err := state.LoadShares()
	if err != nil {
		log.Fatal().Err(err).Msg("share ledger load failed")
	}
	ledger := shares.NewLedger(store)

	defs, err := config.LoadDefinitions(config.StrategiesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("strategy definitions load failed")
	}
	registry := strategy.NewRegistry(defs.Whitelist)

	stored, err := state.LoadStrategies()
	if err != nil {
		log.Fatal().Err(err).Msg("stored strategies load failed")
	}
	if err := registry.Load(stored); err != nil {
		log.Fatal().Err(err).Msg("stored strategies rejected")
	}

	// Definitions not yet in the store are new strategies.
	for _, def := range defs.Strategies {
		if _, err := registry.Get(def.ID); err == nil {
			continue
		}
		st, err := def.Build()
		if err != nil {
			log.Fatal().Err(err).Msg("strategy definition rejected")
		}
		if err := registry.Create(st); err != nil {
			log.Fatal().Err(err).Str("strategy", st.ID).Msg("strategy registration failed")
		}
	}

	rpc, err := exchange.NewRPCClient(config.RPCEndpoint, config.OperatorAccount)
	if err != nil {
		log.Fatal().Err(err).Msg("rpc client init failed")
	}
	backends := strategy.NewContractBackendFactory(rpc, config.OperatorAccount)
	engine := strategy.NewEngine(registry, ledger, backends, config.TreasuryAccount)

	if err := state.SaveStrategies(registry.List()); err != nil {
		log.Fatal().Err(err).Msg("initial strategy snapshot failed")
	}

	runner := sentry.NewRunner(engine, store, config.HarvestSchedule, config.SentryAccount)
	if err := runner.Start(); err != nil {
		log.Fatal().Err(err).Msg("harvest runner start failed")
	}

	server := web.NewServer(config.ListenAddr, engine, store)
	errs := make(chan error, 1)
	go func() {
		errs <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errs:
		if err != nil && !errors.Is(err, os.ErrClosed) {
			log.Error().Err(err).Msg("ops server failed")
		}
	}

	runner.Stop()
	if err := server.Stop(); err != nil {
		log.Warn().Err(err).Msg("ops server stop failed")
	}
	log.Info().Msg("fluxus operator stopped")
}
