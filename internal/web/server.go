/*

The operations HTTP server: strategy lifecycle, deposits and withdrawals,
manual harvest triggering and read-only views of the share ledger, plus the
prometheus scrape endpoint.

*/

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/config"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/logger"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/metrics"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/shares"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/state"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/strategy"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

type Server struct {
	engine *strategy.Engine
	store  *shares.MemoryStore
	srv    *http.Server
	log    zerolog.Logger
}

// NewServer builds the ops server bound to addr.
func NewServer(addr string, engine *strategy.Engine, store *shares.MemoryStore) *Server {
	s := &Server{
		engine: engine,
		store:  store,
		log:    logger.GetForComponent("web"),
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/strategies", s.handleListStrategies).Methods(http.MethodGet)
	r.HandleFunc("/strategies", s.handleCreateStrategy).Methods(http.MethodPost)
	r.HandleFunc("/strategies/{id}", s.handleGetStrategy).Methods(http.MethodGet)
	r.HandleFunc("/strategies/{id}", s.handleRemoveStrategy).Methods(http.MethodDelete)
	r.HandleFunc("/strategies/{id}/pause", s.handleSetPaused(true)).Methods(http.MethodPost)
	r.HandleFunc("/strategies/{id}/unpause", s.handleSetPaused(false)).Methods(http.MethodPost)
	r.HandleFunc("/strategies/{id}/farms", s.handleAddFarm).Methods(http.MethodPost)
	r.HandleFunc("/strategies/{id}/deposit", s.handleDeposit).Methods(http.MethodPost)
	r.HandleFunc("/strategies/{id}/unstake", s.handleUnstake).Methods(http.MethodPost)
	r.HandleFunc("/strategies/{id}/pay-treasury", s.handlePayTreasury).Methods(http.MethodPost)
	r.HandleFunc("/strategies/{id}/pay-creator", s.handlePayCreator).Methods(http.MethodPost)

	r.HandleFunc("/harvest", s.handleHarvest).Methods(http.MethodPost)
	r.HandleFunc("/seeds", s.handleSeeds).Methods(http.MethodGet)
	r.HandleFunc("/whitelist", s.handleWhitelist).Methods(http.MethodGet)
	r.HandleFunc("/entitlement", s.handleEntitlement).Methods(http.MethodGet)
	r.HandleFunc("/harvests/count", s.handleHarvestCount).Methods(http.MethodGet)

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Start serves until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("ops server listening")
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop shuts the listener down.
func (s *Server) Stop() error {
	return s.srv.Close()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn().Err(err).Msg("response encode failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, strategy.ErrStrategyNotFound),
		errors.Is(err, strategy.ErrFarmNotFound):
		return http.StatusNotFound
	case errors.Is(err, strategy.ErrStrategyExists):
		return http.StatusConflict
	case errors.Is(err, strategy.ErrStrategyPaused),
		errors.Is(err, strategy.ErrFarmCleared),
		errors.Is(err, strategy.ErrFarmStakeShort),
		errors.Is(err, strategy.ErrStrategyNotEmpty):
		return http.StatusConflict
	case errors.Is(err, strategy.ErrTokenNotWhitelisted),
		errors.Is(err, strategy.ErrBelowMinDeposit),
		errors.Is(err, strategy.ErrNothingStaked),
		errors.Is(err, strategy.ErrAmountTooSmall),
		errors.Is(err, strategy.ErrAmountExceedsEntitlement):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// persist snapshots registry and ledger after a mutating request.
func (s *Server) persist() {
	if err := state.SaveStrategies(s.engine.Registry().List()); err != nil {
		metrics.SnapshotFailures.Inc()
		s.log.Error().Err(err).Msg("strategy snapshot failed")
	}
	if err := state.SaveShares(s.store); err != nil {
		metrics.SnapshotFailures.Inc()
		s.log.Error().Err(err).Msg("share snapshot failed")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListStrategies(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.Registry().List())
}

func (s *Server) handleGetStrategy(w http.ResponseWriter, r *http.Request) {
	st, err := s.engine.Registry().Get(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, errStatus(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleCreateStrategy(w http.ResponseWriter, r *http.Request) {
	var def config.StrategyDef
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	st, err := def.Build()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.engine.CreateStrategy(st); err != nil {
		s.writeError(w, errStatus(err), err)
		return
	}
	s.persist()
	s.writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleRemoveStrategy(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.engine.RemoveStrategy(id); err != nil {
		s.writeError(w, errStatus(err), err)
		return
	}
	if err := state.DeleteStrategy(id); err != nil {
		s.log.Error().Err(err).Str("strategy", id).Msg("stored record delete failed")
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"removed": id})
}

func (s *Server) handleSetPaused(paused bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if err := s.engine.SetPaused(id, paused); err != nil {
			s.writeError(w, errStatus(err), err)
			return
		}
		s.persist()
		s.writeJSON(w, http.StatusOK, map[string]any{"strategy": id, "paused": paused})
	}
}

func (s *Server) handleAddFarm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FarmIndex uint64 `json:"farm_index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	id := mux.Vars(r)["id"]
	st, err := s.engine.Registry().Get(id)
	if err != nil {
		s.writeError(w, errStatus(err), err)
		return
	}
	farmID := types.NewFarmID(st.SeedID, req.FarmIndex)
	if err := s.engine.AddFarm(id, farmID); err != nil {
		s.writeError(w, errStatus(err), err)
		return
	}
	s.persist()
	s.writeJSON(w, http.StatusCreated, map[string]string{"farm_id": string(farmID)})
}

func parseAmount(raw string, required bool) (sdkmath.Int, error) {
	if raw == "" {
		if required {
			return sdkmath.ZeroInt(), fmt.Errorf("amount is required")
		}
		return sdkmath.ZeroInt(), nil
	}
	amount, ok := sdkmath.NewIntFromString(raw)
	if !ok || amount.IsNegative() {
		return sdkmath.ZeroInt(), fmt.Errorf("bad amount %q", raw)
	}
	return amount, nil
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Account string `json:"account"`
		Amount  string `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	amount, err := parseAmount(req.Amount, true)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	report, err := s.engine.Deposit(r.Context(), mux.Vars(r)["id"], req.Account, amount)
	if err != nil {
		s.writeError(w, errStatus(err), err)
		return
	}
	metrics.DepositsTotal.Inc()
	s.persist()
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleUnstake(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Account string `json:"account"`
		Amount  string `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	amount, err := parseAmount(req.Amount, false)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	report, err := s.engine.Unstake(r.Context(), mux.Vars(r)["id"], req.Account, amount)
	if err != nil {
		s.writeError(w, errStatus(err), err)
		return
	}
	metrics.UnstakesTotal.Inc()
	s.persist()
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePayTreasury(w http.ResponseWriter, r *http.Request) {
	paid, err := s.engine.PayTreasury(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, errStatus(err), err)
		return
	}
	s.persist()
	s.writeJSON(w, http.StatusOK, map[string]string{"paid": paid.String()})
}

func (s *Server) handlePayCreator(w http.ResponseWriter, r *http.Request) {
	paid, err := s.engine.PayCreator(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, errStatus(err), err)
		return
	}
	s.persist()
	s.writeJSON(w, http.StatusOK, map[string]string{"paid": paid.String()})
}

func (s *Server) handleHarvest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FarmID string `json:"farm_id"`
		Sentry string `json:"sentry"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	report, err := s.engine.Harvest(r.Context(), types.FarmID(req.FarmID), req.Sentry)
	if err != nil {
		status := errStatus(err)
		if errors.Is(err, strategy.ErrNoReward) || errors.Is(err, strategy.ErrSwapBelowMinimum) {
			status = http.StatusAccepted
		}
		if report != nil {
			s.persist()
			s.writeJSON(w, status, map[string]any{"report": report, "error": err.Error()})
			return
		}
		s.writeError(w, status, err)
		return
	}
	if err := state.RecordHarvest(report); err != nil {
		s.log.Warn().Err(err).Msg("harvest audit record failed")
	}
	s.persist()
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSeeds(w http.ResponseWriter, r *http.Request) {
	type seedView struct {
		SeedID      string `json:"seed_id"`
		ShareID     string `json:"share_id"`
		SeedTotal   string `json:"seed_total"`
		TotalSupply string `json:"total_supply"`
		Holders     int    `json:"holders"`
	}
	views := make([]seedView, 0)
	for _, seed := range s.store.Seeds() {
		shareID := types.ShareIDForSeed(seed)
		total, err := s.engine.Ledger().SeedTotal(seed)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		supply, err := s.engine.Ledger().TotalSupply(shareID)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		views = append(views, seedView{
			SeedID:      string(seed),
			ShareID:     shareID,
			SeedTotal:   total.String(),
			TotalSupply: supply.String(),
			Holders:     len(s.store.Holders(shareID)),
		})
	}
	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleWhitelist(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.Registry().Whitelist())
}

func (s *Server) handleEntitlement(w http.ResponseWriter, r *http.Request) {
	seed := r.URL.Query().Get("seed")
	account := r.URL.Query().Get("account")
	if seed == "" || account == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("seed and account are required"))
		return
	}
	amount, err := s.engine.Entitlement(types.SeedID(seed), account)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	balance, err := s.engine.Ledger().Balance(types.ShareIDForSeed(types.SeedID(seed)), account)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"seed":        seed,
		"account":     account,
		"shares":      balance.String(),
		"entitlement": amount.String(),
	})
}

func (s *Server) handleHarvestCount(w http.ResponseWriter, r *http.Request) {
	count, err := state.HarvestCount()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}
