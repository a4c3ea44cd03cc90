/*

The sentry runner triggers harvests on a cron schedule. Each tick walks every
active farm, executes one cycle stage and persists the resulting state. The
runner is the process's own sentry, so it earns the sentry fee it pays out.

*/

package sentry

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/logger"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/metrics"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/shares"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/state"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/strategy"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

const harvestTimeout = 2 * time.Minute

type Runner struct {
	engine   *strategy.Engine
	store    *shares.MemoryStore
	schedule string
	account  string
	cron     *cron.Cron
	log      zerolog.Logger
}

// NewRunner builds a harvest runner. account is credited the sentry fee.
func NewRunner(engine *strategy.Engine, store *shares.MemoryStore, schedule, account string) *Runner {
	return &Runner{
		engine:   engine,
		store:    store,
		schedule: schedule,
		account:  account,
		cron:     cron.New(),
		log:      logger.GetForComponent("sentry"),
	}
}

// Start registers the schedule and starts the cron loop.
func (r *Runner) Start() error {
	if _, err := r.cron.AddFunc(r.schedule, r.RunOnce); err != nil {
		return err
	}
	r.cron.Start()
	r.log.Info().Str("schedule", r.schedule).Msg("harvest runner started")
	return nil
}

// Stop halts the cron loop and waits for a running tick to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
	r.log.Info().Msg("harvest runner stopped")
}

// RunOnce executes one harvest stage for every active farm and persists the
// outcome. Exported so an operator can trigger a tick by hand.
func (r *Runner) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), harvestTimeout)
	defer cancel()

	harvested := false
	for _, st := range r.engine.Registry().List() {
		if st.Paused {
			continue
		}
		for _, cycle := range st.Cycles {
			if cycle.State == types.FarmCleared {
				continue
			}
			r.harvestFarm(ctx, cycle.FarmID)
			harvested = true
		}
	}
	r.updateFarmGauge()
	if harvested {
		r.persist()
	}
}

func (r *Runner) harvestFarm(ctx context.Context, farmID types.FarmID) {
	report, err := r.engine.Harvest(ctx, farmID, r.account)

	stage := "unknown"
	if report != nil {
		stage = string(report.Stage)
	}
	switch {
	case err == nil:
		metrics.HarvestStagesTotal.WithLabelValues(stage, "ok").Inc()
	case errors.Is(err, strategy.ErrNoReward):
		metrics.HarvestStagesTotal.WithLabelValues(stage, "no_reward").Inc()
		r.log.Debug().Str("farm", string(farmID)).Msg("nothing to claim yet")
		return
	default:
		metrics.HarvestStagesTotal.WithLabelValues(stage, "error").Inc()
		r.log.Warn().Err(err).Str("farm", string(farmID)).Msg("harvest stage failed")
	}

	if report != nil {
		if _, err := state.NextHarvestCount(); err != nil {
			r.log.Warn().Err(err).Msg("harvest counter bump failed")
		}
		if err := state.RecordHarvest(report); err != nil {
			r.log.Warn().Err(err).Msg("harvest audit record failed")
		}
	}
}

func (r *Runner) updateFarmGauge() {
	counts := map[types.FarmState]int{
		types.FarmRunning: 0,
		types.FarmEnded:   0,
		types.FarmCleared: 0,
	}
	for _, st := range r.engine.Registry().List() {
		for _, cycle := range st.Cycles {
			counts[cycle.State]++
		}
	}
	for farmState, n := range counts {
		metrics.FarmsByState.WithLabelValues(string(farmState)).Set(float64(n))
	}
}

func (r *Runner) persist() {
	if err := state.SaveStrategies(r.engine.Registry().List()); err != nil {
		metrics.SnapshotFailures.Inc()
		r.log.Error().Err(err).Msg("strategy snapshot failed")
	}
	if err := state.SaveShares(r.store); err != nil {
		metrics.SnapshotFailures.Inc()
		r.log.Error().Err(err).Msg("share snapshot failed")
	}
}
