/*

The compounding cycle engine. Every entry point executes exactly one stage of
one farm's cycle and mutates the in-memory records; persistence happens in the
caller after the invocation returns. A returned error means the stage did not
advance and the invocation can be retried, except where noted on the error.

*/

package strategy

import (
	"context"
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/exchange"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/fees"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/logger"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/shares"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/tokenmath"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

// Engine drives the strategy registry: harvest cycles, deposits, unstakes and
// fee payouts. All entry points serialize on one mutex so every invocation
// observes and leaves consistent records.
type Engine struct {
	mu       sync.Mutex
	registry *Registry
	ledger   *shares.Ledger
	backends BackendFactory
	treasury string
	log      zerolog.Logger
}

// NewEngine builds an engine over the given registry and share ledger.
// treasury receives the protocol's share of harvested fees.
func NewEngine(registry *Registry, ledger *shares.Ledger, backends BackendFactory, treasury string) *Engine {
	return &Engine{
		registry: registry,
		ledger:   ledger,
		backends: backends,
		treasury: treasury,
		log:      logger.GetForComponent("engine"),
	}
}

// Registry exposes the engine's strategy registry for read paths.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Ledger exposes the engine's share ledger for read paths.
func (e *Engine) Ledger() *shares.Ledger {
	return e.ledger
}

// HarvestReport describes the single stage one harvest invocation executed.
type HarvestReport struct {
	InvocationID string           `json:"invocation_id"`
	StrategyID   string           `json:"strategy_id"`
	FarmID       types.FarmID     `json:"farm_id"`
	Stage        types.CycleStage `json:"stage"`
	NextStage    types.CycleStage `json:"next_stage"`
	State        types.FarmState  `json:"state"`
}

// Harvest runs the current stage of the farm's cycle. sentry is the account
// that triggered the harvest and is owed the escrowed sentry fee.
func (e *Engine) Harvest(ctx context.Context, farmID types.FarmID, sentry string) (*HarvestReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, cycle, err := e.registry.FarmCycle(farmID)
	if err != nil {
		return nil, err
	}
	if st.Paused {
		return nil, fmt.Errorf("%w: %s", ErrStrategyPaused, st.ID)
	}
	if cycle.State == types.FarmCleared {
		return nil, fmt.Errorf("%w: %s", ErrFarmCleared, farmID)
	}

	backend, err := e.backends(st)
	if err != nil {
		return nil, err
	}

	report := &HarvestReport{
		InvocationID: uuid.New().String(),
		StrategyID:   st.ID,
		FarmID:       farmID,
		Stage:        cycle.Stage,
	}
	log := e.log.With().
		Str("invocation", report.InvocationID).
		Str("strategy", st.ID).
		Str("farm", string(farmID)).
		Str("stage", string(cycle.Stage)).
		Logger()

	switch cycle.Stage {
	case types.StageClaimReward:
		err = e.runClaim(ctx, log, backend, st, cycle)
	case types.StageWithdrawal:
		err = e.runWithdraw(ctx, log, backend, st, cycle)
	case types.StageSwap, types.StageSwapToken2:
		err = e.runSwap(ctx, log, backend, st, cycle)
	case types.StageStake:
		err = e.runStake(ctx, log, backend, st, cycle, sentry)
	default:
		err = fmt.Errorf("unknown cycle stage %q on farm %s", cycle.Stage, farmID)
	}

	report.NextStage = cycle.Stage
	report.State = cycle.State
	if err != nil {
		log.Warn().Err(err).Msg("harvest stage did not advance")
		return report, err
	}
	log.Info().Str("next_stage", string(cycle.Stage)).Str("state", string(cycle.State)).
		Msg("harvest stage completed")
	return report, nil
}

// advanceStage moves cycle to the stage after cur in the backend's ring,
// wrapping Stake back to ClaimReward.
func advanceStage(stages []types.CycleStage, cycle *types.FarmCycle) {
	for i, s := range stages {
		if s == cycle.Stage {
			cycle.Stage = stages[(i+1)%len(stages)]
			return
		}
	}
	cycle.Stage = stages[0]
}

func (e *Engine) runClaim(ctx context.Context, log zerolog.Logger, backend Backend, st *types.Strategy, cycle *types.FarmCycle) error {
	status, err := backend.Status(ctx, cycle.FarmID)
	if err != nil {
		return fmt.Errorf("farm status: %w", err)
	}
	if status != exchange.FarmStatusRunning && cycle.State == types.FarmRunning {
		cycle.State = types.FarmEnded
		log.Warn().Str("status", status).Msg("farm stopped distributing, draining remainder")
	}

	unclaimed, err := backend.Unclaimed(ctx, cycle.FarmID)
	if err != nil {
		return fmt.Errorf("unclaimed reward: %w", err)
	}
	if unclaimed.IsZero() {
		if cycle.State == types.FarmEnded {
			cycle.State = types.FarmCleared
			log.Info().Msg("ended farm fully drained, marking cleared")
			return nil
		}
		return ErrNoReward
	}

	if err := backend.Claim(ctx, cycle.FarmID); err != nil {
		return fmt.Errorf("claim reward: %w", err)
	}
	cycle.LastReward = cycle.LastReward.Add(unclaimed)
	advanceStage(backend.Stages(), cycle)
	log.Info().Str("reward", unclaimed.String()).Msg("reward claimed")
	return nil
}

func (e *Engine) runWithdraw(ctx context.Context, log zerolog.Logger, backend Backend, st *types.Strategy, cycle *types.FarmCycle) error {
	if cycle.LastReward.IsZero() {
		advanceStage(backend.Stages(), cycle)
		return nil
	}
	if err := backend.WithdrawReward(ctx, cycle.LastReward); err != nil {
		return fmt.Errorf("withdraw reward: %w", err)
	}

	split, err := fees.Compute(cycle.LastReward, st.Fees)
	if err != nil {
		return fmt.Errorf("fee split: %w", err)
	}
	st.Fees.PendingSentry = st.Fees.PendingSentry.Add(split.Sentry)
	st.Fees.PendingCreator = st.Fees.PendingCreator.Add(split.Creator)
	st.Fees.PendingTreasury = st.Fees.PendingTreasury.Add(split.Treasury)
	cycle.LastReward = split.Remaining

	advanceStage(backend.Stages(), cycle)
	log.Info().
		Str("remaining", split.Remaining.String()).
		Str("treasury", split.Treasury.String()).
		Str("sentry", split.Sentry.String()).
		Str("creator", split.Creator.String()).
		Msg("reward withdrawn, fees escrowed")
	return nil
}

func (e *Engine) runSwap(ctx context.Context, log zerolog.Logger, backend Backend, st *types.Strategy, cycle *types.FarmCycle) error {
	legs, err := backend.SwapLegs(cycle.Stage, cycle)
	if err != nil {
		return err
	}

	for _, leg := range legs {
		if leg.AmountIn.IsZero() {
			continue
		}
		out, err := e.swapLeg(ctx, backend, st, cycle, leg)
		if err != nil {
			// Completed legs already moved their input into the
			// available balance; only the failed remainder is retried.
			return err
		}
		cycle.AvailableBalance[leg.Slot] = cycle.AvailableBalance[leg.Slot].Add(out)
		cycle.LastReward = cycle.LastReward.Sub(leg.AmountIn)
		log.Info().
			Str("token_out", leg.TokenOut).
			Str("amount_in", leg.AmountIn.String()).
			Str("amount_out", out.String()).
			Msg("swap leg filled")
	}

	cycle.ResetSlippage(st.SlippageBaselineBps)
	advanceStage(backend.Stages(), cycle)
	return nil
}

func (e *Engine) swapLeg(ctx context.Context, backend Backend, st *types.Strategy, cycle *types.FarmCycle, leg SwapLeg) (sdkmath.Int, error) {
	if leg.TokenIn == leg.TokenOut {
		return leg.AmountIn, nil
	}
	quote, err := backend.Quote(ctx, leg)
	if err != nil {
		return sdkmath.ZeroInt(), fmt.Errorf("quote %s->%s: %w", leg.TokenIn, leg.TokenOut, err)
	}
	minOut, err := tokenmath.ApplyBps(quote, cycle.SlippageBps)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	out, err := backend.Swap(ctx, leg, minOut)
	if err == nil {
		return out, nil
	}
	if !cycle.WidenSlippage(st.SlippageStepBps, st.SlippageFloorBps) {
		cycle.State = types.FarmEnded
		return sdkmath.ZeroInt(), fmt.Errorf("%w: tolerance floor %d bps reached on %s->%s",
			ErrSwapBelowMinimum, st.SlippageFloorBps, leg.TokenIn, leg.TokenOut)
	}
	return sdkmath.ZeroInt(), fmt.Errorf("%w: %s->%s, retrying at %d bps",
		ErrSwapBelowMinimum, leg.TokenIn, leg.TokenOut, cycle.SlippageBps)
}

func (e *Engine) runStake(ctx context.Context, log zerolog.Logger, backend Backend, st *types.Strategy, cycle *types.FarmCycle, sentry string) error {
	e.paySentry(ctx, log, backend, st, sentry)

	if cycle.AvailableBalance[0].IsPositive() || cycle.AvailableBalance[1].IsPositive() {
		minted, err := backend.ProvideLiquidity(ctx, cycle.AvailableBalance)
		if err != nil {
			// Balances stay accounted so the retried invocation deposits
			// the exact same amounts.
			return fmt.Errorf("provide liquidity: %w", err)
		}
		cycle.AvailableBalance[0] = sdkmath.ZeroInt()
		cycle.AvailableBalance[1] = sdkmath.ZeroInt()
		cycle.SharesToStake = cycle.SharesToStake.Add(minted)
		log.Info().Str("minted", minted.String()).Msg("liquidity added")
	}

	if cycle.SharesToStake.LT(st.MinDeposit) {
		log.Info().Str("shares", cycle.SharesToStake.String()).
			Str("min_deposit", st.MinDeposit.String()).
			Msg("below stake threshold, carrying shares to next round")
		advanceStage(backend.Stages(), cycle)
		return nil
	}

	amount := cycle.SharesToStake
	if err := backend.Stake(ctx, amount); err != nil {
		return fmt.Errorf("stake shares: %w", err)
	}
	if err := e.ledger.AddSeedTotal(st.SeedID, amount); err != nil {
		return err
	}
	cycle.SharesToStake = sdkmath.ZeroInt()
	advanceStage(backend.Stages(), cycle)
	log.Info().Str("staked", amount.String()).Msg("compound round staked")
	return nil
}

// paySentry pays out the escrowed sentry fee. Payout failure is not a stage
// failure: the amount goes back into escrow and rides along with the next
// round's fees.
func (e *Engine) paySentry(ctx context.Context, log zerolog.Logger, backend Backend, st *types.Strategy, sentry string) {
	if sentry == "" || !st.Fees.PendingSentry.IsPositive() {
		return
	}
	registered, err := backend.RewardRegistered(ctx, sentry)
	if err != nil || !registered {
		log.Warn().Err(err).Str("sentry", sentry).Msg("sentry not payable, fee stays escrowed")
		return
	}
	amount := st.Fees.PendingSentry
	st.Fees.PendingSentry = sdkmath.ZeroInt()
	if err := backend.PayReward(ctx, sentry, amount); err != nil {
		st.Fees.PendingSentry = st.Fees.PendingSentry.Add(amount)
		log.Warn().Err(err).Str("sentry", sentry).Msg("sentry payout failed, re-escrowed")
		return
	}
	log.Info().Str("sentry", sentry).Str("amount", amount.String()).Msg("sentry fee paid")
}
