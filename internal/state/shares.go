package state

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/shares"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/strategy"
	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

// SaveShares snapshots the whole share ledger. Balances and seed totals are
// replaced wholesale in one transaction; total supplies are derived from the
// balances on load.
func SaveShares(store *shares.MemoryStore) error {
	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("begin share snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM share_balances`); err != nil {
		return fmt.Errorf("clear share balances: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM seed_totals`); err != nil {
		return fmt.Errorf("clear seed totals: %w", err)
	}

	for _, shareID := range store.ShareIDs() {
		for _, account := range store.Holders(shareID) {
			balance, err := store.ShareBalance(shareID, account)
			if err != nil {
				return err
			}
			if balance.IsZero() {
				continue
			}
			_, err = tx.Exec(`
				INSERT INTO share_balances (share_id, account, amount)
				VALUES ($1, $2, $3)`,
				shareID, account, balance.String())
			if err != nil {
				return fmt.Errorf("save balance %s/%s: %w", shareID, account, err)
			}
		}
	}

	for _, seed := range store.Seeds() {
		total, err := store.SeedTotal(seed)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			INSERT INTO seed_totals (seed_id, amount) VALUES ($1, $2)`,
			string(seed), total.String())
		if err != nil {
			return fmt.Errorf("save seed total %s: %w", seed, err)
		}
	}

	return tx.Commit()
}

// LoadShares restores the share ledger snapshot into an in-memory store.
func LoadShares() (*shares.MemoryStore, error) {
	store := shares.NewMemoryStore()

	rows, err := DB.Query(`SELECT share_id, account, amount FROM share_balances`)
	if err != nil {
		return nil, fmt.Errorf("load share balances: %w", err)
	}
	defer rows.Close()

	supplies := make(map[string]sdkmath.Int)
	for rows.Next() {
		var shareID, account, raw string
		if err := rows.Scan(&shareID, &account, &raw); err != nil {
			return nil, fmt.Errorf("scan share balance: %w", err)
		}
		amount, ok := sdkmath.NewIntFromString(raw)
		if !ok {
			return nil, fmt.Errorf("bad stored balance %q for %s/%s", raw, shareID, account)
		}
		if err := store.SetShareBalance(shareID, account, amount); err != nil {
			return nil, err
		}
		supply, seen := supplies[shareID]
		if !seen {
			supply = sdkmath.ZeroInt()
		}
		supplies[shareID] = supply.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for shareID, supply := range supplies {
		if err := store.SetTotalSupply(shareID, supply); err != nil {
			return nil, err
		}
	}

	seedRows, err := DB.Query(`SELECT seed_id, amount FROM seed_totals`)
	if err != nil {
		return nil, fmt.Errorf("load seed totals: %w", err)
	}
	defer seedRows.Close()

	for seedRows.Next() {
		var seedID, raw string
		if err := seedRows.Scan(&seedID, &raw); err != nil {
			return nil, fmt.Errorf("scan seed total: %w", err)
		}
		amount, ok := sdkmath.NewIntFromString(raw)
		if !ok {
			return nil, fmt.Errorf("bad stored seed total %q for %s", raw, seedID)
		}
		if err := store.SetSeedTotal(types.SeedID(seedID), amount); err != nil {
			return nil, err
		}
	}
	return store, seedRows.Err()
}

// RecordHarvest appends one harvest invocation to the audit log.
func RecordHarvest(report *strategy.HarvestReport) error {
	_, err := DB.Exec(`
		INSERT INTO harvests (invocation_id, strategy_id, farm_id, stage, next_stage, farm_state)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		report.InvocationID, report.StrategyID, string(report.FarmID),
		string(report.Stage), string(report.NextStage), string(report.State))
	if err != nil {
		return fmt.Errorf("record harvest %s: %w", report.InvocationID, err)
	}
	return nil
}
