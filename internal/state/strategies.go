package state

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

// SaveStrategies upserts every strategy record as one transaction.
func SaveStrategies(strategies []*types.Strategy) error {
	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("begin strategy save: %w", err)
	}
	defer tx.Rollback()

	for _, st := range strategies {
		record, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("marshal strategy %s: %w", st.ID, err)
		}
		_, err = tx.Exec(`
			INSERT INTO strategies (id, record, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (id) DO UPDATE SET record = $2, updated_at = now()`,
			st.ID, record)
		if err != nil {
			return fmt.Errorf("save strategy %s: %w", st.ID, err)
		}
	}
	return tx.Commit()
}

// DeleteStrategy removes a strategy record.
func DeleteStrategy(id string) error {
	_, err := DB.Exec(`DELETE FROM strategies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete strategy %s: %w", id, err)
	}
	return nil
}

// LoadStrategies reads every stored strategy record. Schema migration happens
// in the registry, not here.
func LoadStrategies() ([]*types.Strategy, error) {
	rows, err := DB.Query(`SELECT record FROM strategies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load strategies: %w", err)
	}
	defer rows.Close()

	var out []*types.Strategy
	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("scan strategy record: %w", err)
		}
		var st types.Strategy
		if err := json.Unmarshal(record, &st); err != nil {
			return nil, fmt.Errorf("unmarshal strategy record: %w", err)
		}
		out = append(out, &st)
	}
	return out, rows.Err()
}

// NextHarvestCount increments and returns the lifetime harvest counter.
func NextHarvestCount() (int64, error) {
	var count int64
	err := DB.QueryRow(`
		UPDATE harvest_counter SET count = count + 1
		WHERE id = 1 RETURNING count`).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("harvest counter row missing")
	}
	if err != nil {
		return 0, fmt.Errorf("bump harvest counter: %w", err)
	}
	return count, nil
}

// HarvestCount returns the lifetime harvest counter without bumping it.
func HarvestCount() (int64, error) {
	var count int64
	err := DB.QueryRow(`SELECT count FROM harvest_counter WHERE id = 1`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("read harvest counter: %w", err)
	}
	return count, nil
}
