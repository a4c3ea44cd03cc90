/*

Postgres-backed persistence. The engine works entirely in memory; after every
completed invocation the runner snapshots the registry and ledger through this
package, and on startup the snapshot is loaded back.

*/

package state

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/logger"
)

// DB is the global database handle, set by Init.
var DB *sql.DB

// Init opens the postgres connection and ensures the schema exists.
func Init(databaseURL string) error {
	log := logger.GetForComponent("database")

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	DB = db

	if err := EnsureSchema(); err != nil {
		return err
	}
	log.Info().Msg("database initialized")
	return nil
}

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS strategies (
		id         TEXT PRIMARY KEY,
		record     JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS share_balances (
		share_id TEXT NOT NULL,
		account  TEXT NOT NULL,
		amount   TEXT NOT NULL,
		PRIMARY KEY (share_id, account)
	);

	CREATE TABLE IF NOT EXISTS seed_totals (
		seed_id TEXT PRIMARY KEY,
		amount  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS harvest_counter (
		id    INT PRIMARY KEY CHECK (id = 1),
		count BIGINT NOT NULL
	);
	INSERT INTO harvest_counter (id, count) VALUES (1, 0)
	ON CONFLICT (id) DO NOTHING;

	CREATE TABLE IF NOT EXISTS harvests (
		invocation_id TEXT PRIMARY KEY,
		strategy_id   TEXT NOT NULL,
		farm_id       TEXT NOT NULL,
		stage         TEXT NOT NULL,
		next_stage    TEXT NOT NULL,
		farm_state    TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`
	if _, err := DB.Exec(schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close closes the database handle.
func Close() error {
	if DB == nil {
		return nil
	}
	return DB.Close()
}
