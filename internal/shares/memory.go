package shares

import (
	"sync"

	sdkmath "cosmossdk.io/math"

	"github.com/fluxus-finance/fluxus-contracts-sub000/internal/types"
)

// MemoryStore is an in-memory Store. It backs the engine's working state: the
// persistence layer snapshots it after each invocation and reloads it at
// startup.
type MemoryStore struct {
	mu       sync.RWMutex
	balances map[string]map[string]sdkmath.Int // share id -> account -> balance
	supplies map[string]sdkmath.Int
	totals   map[types.SeedID]sdkmath.Int
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		balances: make(map[string]map[string]sdkmath.Int),
		supplies: make(map[string]sdkmath.Int),
		totals:   make(map[types.SeedID]sdkmath.Int),
	}
}

func (m *MemoryStore) ShareBalance(shareID, account string) (sdkmath.Int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if accounts, ok := m.balances[shareID]; ok {
		if balance, ok := accounts[account]; ok {
			return balance, nil
		}
	}
	return sdkmath.ZeroInt(), nil
}

func (m *MemoryStore) SetShareBalance(shareID, account string, amount sdkmath.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	accounts, ok := m.balances[shareID]
	if !ok {
		accounts = make(map[string]sdkmath.Int)
		m.balances[shareID] = accounts
	}
	if amount.IsZero() {
		delete(accounts, account)
		return nil
	}
	accounts[account] = amount
	return nil
}

func (m *MemoryStore) TotalSupply(shareID string) (sdkmath.Int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if supply, ok := m.supplies[shareID]; ok {
		return supply, nil
	}
	return sdkmath.ZeroInt(), nil
}

func (m *MemoryStore) SetTotalSupply(shareID string, amount sdkmath.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.supplies[shareID] = amount
	return nil
}

func (m *MemoryStore) SeedTotal(seed types.SeedID) (sdkmath.Int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if total, ok := m.totals[seed]; ok {
		return total, nil
	}
	return sdkmath.ZeroInt(), nil
}

func (m *MemoryStore) SetSeedTotal(seed types.SeedID, amount sdkmath.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals[seed] = amount
	return nil
}

// Holders returns the accounts with a non-zero balance of the share id.
// Used by the ops API and the persistence snapshot.
func (m *MemoryStore) Holders(shareID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := m.balances[shareID]
	out := make([]string, 0, len(accounts))
	for account := range accounts {
		out = append(out, account)
	}
	return out
}

// ShareIDs returns every share id with at least one holder.
func (m *MemoryStore) ShareIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.balances))
	for shareID := range m.balances {
		out = append(out, shareID)
	}
	return out
}

// Seeds returns every seed with a recorded total.
func (m *MemoryStore) Seeds() []types.SeedID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.SeedID, 0, len(m.totals))
	for seed := range m.totals {
		out = append(out, seed)
	}
	return out
}
