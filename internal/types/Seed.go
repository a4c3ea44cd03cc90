/*

Identifiers for liquidity position sources. A seed names a specific
exchange pool ("exchange@pool_id"); a farm id extends it with the index of
one reward program attached to that seed ("exchange@pool_id#farm_idx").

*/

package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMalformedSeedID = errors.New("seed id must be of the form exchange@pool_id")
	ErrMalformedFarmID = errors.New("farm id must be of the form exchange@pool_id#farm_idx")
)

// SeedID identifies a liquidity position source. Multiple strategies may
// reference the same seed.
type SeedID string

// FarmID identifies one reward program attached to a seed.
type FarmID string

// NewSeedID builds the canonical seed id for an exchange account and pool.
func NewSeedID(exchange string, poolID uint64) SeedID {
	return SeedID(fmt.Sprintf("%s@%d", exchange, poolID))
}

// Parse splits a seed id into its exchange account and pool id.
func (s SeedID) Parse() (string, uint64, error) {
	exchange, poolStr, ok := strings.Cut(string(s), "@")
	if !ok || exchange == "" {
		return "", 0, fmt.Errorf("%w: %q", ErrMalformedSeedID, s)
	}
	poolID, err := strconv.ParseUint(poolStr, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrMalformedSeedID, s)
	}
	return exchange, poolID, nil
}

// NewFarmID builds the canonical farm id for a seed and farm index.
func NewFarmID(seed SeedID, farmIndex uint64) FarmID {
	return FarmID(fmt.Sprintf("%s#%d", seed, farmIndex))
}

// Seed returns the seed portion of the farm id.
func (f FarmID) Seed() (SeedID, error) {
	seedStr, _, ok := strings.Cut(string(f), "#")
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMalformedFarmID, f)
	}
	seed := SeedID(seedStr)
	if _, _, err := seed.Parse(); err != nil {
		return "", err
	}
	return seed, nil
}

// Index returns the farm index portion of the farm id.
func (f FarmID) Index() (uint64, error) {
	_, idxStr, ok := strings.Cut(string(f), "#")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformedFarmID, f)
	}
	idx, err := strconv.ParseUint(idxStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedFarmID, f)
	}
	return idx, nil
}

// ShareIDForSeed derives the accounting share id for a seed. Each seed has
// exactly one accounting share id once created.
func ShareIDForSeed(seed SeedID) string {
	return "fft_share@" + string(seed)
}
