package types

import (
	"fmt"
)

// GenesisState defines the swap module's genesis state.
type GenesisState struct {
	Params     Params `json:"params" yaml:"params"`
	Pools      []Pool `json:"pools" yaml:"pools"`
	NextPoolId uint64 `json:"next_pool_id" yaml:"next_pool_id"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:     DefaultParams(),
		Pools:      []Pool{},
		NextPoolId: 1,
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	if gs.NextPoolId == 0 {
		return fmt.Errorf("next pool id must be positive")
	}

	poolIDs := make(map[uint64]bool, len(gs.Pools))
	pairs := make(map[string]bool, len(gs.Pools))
	for _, pool := range gs.Pools {
		if pool.Id == 0 {
			return fmt.Errorf("pool id must be positive")
		}
		if poolIDs[pool.Id] {
			return fmt.Errorf("duplicate pool id: %d", pool.Id)
		}
		poolIDs[pool.Id] = true

		if pool.Id >= gs.NextPoolId {
			return fmt.Errorf("pool id %d not below next pool id %d", pool.Id, gs.NextPoolId)
		}

		pair := string(PoolByTokensKey(pool.TokenA, pool.TokenB))
		if pairs[pair] {
			return fmt.Errorf("duplicate pool for %s/%s", pool.TokenA, pool.TokenB)
		}
		pairs[pair] = true

		if err := pool.Validate(); err != nil {
			return fmt.Errorf("pool %d: %w", pool.Id, err)
		}
	}
	return nil
}
