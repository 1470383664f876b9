package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/swapper/x/swap/types"
)

// InitGenesis initializes the swap module's state from a genesis state.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid swap genesis: %w", err)
	}
	if err := k.SetParams(ctx, genState.Params); err != nil {
		return err
	}

	for i := range genState.Pools {
		pool := genState.Pools[i]
		if err := k.SetPool(ctx, &pool); err != nil {
			return err
		}
		k.setPoolIndex(ctx, pool.TokenA, pool.TokenB, pool.Id)
		k.recordReserves(&pool)
	}
	k.metrics.PoolsTotal.Set(float64(len(genState.Pools)))
	k.SetNextPoolID(ctx, genState.NextPoolId)

	return nil
}

// ExportGenesis returns the swap module's exported genesis.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	pools, err := k.GetAllPools(ctx)
	if err != nil {
		return nil, err
	}
	nextPoolID, err := k.GetNextPoolID(ctx)
	if err != nil {
		return nil, err
	}

	return &types.GenesisState{
		Params:     k.GetParams(ctx),
		Pools:      pools,
		NextPoolId: nextPoolID,
	}, nil
}
