package keeper

import (
	"context"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapper/x/swap/types"
)

// CreatePool registers an empty pool for tokenA/tokenB. The pair is unique in
// either orientation; liquidity arrives with the first AddLiquidity.
func (k Keeper) CreatePool(ctx context.Context, creator sdk.AccAddress, tokenA, tokenB string) (*types.Pool, error) {
	if err := types.ValidateTokenPair(tokenA, tokenB); err != nil {
		return nil, err
	}
	if err := sdk.VerifyAddressFormat(creator); err != nil {
		return nil, types.ErrInvalidAddress.Wrap(err.Error())
	}

	if existing, err := k.GetPoolByTokens(ctx, tokenA, tokenB); err == nil {
		return nil, types.ErrPoolAlreadyExists.Wrapf("pool %d already trades %s/%s", existing.Id, existing.TokenA, existing.TokenB)
	}

	poolID, err := k.GetNextPoolID(ctx)
	if err != nil {
		return nil, err
	}
	pool := types.NewPool(poolID, tokenA, tokenB, creator.String())

	if err := k.SetPool(ctx, &pool); err != nil {
		return nil, err
	}
	k.setPoolIndex(ctx, tokenA, tokenB, poolID)
	k.SetNextPoolID(ctx, poolID+1)

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCreatePool,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
			sdk.NewAttribute(types.AttributeKeyCreator, creator.String()),
			sdk.NewAttribute(types.AttributeKeyTokenA, tokenA),
			sdk.NewAttribute(types.AttributeKeyTokenB, tokenB),
		),
	)

	k.metrics.PoolsTotal.Inc()
	k.Logger().Info("pool created", "pool_id", poolID, "token_a", tokenA, "token_b", tokenB, "creator", creator.String())

	return &pool, nil
}

// GetPool returns a pool by ID
func (k Keeper) GetPool(ctx context.Context, poolID uint64) (*types.Pool, error) {
	bz := k.getStore(ctx).Get(types.PoolKey(poolID))
	if bz == nil {
		return nil, types.ErrPoolNotFound.Wrapf("pool %d not found", poolID)
	}

	var pool types.Pool
	if err := k.cdc.Unmarshal(bz, &pool); err != nil {
		return nil, fmt.Errorf("GetPool: unmarshal pool %d: %w", poolID, err)
	}
	return &pool, nil
}

// SetPool stores a pool
func (k Keeper) SetPool(ctx context.Context, pool *types.Pool) error {
	bz, err := k.cdc.Marshal(*pool)
	if err != nil {
		return fmt.Errorf("SetPool: marshal pool %d: %w", pool.Id, err)
	}
	k.getStore(ctx).Set(types.PoolKey(pool.Id), bz)
	return nil
}

// GetPoolByTokens returns the pool trading tokenA/tokenB in either orientation.
func (k Keeper) GetPoolByTokens(ctx context.Context, tokenA, tokenB string) (*types.Pool, error) {
	bz := k.getStore(ctx).Get(types.PoolByTokensKey(tokenA, tokenB))
	if bz == nil {
		return nil, types.ErrPoolNotFound.Wrapf("no pool for %s/%s", tokenA, tokenB)
	}
	return k.GetPool(ctx, sdk.BigEndianToUint64(bz))
}

func (k Keeper) setPoolIndex(ctx context.Context, tokenA, tokenB string, poolID uint64) {
	k.getStore(ctx).Set(types.PoolByTokensKey(tokenA, tokenB), sdk.Uint64ToBigEndian(poolID))
}

// GetNextPoolID returns the ID the next created pool will get.
func (k Keeper) GetNextPoolID(ctx context.Context) (uint64, error) {
	bz := k.getStore(ctx).Get(types.PoolCountKey)
	if bz == nil {
		return 1, nil
	}
	if len(bz) != 8 {
		return 0, fmt.Errorf("GetNextPoolID: corrupt counter %X", bz)
	}
	return sdk.BigEndianToUint64(bz), nil
}

// SetNextPoolID sets the next pool ID
func (k Keeper) SetNextPoolID(ctx context.Context, poolID uint64) {
	k.getStore(ctx).Set(types.PoolCountKey, sdk.Uint64ToBigEndian(poolID))
}

// IteratePools iterates over all pools in ID order
func (k Keeper) IteratePools(ctx context.Context, cb func(pool types.Pool) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PoolKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := k.cdc.Unmarshal(iterator.Value(), &pool); err != nil {
			return fmt.Errorf("IteratePools: unmarshal: %w", err)
		}
		if cb(pool) {
			break
		}
	}
	return nil
}

// GetAllPools returns all pools
func (k Keeper) GetAllPools(ctx context.Context) ([]types.Pool, error) {
	pools := []types.Pool{}
	err := k.IteratePools(ctx, func(pool types.Pool) bool {
		pools = append(pools, pool)
		return false
	})
	return pools, err
}

// PoolAccount reports which pool, if any, owns addr as its asset account or its
// locked-shares account.
func (k Keeper) PoolAccount(ctx context.Context, addr sdk.AccAddress) (uint64, bool) {
	next, err := k.GetNextPoolID(ctx)
	if err != nil {
		return 0, false
	}
	for id := uint64(1); id < next; id++ {
		if addr.Equals(types.PoolAddress(id)) || addr.Equals(types.LockedSharesAddress(id)) {
			return id, true
		}
	}
	return 0, false
}

// observedReserves sets a seeded pool's reserves to the balances its address holds
// and reports whether they changed. Nothing is stored.
func (k Keeper) observedReserves(ctx context.Context, pool *types.Pool) bool {
	if pool.TotalShares.IsZero() {
		return false
	}

	addr := pool.Address()
	balanceA := k.assets.BalanceOf(ctx, pool.TokenA, addr)
	balanceB := k.assets.BalanceOf(ctx, pool.TokenB, addr)
	if balanceA.Equal(pool.ReserveA) && balanceB.Equal(pool.ReserveB) {
		return false
	}
	pool.ReserveA = balanceA
	pool.ReserveB = balanceB
	return true
}

// syncReserves reconciles a seeded pool's reserves with the balances its address
// holds, absorbing assets sent to it directly. An empty pool is left alone; its
// stray balance is absorbed when it is seeded.
func (k Keeper) syncReserves(ctx context.Context, pool *types.Pool) bool {
	reserveA, reserveB := pool.ReserveA, pool.ReserveB
	if !k.observedReserves(ctx, pool) {
		return false
	}

	k.Logger().Debug("reserve drift absorbed",
		"pool_id", pool.Id,
		"reserve_a", reserveA.String(), "balance_a", pool.ReserveA.String(),
		"reserve_b", reserveB.String(), "balance_b", pool.ReserveB.String(),
	)
	k.metrics.PoolSyncs.WithLabelValues(fmt.Sprintf("%d", pool.Id)).Inc()
	return true
}

// Sync reconciles a pool's reserves with its ledger balances and stores the result.
func (k Keeper) Sync(ctx context.Context, poolID uint64) (*types.Pool, error) {
	var synced *types.Pool
	err := k.atomically(ctx, func(cacheCtx sdk.Context) error {
		pool, err := k.GetPool(cacheCtx, poolID)
		if err != nil {
			return err
		}
		if !k.syncReserves(cacheCtx, pool) {
			synced = pool
			return nil
		}
		if err := k.SetPool(cacheCtx, pool); err != nil {
			return err
		}

		cacheCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeSync,
				sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
				sdk.NewAttribute(types.AttributeKeyReserveA, pool.ReserveA.String()),
				sdk.NewAttribute(types.AttributeKeyReserveB, pool.ReserveB.String()),
			),
		)
		k.recordReserves(pool)
		synced = pool
		return nil
	})
	if err != nil {
		return nil, err
	}
	return synced, nil
}

func (k Keeper) recordReserves(pool *types.Pool) {
	poolIDStr := fmt.Sprintf("%d", pool.Id)
	k.metrics.PoolReserves.WithLabelValues(poolIDStr, pool.TokenA).Set(toFloat(pool.ReserveA))
	k.metrics.PoolReserves.WithLabelValues(poolIDStr, pool.TokenB).Set(toFloat(pool.ReserveB))
	k.metrics.ShareSupply.WithLabelValues(poolIDStr).Set(toFloat(pool.TotalShares))
}
