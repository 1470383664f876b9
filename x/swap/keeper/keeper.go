package keeper

import (
	"context"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapper/x/swap/types"
)

// Keeper owns pool state and moves assets and shares through the ledgers it is given.
type Keeper struct {
	storeKey storetypes.StoreKey
	cdc      *codec.LegacyAmino
	assets   types.AssetLedger
	shares   types.ShareLedger
	logger   log.Logger
	metrics  *SwapMetrics
}

// NewKeeper creates a new swap Keeper instance
func NewKeeper(
	cdc *codec.LegacyAmino,
	key storetypes.StoreKey,
	assets types.AssetLedger,
	shares types.ShareLedger,
	logger log.Logger,
) Keeper {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return Keeper{
		storeKey: key,
		cdc:      cdc,
		assets:   assets,
		shares:   shares,
		logger:   logger,
		metrics:  NewSwapMetrics(),
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger() log.Logger {
	return k.logger.With("module", "x/"+types.ModuleName)
}

// getStore returns the KVStore for the swap module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// atomically runs fn against a branch of ctx's multistore. The branch, including
// every ledger write made through it, is written back and its events emitted only
// when fn succeeds.
func (k Keeper) atomically(ctx context.Context, fn func(cacheCtx sdk.Context) error) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cms := sdkCtx.MultiStore().CacheMultiStore()
	cacheCtx := sdkCtx.WithMultiStore(cms).WithEventManager(sdk.NewEventManager())

	if err := fn(cacheCtx); err != nil {
		return err
	}

	cms.Write()
	sdkCtx.EventManager().EmitEvents(cacheCtx.EventManager().Events())
	return nil
}
