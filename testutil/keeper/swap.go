package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	"github.com/cometbft/cometbft/crypto/tmhash"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	ledgerkeeper "github.com/paw-chain/swapper/x/ledger/keeper"
	ledgertypes "github.com/paw-chain/swapper/x/ledger/types"
	"github.com/paw-chain/swapper/x/swap/keeper"
	"github.com/paw-chain/swapper/x/swap/types"
)

// SwapFixture bundles a swap keeper and the ledger backing it over an in-memory store.
type SwapFixture struct {
	Ctx    sdk.Context
	Store  storetypes.CommitMultiStore
	Ledger ledgerkeeper.Keeper
	Swap   keeper.Keeper
}

// SwapKeeper creates a swap keeper whose asset and share ledgers are one in-memory ledger keeper.
func SwapKeeper(t testing.TB) *SwapFixture {
	swapKey := storetypes.NewKVStoreKey(types.StoreKey)
	ledgerKey := storetypes.NewKVStoreKey(ledgertypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(swapKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(ledgerKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	ledger := ledgerkeeper.NewKeeper(ledgerKey, log.NewNopLogger())
	k := keeper.NewKeeper(types.ModuleCdc, swapKey, ledger, ledger, log.NewNopLogger())

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Height: 1, Time: time.Unix(1_700_000_000, 0).UTC()}, false, log.NewNopLogger())
	require.NoError(t, k.InitGenesis(ctx, *types.DefaultGenesis()))

	return &SwapFixture{
		Ctx:    ctx,
		Store:  stateStore,
		Ledger: ledger,
		Swap:   k,
	}
}

// TestAddr returns a deterministic 20-byte address derived from name.
func TestAddr(name string) sdk.AccAddress {
	return sdk.AccAddress(tmhash.SumTruncated([]byte(name)))
}

// Fund mints amount of denom to holder.
func (f *SwapFixture) Fund(t testing.TB, holder sdk.AccAddress, denom string, amount math.Int) {
	require.NoError(t, f.Ledger.Mint(f.Ctx, denom, holder, amount))
}

// FundAndApprove mints amount of denom to holder and approves the pool address to pull all of it.
func (f *SwapFixture) FundAndApprove(t testing.TB, holder sdk.AccAddress, poolID uint64, denom string, amount math.Int) {
	f.Fund(t, holder, denom, amount)
	allowance := f.Ledger.Allowance(f.Ctx, denom, holder, types.PoolAddress(poolID)).Add(amount)
	require.NoError(t, f.Ledger.Approve(f.Ctx, denom, holder, types.PoolAddress(poolID), allowance))
}

// CreateSeededPool creates a tokenA/tokenB pool and seeds it from a fresh provider.
func (f *SwapFixture) CreateSeededPool(t testing.TB, tokenA, tokenB string, amountA, amountB math.Int) (uint64, sdk.AccAddress) {
	provider := TestAddr("seed-provider-" + tokenA + "-" + tokenB)
	pool, err := f.Swap.CreatePool(f.Ctx, provider, tokenA, tokenB)
	require.NoError(t, err)

	f.FundAndApprove(t, provider, pool.Id, tokenA, amountA)
	f.FundAndApprove(t, provider, pool.Id, tokenB, amountB)
	_, err = f.Swap.AddLiquidity(f.Ctx, provider, pool.Id, amountA, amountB)
	require.NoError(t, err)

	return pool.Id, provider
}
