package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapper/x/swap/types"
)

// RegisterInvariants registers all swap invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "reserve-balance", ReserveBalanceInvariant(k))
	ir.RegisterRoute(types.ModuleName, "seeded-pool", SeededPoolInvariant(k))
	ir.RegisterRoute(types.ModuleName, "share-supply", ShareSupplyInvariant(k))
}

// ReserveBalanceInvariant checks that every pool address holds at least its reserves.
// Balances may exceed reserves until the next operation syncs them.
func ReserveBalanceInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IteratePools(ctx, func(pool types.Pool) bool {
			addr := pool.Address()
			balanceA := k.assets.BalanceOf(ctx, pool.TokenA, addr)
			balanceB := k.assets.BalanceOf(ctx, pool.TokenB, addr)

			if balanceA.LT(pool.ReserveA) {
				count++
				msg += fmt.Sprintf("pool %d: balance of %s (%s) < reserve (%s)\n",
					pool.Id, pool.TokenA, balanceA, pool.ReserveA)
			}
			if balanceB.LT(pool.ReserveB) {
				count++
				msg += fmt.Sprintf("pool %d: balance of %s (%s) < reserve (%s)\n",
					pool.Id, pool.TokenB, balanceB, pool.ReserveB)
			}
			return false
		})
		if err != nil {
			count++
			msg += err.Error() + "\n"
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "reserve-balance",
			fmt.Sprintf("found %d pools with balances below reserves\n%s", count, msg),
		), broken
	}
}

// SeededPoolInvariant checks that reserves are both positive or both zero and that
// shares exist exactly when reserves do.
func SeededPoolInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IteratePools(ctx, func(pool types.Pool) bool {
			if err := pool.Validate(); err != nil {
				count++
				msg += err.Error() + "\n"
			}
			return false
		})
		if err != nil {
			count++
			msg += err.Error() + "\n"
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "seeded-pool",
			fmt.Sprintf("found %d inconsistent pools\n%s", count, msg),
		), broken
	}
}

// ShareSupplyInvariant checks that each pool's TotalShares equals the share ledger supply.
func ShareSupplyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IteratePools(ctx, func(pool types.Pool) bool {
			supply := k.shares.TotalSupply(ctx, pool.ShareDenom())
			if !supply.Equal(pool.TotalShares) {
				count++
				msg += fmt.Sprintf("pool %d: total shares %s, ledger supply %s\n",
					pool.Id, pool.TotalShares, supply)
			}
			return false
		})
		if err != nil {
			count++
			msg += err.Error() + "\n"
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "share-supply",
			fmt.Sprintf("found %d pools with mismatched share supply\n%s", count, msg),
		), broken
	}
}
