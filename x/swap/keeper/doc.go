// Package keeper implements the swap module keeper.
//
// The swap module is a constant-product automated market maker. Each pool
// holds two assets on an external asset ledger and issues LP shares on a
// share ledger. Pools are created empty and seeded by their first deposit.
//
// # Core Functionality
//
// Liquidity: AddLiquidity pulls both assets through TransferFrom (the pool
// address is the spender, so providers approve it first) and mints shares.
// The first deposit mints floor(sqrt(a*b)) shares and locks MinimumLiquidity
// of them at LockedSharesAddress. Burn pays out a pro-rata share of the
// balances the pool address actually holds.
//
// Swaps: four variants cover exact input and exact output in each direction.
// Exact-input swaps use out = rOut*in*997 / (rIn*1000 + in*997), rounded down.
// Exact-output swaps use in = 1000*out*rIn / (997*(rOut-out)), rounded up, so
// reserveA*reserveB never shrinks.
//
// Reconciliation: every mutating operation first syncs the reserves of a
// seeded pool to the ledger balances of its address. Sync does the same on
// demand.
//
// # Atomicity
//
// Mutating operations run in a cache branch of the context's multistore.
// Ledger transfers, share mints and burns, pool writes and events are
// committed together or not at all.
//
// # Usage Patterns
//
//	pool, err := keeper.CreatePool(ctx, creator, "uatom", "uusdc")
//	change, err := keeper.AddLiquidity(ctx, provider, pool.Id, amountA, amountB)
//	result, err := keeper.SwapExactTokenAForTokenB(ctx, trader, pool.Id, amountA)
//	change, err = keeper.Burn(ctx, provider, pool.Id, change.Shares)
//
// # Metrics
//
// The keeper exposes Prometheus metrics for swaps, liquidity changes, pool
// reserves and rejected operations via SwapMetrics.
package keeper
