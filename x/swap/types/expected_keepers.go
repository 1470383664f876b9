package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AssetLedger is the fungible-token ledger holding the pooled assets.
type AssetLedger interface {
	BalanceOf(ctx context.Context, denom string, holder sdk.AccAddress) sdkmath.Int
	Transfer(ctx context.Context, denom string, from, to sdk.AccAddress, amount sdkmath.Int) error
	TransferFrom(ctx context.Context, denom string, spender, owner, to sdk.AccAddress, amount sdkmath.Int) error
}

// ShareLedger issues the LP shares of every pool.
type ShareLedger interface {
	AssetLedger
	TotalSupply(ctx context.Context, denom string) sdkmath.Int
	Mint(ctx context.Context, denom string, to sdk.AccAddress, amount sdkmath.Int) error
	Burn(ctx context.Context, denom string, from sdk.AccAddress, amount sdkmath.Int) error
}
