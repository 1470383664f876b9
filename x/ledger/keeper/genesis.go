package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapper/x/ledger/types"
)

// InitGenesis mints every genesis balance and records every allowance.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid ledger genesis: %w", err)
	}

	for _, b := range genState.Balances {
		holder, err := sdk.AccAddressFromBech32(b.Address)
		if err != nil {
			return err
		}
		if err := k.Mint(ctx, b.Denom, holder, b.Amount); err != nil {
			return fmt.Errorf("genesis balance %s/%s: %w", b.Denom, b.Address, err)
		}
	}

	for _, a := range genState.Allowances {
		owner, err := sdk.AccAddressFromBech32(a.Owner)
		if err != nil {
			return err
		}
		spender, err := sdk.AccAddressFromBech32(a.Spender)
		if err != nil {
			return err
		}
		if err := k.Approve(ctx, a.Denom, owner, spender, a.Amount); err != nil {
			return fmt.Errorf("genesis allowance %s/%s: %w", a.Denom, a.Owner, err)
		}
	}
	return nil
}

// ExportGenesis returns the ledger's balances and allowances.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	genState := types.DefaultGenesis()

	err := k.IterateBalances(ctx, func(denom string, holder sdk.AccAddress, amount math.Int) bool {
		genState.Balances = append(genState.Balances, types.Balance{
			Address: holder.String(),
			Denom:   denom,
			Amount:  amount,
		})
		return false
	})
	if err != nil {
		return nil, err
	}

	err = k.IterateAllowances(ctx, func(denom string, owner, spender sdk.AccAddress, amount math.Int) bool {
		genState.Allowances = append(genState.Allowances, types.Allowance{
			Owner:   owner.String(),
			Spender: spender.String(),
			Denom:   denom,
			Amount:  amount,
		})
		return false
	})
	if err != nil {
		return nil, err
	}

	return genState, nil
}
