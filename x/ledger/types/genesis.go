package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Balance is a single holder's balance of one denom.
type Balance struct {
	Address string      `json:"address"`
	Denom   string      `json:"denom"`
	Amount  sdkmath.Int `json:"amount"`
}

// Allowance is the amount Spender may move out of Owner's balance of Denom.
type Allowance struct {
	Owner   string      `json:"owner"`
	Spender string      `json:"spender"`
	Denom   string      `json:"denom"`
	Amount  sdkmath.Int `json:"amount"`
}

// GenesisState defines the ledger module's genesis state.
type GenesisState struct {
	Balances   []Balance   `json:"balances"`
	Allowances []Allowance `json:"allowances"`
}

// DefaultGenesis returns an empty ledger.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Balances:   []Balance{},
		Allowances: []Allowance{},
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	seen := make(map[string]struct{}, len(gs.Balances))
	for i, b := range gs.Balances {
		if _, err := sdk.AccAddressFromBech32(b.Address); err != nil {
			return fmt.Errorf("balance %d: invalid address %q: %w", i, b.Address, err)
		}
		if err := sdk.ValidateDenom(b.Denom); err != nil {
			return fmt.Errorf("balance %d: %w", i, err)
		}
		if b.Amount.IsNil() || b.Amount.IsNegative() {
			return fmt.Errorf("balance %d: amount must be non-negative", i)
		}
		key := b.Denom + "/" + b.Address
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate balance for %s", key)
		}
		seen[key] = struct{}{}
	}

	for i, a := range gs.Allowances {
		if _, err := sdk.AccAddressFromBech32(a.Owner); err != nil {
			return fmt.Errorf("allowance %d: invalid owner: %w", i, err)
		}
		if _, err := sdk.AccAddressFromBech32(a.Spender); err != nil {
			return fmt.Errorf("allowance %d: invalid spender: %w", i, err)
		}
		if err := sdk.ValidateDenom(a.Denom); err != nil {
			return fmt.Errorf("allowance %d: %w", i, err)
		}
		if a.Amount.IsNil() || a.Amount.IsNegative() {
			return fmt.Errorf("allowance %d: amount must be non-negative", i)
		}
	}
	return nil
}
