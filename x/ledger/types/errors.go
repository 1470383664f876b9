package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Ledger module sentinel errors
var (
	ErrInvalidDenom          = sdkerrors.Register(ModuleName, 2, "invalid denomination")
	ErrInvalidAddress        = sdkerrors.Register(ModuleName, 3, "invalid address")
	ErrInvalidAmount         = sdkerrors.Register(ModuleName, 4, "invalid amount")
	ErrInsufficientBalance   = sdkerrors.Register(ModuleName, 5, "insufficient balance")
	ErrInsufficientAllowance = sdkerrors.Register(ModuleName, 6, "insufficient allowance")
	ErrSupplyOverflow        = sdkerrors.Register(ModuleName, 7, "total supply overflow")
)
