package app

import (
	errorsmod "cosmossdk.io/errors"
)

// AppCodespace is the codespace for application-level errors
const AppCodespace = "app"

var (
	ErrNotInitialized     = errorsmod.Register(AppCodespace, 2, "state is not initialized; run init first")
	ErrAlreadyInitialized = errorsmod.Register(AppCodespace, 3, "state is already initialized")
	ErrReservedDenom      = errorsmod.Register(AppCodespace, 4, "denom is reserved for pool shares")
	ErrInvalidGenesis     = errorsmod.Register(AppCodespace, 5, "invalid genesis state")
	ErrInvalidRequest     = errorsmod.Register(AppCodespace, 6, "invalid request")
	ErrReservedAddress    = errorsmod.Register(AppCodespace, 7, "address is a pool account")
)
