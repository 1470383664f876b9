package types

import (
	"errors"

	sdkerrors "cosmossdk.io/errors"
)

// Swap module sentinel errors
var (
	// Engine errors
	ErrInsufficientReserve = sdkerrors.Register(ModuleName, 2, "insufficient reserve")
	ErrInsufficientShares  = sdkerrors.Register(ModuleName, 3, "insufficient shares")
	ErrTransferFailed      = sdkerrors.Register(ModuleName, 4, "token transfer failed")
	ErrUninitializedPool   = sdkerrors.Register(ModuleName, 5, "pool has no liquidity")

	// Input errors
	ErrInvalidAmount    = sdkerrors.Register(ModuleName, 10, "invalid amount")
	ErrInvalidTokenPair = sdkerrors.Register(ModuleName, 11, "invalid token pair")
	ErrInvalidAddress   = sdkerrors.Register(ModuleName, 12, "invalid address")
	ErrInvalidSwapKind  = sdkerrors.Register(ModuleName, 13, "invalid swap kind")
	ErrInvalidParams    = sdkerrors.Register(ModuleName, 14, "invalid params")

	// Pool errors
	ErrPoolNotFound      = sdkerrors.Register(ModuleName, 20, "pool not found")
	ErrPoolAlreadyExists = sdkerrors.Register(ModuleName, 21, "pool already exists")
	ErrInvalidPoolState  = sdkerrors.Register(ModuleName, 22, "invalid pool state")

	// Liquidity and swap outcome errors
	ErrInsufficientLiquidityMinted = sdkerrors.Register(ModuleName, 30, "insufficient liquidity minted")
	ErrInsufficientLiquidityBurned = sdkerrors.Register(ModuleName, 31, "insufficient liquidity burned")
	ErrInsufficientOutputAmount    = sdkerrors.Register(ModuleName, 32, "insufficient output amount")

	// Safety errors
	ErrInvariantViolation = sdkerrors.Register(ModuleName, 40, "invariant violation")
	ErrOverflow           = sdkerrors.Register(ModuleName, 41, "arithmetic overflow")
)

// ErrorWithRecovery wraps an error with recovery suggestions
type ErrorWithRecovery struct {
	Err      error
	Recovery string
}

func (e *ErrorWithRecovery) Error() string {
	return e.Err.Error()
}

func (e *ErrorWithRecovery) Unwrap() error {
	return e.Err
}

// RecoverySuggestions provides actionable recovery steps for each error type
var RecoverySuggestions = map[error]string{
	ErrInsufficientReserve: "Requested output is not below the pool reserve. Query the pool reserves and request a smaller amount.",
	ErrInsufficientShares:  "Share balance is lower than the amount to burn. Query your share balance for this pool.",
	ErrTransferFailed:      "The ledger refused a transfer. Check your balance and approve the pool address for at least the input amount.",
	ErrUninitializedPool:   "Pool has no liquidity yet. Seed it with add-liquidity before swapping or quoting prices.",

	ErrInvalidAmount:    "Amounts must be positive integers in base units.",
	ErrInvalidTokenPair: "Token denoms must be valid and different from each other.",
	ErrInvalidAddress:   "Address must be valid bech32 for this network.",
	ErrInvalidSwapKind:  "Use one of: exact-a-for-b, a-for-exact-b, exact-b-for-a, b-for-exact-a.",
	ErrInvalidParams:    "Fee numerator must be positive and not above the denominator. Minimum liquidity must be non-negative.",

	ErrPoolNotFound:      "Pool ID does not exist. List pools to find the right ID.",
	ErrPoolAlreadyExists: "A pool for this pair already exists. Use the existing pool.",
	ErrInvalidPoolState:  "CRITICAL: pool reserves or share supply are inconsistent. Run sync and check invariants.",

	ErrInsufficientLiquidityMinted: "Deposit too small to mint shares. The first deposit must exceed the minimum liquidity geometric mean.",
	ErrInsufficientLiquidityBurned: "Shares burned are worth nothing at current reserves. Burn a larger amount.",
	ErrInsufficientOutputAmount:    "Input too small to produce any output after fees. Increase the input amount.",

	ErrInvariantViolation: "CRITICAL: constant product would decrease. The operation was rejected and state left unchanged.",
	ErrOverflow:           "Amounts are too large for 256-bit arithmetic. Use smaller amounts.",
}

// WrapWithRecovery wraps an error with recovery suggestion
func WrapWithRecovery(err error, msg string, args ...interface{}) error {
	wrapped := sdkerrors.Wrapf(err, msg, args...)

	if suggestion, ok := RecoverySuggestions[err]; ok {
		return &ErrorWithRecovery{
			Err:      wrapped,
			Recovery: suggestion,
		}
	}

	return wrapped
}

// GetRecoverySuggestion returns the recovery suggestion for an error
func GetRecoverySuggestion(err error) string {
	var withRecovery *ErrorWithRecovery
	if errors.As(err, &withRecovery) {
		return withRecovery.Recovery
	}

	for sentinel, suggestion := range RecoverySuggestions {
		if errors.Is(err, sentinel) {
			return suggestion
		}
	}

	return "No recovery suggestion available. Check error message for details and query the pool state."
}
