package api

import (
	"cosmossdk.io/math"

	swaptypes "github.com/paw-chain/swapper/x/swap/types"
)

// ==================== Pool Types ====================

// CreatePoolRequest registers an empty pool
type CreatePoolRequest struct {
	Creator string `json:"creator" binding:"required"`
	TokenA  string `json:"token_a" binding:"required"`
	TokenB  string `json:"token_b" binding:"required"`
}

// AddLiquidityRequest deposits both tokens into a pool
type AddLiquidityRequest struct {
	Provider string `json:"provider" binding:"required"`
	AmountA  string `json:"amount_a" binding:"required"`
	AmountB  string `json:"amount_b" binding:"required"`
}

// BurnRequest redeems pool shares
type BurnRequest struct {
	Provider string `json:"provider" binding:"required"`
	Shares   string `json:"shares" binding:"required"`
}

// SwapRequest trades against a pool
type SwapRequest struct {
	Trader string `json:"trader" binding:"required"`
	Kind   string `json:"kind" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// PoolResponse is a pool together with its derived addresses
type PoolResponse struct {
	swaptypes.Pool
	Address    string `json:"address"`
	ShareDenom string `json:"share_denom"`
}

// PoolsResponse lists pools
type PoolsResponse struct {
	Pools []PoolResponse `json:"pools"`
	Count int            `json:"count"`
}

// PriceResponse answers a price query
type PriceResponse struct {
	PoolID uint64   `json:"pool_id"`
	Side   string   `json:"side"`
	Amount math.Int `json:"amount"`
	Price  math.Int `json:"price"`
}

// ==================== Ledger Types ====================

// MintRequest credits new tokens (faucet)
type MintRequest struct {
	Denom  string `json:"denom" binding:"required"`
	To     string `json:"to" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// ApproveRequest sets an allowance. Either Spender or PoolID names the spender.
type ApproveRequest struct {
	Denom   string  `json:"denom" binding:"required"`
	Owner   string  `json:"owner" binding:"required"`
	Spender string  `json:"spender,omitempty"`
	PoolID  *uint64 `json:"pool_id,omitempty"`
	Amount  string  `json:"amount" binding:"required"`
}

// TransferRequest moves tokens between holders
type TransferRequest struct {
	Denom  string `json:"denom" binding:"required"`
	From   string `json:"from" binding:"required"`
	To     string `json:"to" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// BalanceResponse answers a balance query
type BalanceResponse struct {
	Denom   string   `json:"denom"`
	Address string   `json:"address"`
	Balance math.Int `json:"balance"`
}

// AllowanceResponse answers an allowance query
type AllowanceResponse struct {
	Denom     string   `json:"denom"`
	Owner     string   `json:"owner"`
	Spender   string   `json:"spender"`
	Allowance math.Int `json:"allowance"`
}

// TxResponse acknowledges a committed state transition
type TxResponse struct {
	Height int64       `json:"height"`
	Result interface{} `json:"result,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}
