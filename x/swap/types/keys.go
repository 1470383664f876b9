package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "swap"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// ShareDenomPrefix prefixes the share-ledger denom of every pool
	ShareDenomPrefix = "swap/pool/"
)

var (
	// PoolKeyPrefix is the prefix for pool storage
	PoolKeyPrefix = []byte{0x01}

	// PoolCountKey is the key for the next pool ID
	PoolCountKey = []byte{0x02}

	// PoolByTokensKeyPrefix indexes pools by their sorted denom pair
	PoolByTokensKeyPrefix = []byte{0x03}

	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x04}
)

// PoolKey returns the store key for a pool
func PoolKey(poolID uint64) []byte {
	return append(append([]byte{}, PoolKeyPrefix...), sdk.Uint64ToBigEndian(poolID)...)
}

// PoolByTokensKey returns the index key for a token pair, independent of orientation
func PoolByTokensKey(tokenA, tokenB string) []byte {
	if tokenA > tokenB {
		tokenA, tokenB = tokenB, tokenA
	}
	key := append([]byte{}, PoolByTokensKeyPrefix...)
	key = append(key, address.MustLengthPrefix([]byte(tokenA))...)
	return append(key, address.MustLengthPrefix([]byte(tokenB))...)
}

// PoolAddress is the ledger account holding a pool's assets.
func PoolAddress(poolID uint64) sdk.AccAddress {
	return address.Module(ModuleName, []byte("pool"), sdk.Uint64ToBigEndian(poolID))
}

// LockedSharesAddress holds the minimum-liquidity shares of a pool. Nothing can sign for it.
func LockedSharesAddress(poolID uint64) sdk.AccAddress {
	return address.Module(ModuleName, []byte("locked"), sdk.Uint64ToBigEndian(poolID))
}

// ShareDenom is the share-ledger denom of a pool's LP shares.
func ShareDenom(poolID uint64) string {
	return fmt.Sprintf("%s%d", ShareDenomPrefix, poolID)
}
