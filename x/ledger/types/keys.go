package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "ledger"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	BalanceKeyPrefix   = []byte{0x01} // denom -> holder -> amount
	AllowanceKeyPrefix = []byte{0x02} // denom -> owner -> spender -> amount
	SupplyKeyPrefix    = []byte{0x03} // denom -> total supply
)

// BalanceKey returns the store key for a holder's balance of denom
func BalanceKey(denom string, holder sdk.AccAddress) []byte {
	key := append([]byte{}, BalanceKeyPrefix...)
	key = append(key, address.MustLengthPrefix([]byte(denom))...)
	return append(key, address.MustLengthPrefix(holder)...)
}

// BalanceKeyDenomPrefix returns the prefix for every balance of denom
func BalanceKeyDenomPrefix(denom string) []byte {
	key := append([]byte{}, BalanceKeyPrefix...)
	return append(key, address.MustLengthPrefix([]byte(denom))...)
}

// AllowanceKey returns the store key for the amount spender may move on behalf of owner
func AllowanceKey(denom string, owner, spender sdk.AccAddress) []byte {
	key := append([]byte{}, AllowanceKeyPrefix...)
	key = append(key, address.MustLengthPrefix([]byte(denom))...)
	key = append(key, address.MustLengthPrefix(owner)...)
	return append(key, address.MustLengthPrefix(spender)...)
}

// SupplyKey returns the store key for the total supply of denom
func SupplyKey(denom string) []byte {
	return append(append([]byte{}, SupplyKeyPrefix...), []byte(denom)...)
}

// ParseLengthPrefixed splits one length-prefixed segment off the front of bz.
func ParseLengthPrefixed(bz []byte) (segment, rest []byte, ok bool) {
	if len(bz) == 0 {
		return nil, nil, false
	}
	n := int(bz[0])
	if len(bz) < 1+n {
		return nil, nil, false
	}
	return bz[1 : 1+n], bz[1+n:], true
}
