package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
)

// ModuleCdc encodes pools, params and genesis state. None of them are
// interfaces, so nothing is registered and JSON stays unwrapped.
var ModuleCdc = codec.NewLegacyAmino()
