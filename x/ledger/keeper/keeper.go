package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapper/x/ledger/types"
)

// Keeper is a multi-denom fungible token ledger with ERC20 semantics:
// balances, allowances, transfer, transferFrom, mint and burn.
type Keeper struct {
	storeKey storetypes.StoreKey
	logger   log.Logger
}

// NewKeeper creates a new ledger Keeper instance
func NewKeeper(key storetypes.StoreKey, logger log.Logger) Keeper {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return Keeper{
		storeKey: key,
		logger:   logger,
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger() log.Logger {
	return k.logger.With("module", "x/"+types.ModuleName)
}

// getStore returns the KVStore for the ledger module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

func (k Keeper) getInt(ctx context.Context, key []byte) math.Int {
	bz := k.getStore(ctx).Get(key)
	if bz == nil {
		return math.ZeroInt()
	}

	var v math.Int
	if err := v.Unmarshal(bz); err != nil {
		// stored values are only ever written by setInt
		panic(fmt.Errorf("ledger: corrupt integer at key %X: %w", key, err))
	}
	return v
}

func (k Keeper) setInt(ctx context.Context, key []byte, v math.Int) error {
	store := k.getStore(ctx)
	if v.IsZero() {
		store.Delete(key)
		return nil
	}

	bz, err := v.Marshal()
	if err != nil {
		return err
	}
	store.Set(key, bz)
	return nil
}

// BalanceOf returns holder's balance of denom.
func (k Keeper) BalanceOf(ctx context.Context, denom string, holder sdk.AccAddress) math.Int {
	return k.getInt(ctx, types.BalanceKey(denom, holder))
}

// TotalSupply returns the amount of denom in existence.
func (k Keeper) TotalSupply(ctx context.Context, denom string) math.Int {
	return k.getInt(ctx, types.SupplyKey(denom))
}

// Allowance returns how much spender may still move out of owner's balance.
func (k Keeper) Allowance(ctx context.Context, denom string, owner, spender sdk.AccAddress) math.Int {
	return k.getInt(ctx, types.AllowanceKey(denom, owner, spender))
}

// Transfer moves amount of denom from one holder to another.
func (k Keeper) Transfer(ctx context.Context, denom string, from, to sdk.AccAddress, amount math.Int) error {
	if err := validateTransfer(denom, amount, from, to); err != nil {
		return err
	}
	if err := k.move(ctx, denom, from, to, amount); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeTransfer,
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyFrom, from.String()),
			sdk.NewAttribute(types.AttributeKeyTo, to.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}

// Approve sets the amount spender may move out of owner's balance, replacing any previous value.
func (k Keeper) Approve(ctx context.Context, denom string, owner, spender sdk.AccAddress, amount math.Int) error {
	if err := validateTransfer(denom, amount, owner, spender); err != nil {
		return err
	}
	if err := k.setInt(ctx, types.AllowanceKey(denom, owner, spender), amount); err != nil {
		return fmt.Errorf("Approve: store allowance: %w", err)
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeApproval,
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
			sdk.NewAttribute(types.AttributeKeySpender, spender.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}

// TransferFrom moves amount of denom from owner to `to`, spending spender's allowance.
// A holder moving its own funds needs no allowance.
func (k Keeper) TransferFrom(ctx context.Context, denom string, spender, owner, to sdk.AccAddress, amount math.Int) error {
	if err := validateTransfer(denom, amount, owner, to); err != nil {
		return err
	}
	if err := sdk.VerifyAddressFormat(spender); err != nil {
		return types.ErrInvalidAddress.Wrapf("spender: %v", err)
	}

	if !spender.Equals(owner) {
		allowance := k.Allowance(ctx, denom, owner, spender)
		if allowance.LT(amount) {
			return types.ErrInsufficientAllowance.Wrapf("%s allows %s to spend %s%s, need %s%s",
				owner, spender, allowance, denom, amount, denom)
		}
		if err := k.setInt(ctx, types.AllowanceKey(denom, owner, spender), allowance.Sub(amount)); err != nil {
			return fmt.Errorf("TransferFrom: store allowance: %w", err)
		}
	}

	return k.Transfer(ctx, denom, owner, to, amount)
}

// Mint creates amount of denom in to's balance.
func (k Keeper) Mint(ctx context.Context, denom string, to sdk.AccAddress, amount math.Int) error {
	if err := validateTransfer(denom, amount, to); err != nil {
		return err
	}

	supply, err := k.TotalSupply(ctx, denom).SafeAdd(amount)
	if err != nil {
		return types.ErrSupplyOverflow.Wrapf("minting %s%s: %v", amount, denom, err)
	}
	balance := k.BalanceOf(ctx, denom, to).Add(amount)

	if err := k.setInt(ctx, types.SupplyKey(denom), supply); err != nil {
		return fmt.Errorf("Mint: store supply: %w", err)
	}
	if err := k.setInt(ctx, types.BalanceKey(denom, to), balance); err != nil {
		return fmt.Errorf("Mint: store balance: %w", err)
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeMint,
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyTo, to.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}

// Burn destroys amount of denom from from's balance.
func (k Keeper) Burn(ctx context.Context, denom string, from sdk.AccAddress, amount math.Int) error {
	if err := validateTransfer(denom, amount, from); err != nil {
		return err
	}

	balance := k.BalanceOf(ctx, denom, from)
	if balance.LT(amount) {
		return types.ErrInsufficientBalance.Wrapf("%s holds %s%s, burning %s%s", from, balance, denom, amount, denom)
	}
	supply := k.TotalSupply(ctx, denom)

	if err := k.setInt(ctx, types.BalanceKey(denom, from), balance.Sub(amount)); err != nil {
		return fmt.Errorf("Burn: store balance: %w", err)
	}
	if err := k.setInt(ctx, types.SupplyKey(denom), supply.Sub(amount)); err != nil {
		return fmt.Errorf("Burn: store supply: %w", err)
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeBurn,
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyFrom, from.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}

func (k Keeper) move(ctx context.Context, denom string, from, to sdk.AccAddress, amount math.Int) error {
	fromBalance := k.BalanceOf(ctx, denom, from)
	if fromBalance.LT(amount) {
		return types.ErrInsufficientBalance.Wrapf("%s holds %s%s, need %s%s", from, fromBalance, denom, amount, denom)
	}
	if err := k.setInt(ctx, types.BalanceKey(denom, from), fromBalance.Sub(amount)); err != nil {
		return fmt.Errorf("move: store sender balance: %w", err)
	}

	// read after the debit so a self-transfer nets to zero
	toBalance := k.BalanceOf(ctx, denom, to)
	if err := k.setInt(ctx, types.BalanceKey(denom, to), toBalance.Add(amount)); err != nil {
		return fmt.Errorf("move: store recipient balance: %w", err)
	}
	return nil
}

// IterateBalances walks every non-zero balance in key order.
func (k Keeper) IterateBalances(ctx context.Context, cb func(denom string, holder sdk.AccAddress, amount math.Int) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.BalanceKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		denom, rest, ok := types.ParseLengthPrefixed(iterator.Key()[len(types.BalanceKeyPrefix):])
		if !ok {
			return fmt.Errorf("IterateBalances: malformed key %X", iterator.Key())
		}
		holder, _, ok := types.ParseLengthPrefixed(rest)
		if !ok {
			return fmt.Errorf("IterateBalances: malformed key %X", iterator.Key())
		}

		var amount math.Int
		if err := amount.Unmarshal(iterator.Value()); err != nil {
			return fmt.Errorf("IterateBalances: unmarshal amount: %w", err)
		}
		if cb(string(denom), sdk.AccAddress(holder), amount) {
			break
		}
	}
	return nil
}

// IterateAllowances walks every non-zero allowance in key order.
func (k Keeper) IterateAllowances(ctx context.Context, cb func(denom string, owner, spender sdk.AccAddress, amount math.Int) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.AllowanceKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		denom, rest, ok := types.ParseLengthPrefixed(iterator.Key()[len(types.AllowanceKeyPrefix):])
		if !ok {
			return fmt.Errorf("IterateAllowances: malformed key %X", iterator.Key())
		}
		owner, rest, ok := types.ParseLengthPrefixed(rest)
		if !ok {
			return fmt.Errorf("IterateAllowances: malformed key %X", iterator.Key())
		}
		spender, _, ok := types.ParseLengthPrefixed(rest)
		if !ok {
			return fmt.Errorf("IterateAllowances: malformed key %X", iterator.Key())
		}

		var amount math.Int
		if err := amount.Unmarshal(iterator.Value()); err != nil {
			return fmt.Errorf("IterateAllowances: unmarshal amount: %w", err)
		}
		if cb(string(denom), sdk.AccAddress(owner), sdk.AccAddress(spender), amount) {
			break
		}
	}
	return nil
}

func validateTransfer(denom string, amount math.Int, addrs ...sdk.AccAddress) error {
	if err := sdk.ValidateDenom(denom); err != nil {
		return types.ErrInvalidDenom.Wrap(err.Error())
	}
	if amount.IsNil() || amount.IsNegative() {
		return types.ErrInvalidAmount.Wrapf("amount must be non-negative, got %s", amount)
	}
	for _, addr := range addrs {
		if err := sdk.VerifyAddressFormat(addr); err != nil {
			return types.ErrInvalidAddress.Wrap(err.Error())
		}
	}
	return nil
}
