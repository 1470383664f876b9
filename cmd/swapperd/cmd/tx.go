package cmd

import (
	"fmt"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/swapper/api"
	swaptypes "github.com/paw-chain/swapper/x/swap/types"
)

const (
	flagFrom   = "from"
	flagPoolID = "pool-id"
)

// TxCmd groups the state-changing commands sent to a running node
func TxCmd() *cobra.Command {
	txCmd := &cobra.Command{
		Use:                        "tx",
		Short:                      "Submit operations to a running node",
		SuggestionsMinimumDistance: 2,
	}
	addNodeFlag(txCmd)

	txCmd.AddCommand(
		CmdCreatePool(),
		CmdAddLiquidity(),
		CmdBurn(),
		CmdSwap(),
		CmdSync(),
		CmdMint(),
		CmdApprove(),
		CmdTransfer(),
	)
	return txCmd
}

// CmdCreatePool registers an empty pool for a token pair
func CmdCreatePool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-pool [token-a] [token-b]",
		Short: "Create an empty liquidity pool",
		Long: `Create an empty pool for a token pair. The pool is seeded by the first add-liquidity.

Example:
  $ swapperd tx create-pool uatom uosmo --from swap1...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == args[1] {
				return fmt.Errorf("tokens must be different")
			}
			creator, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			return postTx(cmd, "/api/pools", api.CreatePoolRequest{
				Creator: creator,
				TokenA:  args[0],
				TokenB:  args[1],
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

// CmdAddLiquidity deposits both tokens into a pool
func CmdAddLiquidity() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-liquidity [pool-id] [amount-a] [amount-b]",
		Short: "Deposit both tokens and receive pool shares",
		Long: `Deposit token A and token B into a pool. The pool must be approved to pull both
tokens from the provider first (see "tx approve --pool-id").

Example:
  $ swapperd tx add-liquidity 1 1000000 2000000 --from swap1...`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			amountA, err := parsePositiveInt("amount-a", args[1])
			if err != nil {
				return err
			}
			amountB, err := parsePositiveInt("amount-b", args[2])
			if err != nil {
				return err
			}
			provider, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			return postTx(cmd, fmt.Sprintf("/api/pools/%d/add-liquidity", poolID), api.AddLiquidityRequest{
				Provider: provider,
				AmountA:  amountA.String(),
				AmountB:  amountB.String(),
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

// CmdBurn redeems pool shares for the underlying tokens
func CmdBurn() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "burn [pool-id] [shares]",
		Short: "Burn pool shares and withdraw both tokens",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			shares, err := parsePositiveInt("shares", args[1])
			if err != nil {
				return err
			}
			provider, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			return postTx(cmd, fmt.Sprintf("/api/pools/%d/burn", poolID), api.BurnRequest{
				Provider: provider,
				Shares:   shares.String(),
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

// CmdSwap trades against a pool
func CmdSwap() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap [pool-id] [kind] [amount]",
		Short: "Swap one pool token for the other",
		Long: `Swap against a pool. kind is one of exact-a-for-b, a-for-exact-b, exact-b-for-a
or b-for-exact-a. For exact-in kinds amount is what you pay, for exact-out kinds
it is what you receive.

Example:
  $ swapperd tx swap 1 exact-a-for-b 100 --from swap1...`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			kind, err := swaptypes.ParseSwapKind(args[1])
			if err != nil {
				return err
			}
			amount, err := parsePositiveInt("amount", args[2])
			if err != nil {
				return err
			}
			trader, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			return postTx(cmd, fmt.Sprintf("/api/pools/%d/swap", poolID), api.SwapRequest{
				Trader: trader,
				Kind:   string(kind),
				Amount: amount.String(),
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

// CmdSync sets a pool's reserves to the balances it holds
func CmdSync() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [pool-id]",
		Short: "Set pool reserves to the pool's actual token balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			return postTx(cmd, fmt.Sprintf("/api/pools/%d/sync", poolID), nil)
		},
	}
}

// CmdMint credits tokens through the node faucet
func CmdMint() *cobra.Command {
	return &cobra.Command{
		Use:   "mint [to] [coin]",
		Short: "Mint tokens to an address (node faucet must be enabled)",
		Long: `Mint tokens to an address. Only works against nodes started with api.faucet-enabled.

Example:
  $ swapperd tx mint swap1... 1000000uatom`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := validateAddress("to", args[0])
			if err != nil {
				return err
			}
			coin, err := sdk.ParseCoinNormalized(args[1])
			if err != nil {
				return fmt.Errorf("invalid coin %q: %w", args[1], err)
			}
			return postTx(cmd, "/api/ledger/mint", api.MintRequest{
				Denom:  coin.Denom,
				To:     to,
				Amount: coin.Amount.String(),
			})
		},
	}
}

// CmdApprove sets an allowance, for an address or for a pool
func CmdApprove() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve [spender] [coin]",
		Short: "Allow a spender (or a pool, with --pool-id) to move your tokens",
		Long: `Set the amount a spender may move out of your balance, replacing any previous allowance.
Pass --pool-id instead of a spender address to approve a pool.

Example:
  $ swapperd tx approve swap1... 500uatom --from swap1...
  $ swapperd tx approve 1000000uatom --pool-id 1 --from swap1...`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := fromAddress(cmd)
			if err != nil {
				return err
			}

			req := api.ApproveRequest{Owner: owner}
			coinArg := args[len(args)-1]
			if cmd.Flags().Changed(flagPoolID) {
				if len(args) != 1 {
					return fmt.Errorf("pass either a spender address or --%s, not both", flagPoolID)
				}
				poolID, err := cmd.Flags().GetUint64(flagPoolID)
				if err != nil {
					return err
				}
				req.PoolID = &poolID
			} else {
				if len(args) != 2 {
					return fmt.Errorf("spender address required without --%s", flagPoolID)
				}
				if req.Spender, err = validateAddress("spender", args[0]); err != nil {
					return err
				}
			}

			coin, err := sdk.ParseCoinNormalized(coinArg)
			if err != nil {
				return fmt.Errorf("invalid coin %q: %w", coinArg, err)
			}
			req.Denom = coin.Denom
			req.Amount = coin.Amount.String()
			return postTx(cmd, "/api/ledger/approve", req)
		},
	}
	addFromFlag(cmd)
	cmd.Flags().Uint64(flagPoolID, 0, "approve this pool instead of a spender address")
	return cmd
}

// CmdTransfer moves tokens to another address
func CmdTransfer() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer [to] [coin]",
		Short: "Transfer tokens to another address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			to, err := validateAddress("to", args[0])
			if err != nil {
				return err
			}
			coin, err := sdk.ParseCoinNormalized(args[1])
			if err != nil {
				return fmt.Errorf("invalid coin %q: %w", args[1], err)
			}
			return postTx(cmd, "/api/ledger/transfer", api.TransferRequest{
				Denom:  coin.Denom,
				From:   from,
				To:     to,
				Amount: coin.Amount.String(),
			})
		},
	}
	addFromFlag(cmd)
	return cmd
}

func postTx(cmd *cobra.Command, path string, body interface{}) error {
	client, err := clientFromCmd(cmd)
	if err != nil {
		return err
	}

	var resp api.TxResponse
	if err := client.Post(cmd.Context(), path, body, &resp); err != nil {
		return err
	}
	return printJSON(cmd, resp)
}

func addFromFlag(cmd *cobra.Command) {
	cmd.Flags().String(flagFrom, "", "address acting in the operation (bech32)")
	_ = cmd.MarkFlagRequired(flagFrom)
}

func fromAddress(cmd *cobra.Command) (string, error) {
	from, err := cmd.Flags().GetString(flagFrom)
	if err != nil {
		return "", err
	}
	return validateAddress(flagFrom, from)
}

func validateAddress(field, raw string) (string, error) {
	addr, err := sdk.AccAddressFromBech32(raw)
	if err != nil {
		return "", fmt.Errorf("invalid %s address %q: %w", field, raw, err)
	}
	return addr.String(), nil
}

func parsePoolID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid pool-id %q: must be a positive integer", raw)
	}
	return id, nil
}

func parsePositiveInt(field, raw string) (math.Int, error) {
	v, ok := math.NewIntFromString(raw)
	if !ok {
		return math.Int{}, fmt.Errorf("invalid %s: %s (must be integer)", field, raw)
	}
	if !v.IsPositive() {
		return math.Int{}, fmt.Errorf("%s must be positive", field)
	}
	return v, nil
}
