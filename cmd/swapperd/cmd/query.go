package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/paw-chain/swapper/api"
	"github.com/paw-chain/swapper/app"
	swaptypes "github.com/paw-chain/swapper/x/swap/types"
)

const (
	flagSide   = "side"
	flagAmount = "amount"
)

// QueryCmd groups the read-only commands answered by a running node
func QueryCmd() *cobra.Command {
	queryCmd := &cobra.Command{
		Use:                        "query",
		Aliases:                    []string{"q"},
		Short:                      "Query a running node",
		SuggestionsMinimumDistance: 2,
	}
	addNodeFlag(queryCmd)

	queryCmd.AddCommand(
		CmdQueryPool(),
		CmdQueryPools(),
		CmdQueryPrice(),
		CmdQueryQuote(),
		CmdQueryShares(),
		CmdQueryParams(),
		CmdQueryBalance(),
		CmdQueryAllowance(),
	)
	return queryCmd
}

// CmdQueryPool shows one pool
func CmdQueryPool() *cobra.Command {
	return &cobra.Command{
		Use:   "pool [pool-id]",
		Short: "Show a pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			var resp api.PoolResponse
			return getAndPrint(cmd, fmt.Sprintf("/api/pools/%d", poolID), nil, &resp)
		},
	}
}

// CmdQueryPools lists every pool
func CmdQueryPools() *cobra.Command {
	return &cobra.Command{
		Use:   "pools",
		Short: "List all pools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var resp api.PoolsResponse
			return getAndPrint(cmd, "/api/pools", nil, &resp)
		},
	}
}

// CmdQueryPrice converts an amount of one pool token into the other at the spot price
func CmdQueryPrice() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price [pool-id]",
		Short: "Spot price of an amount of token A (or B with --side b)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			side, _ := cmd.Flags().GetString(flagSide)
			if side != string(app.PriceOfA) && side != string(app.PriceOfB) {
				return fmt.Errorf("invalid --%s %q: use a or b", flagSide, side)
			}
			amount, _ := cmd.Flags().GetString(flagAmount)
			if _, err := parsePositiveInt(flagAmount, amount); err != nil {
				return err
			}

			var resp api.PriceResponse
			return getAndPrint(cmd, fmt.Sprintf("/api/pools/%d/price", poolID),
				url.Values{"side": {side}, "amount": {amount}}, &resp)
		},
	}
	cmd.Flags().String(flagSide, string(app.PriceOfA), "token being priced (a|b)")
	cmd.Flags().String(flagAmount, "1", "amount being priced")
	return cmd
}

// CmdQueryQuote previews a swap without executing it
func CmdQueryQuote() *cobra.Command {
	return &cobra.Command{
		Use:   "quote [pool-id] [kind] [amount]",
		Short: "Preview what a swap would pay and receive",
		Args:  cobra.ExactArgs(3),
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

			var resp swaptypes.SwapResult
			return getAndPrint(cmd, fmt.Sprintf("/api/pools/%d/quote", poolID),
				url.Values{"kind": {string(kind)}, "amount": {amount.String()}}, &resp)
		},
	}
}

// CmdQueryShares shows an address's share position in a pool
func CmdQueryShares() *cobra.Command {
	return &cobra.Command{
		Use:   "shares [pool-id] [address]",
		Short: "Show pool shares held by an address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			holder, err := validateAddress("holder", args[1])
			if err != nil {
				return err
			}
			var resp app.ShareHolding
			return getAndPrint(cmd, fmt.Sprintf("/api/pools/%d/shares/%s", poolID, holder), nil, &resp)
		},
	}
}

// CmdQueryParams shows the swap parameters
func CmdQueryParams() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Show swap parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var resp swaptypes.Params
			return getAndPrint(cmd, "/api/pools/params", nil, &resp)
		},
	}
}

// CmdQueryBalance shows an address's balance of a denom
func CmdQueryBalance() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [denom] [address]",
		Short: "Show the balance of an address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			holder, err := validateAddress("holder", args[1])
			if err != nil {
				return err
			}
			var resp api.BalanceResponse
			return getAndPrint(cmd, fmt.Sprintf("/api/ledger/%s/balances/%s", url.PathEscape(args[0]), holder), nil, &resp)
		},
	}
}

// CmdQueryAllowance shows how much a spender may move out of an owner's balance
func CmdQueryAllowance() *cobra.Command {
	return &cobra.Command{
		Use:   "allowance [denom] [owner] [spender]",
		Short: "Show an allowance",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := validateAddress("owner", args[1])
			if err != nil {
				return err
			}
			spender, err := validateAddress("spender", args[2])
			if err != nil {
				return err
			}
			var resp api.AllowanceResponse
			return getAndPrint(cmd, fmt.Sprintf("/api/ledger/%s/allowances/%s/%s", url.PathEscape(args[0]), owner, spender), nil, &resp)
		},
	}
}

func getAndPrint(cmd *cobra.Command, path string, query url.Values, out interface{}) error {
	client, err := clientFromCmd(cmd)
	if err != nil {
		return err
	}
	if err := client.Get(cmd.Context(), path, query, out); err != nil {
		return err
	}
	return printJSON(cmd, out)
}
