package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"cosmossdk.io/math"
	cmtos "github.com/cometbft/cometbft/libs/os"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/swapper/app"
	ledgertypes "github.com/paw-chain/swapper/x/ledger/types"
)

const flagOverwrite = "overwrite"

// InitCmd writes app.toml and a default genesis file into the home directory.
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the node configuration and genesis files",
		Long: `Initialize app.toml and genesis.json in the home directory.

Example:
  swapperd init --chain-id swapper-1 --home ~/.swapper`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nodeCtx, err := getNodeContext(cmd)
			if err != nil {
				return err
			}
			home := nodeCtx.Config.Home
			overwrite, _ := cmd.Flags().GetBool(flagOverwrite)

			if !overwrite && cmtos.FileExists(genesisPath(home)) {
				return fmt.Errorf("genesis.json already exists at %s; use --%s to replace it", genesisPath(home), flagOverwrite)
			}

			if err := cmtos.EnsureDir(filepath.Dir(appConfigPath(home)), 0o755); err != nil {
				return err
			}
			if err := cmtos.EnsureDir(dataDir(home), 0o755); err != nil {
				return err
			}
			if overwrite || !cmtos.FileExists(appConfigPath(home)) {
				if err := writeDefaultAppConfig(nodeCtx.Viper, home); err != nil {
					return fmt.Errorf("write app config: %w", err)
				}
			}

			doc := &app.GenesisDoc{ChainID: nodeCtx.Config.ChainID, AppState: app.NewDefaultGenesisState()}
			if err := app.WriteGenesisFile(genesisPath(home), doc); err != nil {
				return err
			}

			return printJSON(cmd, map[string]string{
				"chain_id": doc.ChainID,
				"home":     home,
				"genesis":  genesisPath(home),
			})
		},
	}

	cmd.Flags().String(flagChainID, "", "genesis file chain-id")
	cmd.Flags().Bool(flagOverwrite, false, "overwrite existing genesis.json and app.toml")
	return cmd
}

// AddGenesisBalanceCmd credits an address in genesis.json.
func AddGenesisBalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-genesis-balance [address] [coin]",
		Short: "Add a balance to genesis.json",
		Long: `Add a balance to genesis.json, merging with any existing balance of the same denom.

Example:
  swapperd add-genesis-balance swap1... 1000000uatom`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			nodeCtx, err := getNodeContext(cmd)
			if err != nil {
				return err
			}

			addr, err := sdk.AccAddressFromBech32(args[0])
			if err != nil {
				return fmt.Errorf("invalid address: %w", err)
			}
			coin, err := sdk.ParseCoinNormalized(args[1])
			if err != nil {
				return fmt.Errorf("invalid coin: %w", err)
			}
			if !coin.Amount.IsPositive() {
				return fmt.Errorf("amount must be positive")
			}

			path := genesisPath(nodeCtx.Config.Home)
			doc, err := app.ReadGenesisFile(path)
			if err != nil {
				return err
			}

			ledgerState, err := doc.AppState.LedgerGenesis()
			if err != nil {
				return err
			}
			ledgerState.Balances = mergeBalance(ledgerState.Balances, addr.String(), coin.Denom, coin.Amount)

			raw, err := json.Marshal(ledgerState)
			if err != nil {
				return err
			}
			doc.AppState[ledgertypes.ModuleName] = raw
			if err := doc.AppState.Validate(); err != nil {
				return err
			}

			return app.WriteGenesisFile(path, doc)
		},
	}
	return cmd
}

func mergeBalance(balances []ledgertypes.Balance, address, denom string, amount math.Int) []ledgertypes.Balance {
	for i, b := range balances {
		if b.Address == address && b.Denom == denom {
			balances[i].Amount = b.Amount.Add(amount)
			return balances
		}
	}
	return append(balances, ledgertypes.Balance{Address: address, Denom: denom, Amount: amount})
}
