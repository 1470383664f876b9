package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paw-chain/swapper/app"
)

const flagOutput = "output-document"

// ExportCmd dumps committed state as a genesis document. The node must be stopped.
func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export state to genesis JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nodeCtx, err := getNodeContext(cmd)
			if err != nil {
				return err
			}

			swapApp, err := openApp(nodeCtx.Config, nodeCtx.Logger, nil)
			if err != nil {
				return err
			}
			defer swapApp.Close()

			state, err := swapApp.ExportGenesis(cmd.Context())
			if err != nil {
				return fmt.Errorf("export at height %d: %w", swapApp.LastHeight(), err)
			}
			doc := &app.GenesisDoc{ChainID: nodeCtx.Config.ChainID, AppState: state}

			if out, _ := cmd.Flags().GetString(flagOutput); out != "" {
				return app.WriteGenesisFile(out, doc)
			}
			return printJSON(cmd, doc)
		},
	}

	cmd.Flags().String(flagOutput, "", "write the genesis document to this path instead of stdout")
	return cmd
}
