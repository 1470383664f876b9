package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/paw-chain/swapper/app"
)

const (
	flagHome      = "home"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagChainID   = "chain-id"
	flagNode      = "node"
)

type nodeContextKey struct{}

// nodeContext is the resolved configuration shared with subcommands
type nodeContext struct {
	Config *Config
	Viper  *viper.Viper
	Logger log.Logger
}

// NewRootCmd creates the swapperd root command.
func NewRootCmd() *cobra.Command {
	initSDKConfig()

	rootCmd := &cobra.Command{
		Use:   "swapperd",
		Short: "Constant-product liquidity pool node",
		Long: `swapperd runs constant-product liquidity pools over a multi-denom token ledger
and serves them over a REST API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			nodeCtx, err := loadNodeContext(cmd.Flags(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, nodeContextKey{}, nodeCtx))
			return nil
		},
	}

	rootCmd.PersistentFlags().String(flagHome, defaultHome(), "directory for config and data")
	rootCmd.PersistentFlags().String(flagLogLevel, "", "log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().String(flagLogFormat, "", "log format (plain|json)")

	rootCmd.AddCommand(
		InitCmd(),
		AddGenesisBalanceCmd(),
		StartCmd(),
		ExportCmd(),
		TxCmd(),
		QueryCmd(),
	)

	return rootCmd
}

// loadNodeContext layers defaults, app.toml, SWAPPER_* env and flags, in increasing priority.
func loadNodeContext(flags *pflag.FlagSet, logOut io.Writer) (*nodeContext, error) {
	home, err := flags.GetString(flagHome)
	if err != nil {
		return nil, err
	}

	v := newViper()
	if err := readConfigFile(v, home); err != nil {
		return nil, err
	}
	for key, flag := range map[string]string{
		"log-level":  flagLogLevel,
		"log-format": flagLogFormat,
		"chain-id":   flagChainID,
	} {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	cfg, err := configFromViper(v, home)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(logOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	return &nodeContext{Config: cfg, Viper: v, Logger: logger}, nil
}

func getNodeContext(cmd *cobra.Command) (*nodeContext, error) {
	if ctx := cmd.Context(); ctx != nil {
		if nodeCtx, ok := ctx.Value(nodeContextKey{}).(*nodeContext); ok {
			return nodeCtx, nil
		}
	}
	return nil, fmt.Errorf("%s: configuration not loaded", cmd.CommandPath())
}

func newLogger(out io.Writer, level, format string) (log.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log-level %q: %w", level, err)
	}

	opts := []log.Option{log.LevelOption(lvl)}
	if format == "json" {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(out, opts...), nil
}

func defaultHome() string {
	if home := os.Getenv(EnvPrefix + "_HOME"); home != "" {
		return home
	}
	return app.DefaultNodeHome
}

var sdkConfigOnce sync.Once

func initSDKConfig() {
	sdkConfigOnce.Do(func() {
		app.SetConfig()
	})
}
