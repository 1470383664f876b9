package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/swapper/api"
	"github.com/paw-chain/swapper/app"
	ledgertypes "github.com/paw-chain/swapper/x/ledger/types"
	swaptypes "github.com/paw-chain/swapper/x/swap/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testAddr(b byte) string {
	initSDKConfig()
	return sdk.AccAddress(bytes.Repeat([]byte{b}, 20)).String()
}

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigDefaults(t *testing.T) {
	home := t.TempDir()
	cfg, err := configFromViper(newViper(), home)
	require.NoError(t, err)

	require.Equal(t, home, cfg.Home)
	require.Equal(t, app.DefaultChainID, cfg.ChainID)
	require.Equal(t, string(dbm.GoLevelDBBackend), cfg.DBBackend)
	require.Equal(t, "info", cfg.LogLevel)
	require.True(t, cfg.CheckInvariants)
	require.True(t, cfg.API.Enable)
	require.Equal(t, "5000", cfg.API.Port)
	require.False(t, cfg.API.FaucetEnabled)
	require.Equal(t, defaultMetricsPort, cfg.Telemetry.MetricsPort)
	require.Equal(t, defaultHealthPort, cfg.Telemetry.HealthPort)

	apiCfg := cfg.APIServerConfig()
	require.Equal(t, "1000000000", apiCfg.FaucetMaxAmount.String())
	require.Equal(t, cfg.ChainID, cfg.TelemetryProviderConfig().ChainID)
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("SWAPPER_API_PORT", "6000")
	t.Setenv("SWAPPER_API_CORS_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("SWAPPER_API_FAUCET_ENABLED", "true")
	t.Setenv("SWAPPER_CHECK_INVARIANTS", "false")

	cfg, err := configFromViper(newViper(), t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "6000", cfg.API.Port)
	require.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.API.CORSOrigins)
	require.True(t, cfg.API.FaucetEnabled)
	require.False(t, cfg.CheckInvariants)
}

func TestConfigFileValues(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, configDirName), 0o755))

	v := newViper()
	v.Set("chain-id", "file-chain")
	v.Set("api.rate-limit-rps", 7)
	require.NoError(t, writeDefaultAppConfig(v, home))

	loaded := newViper()
	require.NoError(t, readConfigFile(loaded, home))
	cfg, err := configFromViper(loaded, home)
	require.NoError(t, err)
	require.Equal(t, "file-chain", cfg.ChainID)
	require.Equal(t, 7, cfg.API.RateLimitRPS)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty chain id", func(c *Config) { c.ChainID = "" }, "chain-id"},
		{"unknown backend", func(c *Config) { c.DBBackend = "rocksdb" }, "db-backend"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "log-format"},
		{"bad faucet amount", func(c *Config) { c.API.FaucetMaxAmount = "lots" }, "faucet-max-amount"},
		{"port out of range", func(c *Config) { c.Telemetry.HealthPort = 70000 }, "health-port"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := configFromViper(newViper(), t.TempDir())
			require.NoError(t, err)
			tc.mutate(cfg)

			err = cfg.Validate()
			if tc.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.errMsg)
		})
	}
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := newLogger(&bytes.Buffer{}, "loud", "plain")
	require.Error(t, err)

	logger, err := newLogger(&bytes.Buffer{}, "debug", "json")
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestInitAndAddGenesisBalance(t *testing.T) {
	home := t.TempDir()
	alice := testAddr(1)

	out, err := execute(t, "init", "--home", home, "--chain-id", "test-1")
	require.NoError(t, err)
	require.Contains(t, out, `"chain_id": "test-1"`)
	require.FileExists(t, appConfigPath(home))
	require.DirExists(t, dataDir(home))

	_, err = execute(t, "init", "--home", home, "--chain-id", "test-1")
	require.ErrorContains(t, err, "already exists")

	_, err = execute(t, "add-genesis-balance", alice, "100uatom", "--home", home)
	require.NoError(t, err)
	_, err = execute(t, "add-genesis-balance", alice, "50uatom", "--home", home)
	require.NoError(t, err)

	_, err = execute(t, "add-genesis-balance", "not-an-address", "50uatom", "--home", home)
	require.ErrorContains(t, err, "invalid address")

	doc, err := app.ReadGenesisFile(genesisPath(home))
	require.NoError(t, err)
	require.Equal(t, "test-1", doc.ChainID)

	ledgerState, err := doc.AppState.LedgerGenesis()
	require.NoError(t, err)
	require.Len(t, ledgerState.Balances, 1)
	require.Equal(t, alice, ledgerState.Balances[0].Address)
	require.Equal(t, math.NewInt(150), ledgerState.Balances[0].Amount)

	// app.toml carries the chain-id given to init
	out, err = execute(t, "init", "--home", home, "--overwrite")
	require.NoError(t, err)
	require.Contains(t, out, `"chain_id": "test-1"`)
}

func TestExportCommittedState(t *testing.T) {
	home := t.TempDir()
	alice := testAddr(1)

	_, err := execute(t, "init", "--home", home, "--chain-id", "export-1")
	require.NoError(t, err)
	_, err = execute(t, "add-genesis-balance", alice, "1000uatom", "--home", home)
	require.NoError(t, err)

	v := newViper()
	require.NoError(t, readConfigFile(v, home))
	cfg, err := configFromViper(v, home)
	require.NoError(t, err)

	doc, err := app.ReadGenesisFile(genesisPath(home))
	require.NoError(t, err)
	swapApp, err := openApp(cfg, log.NewNopLogger(), nil)
	require.NoError(t, err)
	require.NoError(t, swapApp.InitChain(context.Background(), doc.AppState))
	require.NoError(t, swapApp.Close())

	out, err := execute(t, "export", "--home", home)
	require.NoError(t, err)

	var exported app.GenesisDoc
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	require.Equal(t, "export-1", exported.ChainID)
	ledgerState, err := exported.AppState.LedgerGenesis()
	require.NoError(t, err)
	require.Len(t, ledgerState.Balances, 1)
	require.Equal(t, math.NewInt(1000), ledgerState.Balances[0].Amount)

	target := filepath.Join(t.TempDir(), "exported.json")
	_, err = execute(t, "export", "--home", home, "--output-document", target)
	require.NoError(t, err)
	require.FileExists(t, target)
}

func newTestNode(t *testing.T, funded ...string) *httptest.Server {
	t.Helper()

	swapApp, err := app.NewSwapApp(log.NewNopLogger(), dbm.NewMemDB(), app.Options{ChainID: "cli-1", CheckInvariants: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = swapApp.Close() })

	genesis := app.NewDefaultGenesisState()
	ledgerState := ledgertypes.DefaultGenesis()
	for _, holder := range funded {
		ledgerState.Balances = append(ledgerState.Balances,
			ledgertypes.Balance{Address: holder, Denom: "uatom", Amount: math.NewInt(1_000_000)},
			ledgertypes.Balance{Address: holder, Denom: "uosmo", Amount: math.NewInt(1_000_000)},
		)
	}
	raw, err := json.Marshal(ledgerState)
	require.NoError(t, err)
	genesis[ledgertypes.ModuleName] = raw
	require.NoError(t, swapApp.InitChain(context.Background(), genesis))

	cfg := api.DefaultConfig()
	cfg.FaucetEnabled = true
	cfg.RateLimitRPS = 1000
	server, err := api.NewServer(swapApp, cfg, log.NewNopLogger())
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestTxAndQueryCommands(t *testing.T) {
	alice := testAddr(1)
	bob := testAddr(2)
	ts := newTestNode(t, alice)
	home := t.TempDir()

	run := func(args ...string) string {
		t.Helper()
		out, err := execute(t, append(args, "--node", ts.URL, "--home", home)...)
		require.NoError(t, err, "swapperd %v", args)
		return out
	}

	var tx api.TxResponse
	require.NoError(t, json.Unmarshal([]byte(run("tx", "mint", bob, "1000uatom")), &tx))
	require.Positive(t, tx.Height)

	var balance api.BalanceResponse
	require.NoError(t, json.Unmarshal([]byte(run("query", "balance", "uatom", bob)), &balance))
	require.Equal(t, math.NewInt(1000), balance.Balance)

	run("tx", "create-pool", "uatom", "uosmo", "--from", alice)
	run("tx", "approve", "1000uatom", "--pool-id", "1", "--from", alice)
	run("tx", "approve", "2000uosmo", "--pool-id", "1", "--from", alice)
	run("tx", "add-liquidity", "1", "1000", "2000", "--from", alice)

	var pool api.PoolResponse
	require.NoError(t, json.Unmarshal([]byte(run("query", "pool", "1")), &pool))
	require.Equal(t, math.NewInt(1000), pool.ReserveA)
	require.Equal(t, math.NewInt(2000), pool.ReserveB)
	require.Equal(t, swaptypes.ShareDenom(1), pool.ShareDenom)

	var price api.PriceResponse
	require.NoError(t, json.Unmarshal([]byte(run("query", "price", "1", "--amount", "100")), &price))
	require.Equal(t, math.NewInt(200), price.Price)

	var quote swaptypes.SwapResult
	require.NoError(t, json.Unmarshal([]byte(run("query", "quote", "1", "exact-a-for-b", "100")), &quote))
	require.Equal(t, math.NewInt(181), quote.AmountOut)

	run("tx", "approve", bob, "500uatom", "--from", alice)
	var allowance api.AllowanceResponse
	require.NoError(t, json.Unmarshal([]byte(run("query", "allowance", "uatom", alice, bob)), &allowance))
	require.Equal(t, math.NewInt(500), allowance.Allowance)

	var holding app.ShareHolding
	require.NoError(t, json.Unmarshal([]byte(run("query", "shares", "1", alice)), &holding))
	require.True(t, holding.Shares.IsPositive())

	var params swaptypes.Params
	require.NoError(t, json.Unmarshal([]byte(run("query", "params")), &params))
	require.Equal(t, swaptypes.DefaultFeeNumerator, params.FeeNumerator)
}

func TestTxCommandErrors(t *testing.T) {
	alice := testAddr(1)
	ts := newTestNode(t, alice)
	home := t.TempDir()

	_, err := execute(t, "tx", "swap", "9", "exact-a-for-b", "100", "--from", alice, "--node", ts.URL, "--home", home)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 404, apiErr.StatusCode)

	_, err = execute(t, "tx", "swap", "1", "sideways", "100", "--from", alice, "--node", ts.URL, "--home", home)
	require.ErrorIs(t, err, swaptypes.ErrInvalidSwapKind)

	_, err = execute(t, "tx", "burn", "1", "-5", "--from", alice, "--node", ts.URL, "--home", home)
	require.Error(t, err)

	_, err = execute(t, "tx", "create-pool", "uatom", "uatom", "--from", alice, "--node", ts.URL, "--home", home)
	require.ErrorContains(t, err, "different")

	_, err = execute(t, "tx", "sync", "1", "--node", "::not a url", "--home", home)
	require.ErrorContains(t, err, "invalid --node")
}
