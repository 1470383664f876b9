package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"cosmossdk.io/math"
	cmtos "github.com/cometbft/cometbft/libs/os"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/paw-chain/swapper/api"
	"github.com/paw-chain/swapper/app"
	"github.com/paw-chain/swapper/app/telemetry"
)

const (
	// EnvPrefix prefixes every environment override, e.g. SWAPPER_API_PORT
	EnvPrefix = "SWAPPER"

	configDirName   = "config"
	dataDirName     = "data"
	appConfigFile   = "app.toml"
	genesisFileName = "genesis.json"
	dbName          = "application"

	defaultMetricsPort = 36660
	defaultHealthPort  = 36661
)

// Config is the node configuration read from app.toml, the environment and flags.
type Config struct {
	Home            string
	ChainID         string
	DBBackend       string
	LogLevel        string
	LogFormat       string
	CheckInvariants bool

	API       APIConfig
	Telemetry TelemetryConfig
}

// APIConfig configures the REST server.
type APIConfig struct {
	Enable          bool
	Host            string
	Port            string
	CORSOrigins     []string
	RateLimitRPS    int
	FaucetEnabled   bool
	FaucetMaxAmount string
}

// TelemetryConfig configures tracing and the metrics and health listeners.
type TelemetryConfig struct {
	Enabled           bool
	OTLPEndpoint      string
	SampleRate        float64
	Environment       string
	PrometheusEnabled bool
	MetricsPort       int
	HealthPort        int
}

// setDefaults registers every key so that env overrides and Unmarshal see them
func setDefaults(v *viper.Viper) {
	apiDefaults := api.DefaultConfig()

	v.SetDefault("chain-id", app.DefaultChainID)
	v.SetDefault("db-backend", string(dbm.GoLevelDBBackend))
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "plain")
	v.SetDefault("check-invariants", true)

	v.SetDefault("api.enable", true)
	v.SetDefault("api.host", apiDefaults.Host)
	v.SetDefault("api.port", apiDefaults.Port)
	v.SetDefault("api.cors-origins", apiDefaults.CORSOrigins)
	v.SetDefault("api.rate-limit-rps", apiDefaults.RateLimitRPS)
	v.SetDefault("api.faucet-enabled", apiDefaults.FaucetEnabled)
	v.SetDefault("api.faucet-max-amount", apiDefaults.FaucetMaxAmount.String())

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.otlp-endpoint", "localhost:4318")
	v.SetDefault("telemetry.sample-rate", 0.1)
	v.SetDefault("telemetry.environment", "development")
	v.SetDefault("telemetry.prometheus-enabled", true)
	v.SetDefault("telemetry.metrics-port", defaultMetricsPort)
	v.SetDefault("telemetry.health-port", defaultHealthPort)
}

// newViper returns a viper instance with defaults and SWAPPER_* env overrides.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// readConfigFile merges home/config/app.toml into v when it exists.
func readConfigFile(v *viper.Viper, home string) error {
	path := appConfigPath(home)
	if !cmtos.FileExists(path) {
		return nil
	}

	v.SetConfigType("toml")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// configFromViper resolves the final configuration. Values are read through
// cast so env strings like "a,b" or "true" decode the same way as TOML values.
func configFromViper(v *viper.Viper, home string) (*Config, error) {
	cfg := &Config{
		Home:            home,
		ChainID:         cast.ToString(v.Get("chain-id")),
		DBBackend:       cast.ToString(v.Get("db-backend")),
		LogLevel:        cast.ToString(v.Get("log-level")),
		LogFormat:       cast.ToString(v.Get("log-format")),
		CheckInvariants: cast.ToBool(v.Get("check-invariants")),
		API: APIConfig{
			Enable:          cast.ToBool(v.Get("api.enable")),
			Host:            cast.ToString(v.Get("api.host")),
			Port:            cast.ToString(v.Get("api.port")),
			CORSOrigins:     toStringSlice(v.Get("api.cors-origins")),
			RateLimitRPS:    cast.ToInt(v.Get("api.rate-limit-rps")),
			FaucetEnabled:   cast.ToBool(v.Get("api.faucet-enabled")),
			FaucetMaxAmount: cast.ToString(v.Get("api.faucet-max-amount")),
		},
		Telemetry: TelemetryConfig{
			Enabled:           cast.ToBool(v.Get("telemetry.enabled")),
			OTLPEndpoint:      cast.ToString(v.Get("telemetry.otlp-endpoint")),
			SampleRate:        cast.ToFloat64(v.Get("telemetry.sample-rate")),
			Environment:       cast.ToString(v.Get("telemetry.environment")),
			PrometheusEnabled: cast.ToBool(v.Get("telemetry.prometheus-enabled")),
			MetricsPort:       cast.ToInt(v.Get("telemetry.metrics-port")),
			HealthPort:        cast.ToInt(v.Get("telemetry.health-port")),
		},
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations the node cannot start with.
func (c *Config) Validate() error {
	if c.ChainID == "" {
		return fmt.Errorf("chain-id must not be empty")
	}
	switch dbm.BackendType(c.DBBackend) {
	case dbm.GoLevelDBBackend, dbm.MemDBBackend:
	default:
		return fmt.Errorf("unsupported db-backend %q", c.DBBackend)
	}
	if c.LogFormat != "plain" && c.LogFormat != "json" {
		return fmt.Errorf("log-format must be plain or json, got %q", c.LogFormat)
	}
	if _, ok := math.NewIntFromString(c.API.FaucetMaxAmount); !ok {
		return fmt.Errorf("api.faucet-max-amount %q is not an integer", c.API.FaucetMaxAmount)
	}
	for name, port := range map[string]int{
		"telemetry.metrics-port": c.Telemetry.MetricsPort,
		"telemetry.health-port":  c.Telemetry.HealthPort,
	} {
		if port < 0 || port > 65535 {
			return fmt.Errorf("%s %d out of range", name, port)
		}
	}
	return nil
}

// APIServerConfig converts to the api package configuration.
func (c *Config) APIServerConfig() *api.Config {
	cfg := api.DefaultConfig()
	cfg.Host = c.API.Host
	cfg.Port = c.API.Port
	cfg.CORSOrigins = c.API.CORSOrigins
	cfg.RateLimitRPS = c.API.RateLimitRPS
	cfg.FaucetEnabled = c.API.FaucetEnabled
	if amount, ok := math.NewIntFromString(c.API.FaucetMaxAmount); ok {
		cfg.FaucetMaxAmount = amount
	}
	return cfg
}

// TelemetryProviderConfig converts to the telemetry package configuration.
func (c *Config) TelemetryProviderConfig() telemetry.Config {
	return telemetry.Config{
		Enabled:           c.Telemetry.Enabled,
		OTLPEndpoint:      c.Telemetry.OTLPEndpoint,
		SampleRate:        c.Telemetry.SampleRate,
		Environment:       c.Telemetry.Environment,
		ChainID:           c.ChainID,
		PrometheusEnabled: c.Telemetry.PrometheusEnabled,
	}
}

// writeDefaultAppConfig writes v's current settings to home/config/app.toml.
func writeDefaultAppConfig(v *viper.Viper, home string) error {
	v.SetConfigType("toml")
	return v.WriteConfigAs(appConfigPath(home))
}

func toStringSlice(raw interface{}) []string {
	if s, ok := raw.(string); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return cast.ToStringSlice(raw)
}

func appConfigPath(home string) string {
	return filepath.Join(home, configDirName, appConfigFile)
}

func genesisPath(home string) string {
	return filepath.Join(home, configDirName, genesisFileName)
}

func dataDir(home string) string {
	return filepath.Join(home, dataDirName)
}
