// Package app wires the ledger and swap keepers over a committed multistore and
// exposes every state transition as a serialized, traced, all-or-nothing operation.
package app

import (
	"context"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	pruningtypes "cosmossdk.io/store/pruning/types"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/paw-chain/swapper/app/telemetry"
	ledgerkeeper "github.com/paw-chain/swapper/x/ledger/keeper"
	ledgertypes "github.com/paw-chain/swapper/x/ledger/types"
	swapkeeper "github.com/paw-chain/swapper/x/swap/keeper"
	swaptypes "github.com/paw-chain/swapper/x/swap/types"
)

// Options configures a SwapApp.
type Options struct {
	ChainID string

	// CheckInvariants runs every registered invariant before each commit
	// and rejects the operation when one is broken.
	CheckInvariants bool

	// Meter records operation counts. Defaults to the global meter.
	Meter metric.Meter

	// Now supplies block times. Defaults to time.Now.
	Now func() time.Time
}

// SwapApp owns the application state. Every state transition runs under one
// lock in a fresh context at height last+1 and is committed only on success.
type SwapApp struct {
	mu sync.RWMutex

	logger  log.Logger
	db      dbm.DB
	cms     storetypes.CommitMultiStore
	keys    map[string]*storetypes.KVStoreKey
	chainID string
	now     func() time.Time

	checkInvariants bool
	invariants      *invariantRegistry

	operations metric.Int64Counter

	LedgerKeeper ledgerkeeper.Keeper
	SwapKeeper   swapkeeper.Keeper
}

// NewSwapApp mounts the module stores on db and loads the latest committed version.
func NewSwapApp(logger log.Logger, db dbm.DB, opts Options) (*SwapApp, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Meter == nil {
		opts.Meter = otel.Meter(Name)
	}

	keys := storetypes.NewKVStoreKeys(ledgertypes.StoreKey, swaptypes.StoreKey)

	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	cms.SetPruning(pruningtypes.NewPruningOptions(pruningtypes.PruningDefault))
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, err
	}

	operations, err := opts.Meter.Int64Counter(
		"swapper.app.operations",
		metric.WithDescription("State transitions handled by the application"),
	)
	if err != nil {
		return nil, err
	}

	ledger := ledgerkeeper.NewKeeper(keys[ledgertypes.StoreKey], logger)
	swap := swapkeeper.NewKeeper(swaptypes.ModuleCdc, keys[swaptypes.StoreKey], ledger, ledger, logger)

	invariants := &invariantRegistry{}
	swapkeeper.RegisterInvariants(invariants, swap)

	app := &SwapApp{
		logger:          logger,
		db:              db,
		cms:             cms,
		keys:            keys,
		chainID:         opts.ChainID,
		now:             opts.Now,
		checkInvariants: opts.CheckInvariants,
		invariants:      invariants,
		operations:      operations,
		LedgerKeeper:    ledger,
		SwapKeeper:      swap,
	}

	app.logger.Info("loaded application state", "chain_id", app.chainID, "height", app.lastHeight())
	return app, nil
}

// Logger returns the application logger.
func (app *SwapApp) Logger() log.Logger {
	return app.logger
}

// ChainID returns the chain id the application was opened with.
func (app *SwapApp) ChainID() string {
	return app.chainID
}

// LastHeight returns the height of the last committed operation.
func (app *SwapApp) LastHeight() int64 {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.lastHeight()
}

// IsInitialized reports whether genesis has been committed.
func (app *SwapApp) IsInitialized() bool {
	return app.LastHeight() > 0
}

func (app *SwapApp) lastHeight() int64 {
	return app.cms.LastCommitID().Version
}

// Close releases the underlying database.
func (app *SwapApp) Close() error {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.db.Close()
}

// InitChain loads genesis and commits it as height 1.
func (app *SwapApp) InitChain(ctx context.Context, genesis GenesisState) error {
	if err := genesis.Validate(); err != nil {
		return err
	}
	ledgerState, err := genesis.LedgerGenesis()
	if err != nil {
		return err
	}
	swapState, err := genesis.SwapGenesis()
	if err != nil {
		return err
	}

	return app.execute(ctx, "init_chain", true, func(sdkCtx sdk.Context) error {
		if err := app.LedgerKeeper.InitGenesis(sdkCtx, *ledgerState); err != nil {
			return err
		}
		return app.SwapKeeper.InitGenesis(sdkCtx, *swapState)
	})
}

// ExportGenesis returns the committed state in genesis form.
func (app *SwapApp) ExportGenesis(ctx context.Context) (GenesisState, error) {
	genesis := make(GenesisState)
	err := app.query(ctx, func(sdkCtx sdk.Context) error {
		ledgerState, err := app.LedgerKeeper.ExportGenesis(sdkCtx)
		if err != nil {
			return err
		}
		swapState, err := app.SwapKeeper.ExportGenesis(sdkCtx)
		if err != nil {
			return err
		}

		genesis[ledgertypes.ModuleName] = mustMarshalJSON(ledgerState)
		genesis[swaptypes.ModuleName] = mustMarshalJSON(swapState)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return genesis, nil
}

// InvariantRoutes lists the registered invariants as module/route.
func (app *SwapApp) InvariantRoutes() []string {
	return app.invariants.Routes()
}

// CheckInvariants runs every invariant against the committed state.
func (app *SwapApp) CheckInvariants(ctx context.Context) (msg string, broken bool, err error) {
	err = app.query(ctx, func(sdkCtx sdk.Context) error {
		msg, broken = app.invariants.assertAll(sdkCtx)
		return nil
	})
	return msg, broken, err
}

// execute runs fn in a branched context at height last+1. The branch is written
// and committed only when fn and the invariants succeed.
func (app *SwapApp) execute(ctx context.Context, operation string, genesis bool, fn func(sdk.Context) error) (err error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	if genesis == (app.lastHeight() > 0) {
		if genesis {
			return ErrAlreadyInitialized
		}
		return ErrNotInitialized
	}

	height := app.lastHeight() + 1
	spanCtx, span := telemetry.StartOperationSpan(ctx, operation, height)
	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "failure"
			telemetry.RecordError(span, err)
		} else {
			telemetry.SetSpanStatus(span, true, operation)
		}
		span.End()

		app.operations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		))
		app.logger.Debug("operation finished",
			"operation", operation,
			"height", height,
			"status", status,
			"duration", time.Since(start),
		)
	}()

	branch := app.cms.CacheMultiStore()
	header := cmtproto.Header{ChainID: app.chainID, Height: height, Time: app.now().UTC()}
	sdkCtx := sdk.NewContext(branch, header, false, app.logger).WithContext(spanCtx)

	if err := fn(sdkCtx); err != nil {
		return err
	}

	if app.checkInvariants {
		if msg, broken := app.invariants.assertAll(sdkCtx); broken {
			app.logger.Error("invariant broken, discarding operation", "operation", operation, "msg", msg)
			return swaptypes.ErrInvariantViolation.Wrap(msg)
		}
	}

	branch.Write()
	commitID := app.cms.Commit()
	telemetry.AddSpanAttributes(span, attribute.Int("events", len(sdkCtx.EventManager().Events())))
	app.logger.Info("committed", "operation", operation, "height", commitID.Version, "hash", commitID.Hash)
	return nil
}

// query runs fn against a throwaway branch of the committed state under the read lock.
func (app *SwapApp) query(ctx context.Context, fn func(sdk.Context) error) error {
	app.mu.RLock()
	defer app.mu.RUnlock()

	if app.lastHeight() == 0 {
		return ErrNotInitialized
	}

	header := cmtproto.Header{ChainID: app.chainID, Height: app.lastHeight(), Time: app.now().UTC()}
	return fn(sdk.NewContext(app.cms.CacheMultiStore(), header, false, app.logger).WithContext(ctx))
}
