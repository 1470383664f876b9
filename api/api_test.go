package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/swapper/app"
	keepertest "github.com/paw-chain/swapper/testutil/keeper"
	swaptypes "github.com/paw-chain/swapper/x/swap/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	alice = keepertest.TestAddr("alice").String()
	bob   = keepertest.TestAddr("bob").String()
)

// setupTestServer creates a server over an initialized in-memory application
func setupTestServer(t *testing.T, mutate func(*Config)) *Server {
	t.Helper()

	swapApp, err := app.NewSwapApp(log.NewNopLogger(), dbm.NewMemDB(), app.Options{ChainID: "swapper-test", CheckInvariants: true})
	require.NoError(t, err)
	require.NoError(t, swapApp.InitChain(context.Background(), app.NewDefaultGenesisState()))

	config := DefaultConfig()
	config.CORSOrigins = []string{"http://localhost:3000"}
	config.RateLimitRPS = 1000
	config.FaucetEnabled = true
	if mutate != nil {
		mutate(config)
	}

	server, err := NewServer(swapApp, config, log.NewNopLogger())
	require.NoError(t, err)
	return server
}

func do(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		bz, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(bz)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// seedPool funds alice, creates pool 1 and seeds it with 1000/2000
func seedPool(t *testing.T, s *Server) {
	t.Helper()
	for _, denom := range []string{"uatom", "uosmo"} {
		for _, holder := range []string{alice, bob} {
			w := do(t, s, http.MethodPost, "/api/ledger/mint", MintRequest{Denom: denom, To: holder, Amount: "1000000"})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		}
	}

	w := do(t, s, http.MethodPost, "/api/pools", CreatePoolRequest{Creator: alice, TokenA: "uatom", TokenB: "uosmo"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	poolID := uint64(1)
	for denom, amount := range map[string]string{"uatom": "1000", "uosmo": "2000"} {
		w = do(t, s, http.MethodPost, "/api/ledger/approve", ApproveRequest{Denom: denom, Owner: alice, PoolID: &poolID, Amount: amount})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = do(t, s, http.MethodPost, "/api/pools/1/add-liquidity", AddLiquidityRequest{Provider: alice, AmountA: "1000", AmountB: "2000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestHealthCheck(t *testing.T) {
	server := setupTestServer(t, nil)

	w := do(t, server, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	decode(t, w, &response)
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "swapper-test", response["chain_id"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	server := setupTestServer(t, nil)
	seedPool(t, server)

	w := do(t, server, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swapper_swap_pools_total")
}

func TestPoolLifecycle(t *testing.T) {
	server := setupTestServer(t, nil)
	seedPool(t, server)

	w := do(t, server, http.MethodGet, "/api/pools/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pool PoolResponse
	decode(t, w, &pool)
	assert.Equal(t, math.NewInt(1_000).String(), pool.ReserveA.String())
	assert.Equal(t, math.NewInt(2_000).String(), pool.ReserveB.String())
	assert.Equal(t, swaptypes.ShareDenom(1), pool.ShareDenom)
	assert.Equal(t, swaptypes.PoolAddress(1).String(), pool.Address)

	w = do(t, server, http.MethodGet, "/api/pools/1/quote?kind=exact-a-for-b&amount=100", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var quote swaptypes.SwapResult
	decode(t, w, &quote)
	assert.Equal(t, "181", quote.AmountOut.String())

	poolID := uint64(1)
	w = do(t, server, http.MethodPost, "/api/ledger/approve", ApproveRequest{Denom: "uatom", Owner: bob, PoolID: &poolID, Amount: "100"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, server, http.MethodPost, "/api/pools/1/swap", SwapRequest{Trader: bob, Kind: "exact-a-for-b", Amount: "100"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var tx struct {
		Height int64                `json:"height"`
		Result swaptypes.SwapResult `json:"result"`
	}
	decode(t, w, &tx)
	assert.Equal(t, "181", tx.Result.AmountOut.String())
	assert.Equal(t, "1100", tx.Result.ReserveA.String())
	assert.Positive(t, tx.Height)

	w = do(t, server, http.MethodGet, fmt.Sprintf("/api/ledger/uosmo/balances/%s", bob), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var balance BalanceResponse
	decode(t, w, &balance)
	assert.Equal(t, "1000181", balance.Balance.String())

	w = do(t, server, http.MethodGet, "/api/pools/1/price?side=b&amount=1819", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var price PriceResponse
	decode(t, w, &price)
	assert.Equal(t, "1100", price.Price.String())

	w = do(t, server, http.MethodGet, fmt.Sprintf("/api/pools/1/shares/%s", alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var holding app.ShareHolding
	decode(t, w, &holding)
	assert.Equal(t, "414", holding.Shares.String())

	w = do(t, server, http.MethodPost, "/api/pools/1/burn", BurnRequest{Provider: alice, Shares: "414"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, server, http.MethodGet, "/api/pools", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pools PoolsResponse
	decode(t, w, &pools)
	assert.Equal(t, 1, pools.Count)

	w = do(t, server, http.MethodPost, "/api/pools/1/sync", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestErrorMapping(t *testing.T) {
	server := setupTestServer(t, nil)
	seedPool(t, server)

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name:       "pool not found",
			method:     http.MethodGet,
			path:       "/api/pools/99",
			wantStatus: http.StatusNotFound,
			wantCode:   "swap:20",
		},
		{
			name:       "malformed pool id",
			method:     http.MethodGet,
			path:       "/api/pools/abc",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "duplicate pool",
			method:     http.MethodPost,
			path:       "/api/pools",
			body:       CreatePoolRequest{Creator: alice, TokenA: "uosmo", TokenB: "uatom"},
			wantStatus: http.StatusConflict,
			wantCode:   "swap:21",
		},
		{
			name:       "unknown swap kind",
			method:     http.MethodPost,
			path:       "/api/pools/1/swap",
			body:       SwapRequest{Trader: bob, Kind: "sideways", Amount: "100"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "swap:13",
		},
		{
			name:       "locked shares cannot move",
			method:     http.MethodPost,
			path:       "/api/ledger/transfer",
			body:       TransferRequest{Denom: swaptypes.ShareDenom(1), From: swaptypes.LockedSharesAddress(1).String(), To: bob, Amount: "1000"},
			wantStatus: http.StatusForbidden,
			wantCode:   "app:7",
		},
		{
			name:       "swap without allowance",
			method:     http.MethodPost,
			path:       "/api/pools/1/swap",
			body:       SwapRequest{Trader: bob, Kind: "exact-a-for-b", Amount: "100"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "swap:4",
		},
		{
			name:       "exact output of whole reserve",
			method:     http.MethodGet,
			path:       "/api/pools/1/quote?kind=a-for-exact-b&amount=2000",
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "swap:2",
		},
		{
			name:       "invalid address",
			method:     http.MethodPost,
			path:       "/api/ledger/transfer",
			body:       TransferRequest{Denom: "uatom", From: "nobody", To: bob, Amount: "1"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "negative amount",
			method:     http.MethodPost,
			path:       "/api/ledger/transfer",
			body:       TransferRequest{Denom: "uatom", From: alice, To: bob, Amount: "-1"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "insufficient balance",
			method:     http.MethodPost,
			path:       "/api/ledger/transfer",
			body:       TransferRequest{Denom: "uatom", From: bob, To: alice, Amount: "2000000"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "ledger:5",
		},
		{
			name:       "minting share denom",
			method:     http.MethodPost,
			path:       "/api/ledger/mint",
			body:       MintRequest{Denom: swaptypes.ShareDenom(1), To: bob, Amount: "1"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "app:4",
		},
		{
			name:       "faucet limit",
			method:     http.MethodPost,
			path:       "/api/ledger/mint",
			body:       MintRequest{Denom: "uatom", To: bob, Amount: "1000000000000"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, server, tc.method, tc.path, tc.body)
			require.Equal(t, tc.wantStatus, w.Code, w.Body.String())

			var resp ErrorResponse
			decode(t, w, &resp)
			assert.Equal(t, tc.wantCode, resp.Code)
			assert.NotEmpty(t, resp.Error)
			if tc.wantCode == "swap:4" {
				assert.Contains(t, resp.Suggestion, "approve")
			}
		})
	}
}

func TestAllowanceAndParams(t *testing.T) {
	server := setupTestServer(t, nil)

	w := do(t, server, http.MethodPost, "/api/ledger/approve", ApproveRequest{Denom: "uatom", Owner: alice, Spender: bob, Amount: "75"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, server, http.MethodGet, "/api/ledger/uatom/allowances/"+alice+"/"+bob, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var allowance AllowanceResponse
	decode(t, w, &allowance)
	assert.Equal(t, math.NewInt(75), allowance.Allowance)
	assert.Equal(t, alice, allowance.Owner)

	w = do(t, server, http.MethodGet, "/api/ledger/uatom/allowances/"+alice+"/nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, server, http.MethodGet, "/api/pools/params", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var params swaptypes.Params
	decode(t, w, &params)
	assert.Equal(t, swaptypes.DefaultParams().FeeNumerator, params.FeeNumerator)
	assert.Equal(t, swaptypes.DefaultMinimumLiquidity, params.MinimumLiquidity)
}

func TestFaucetDisabled(t *testing.T) {
	server := setupTestServer(t, func(c *Config) { c.FaucetEnabled = false })

	w := do(t, server, http.MethodPost, "/api/ledger/mint", MintRequest{Denom: "uatom", To: bob, Amount: "1"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORS(t *testing.T) {
	server := setupTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/pools", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	server := setupTestServer(t, func(c *Config) { c.RateLimitRPS = 1 })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, do(t, server, http.MethodGet, "/health", nil).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRequestIDPropagates(t *testing.T) {
	server := setupTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
