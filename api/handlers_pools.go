package api

import (
	"net/http"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"

	"github.com/paw-chain/swapper/app"
	swaptypes "github.com/paw-chain/swapper/x/swap/types"
)

func newPoolResponse(pool swaptypes.Pool) PoolResponse {
	return PoolResponse{
		Pool:       pool,
		Address:    pool.Address().String(),
		ShareDenom: pool.ShareDenom(),
	}
}

// handleGetPools returns all liquidity pools
func (s *Server) handleGetPools(c *gin.Context) {
	pools, err := s.app.Pools(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	resp := PoolsResponse{Pools: make([]PoolResponse, 0, len(pools)), Count: len(pools)}
	for _, pool := range pools {
		resp.Pools = append(resp.Pools, newPoolResponse(pool))
	}
	c.JSON(http.StatusOK, resp)
}

// handleGetPool returns a specific pool
func (s *Server) handleGetPool(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}

	pool, err := s.app.Pool(c.Request.Context(), poolID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPoolResponse(*pool))
}

// handleGetPrice values ?amount= of token ?side= (a or b, default a) at current reserves
func (s *Server) handleGetPrice(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}
	amount, ok := parseAmount(c, "amount", c.DefaultQuery("amount", "1"))
	if !ok {
		return
	}
	side := app.PriceSide(c.DefaultQuery("side", string(app.PriceOfA)))

	price, err := s.app.Price(c.Request.Context(), poolID, side, amount)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, PriceResponse{PoolID: poolID, Side: string(side), Amount: amount, Price: price})
}

// handleGetQuote simulates ?kind= with ?amount=
func (s *Server) handleGetQuote(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}
	amount, ok := parseAmount(c, "amount", c.Query("amount"))
	if !ok {
		return
	}

	quote, err := s.app.Quote(c.Request.Context(), poolID, swaptypes.SwapKind(c.Query("kind")), amount)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// handleGetShares returns an address's share position
func (s *Server) handleGetShares(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}
	holder, ok := parseAddress(c, "address", c.Param("address"))
	if !ok {
		return
	}

	holding, err := s.app.Shares(c.Request.Context(), poolID, holder)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, holding)
}

// handleGetParams returns the swap module params
func (s *Server) handleGetParams(c *gin.Context) {
	params, err := s.app.Params(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, params)
}

// handleCreatePool registers an empty pool
func (s *Server) handleCreatePool(c *gin.Context) {
	var req CreatePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: %v", err)
		return
	}
	creator, ok := parseAddress(c, "creator", req.Creator)
	if !ok {
		return
	}

	pool, err := s.app.CreatePool(c.Request.Context(), creator, req.TokenA, req.TokenB)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, TxResponse{Height: s.app.LastHeight(), Result: newPoolResponse(*pool)})
}

// handleAddLiquidity deposits into a pool
func (s *Server) handleAddLiquidity(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}
	var req AddLiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: %v", err)
		return
	}
	provider, ok := parseAddress(c, "provider", req.Provider)
	if !ok {
		return
	}
	amountA, ok := parseAmount(c, "amount_a", req.AmountA)
	if !ok {
		return
	}
	amountB, ok := parseAmount(c, "amount_b", req.AmountB)
	if !ok {
		return
	}

	change, err := s.app.AddLiquidity(c.Request.Context(), provider, poolID, amountA, amountB)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, TxResponse{Height: s.app.LastHeight(), Result: change})
}

// handleBurn redeems pool shares
func (s *Server) handleBurn(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}
	var req BurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: %v", err)
		return
	}
	provider, ok := parseAddress(c, "provider", req.Provider)
	if !ok {
		return
	}
	shares, ok := parseAmount(c, "shares", req.Shares)
	if !ok {
		return
	}

	change, err := s.app.Burn(c.Request.Context(), provider, poolID, shares)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, TxResponse{Height: s.app.LastHeight(), Result: change})
}

// handleSwap trades against a pool
func (s *Server) handleSwap(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: %v", err)
		return
	}
	trader, ok := parseAddress(c, "trader", req.Trader)
	if !ok {
		return
	}
	amount, ok := parseAmount(c, "amount", req.Amount)
	if !ok {
		return
	}

	result, err := s.app.Swap(c.Request.Context(), trader, poolID, swaptypes.SwapKind(req.Kind), amount)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, TxResponse{Height: s.app.LastHeight(), Result: result})
}

// handleSync folds direct transfers into a pool's reserves
func (s *Server) handleSync(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}

	pool, err := s.app.Sync(c.Request.Context(), poolID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, TxResponse{Height: s.app.LastHeight(), Result: newPoolResponse(*pool)})
}

func poolIDParam(c *gin.Context) (uint64, bool) {
	raw := c.Param("pool_id")
	poolID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || poolID == 0 {
		badRequest(c, "invalid pool id %q", raw)
		return 0, false
	}
	return poolID, true
}

func parseAddress(c *gin.Context, field, raw string) (sdk.AccAddress, bool) {
	addr, err := sdk.AccAddressFromBech32(raw)
	if err != nil {
		badRequest(c, "invalid %s address %q: %v", field, raw, err)
		return nil, false
	}
	return addr, true
}

func parseAmount(c *gin.Context, field, raw string) (math.Int, bool) {
	amount, ok := math.NewIntFromString(raw)
	if !ok || amount.IsNegative() {
		badRequest(c, "invalid %s %q: expected a non-negative integer", field, raw)
		return math.Int{}, false
	}
	return amount, true
}
