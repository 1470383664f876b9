package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	swaptypes "github.com/paw-chain/swapper/x/swap/types"
)

// handleGetBalance returns an address's balance of a denom
func (s *Server) handleGetBalance(c *gin.Context) {
	denom := c.Param("denom")
	holder, ok := parseAddress(c, "address", c.Param("address"))
	if !ok {
		return
	}

	balance, err := s.app.Balance(c.Request.Context(), denom, holder)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, BalanceResponse{Denom: denom, Address: holder.String(), Balance: balance})
}

// handleGetAllowance returns how much spender may move out of owner's balance
func (s *Server) handleGetAllowance(c *gin.Context) {
	denom := c.Param("denom")
	owner, ok := parseAddress(c, "owner", c.Param("owner"))
	if !ok {
		return
	}
	spender, ok := parseAddress(c, "spender", c.Param("spender"))
	if !ok {
		return
	}

	allowance, err := s.app.Allowance(c.Request.Context(), denom, owner, spender)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, AllowanceResponse{
		Denom:     denom,
		Owner:     owner.String(),
		Spender:   spender.String(),
		Allowance: allowance,
	})
}

// handleMint credits tokens from the faucet
func (s *Server) handleMint(c *gin.Context) {
	var req MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: %v", err)
		return
	}
	to, ok := parseAddress(c, "to", req.To)
	if !ok {
		return
	}
	amount, ok := parseAmount(c, "amount", req.Amount)
	if !ok {
		return
	}
	if amount.GT(s.config.FaucetMaxAmount) {
		badRequest(c, "amount %s exceeds faucet limit %s", amount, s.config.FaucetMaxAmount)
		return
	}

	if err := s.app.Mint(c.Request.Context(), req.Denom, to, amount); err != nil {
		s.writeError(c, err)
		return
	}
	s.logger.Info("faucet mint", "denom", req.Denom, "to", to.String(), "amount", amount.String())
	c.JSON(http.StatusOK, TxResponse{Height: s.app.LastHeight()})
}

// handleApprove sets an allowance for an address or a pool
func (s *Server) handleApprove(c *gin.Context) {
	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: %v", err)
		return
	}
	owner, ok := parseAddress(c, "owner", req.Owner)
	if !ok {
		return
	}
	amount, ok := parseAmount(c, "amount", req.Amount)
	if !ok {
		return
	}

	switch {
	case req.PoolID != nil && req.Spender != "":
		badRequest(c, "set either spender or pool_id, not both")
		return
	case req.PoolID != nil:
		req.Spender = swaptypes.PoolAddress(*req.PoolID).String()
	case req.Spender == "":
		badRequest(c, "spender or pool_id is required")
		return
	}
	spender, ok := parseAddress(c, "spender", req.Spender)
	if !ok {
		return
	}

	if err := s.app.Approve(c.Request.Context(), req.Denom, owner, spender, amount); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, TxResponse{Height: s.app.LastHeight(), Result: gin.H{"spender": spender.String()}})
}

// handleTransfer moves tokens between holders
func (s *Server) handleTransfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: %v", err)
		return
	}
	from, ok := parseAddress(c, "from", req.From)
	if !ok {
		return
	}
	to, ok := parseAddress(c, "to", req.To)
	if !ok {
		return
	}
	amount, ok := parseAmount(c, "amount", req.Amount)
	if !ok {
		return
	}

	if err := s.app.Transfer(c.Request.Context(), req.Denom, from, to, amount); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, TxResponse{Height: s.app.LastHeight()})
}
