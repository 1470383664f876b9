package api

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	api := s.router.Group("/api")
	{
		pools := api.Group("/pools")
		{
			pools.GET("", s.handleGetPools)
			pools.GET("/params", s.handleGetParams)
			pools.POST("", s.handleCreatePool)
			pools.GET("/:pool_id", s.handleGetPool)
			pools.GET("/:pool_id/price", s.handleGetPrice)
			pools.GET("/:pool_id/quote", s.handleGetQuote)
			pools.GET("/:pool_id/shares/:address", s.handleGetShares)
			pools.POST("/:pool_id/add-liquidity", s.handleAddLiquidity)
			pools.POST("/:pool_id/burn", s.handleBurn)
			pools.POST("/:pool_id/swap", s.handleSwap)
			pools.POST("/:pool_id/sync", s.handleSync)
		}

		ledger := api.Group("/ledger")
		{
			ledger.GET("/:denom/balances/:address", s.handleGetBalance)
			ledger.GET("/:denom/allowances/:owner/:spender", s.handleGetAllowance)
			ledger.POST("/approve", s.handleApprove)
			ledger.POST("/transfer", s.handleTransfer)
			if s.config.FaucetEnabled {
				ledger.POST("/mint", s.handleMint)
			}
		}
	}
}
