package api

import (
	"errors"
	"fmt"
	"net/http"

	errorsmod "cosmossdk.io/errors"
	"github.com/gin-gonic/gin"

	"github.com/paw-chain/swapper/app"
	ledgertypes "github.com/paw-chain/swapper/x/ledger/types"
	swaptypes "github.com/paw-chain/swapper/x/swap/types"
)

var statusByError = []struct {
	err    *errorsmod.Error
	status int
}{
	{swaptypes.ErrPoolNotFound, http.StatusNotFound},
	{swaptypes.ErrPoolAlreadyExists, http.StatusConflict},
	{app.ErrNotInitialized, http.StatusServiceUnavailable},

	{swaptypes.ErrInvalidAmount, http.StatusBadRequest},
	{swaptypes.ErrInvalidTokenPair, http.StatusBadRequest},
	{swaptypes.ErrInvalidAddress, http.StatusBadRequest},
	{swaptypes.ErrInvalidSwapKind, http.StatusBadRequest},
	{swaptypes.ErrInvalidParams, http.StatusBadRequest},
	{ledgertypes.ErrInvalidDenom, http.StatusBadRequest},
	{ledgertypes.ErrInvalidAddress, http.StatusBadRequest},
	{ledgertypes.ErrInvalidAmount, http.StatusBadRequest},
	{app.ErrInvalidRequest, http.StatusBadRequest},
	{app.ErrReservedDenom, http.StatusBadRequest},
	{app.ErrReservedAddress, http.StatusForbidden},

	{swaptypes.ErrInsufficientReserve, http.StatusUnprocessableEntity},
	{swaptypes.ErrInsufficientShares, http.StatusUnprocessableEntity},
	{swaptypes.ErrTransferFailed, http.StatusUnprocessableEntity},
	{swaptypes.ErrUninitializedPool, http.StatusUnprocessableEntity},
	{swaptypes.ErrInvalidPoolState, http.StatusUnprocessableEntity},
	{swaptypes.ErrInsufficientLiquidityMinted, http.StatusUnprocessableEntity},
	{swaptypes.ErrInsufficientLiquidityBurned, http.StatusUnprocessableEntity},
	{swaptypes.ErrInsufficientOutputAmount, http.StatusUnprocessableEntity},
	{swaptypes.ErrOverflow, http.StatusUnprocessableEntity},
	{ledgertypes.ErrInsufficientBalance, http.StatusUnprocessableEntity},
	{ledgertypes.ErrInsufficientAllowance, http.StatusUnprocessableEntity},
	{ledgertypes.ErrSupplyOverflow, http.StatusUnprocessableEntity},
}

// statusForError maps a registered error to an HTTP status; anything unknown is a 500.
func statusForError(err error) int {
	for _, entry := range statusByError {
		if errors.Is(err, entry.err) {
			return entry.status
		}
	}
	return http.StatusInternalServerError
}

// writeError renders err with its codespace/code and, for pool errors, a recovery hint
func (s *Server) writeError(c *gin.Context, err error) {
	status := statusForError(err)
	codespace, code, _ := errorsmod.ABCIInfo(err, false)

	resp := ErrorResponse{
		Error: err.Error(),
		Code:  fmt.Sprintf("%s:%d", codespace, code),
	}
	if codespace == swaptypes.ModuleName {
		resp.Suggestion = swaptypes.GetRecoverySuggestion(err)
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err, "request_id", c.GetString(requestIDKey))
		resp.Error = "Internal server error"
		resp.Details = err.Error()
	}

	c.AbortWithStatusJSON(status, resp)
}

func badRequest(c *gin.Context, format string, args ...interface{}) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error: fmt.Sprintf(format, args...),
		Code:  "INVALID_REQUEST",
	})
}
