package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parleychat/authcore/internal/server/http/middleware"
	"github.com/parleychat/authcore/internal/server/services"
	"github.com/parleychat/authcore/internal/server/wire"
)

// GatewayHandler serves the pre-connect gateway query.
type GatewayHandler struct {
	Accounts *services.AccountService
	Gateway  *services.GatewayService
}

func NewGatewayHandler(accounts *services.AccountService, gateway *services.GatewayService) *GatewayHandler {
	return &GatewayHandler{Accounts: accounts, Gateway: gateway}
}

// Info returns the gateway URL, the shard count for the account and the
// session-start ledger. The ledger's user id is never echoed back.
func (h *GatewayHandler) Info(c *gin.Context) {
	user, err := h.Accounts.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	info, err := h.Gateway.Info(c.Request.Context(), user)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, wire.Normalize(map[string]any{
		"url":    info.URL,
		"shards": info.Shards,
		"session_start_limit": map[string]any{
			"total":           info.SessionStartLimit.Total,
			"remaining":       info.SessionStartLimit.Remaining,
			"max_concurrency": info.SessionStartLimit.MaxConcurrency,
		},
	}))
}
