// Package http wires the gin routes for the account server.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/parleychat/authcore/internal/server/http/handler"
	"github.com/parleychat/authcore/internal/server/http/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(accountHandler *handler.AccountHandler, gatewayHandler *handler.GatewayHandler,
	noteHandler *handler.NoteHandler, auth *middleware.Auth) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/register", accountHandler.Register)
	r.POST("/login", accountHandler.Login)

	r.GET("/gateway", auth.Authorize, gatewayHandler.Info)

	me := r.Group("/users/@me", auth.Authorize)
	{
		me.GET("", accountHandler.Me)
		me.PATCH("", accountHandler.Edit)

		me.GET("/settings", accountHandler.Settings)

		me.POST("/mfa", accountHandler.EnableMFA)
		me.DELETE("/mfa", accountHandler.DisableMFA)

		me.POST("/avatar-upload", accountHandler.AvatarUpload)

		me.GET("/notes", noteHandler.List)
		me.GET("/notes/:user_id", noteHandler.Get)
		me.PUT("/notes", noteHandler.Put)
	}

	return r
}
