// Package handler exposes the HTTP surface of the account core. Handlers
// only bind payloads, call services and serialize results; every record
// crossing the boundary passes through wire.Normalize.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parleychat/authcore/internal/server/http/middleware"
	"github.com/parleychat/authcore/internal/server/services"
	"github.com/parleychat/authcore/internal/server/wire"
)

// AccountHandler serves registration, login and self-service account
// operations.
type AccountHandler struct {
	Accounts *services.AccountService
	Assets   *services.AssetService
}

func NewAccountHandler(accounts *services.AccountService, assets *services.AssetService) *AccountHandler {
	return &AccountHandler{Accounts: accounts, Assets: assets}
}

// Register creates an account and returns the user with a bearer token.
func (h *AccountHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Username string `json:"username" binding:"required,min=2,max=32"`
		Password string `json:"password" binding:"required,min=8,max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.Accounts.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  wire.Normalize(user.Record()),
	})
}

// Login exchanges email/password (plus an MFA code when required) for a
// bearer token.
func (h *AccountHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Code     string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.Accounts.Login(c.Request.Context(), req.Email, req.Password, req.Code)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Me returns the caller's own record.
func (h *AccountHandler) Me(c *gin.Context) {
	user, err := h.Accounts.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, wire.Normalize(user.Record()))
}

// Edit applies a partial update to the caller's account.
func (h *AccountHandler) Edit(c *gin.Context) {
	var req struct {
		Email         *string `json:"email" binding:"omitempty,email"`
		Username      *string `json:"username" binding:"omitempty,min=2,max=32"`
		Discriminator *string `json:"discriminator" binding:"omitempty,len=4,numeric"`
		Password      *string `json:"password" binding:"omitempty,min=8,max=128"`
		Avatar        *string `json:"avatar"`
		Banner        *string `json:"banner"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Accounts.Edit(c.Request.Context(), middleware.UserID(c), services.EditRequest{
		Email:         req.Email,
		Username:      req.Username,
		Discriminator: req.Discriminator,
		Password:      req.Password,
		Avatar:        req.Avatar,
		Banner:        req.Banner,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, wire.Normalize(user.Record()))
}

// Settings returns the caller's settings record.
func (h *AccountHandler) Settings(c *gin.Context) {
	settings, err := h.Accounts.MySettings(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, wire.Normalize(settings.Record()))
}

// EnableMFA switches multi-factor on and returns the enrollment material.
// The secret and recovery codes are shown exactly once.
func (h *AccountHandler) EnableMFA(c *gin.Context) {
	userID := middleware.UserID(c)

	user, err := h.Accounts.Me(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	enrollment, err := h.Accounts.EnableMFA(c.Request.Context(), userID, user.Email)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"secret":         enrollment.Secret,
		"provision_uri":  enrollment.ProvisionURI,
		"recovery_codes": enrollment.RecoveryCodes,
	})
}

// DisableMFA switches multi-factor off.
func (h *AccountHandler) DisableMFA(c *gin.Context) {
	if err := h.Accounts.DisableMFA(c.Request.Context(), middleware.UserID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AvatarUpload hands out a presigned PUT URL for a new avatar or banner
// asset. The returned key is what a later Edit stores as the reference.
func (h *AccountHandler) AvatarUpload(c *gin.Context) {
	key, url, err := h.Assets.PresignUpload(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "upload_url": url})
}
