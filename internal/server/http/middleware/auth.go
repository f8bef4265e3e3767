// Package middleware holds the gin middleware for the account server.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/parleychat/authcore/internal/server/models"
	"github.com/parleychat/authcore/internal/server/services"
)

const userIDKey = "userID"

// Auth resolves the Authorization header to a user id and attaches it to
// the request context.
type Auth struct {
	Accounts *services.AccountService
}

func NewAuth(accounts *services.AccountService) *Auth {
	return &Auth{Accounts: accounts}
}

// Authorize rejects the request unless it carries a token that verifies.
// The header value is the raw token; a "Bearer " prefix is tolerated.
func (m *Auth) Authorize(c *gin.Context) {
	token := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(token, "Bearer "); ok {
		token = after
	}

	user, err := m.Accounts.Authorize(c.Request.Context(), token,
		models.Projection{Only: []models.UserField{models.FieldID}})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.Set(userIDKey, user.ID)
	c.Next()
}

// UserID returns the authorized caller's id set by Authorize.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
