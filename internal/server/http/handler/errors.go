package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parleychat/authcore/internal/common"
)

// abortWithError maps a service error kind to its HTTP status. Unrecognized
// errors become an opaque 500 so internals never leak to clients.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrDuplicateEmail),
		errors.Is(err, common.ErrUsernameSaturated),
		errors.Is(err, common.ErrDiscriminatorTaken),
		errors.Is(err, common.ErrInvalidCredential):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrMFARequired), errors.Is(err, common.ErrMFAInvalid):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": common.ErrInternal.Error()})
	}
}
