// Package users persists identity records. Reads accept a typed projection
// so callers fetch only the columns they need (token verification reads the
// password hash alone, login reads password+id).
package users

import (
	"context"

	"github.com/parleychat/authcore/internal/server/models"
)

type Repository interface {
	// Create inserts the user. A unique violation on email or on
	// (username, discriminator) returns common.ErrConflict.
	Create(ctx context.Context, user *models.User) error

	GetByID(ctx context.Context, id int64, proj models.Projection) (*models.User, error)
	GetByEmail(ctx context.Context, email string, proj models.Projection) (*models.User, error)

	// Update applies the patch as a single merged write and returns the
	// resulting record.
	Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)

	// CountByUsername reports how many discriminators a username occupies.
	CountByUsername(ctx context.Context, username string) (int, error)

	// TagExists probes whether (username, discriminator) is taken.
	TagExists(ctx context.Context, username, discriminator string) (bool, error)
}
