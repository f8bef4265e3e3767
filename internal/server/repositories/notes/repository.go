// Package notes persists the free-text annotations users attach to other
// users. At most one note exists per (creator, target) pair.
package notes

import (
	"context"

	"github.com/parleychat/authcore/internal/server/models"
)

type Repository interface {
	ListByCreator(ctx context.Context, creatorID int64) ([]models.Note, error)
	Get(ctx context.Context, creatorID, userID int64) (*models.Note, error)

	// Upsert creates the note or replaces its content when the pair
	// already exists.
	Upsert(ctx context.Context, note *models.Note) error
}
