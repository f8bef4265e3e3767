// Package sessionlimits persists the per-user gateway session-start ledger.
// Entries carry an explicit expiry timestamp; the service layer treats an
// expired row the same as a missing one and replaces it with defaults.
package sessionlimits

import (
	"context"

	"github.com/parleychat/authcore/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, userID int64) (*models.SessionLimit, error)

	// Replace upserts the entry, resetting counters and the expiry window.
	Replace(ctx context.Context, limit *models.SessionLimit) error
}
