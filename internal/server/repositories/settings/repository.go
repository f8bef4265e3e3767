// Package settings persists per-user settings records, including the MFA
// enablement flag and shared TOTP secret consulted at login.
package settings

import (
	"context"

	"github.com/parleychat/authcore/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.Settings) error
	Get(ctx context.Context, userID int64) (*models.Settings, error)

	// GetMFA projects only the two columns the login path needs.
	GetMFA(ctx context.Context, userID int64) (enabled bool, secret string, err error)

	SetMFA(ctx context.Context, userID int64, enabled bool, secret string) error
}
