// Package recoverycodes persists MFA fallback codes. Codes are checked for
// membership at login; they are not consumed on use.
package recoverycodes

import "context"

type Repository interface {
	// List returns every recovery code for the user, empty when none exist.
	List(ctx context.Context, userID int64) ([]string, error)

	Add(ctx context.Context, userID int64, code string) error

	// DeleteAll removes the user's whole code set (used when rotating).
	DeleteAll(ctx context.Context, userID int64) error
}
