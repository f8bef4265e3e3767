package models

import "time"

// Session-limit defaults for a fresh ledger entry.
const (
	SessionLimitTotal          = 1000
	SessionLimitMaxConcurrency = 16

	// SessionLimitTTL is the rolling window after which the ledger entry
	// is considered expired and recreated with defaults.
	SessionLimitTTL = 43200 * time.Second
)

// SessionLimit tracks remaining gateway session starts for one user.
type SessionLimit struct {
	UserID         int64     `db:"user_id"`
	Total          int       `db:"total"`
	Remaining      int       `db:"remaining"`
	MaxConcurrency int       `db:"max_concurrency"`
	ExpiresAt      time.Time `db:"expires_at"`
}

// Expired reports whether the entry is past its rolling window.
func (s *SessionLimit) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// NewSessionLimit returns a fresh default entry for the user.
func NewSessionLimit(userID int64, now time.Time) *SessionLimit {
	return &SessionLimit{
		UserID:         userID,
		Total:          SessionLimitTotal,
		Remaining:      SessionLimitTotal,
		MaxConcurrency: SessionLimitMaxConcurrency,
		ExpiresAt:      now.Add(SessionLimitTTL),
	}
}
