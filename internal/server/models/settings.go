package models

// Settings is the per-user settings record, one-to-one with User via
// UserID. Created atomically alongside the user at registration.
type Settings struct {
	UserID            int64  `db:"user_id"`
	Locale            string `db:"locale"`
	Theme             string `db:"theme"`
	Status            string `db:"status"`
	MFAEnabled        bool   `db:"mfa_enabled"`
	MFASecret         string `db:"mfa_secret"` // shared TOTP secret, base32
	FriendRequestsOff bool   `db:"friend_requests_off"`
}

// Record converts the settings to a transport-safe keyed record. The TOTP
// secret never leaves the server after enrollment.
func (s *Settings) Record() map[string]any {
	return map[string]any{
		"locale":              s.Locale,
		"theme":               s.Theme,
		"status":              s.Status,
		"mfa_enabled":         s.MFAEnabled,
		"friend_requests_off": s.FriendRequestsOff,
	}
}

// DefaultSettings returns the settings created for a new account.
func DefaultSettings(userID int64) *Settings {
	return &Settings{
		UserID: userID,
		Locale: "en-US",
		Theme:  "dark",
		Status: "invisible",
	}
}
