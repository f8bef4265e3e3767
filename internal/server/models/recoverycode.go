package models

// RecoveryCode is a pre-generated fallback credential usable in place of a
// live TOTP code. Codes are multi-use; rotating them means replacing the
// whole set.
type RecoveryCode struct {
	UserID int64  `db:"user_id"`
	Code   string `db:"code"`
}
