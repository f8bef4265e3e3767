// Package models defines server-side data models persisted in the database.
package models

// User is the identity record. The id is forged (non-sequential) at
// registration. (Username, Discriminator) is unique across all users.
type User struct {
	ID            int64  `db:"id"`
	Email         string `db:"email"`
	Password      string `db:"password"` // hash, never the plaintext
	Username      string `db:"username"`
	Discriminator string `db:"discriminator"`
	Avatar        string `db:"avatar"`
	Banner        string `db:"banner"`
	Flags         int64  `db:"flags"`
	Bot           bool   `db:"bot"`

	// Verified is tri-state: records created before the column existed
	// carry NULL and are migrated to false on first authorized read.
	Verified *bool `db:"verified"`
}

// Record converts the user to a transport-safe keyed record. The password
// hash is never included.
func (u *User) Record() map[string]any {
	verified := false
	if u.Verified != nil {
		verified = *u.Verified
	}
	return map[string]any{
		"id":            u.ID,
		"email":         u.Email,
		"username":      u.Username,
		"discriminator": u.Discriminator,
		"avatar":        u.Avatar,
		"banner":        u.Banner,
		"flags":         u.Flags,
		"bot":           u.Bot,
		"verified":      verified,
	}
}

// UserPatch carries a partial update; nil fields are left untouched. All
// set fields are applied as a single merged write.
type UserPatch struct {
	Email         *string
	Username      *string
	Discriminator *string
	Password      *string
	Avatar        *string
	Banner        *string
	Verified      *bool
}

// Empty reports whether the patch carries no changes.
func (p UserPatch) Empty() bool {
	return p.Email == nil && p.Username == nil && p.Discriminator == nil &&
		p.Password == nil && p.Avatar == nil && p.Banner == nil && p.Verified == nil
}
