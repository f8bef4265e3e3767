package models

// Note is a free-text annotation one user attaches to another. At most one
// note exists per (creator, target) pair; writes are create-or-update.
type Note struct {
	CreatorID int64  `db:"creator_id"`
	UserID    int64  `db:"user_id"`
	Content   string `db:"content"`
}

// Record converts the note to a transport-safe keyed record. The creator id
// is implied by the authorized caller and never echoed.
func (n *Note) Record() map[string]any {
	return map[string]any{
		"user_id": n.UserID,
		"content": n.Content,
	}
}
