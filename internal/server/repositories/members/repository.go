// Package members exposes the single read the account core needs from
// guild-membership data: how many guilds a user belongs to, used for the
// bot shard computation. Guild management itself lives elsewhere.
package members

import "context"

type Repository interface {
	CountGuilds(ctx context.Context, userID int64) (int, error)
}
