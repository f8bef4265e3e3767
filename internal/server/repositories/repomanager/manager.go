package repomanager

import (
	"context"
	"database/sql"

	"github.com/parleychat/authcore/internal/dbx"
	"github.com/parleychat/authcore/internal/server/repositories/members"
	"github.com/parleychat/authcore/internal/server/repositories/notes"
	"github.com/parleychat/authcore/internal/server/repositories/recoverycodes"
	"github.com/parleychat/authcore/internal/server/repositories/sessionlimits"
	"github.com/parleychat/authcore/internal/server/repositories/settings"
	"github.com/parleychat/authcore/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// factory serves both plain connections and transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Settings(db dbx.DBTX) settings.Repository
	RecoveryCodes(db dbx.DBTX) recoverycodes.Repository
	Notes(db dbx.DBTX) notes.Repository
	SessionLimits(db dbx.DBTX) sessionlimits.Repository
	Members(db dbx.DBTX) members.Repository
}
