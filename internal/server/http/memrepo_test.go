package http

import (
	"context"
	"database/sql"
	"sync"

	"github.com/parleychat/authcore/internal/common"
	"github.com/parleychat/authcore/internal/dbx"
	"github.com/parleychat/authcore/internal/server/models"
	membersrepo "github.com/parleychat/authcore/internal/server/repositories/members"
	notesrepo "github.com/parleychat/authcore/internal/server/repositories/notes"
	recoveryrepo "github.com/parleychat/authcore/internal/server/repositories/recoverycodes"
	"github.com/parleychat/authcore/internal/server/repositories/repomanager"
	sessionrepo "github.com/parleychat/authcore/internal/server/repositories/sessionlimits"
	settingsrepo "github.com/parleychat/authcore/internal/server/repositories/settings"
	usersrepo "github.com/parleychat/authcore/internal/server/repositories/users"
)

// memRepoManager is an in-memory store standing in for PostgreSQL in
// end-to-end router tests. It enforces the same uniqueness rules the real
// schema does.
type memRepoManager struct {
	mu            sync.Mutex
	users         map[int64]models.User
	settings      map[int64]models.Settings
	recoveryCodes map[int64][]string
	notes         map[[2]int64]models.Note
	sessionLimits map[int64]models.SessionLimit
	guildCounts   map[int64]int
}

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{
		users:         make(map[int64]models.User),
		settings:      make(map[int64]models.Settings),
		recoveryCodes: make(map[int64][]string),
		notes:         make(map[[2]int64]models.Note),
		sessionLimits: make(map[int64]models.SessionLimit),
		guildCounts:   make(map[int64]int),
	}
}

var _ repomanager.RepositoryManager = (*memRepoManager)(nil)

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error      { return nil }
func (m *memRepoManager) Users(dbx.DBTX) usersrepo.Repository               { return (*memUsers)(m) }
func (m *memRepoManager) Settings(dbx.DBTX) settingsrepo.Repository         { return (*memSettings)(m) }
func (m *memRepoManager) RecoveryCodes(dbx.DBTX) recoveryrepo.Repository    { return (*memRecovery)(m) }
func (m *memRepoManager) Notes(dbx.DBTX) notesrepo.Repository               { return (*memNotes)(m) }
func (m *memRepoManager) SessionLimits(dbx.DBTX) sessionrepo.Repository     { return (*memSessions)(m) }
func (m *memRepoManager) Members(dbx.DBTX) membersrepo.Repository           { return (*memMembers)(m) }

type memUsers memRepoManager

func (r *memUsers) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return common.ErrConflict
		}
		if u.Username == user.Username && u.Discriminator == user.Discriminator {
			return common.ErrConflict
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memUsers) GetByID(ctx context.Context, id int64, proj models.Projection) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

func (r *memUsers) GetByEmail(ctx context.Context, email string, proj models.Projection) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memUsers) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Discriminator != nil {
		u.Discriminator = *patch.Discriminator
	}
	if patch.Password != nil {
		u.Password = *patch.Password
	}
	if patch.Avatar != nil {
		u.Avatar = *patch.Avatar
	}
	if patch.Banner != nil {
		u.Banner = *patch.Banner
	}
	if patch.Verified != nil {
		v := *patch.Verified
		u.Verified = &v
	}
	r.users[id] = u
	return &u, nil
}

func (r *memUsers) CountByUsername(ctx context.Context, username string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, u := range r.users {
		if u.Username == username {
			count++
		}
	}
	return count, nil
}

func (r *memUsers) TagExists(ctx context.Context, username, discriminator string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username && u.Discriminator == discriminator {
			return true, nil
		}
	}
	return false, nil
}

type memSettings memRepoManager

func (r *memSettings) Create(ctx context.Context, s *models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[s.UserID] = *s
	return nil
}

func (r *memSettings) Get(ctx context.Context, userID int64) (*models.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &s, nil
}

func (r *memSettings) GetMFA(ctx context.Context, userID int64) (bool, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[userID]
	if !ok {
		return false, "", common.ErrNotFound
	}
	return s.MFAEnabled, s.MFASecret, nil
}

func (r *memSettings) SetMFA(ctx context.Context, userID int64, enabled bool, secret string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.settings[userID]
	s.UserID = userID
	s.MFAEnabled = enabled
	s.MFASecret = secret
	r.settings[userID] = s
	return nil
}

type memRecovery memRepoManager

func (r *memRecovery) List(ctx context.Context, userID int64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.recoveryCodes[userID]...), nil
}

func (r *memRecovery) Add(ctx context.Context, userID int64, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recoveryCodes[userID] = append(r.recoveryCodes[userID], code)
	return nil
}

func (r *memRecovery) DeleteAll(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.recoveryCodes, userID)
	return nil
}

type memNotes memRepoManager

func (r *memNotes) ListByCreator(ctx context.Context, creatorID int64) ([]models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Note
	for key, n := range r.notes {
		if key[0] == creatorID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *memNotes) Get(ctx context.Context, creatorID, userID int64) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[[2]int64{creatorID, userID}]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &n, nil
}

func (r *memNotes) Upsert(ctx context.Context, note *models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[[2]int64{note.CreatorID, note.UserID}] = *note
	return nil
}

type memSessions memRepoManager

func (r *memSessions) Get(ctx context.Context, userID int64) (*models.SessionLimit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.sessionLimits[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &l, nil
}

func (r *memSessions) Replace(ctx context.Context, limit *models.SessionLimit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessionLimits[limit.UserID] = *limit
	return nil
}

type memMembers memRepoManager

func (r *memMembers) CountGuilds(ctx context.Context, userID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.guildCounts[userID], nil
}
