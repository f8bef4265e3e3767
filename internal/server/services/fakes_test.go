package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

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

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// Fake repositories use function fields so each test overrides only the
// calls it cares about; unset calls return zero values.

type fakeUsersRepo struct {
	createFn          func(ctx context.Context, u *models.User) error
	getByIDFn         func(ctx context.Context, id int64, proj models.Projection) (*models.User, error)
	getByEmailFn      func(ctx context.Context, email string, proj models.Projection) (*models.User, error)
	updateFn          func(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	countByUsernameFn func(ctx context.Context, username string) (int, error)
	tagExistsFn       func(ctx context.Context, username, discriminator string) (bool, error)
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64, proj models.Projection) (*models.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id, proj)
	}
	return nil, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string, proj models.Projection) (*models.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email, proj)
	}
	return nil, nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, patch)
	}
	return nil, nil
}

func (f *fakeUsersRepo) CountByUsername(ctx context.Context, username string) (int, error) {
	if f.countByUsernameFn != nil {
		return f.countByUsernameFn(ctx, username)
	}
	return 0, nil
}

func (f *fakeUsersRepo) TagExists(ctx context.Context, username, discriminator string) (bool, error) {
	if f.tagExistsFn != nil {
		return f.tagExistsFn(ctx, username, discriminator)
	}
	return false, nil
}

type fakeSettingsRepo struct {
	createFn func(ctx context.Context, s *models.Settings) error
	getFn    func(ctx context.Context, userID int64) (*models.Settings, error)
	getMFAFn func(ctx context.Context, userID int64) (bool, string, error)
	setMFAFn func(ctx context.Context, userID int64, enabled bool, secret string) error
}

func (f *fakeSettingsRepo) Create(ctx context.Context, s *models.Settings) error {
	if f.createFn != nil {
		return f.createFn(ctx, s)
	}
	return nil
}

func (f *fakeSettingsRepo) Get(ctx context.Context, userID int64) (*models.Settings, error) {
	if f.getFn != nil {
		return f.getFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeSettingsRepo) GetMFA(ctx context.Context, userID int64) (bool, string, error) {
	if f.getMFAFn != nil {
		return f.getMFAFn(ctx, userID)
	}
	return false, "", nil
}

func (f *fakeSettingsRepo) SetMFA(ctx context.Context, userID int64, enabled bool, secret string) error {
	if f.setMFAFn != nil {
		return f.setMFAFn(ctx, userID, enabled, secret)
	}
	return nil
}

type fakeRecoveryRepo struct {
	listFn      func(ctx context.Context, userID int64) ([]string, error)
	addFn       func(ctx context.Context, userID int64, code string) error
	deleteAllFn func(ctx context.Context, userID int64) error
}

func (f *fakeRecoveryRepo) List(ctx context.Context, userID int64) ([]string, error) {
	if f.listFn != nil {
		return f.listFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeRecoveryRepo) Add(ctx context.Context, userID int64, code string) error {
	if f.addFn != nil {
		return f.addFn(ctx, userID, code)
	}
	return nil
}

func (f *fakeRecoveryRepo) DeleteAll(ctx context.Context, userID int64) error {
	if f.deleteAllFn != nil {
		return f.deleteAllFn(ctx, userID)
	}
	return nil
}

type fakeNotesRepo struct {
	listFn   func(ctx context.Context, creatorID int64) ([]models.Note, error)
	getFn    func(ctx context.Context, creatorID, userID int64) (*models.Note, error)
	upsertFn func(ctx context.Context, note *models.Note) error
}

func (f *fakeNotesRepo) ListByCreator(ctx context.Context, creatorID int64) ([]models.Note, error) {
	if f.listFn != nil {
		return f.listFn(ctx, creatorID)
	}
	return nil, nil
}

func (f *fakeNotesRepo) Get(ctx context.Context, creatorID, userID int64) (*models.Note, error) {
	if f.getFn != nil {
		return f.getFn(ctx, creatorID, userID)
	}
	return nil, nil
}

func (f *fakeNotesRepo) Upsert(ctx context.Context, note *models.Note) error {
	if f.upsertFn != nil {
		return f.upsertFn(ctx, note)
	}
	return nil
}

type fakeSessionLimitsRepo struct {
	getFn     func(ctx context.Context, userID int64) (*models.SessionLimit, error)
	replaceFn func(ctx context.Context, limit *models.SessionLimit) error
}

func (f *fakeSessionLimitsRepo) Get(ctx context.Context, userID int64) (*models.SessionLimit, error) {
	if f.getFn != nil {
		return f.getFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeSessionLimitsRepo) Replace(ctx context.Context, limit *models.SessionLimit) error {
	if f.replaceFn != nil {
		return f.replaceFn(ctx, limit)
	}
	return nil
}

type fakeMembersRepo struct {
	countGuildsFn func(ctx context.Context, userID int64) (int, error)
}

func (f *fakeMembersRepo) CountGuilds(ctx context.Context, userID int64) (int, error) {
	if f.countGuildsFn != nil {
		return f.countGuildsFn(ctx, userID)
	}
	return 0, nil
}

type fakeRepoManager struct {
	users         *fakeUsersRepo
	settings      *fakeSettingsRepo
	recoveryCodes *fakeRecoveryRepo
	notes         *fakeNotesRepo
	sessionLimits *fakeSessionLimitsRepo
	members       *fakeMembersRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:         &fakeUsersRepo{},
		settings:      &fakeSettingsRepo{},
		recoveryCodes: &fakeRecoveryRepo{},
		notes:         &fakeNotesRepo{},
		sessionLimits: &fakeSessionLimitsRepo{},
		members:       &fakeMembersRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository             { return m.users }
func (m *fakeRepoManager) Settings(db dbx.DBTX) settingsrepo.Repository       { return m.settings }
func (m *fakeRepoManager) RecoveryCodes(db dbx.DBTX) recoveryrepo.Repository  { return m.recoveryCodes }
func (m *fakeRepoManager) Notes(db dbx.DBTX) notesrepo.Repository             { return m.notes }
func (m *fakeRepoManager) SessionLimits(db dbx.DBTX) sessionrepo.Repository   { return m.sessionLimits }
func (m *fakeRepoManager) Members(db dbx.DBTX) membersrepo.Repository         { return m.members }

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)
