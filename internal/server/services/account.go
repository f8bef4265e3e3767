package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/parleychat/authcore/internal/common"
	"github.com/parleychat/authcore/internal/dbx"
	"github.com/parleychat/authcore/internal/server/auth"
	"github.com/parleychat/authcore/internal/server/config"
	"github.com/parleychat/authcore/internal/server/events"
	"github.com/parleychat/authcore/internal/server/models"
	"github.com/parleychat/authcore/internal/server/password"
	"github.com/parleychat/authcore/internal/server/repositories/repomanager"
	"github.com/parleychat/authcore/internal/server/totp"
	"github.com/parleychat/authcore/internal/snowflake"
)

// Discriminator allocation bounds. A username with usernameCapacity or more
// discriminators in use is closed to new registrations, and allocation gives
// up after discriminatorPicks random probes.
const (
	usernameCapacity   = 9000
	discriminatorPicks = 10
	recoveryCodeCount  = 10
)

// MFAEnrollment is returned when MFA is switched on: the shared secret, the
// otpauth:// URI for authenticator apps, and the fresh recovery code set.
type MFAEnrollment struct {
	Secret        string
	ProvisionURI  string
	RecoveryCodes []string
}

// EditRequest carries a partial account update; nil fields are untouched.
type EditRequest struct {
	Email         *string
	Username      *string
	Discriminator *string
	Password      *string
	Avatar        *string
	Banner        *string
}

// AccountService implements registration, login, token verification and
// credential mutation. It holds no mutable state of its own; every request
// is served from the store.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *password.Argon2
	codec       *auth.Codec
	oracle      *totp.Oracle
	forger      *snowflake.Forger
	dispatcher  events.Dispatcher

	now               func() time.Time
	rollDiscriminator func() string
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	forger *snowflake.Forger, dispatcher events.Dispatcher) *AccountService {
	return &AccountService{
		db:                db,
		repomanager:       m,
		hasher:            password.New(password.DefaultConfig()),
		codec:             auth.NewCodec(cfg.TokenMaxAge),
		oracle:            totp.New("Parley"),
		forger:            forger,
		dispatcher:        dispatcher,
		now:               time.Now,
		rollDiscriminator: func() string { return fmt.Sprintf("%04d", rand.Intn(10000)) },
	}
}

// allocateDiscriminator probes up to discriminatorPicks random 4-digit
// suffixes for the username and returns the first free one. The probe and
// the later insert are not atomic; the unique index on
// (username, discriminator) is the real guarantee and Register retries once
// on a conflict.
func (s *AccountService) allocateDiscriminator(ctx context.Context, username string) (string, error) {
	repo := s.repomanager.Users(s.db)

	count, err := repo.CountByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("error counting username discriminators: %w", err)
	}
	if count >= usernameCapacity {
		return "", common.ErrUsernameSaturated
	}

	for i := 0; i < discriminatorPicks; i++ {
		candidate := s.rollDiscriminator()
		taken, err := repo.TagExists(ctx, username, candidate)
		if err != nil {
			return "", fmt.Errorf("error probing discriminator: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", common.ErrUsernameSaturated
}

// Register creates an account and returns the user together with a bearer
// token signed by the new password hash. The user and its settings record
// are created in one transaction.
func (s *AccountService) Register(ctx context.Context, email, username, plain string) (*models.User, string, error) {

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email, models.Projection{Only: []models.UserField{models.FieldID}})
	if err == nil {
		return nil, "", common.ErrDuplicateEmail
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, "", fmt.Errorf("error checking email: %w", err)
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, "", fmt.Errorf("error hashing password: %w", err)
	}

	verified := false
	user := &models.User{
		Email:    email,
		Password: hash,
		Username: username,
		Verified: &verified,
	}

	// The allocator probe and the insert race under concurrent
	// registrations of the same username. The unique index catches the
	// loser, which gets one more allocation round.
	for attempt := 0; ; attempt++ {
		user.Discriminator, err = s.allocateDiscriminator(ctx, username)
		if err != nil {
			return nil, "", err
		}
		user.ID = s.forger.Forge()

		err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			if err := s.repomanager.Users(tx).Create(ctx, user); err != nil {
				return err
			}
			return s.repomanager.Settings(tx).Create(ctx, models.DefaultSettings(user.ID))
		})
		if err == nil {
			break
		}
		if errors.Is(err, common.ErrConflict) && attempt == 0 {
			continue
		}
		if errors.Is(err, common.ErrConflict) {
			return nil, "", common.ErrUsernameSaturated
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	return user, s.codec.Issue(user.ID, user.Password), nil
}

// checkMFA validates the supplied code against the user's recovery codes
// and the live time-based code.
func (s *AccountService) checkMFA(ctx context.Context, userID int64, secret, code string) error {
	if code == "" {
		return common.ErrMFARequired
	}

	codes, err := s.repomanager.RecoveryCodes(s.db).List(ctx, userID)
	if err != nil {
		return fmt.Errorf("error listing recovery codes: %w", err)
	}
	for _, c := range codes {
		if c == code {
			return nil
		}
	}

	ok, err := s.oracle.Verify(secret, code, s.now())
	if err != nil || !ok {
		return common.ErrMFAInvalid
	}
	return nil
}

// Login verifies the email/password pair, enforces MFA when the account has
// it enabled, and returns a bearer token. Unknown email and wrong password
// produce the identical error so login cannot probe for registered emails.
func (s *AccountService) Login(ctx context.Context, email, plain, mfaCode string) (string, error) {

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email,
		models.Projection{Only: []models.UserField{models.FieldID, models.FieldPassword}})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrInvalidCredential
		}
		return "", common.ErrInternal
	}

	ok, err := s.hasher.Verify(plain, user.Password)
	if err != nil || !ok {
		return "", common.ErrInvalidCredential
	}

	enabled, secret, err := s.repomanager.Settings(s.db).GetMFA(ctx, user.ID)
	if err != nil {
		return "", common.ErrInternal
	}
	if enabled {
		if err := s.checkMFA(ctx, user.ID, secret, mfaCode); err != nil {
			return "", err
		}
	}

	return s.codec.Issue(user.ID, user.Password), nil
}

// Authorize resolves a bearer token to its user, fetching only the columns
// the projection asks for. Every failure collapses to ErrUnauthorized.
func (s *AccountService) Authorize(ctx context.Context, token string, proj models.Projection) (*models.User, error) {
	if token == "" {
		return nil, common.ErrUnauthorized
	}

	id, err := auth.DecodeID(token)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	repo := s.repomanager.Users(s.db)

	signer, err := repo.GetByID(ctx, id,
		models.Projection{Only: []models.UserField{models.FieldID, models.FieldPassword}})
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	if _, err := s.codec.Verify(token, signer.Password); err != nil {
		return nil, common.ErrUnauthorized
	}

	// The id is trusted now; skip the refetch when nothing else is asked.
	if proj.IDOnly() {
		return &models.User{ID: id}, nil
	}

	user, err := repo.GetByID(ctx, id, proj)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	return user, nil
}

// Me returns the caller's own record with the password hash deferred.
// Records predating the verified column carry NULL there; the first read
// migrates them to false.
func (s *AccountService) Me(ctx context.Context, userID int64) (*models.User, error) {

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID,
		models.Projection{Defer: []models.UserField{models.FieldPassword}})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	if user.Verified == nil {
		verified := false
		user, err = repo.Update(ctx, userID, models.UserPatch{Verified: &verified})
		if err != nil {
			return nil, fmt.Errorf("error migrating verified flag: %w", err)
		}
	}

	return user, nil
}

// Edit applies a partial account update as one merged write. Every supplied
// field is validated first; nothing is written unless all checks pass. A
// password change additionally notifies the user's live sessions, since
// tokens issued under the old hash silently stop verifying.
func (s *AccountService) Edit(ctx context.Context, userID int64, req EditRequest) (*models.User, error) {

	repo := s.repomanager.Users(s.db)

	current, err := repo.GetByID(ctx, userID, models.Projection{})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	patch := models.UserPatch{Avatar: req.Avatar, Banner: req.Banner}

	if req.Email != nil && *req.Email != current.Email {
		_, err := repo.GetByEmail(ctx, *req.Email, models.Projection{Only: []models.UserField{models.FieldID}})
		if err == nil {
			return nil, common.ErrDuplicateEmail
		}
		if !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("error checking email: %w", err)
		}
		patch.Email = req.Email
	}

	username := current.Username
	discriminator := current.Discriminator
	if req.Username != nil {
		username = *req.Username
	}
	if req.Discriminator != nil {
		discriminator = *req.Discriminator
	}
	if username != current.Username || discriminator != current.Discriminator {
		if username != current.Username {
			count, err := repo.CountByUsername(ctx, username)
			if err != nil {
				return nil, fmt.Errorf("error counting username discriminators: %w", err)
			}
			if count >= usernameCapacity {
				return nil, common.ErrUsernameSaturated
			}
		}
		taken, err := repo.TagExists(ctx, username, discriminator)
		if err != nil {
			return nil, fmt.Errorf("error probing discriminator: %w", err)
		}
		if taken {
			return nil, common.ErrDiscriminatorTaken
		}
		patch.Username = req.Username
		patch.Discriminator = req.Discriminator
	}

	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		patch.Password = &hash
	}

	if patch.Empty() {
		return current, nil
	}

	user, err := repo.Update(ctx, userID, patch)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.ErrDiscriminatorTaken
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	if patch.Password != nil {
		s.dispatcher.Dispatch(ctx, events.New(events.UserInternalDisconnect,
			map[string]any{"type": "password-change"}, userID))
	}

	return user, nil
}

// MySettings returns the caller's settings record.
func (s *AccountService) MySettings(ctx context.Context, userID int64) (*models.Settings, error) {
	settings, err := s.repomanager.Settings(s.db).Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error fetching settings: %w", err)
	}
	return settings, nil
}

// EnableMFA switches multi-factor on for the user, rotating the shared
// secret and replacing the whole recovery code set.
func (s *AccountService) EnableMFA(ctx context.Context, userID int64, account string) (*MFAEnrollment, error) {

	secret, err := s.oracle.GenerateSecret()
	if err != nil {
		return nil, fmt.Errorf("error generating totp secret: %w", err)
	}

	codes := make([]string, 0, recoveryCodeCount)
	for i := 0; i < recoveryCodeCount; i++ {
		code, err := common.MakeRandHexString(70)
		if err != nil {
			return nil, fmt.Errorf("error generating recovery code: %w", err)
		}
		codes = append(codes, code)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Settings(tx).SetMFA(ctx, userID, true, secret); err != nil {
			return err
		}
		recoveries := s.repomanager.RecoveryCodes(tx)
		if err := recoveries.DeleteAll(ctx, userID); err != nil {
			return err
		}
		for _, code := range codes {
			if err := recoveries.Add(ctx, userID, code); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error enabling mfa: %w", err)
	}

	return &MFAEnrollment{
		Secret:        secret,
		ProvisionURI:  s.oracle.ProvisionURI(secret, account),
		RecoveryCodes: codes,
	}, nil
}

// DisableMFA switches multi-factor off and deletes the recovery code set.
func (s *AccountService) DisableMFA(ctx context.Context, userID int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Settings(tx).SetMFA(ctx, userID, false, ""); err != nil {
			return err
		}
		return s.repomanager.RecoveryCodes(tx).DeleteAll(ctx, userID)
	})
	if err != nil {
		return fmt.Errorf("error disabling mfa: %w", err)
	}
	return nil
}
