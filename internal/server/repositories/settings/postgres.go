package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/parleychat/authcore/internal/common"
	"github.com/parleychat/authcore/internal/dbx"
	"github.com/parleychat/authcore/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Settings) error {
	query :=
		`INSERT INTO settings (user_id, locale, theme, status, mfa_enabled, mfa_secret, friend_requests_off)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		s.UserID, s.Locale, s.Theme, s.Status, s.MFAEnabled, s.MFASecret, s.FriendRequestsOff)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID int64) (*models.Settings, error) {
	query :=
		`SELECT user_id, locale, theme, status, mfa_enabled, mfa_secret, friend_requests_off
		 FROM settings WHERE user_id = $1
		 `

	s := &models.Settings{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.UserID, &s.Locale, &s.Theme, &s.Status, &s.MFAEnabled, &s.MFASecret, &s.FriendRequestsOff)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) GetMFA(ctx context.Context, userID int64) (bool, string, error) {
	var enabled bool
	var secret string
	err := r.db.QueryRowContext(ctx,
		`SELECT mfa_enabled, mfa_secret FROM settings WHERE user_id = $1`, userID).
		Scan(&enabled, &secret)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, "", common.ErrNotFound
		}
		return false, "", fmt.Errorf("db error: %w", err)
	}
	return enabled, secret, nil
}

func (r *PostgresRepository) SetMFA(ctx context.Context, userID int64, enabled bool, secret string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE settings SET mfa_enabled = $1, mfa_secret = $2 WHERE user_id = $3`,
		enabled, secret, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}
