package sessionlimits

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

func (r *PostgresRepository) Get(ctx context.Context, userID int64) (*models.SessionLimit, error) {
	limit := &models.SessionLimit{}
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, total, remaining, max_concurrency, expires_at
		 FROM session_limits WHERE user_id = $1`, userID).
		Scan(&limit.UserID, &limit.Total, &limit.Remaining, &limit.MaxConcurrency, &limit.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return limit, nil
}

func (r *PostgresRepository) Replace(ctx context.Context, limit *models.SessionLimit) error {
	query :=
		`INSERT INTO session_limits (user_id, total, remaining, max_concurrency, expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET
		   total = EXCLUDED.total,
		   remaining = EXCLUDED.remaining,
		   max_concurrency = EXCLUDED.max_concurrency,
		   expires_at = EXCLUDED.expires_at
		 `

	_, err := r.db.ExecContext(ctx, query,
		limit.UserID, limit.Total, limit.Remaining, limit.MaxConcurrency, limit.ExpiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
