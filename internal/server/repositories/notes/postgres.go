package notes

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

func (r *PostgresRepository) ListByCreator(ctx context.Context, creatorID int64) ([]models.Note, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT creator_id, user_id, content FROM notes WHERE creator_id = $1`, creatorID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.CreatorID, &n.UserID, &n.Content); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Get(ctx context.Context, creatorID, userID int64) (*models.Note, error) {
	n := &models.Note{}
	err := r.db.QueryRowContext(ctx,
		`SELECT creator_id, user_id, content FROM notes WHERE creator_id = $1 AND user_id = $2`,
		creatorID, userID).Scan(&n.CreatorID, &n.UserID, &n.Content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, note *models.Note) error {
	query :=
		`INSERT INTO notes (creator_id, user_id, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (creator_id, user_id) DO UPDATE SET content = EXCLUDED.content
		 `

	_, err := r.db.ExecContext(ctx, query, note.CreatorID, note.UserID, note.Content)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
