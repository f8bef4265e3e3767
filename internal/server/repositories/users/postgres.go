package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
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

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (id, email, password, username, discriminator, avatar, banner, flags, bot, verified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Password, user.Username, user.Discriminator,
		user.Avatar, user.Banner, user.Flags, user.Bot, user.Verified)

	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrConflict
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64, proj models.Projection) (*models.User, error) {
	fields := proj.Fields()
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, columnList(fields))
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), fields)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string, proj models.Projection) (*models.User, error) {
	fields := proj.Fields()
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, columnList(fields))
	return r.scanOne(r.db.QueryRowContext(ctx, query, email), fields)
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	set := make([]string, 0, 7)
	args := make([]any, 0, 8)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Username != nil {
		add("username", *patch.Username)
	}
	if patch.Discriminator != nil {
		add("discriminator", *patch.Discriminator)
	}
	if patch.Password != nil {
		add("password", *patch.Password)
	}
	if patch.Avatar != nil {
		add("avatar", *patch.Avatar)
	}
	if patch.Banner != nil {
		add("banner", *patch.Banner)
	}
	if patch.Verified != nil {
		add("verified", *patch.Verified)
	}

	if len(set) == 0 {
		return r.GetByID(ctx, id, models.Projection{})
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), columnList(models.AllUserFields),
	)

	user, err := r.scanOne(r.db.QueryRowContext(ctx, query, args...), models.AllUserFields)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, common.ErrConflict
		}
		return nil, err
	}
	return user, nil
}

func (r *PostgresRepository) CountByUsername(ctx context.Context, username string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = $1`, username).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) TagExists(ctx context.Context, username, discriminator string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND discriminator = $2)`,
		username, discriminator).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row, fields []models.UserField) (*models.User, error) {
	user := &models.User{}
	var verified sql.NullBool
	hasVerified := false

	dest := make([]any, 0, len(fields))
	for _, f := range fields {
		switch f {
		case models.FieldID:
			dest = append(dest, &user.ID)
		case models.FieldEmail:
			dest = append(dest, &user.Email)
		case models.FieldPassword:
			dest = append(dest, &user.Password)
		case models.FieldUsername:
			dest = append(dest, &user.Username)
		case models.FieldDiscriminator:
			dest = append(dest, &user.Discriminator)
		case models.FieldAvatar:
			dest = append(dest, &user.Avatar)
		case models.FieldBanner:
			dest = append(dest, &user.Banner)
		case models.FieldFlags:
			dest = append(dest, &user.Flags)
		case models.FieldBot:
			dest = append(dest, &user.Bot)
		case models.FieldVerified:
			hasVerified = true
			dest = append(dest, &verified)
		}
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if hasVerified && verified.Valid {
		v := verified.Bool
		user.Verified = &v
	}

	return user, nil
}

func columnList(fields []models.UserField) string {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Column()
	}
	return strings.Join(cols, ", ")
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
