package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/it-repair-service/internal/domain"
)

// UserRepository defines persistence access for platform users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByLineUserID(ctx context.Context, lineUserID string) (*domain.User, error)
	TouchLastSeen(ctx context.Context, id string) error
	IncrementTicketCount(ctx context.Context, id string) error
}

type userRepository struct {
	db Querier
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{db: pool}
}

const userColumns = `id, line_user_id, display_name, picture_url, status_message,
       first_seen_at, last_seen_at, ticket_count`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (line_user_id, display_name, picture_url, status_message, first_seen_at, last_seen_at, ticket_count)
        VALUES ($1,$2,$3,$4,NOW(),NOW(),0)
        RETURNING id, first_seen_at, last_seen_at, ticket_count`

	return r.db.QueryRow(ctx, query,
		user.LineUserID,
		user.DisplayName,
		user.PictureURL,
		user.StatusMessage,
	).Scan(&user.ID, &user.FirstSeenAt, &user.LastSeenAt, &user.TicketCount)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByLineUserID(ctx context.Context, lineUserID string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE line_user_id=$1`, lineUserID)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.LineUserID,
		&user.DisplayName,
		&user.PictureURL,
		&user.StatusMessage,
		&user.FirstSeenAt,
		&user.LastSeenAt,
		&user.TicketCount,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) TouchLastSeen(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET last_seen_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) IncrementTicketCount(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET ticket_count=ticket_count+1 WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
