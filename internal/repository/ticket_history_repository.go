package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/it-repair-service/internal/domain"
)

// TicketHistoryRepository stores the append-only audit trail.
type TicketHistoryRepository interface {
	Create(ctx context.Context, history *domain.TicketHistory) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error)
}

type ticketHistoryRepository struct {
	db Querier
}

// NewTicketHistoryRepository builds the repository.
func NewTicketHistoryRepository(pool *pgxpool.Pool) TicketHistoryRepository {
	return &ticketHistoryRepository{db: pool}
}

func (r *ticketHistoryRepository) Create(ctx context.Context, history *domain.TicketHistory) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, admin_id, action, old_value, new_value, comment, notify_user)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		history.TicketID,
		history.AdminID,
		history.Action,
		history.OldValue,
		history.NewValue,
		history.Comment,
		history.NotifyUser,
	).Scan(&history.ID, &history.CreatedAt)
}

func (r *ticketHistoryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	const query = `
        SELECT h.id, h.ticket_id, h.admin_id, h.action, h.old_value, h.new_value,
               h.comment, h.notify_user, h.created_at, a.full_name
        FROM ticket_history h
        LEFT JOIN admins a ON a.id = h.admin_id
        WHERE h.ticket_id=$1 ORDER BY h.created_at DESC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketHistory
	for rows.Next() {
		var history domain.TicketHistory
		var adminName *string
		if err := rows.Scan(
			&history.ID,
			&history.TicketID,
			&history.AdminID,
			&history.Action,
			&history.OldValue,
			&history.NewValue,
			&history.Comment,
			&history.NotifyUser,
			&history.CreatedAt,
			&adminName,
		); err != nil {
			return nil, err
		}
		if history.AdminID != nil && adminName != nil {
			history.Admin = &domain.Admin{ID: *history.AdminID, FullName: *adminName}
		}
		result = append(result, history)
	}
	return result, rows.Err()
}
