package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/it-repair-service/internal/domain"
)

// TicketFilter captures admin search parameters.
type TicketFilter struct {
	Status       *domain.TicketStatus
	Category     *domain.TicketCategory
	Priority     *domain.TicketPriority
	DepartmentID *string
	AssignedTo   *string
	SearchTerm   *string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	SortBy       string
	SortOrder    string
	Limit        int
	Offset       int
}

// TicketRepository encapsulates ticket persistence. Soft-deleted rows are
// invisible to every read.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int, error)
	LastNumberForPrefix(ctx context.Context, prefix string) (string, error)
}

type ticketRepository struct {
	db Querier
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{db: pool}
}

const ticketColumns = `id, ticket_number, user_id, nickname, department_id, phone,
       location_building, location_floor, location_room, location_detail,
       category, issue_title, issue_description, priority, status, assigned_to,
       completed_at, cancelled_at, cancellation_reason, is_deleted, created_at, updated_at`

// sortColumns whitelists caller-chosen sort fields.
var sortColumns = map[string]string{
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
	"ticketNumber": "ticket_number",
	"priority":     "priority",
	"status":       "status",
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_number, user_id, nickname, department_id, phone,
            location_building, location_floor, location_room, location_detail,
            category, issue_title, issue_description, priority, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.UserID,
		ticket.Nickname,
		ticket.DepartmentID,
		ticket.Phone,
		ticket.LocationBuilding,
		ticket.LocationFloor,
		ticket.LocationRoom,
		ticket.LocationDetail,
		ticket.Category,
		ticket.IssueTitle,
		ticket.IssueDescription,
		ticket.Priority,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, assigned_to=$2, completed_at=$3, cancelled_at=$4,
            cancellation_reason=$5, updated_at=NOW()
        WHERE id=$6 AND is_deleted=FALSE`
	cmd, err := r.db.Exec(ctx, query,
		ticket.Status,
		ticket.AssignedTo,
		ticket.CompletedAt,
		ticket.CancelledAt,
		ticket.CancellationReason,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1 AND is_deleted=FALSE`
	var ticket domain.Ticket
	if err := r.db.QueryRow(ctx, query, id).Scan(scanTargets(&ticket)...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListByUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
        FROM tickets WHERE user_id=$1 AND is_deleted=FALSE ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int, error) {
	clauses := []string{"is_deleted=FALSE"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("department_id=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(ticket_number) LIKE %s OR LOWER(nickname) LIKE %s OR LOWER(issue_title) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM tickets WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol, ok := sortColumns[filter.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 25
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		ticketColumns, where, sortCol, direction, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tickets, err := scanTickets(rows)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// LastNumberForPrefix returns the lexicographically greatest ticket number
// starting with prefix, or "" when none exists. Used to seed the daily
// sequence counter.
func (r *ticketRepository) LastNumberForPrefix(ctx context.Context, prefix string) (string, error) {
	const query = `
        SELECT ticket_number FROM tickets
        WHERE ticket_number LIKE $1 || '%'
        ORDER BY ticket_number DESC LIMIT 1`
	var number string
	err := r.db.QueryRow(ctx, query, prefix).Scan(&number)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return number, nil
}

func scanTargets(ticket *domain.Ticket) []any {
	return []any{
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.UserID,
		&ticket.Nickname,
		&ticket.DepartmentID,
		&ticket.Phone,
		&ticket.LocationBuilding,
		&ticket.LocationFloor,
		&ticket.LocationRoom,
		&ticket.LocationDetail,
		&ticket.Category,
		&ticket.IssueTitle,
		&ticket.IssueDescription,
		&ticket.Priority,
		&ticket.Status,
		&ticket.AssignedTo,
		&ticket.CompletedAt,
		&ticket.CancelledAt,
		&ticket.CancellationReason,
		&ticket.IsDeleted,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	}
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(scanTargets(&ticket)...); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
