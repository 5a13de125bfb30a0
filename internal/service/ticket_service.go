package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/it-repair-service/internal/domain"
	"github.com/spec-kit/it-repair-service/internal/repository"
	apperrors "github.com/spec-kit/it-repair-service/pkg/util"
)

// NumberAllocator hands out unique ticket numbers for a date.
type NumberAllocator interface {
	Next(ctx context.Context, date time.Time) (string, error)
}

// TicketCreateInput carries a validated ticket submission.
type TicketCreateInput struct {
	LineUserID       string
	Nickname         string
	DepartmentID     string
	Phone            *string
	LocationBuilding string
	LocationFloor    string
	LocationRoom     string
	LocationDetail   *string
	Category         domain.TicketCategory
	IssueTitle       string
	IssueDescription *string
	Priority         domain.TicketPriority
}

// TicketUpdateInput carries an admin's partial update. Nil fields are left
// untouched.
type TicketUpdateInput struct {
	Status             *domain.TicketStatus
	AssignedTo         *string
	Comment            *string
	CancellationReason *string
	NotifyUser         *bool
}

// TicketListQuery carries admin search parameters.
type TicketListQuery struct {
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
	Page         int
	Limit        int
}

// TicketListResult is one page of tickets plus paging metadata.
type TicketListResult struct {
	Tickets []domain.Ticket
	Total   int
	Page    int
	Limit   int
	HasMore bool
}

// allowedTransitions is the status machine. Absent keys are terminal: no
// transition out of them is ever valid.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusPending: {
		domain.TicketStatusInProgress,
		domain.TicketStatusCompleted,
		domain.TicketStatusCancelled,
	},
	domain.TicketStatusInProgress: {
		domain.TicketStatusCompleted,
		domain.TicketStatusCancelled,
	},
}

func transitionAllowed(from, to domain.TicketStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TicketService implements the ticket lifecycle: creation with unique number
// allocation, admin updates through the status machine, and reads.
type TicketService struct {
	uow         repository.UnitOfWork
	tickets     repository.TicketRepository
	users       repository.UserRepository
	departments repository.DepartmentRepository
	admins      repository.AdminRepository
	history     repository.TicketHistoryRepository
	identity    *IdentityService
	numbers     NumberAllocator
	notifier    Notifier
	logger      *zap.Logger

	now func() time.Time
}

// NewTicketService wires the service.
func NewTicketService(
	uow repository.UnitOfWork,
	tickets repository.TicketRepository,
	users repository.UserRepository,
	departments repository.DepartmentRepository,
	admins repository.AdminRepository,
	history repository.TicketHistoryRepository,
	identity *IdentityService,
	numbers NumberAllocator,
	notifier Notifier,
	logger *zap.Logger,
) *TicketService {
	return &TicketService{
		uow:         uow,
		tickets:     tickets,
		users:       users,
		departments: departments,
		admins:      admins,
		history:     history,
		identity:    identity,
		numbers:     numbers,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// Create persists a new ticket with a freshly allocated number, its "created"
// history entry, and the owner's ticket counter bump in one transaction. A
// duplicate ticket number (lost seed race) is retried once with a new number.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	dept, err := s.departments.GetByID(ctx, input.DepartmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("department", map[string]any{"departmentId": input.DepartmentID})
		}
		return nil, err
	}
	if !dept.IsActive {
		return nil, apperrors.NewValidationError("department is not active", map[string]any{"departmentId": dept.ID})
	}

	user, err := s.identity.ResolveWithNickname(ctx, input.LineUserID, input.Nickname)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}

	var ticket *domain.Ticket
	for attempt := 0; ; attempt++ {
		number, err := s.numbers.Next(ctx, s.now())
		if err != nil {
			return nil, err
		}

		candidate := &domain.Ticket{
			TicketNumber:     number,
			UserID:           user.ID,
			Nickname:         input.Nickname,
			DepartmentID:     dept.ID,
			Phone:            input.Phone,
			LocationBuilding: input.LocationBuilding,
			LocationFloor:    input.LocationFloor,
			LocationRoom:     input.LocationRoom,
			LocationDetail:   input.LocationDetail,
			Category:         input.Category,
			IssueTitle:       input.IssueTitle,
			IssueDescription: input.IssueDescription,
			Priority:         priority,
			Status:           domain.TicketStatusPending,
		}

		err = s.uow.InTx(ctx, func(ctx context.Context, repos repository.TxRepos) error {
			if err := repos.Tickets.Create(ctx, candidate); err != nil {
				return err
			}
			comment := "Ticket created"
			entry := &domain.TicketHistory{
				TicketID:   candidate.ID,
				Action:     domain.HistoryActionCreated,
				Comment:    &comment,
				NotifyUser: true,
			}
			if err := repos.History.Create(ctx, entry); err != nil {
				return err
			}
			return repos.Users.IncrementTicketCount(ctx, user.ID)
		})
		if err == nil {
			ticket = candidate
			break
		}
		if repository.IsUniqueViolation(err) && attempt == 0 {
			s.logger.Warn("ticket number collision, reallocating",
				zap.String("ticket_number", number))
			continue
		}
		return nil, err
	}

	ticket.User = user
	ticket.Department = dept

	s.notifier.Dispatch(domain.NotificationPayload{
		Kind:         domain.NotifyTicketCreated,
		LineUserID:   user.LineUserID,
		Message:      ticket.IssueTitle,
		TicketNumber: ticket.TicketNumber,
		Status:       ticket.Status,
	})
	return ticket, nil
}

// Update applies an admin's change set. Status changes must follow the
// transition machine; changing the status of a completed or cancelled ticket
// is a conflict. The matching history entry is written in the same
// transaction, and the user is notified afterwards unless suppressed.
func (s *TicketService) Update(ctx context.Context, id string, adminID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}

	oldStatus := ticket.Status
	newStatus := oldStatus
	if input.Status != nil && *input.Status != oldStatus {
		if !input.Status.IsValid() {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *input.Status})
		}
		if !transitionAllowed(oldStatus, *input.Status) {
			return nil, apperrors.NewConflict("status transition not allowed", map[string]any{
				"from": oldStatus,
				"to":   *input.Status,
			})
		}
		newStatus = *input.Status
	}

	assigneeChanged := input.AssignedTo != nil &&
		(ticket.AssignedTo == nil || *ticket.AssignedTo != *input.AssignedTo)

	now := s.now()
	ticket.Status = newStatus
	if input.AssignedTo != nil {
		ticket.AssignedTo = input.AssignedTo
	}
	if input.CancellationReason != nil {
		ticket.CancellationReason = input.CancellationReason
	}
	// Completion and cancellation timestamps are stamped once and never moved.
	if newStatus == domain.TicketStatusCompleted && ticket.CompletedAt == nil {
		ticket.CompletedAt = &now
	}
	if newStatus == domain.TicketStatusCancelled && ticket.CancelledAt == nil {
		ticket.CancelledAt = &now
	}

	notify := true
	if input.NotifyUser != nil {
		notify = *input.NotifyUser
	}

	oldValue := string(oldStatus)
	newValue := string(newStatus)
	entry := &domain.TicketHistory{
		TicketID:   ticket.ID,
		Action:     domain.HistoryActionStatusChanged,
		OldValue:   &oldValue,
		NewValue:   &newValue,
		Comment:    input.Comment,
		NotifyUser: notify,
	}
	if adminID != "" {
		entry.AdminID = &adminID
	}

	err = s.uow.InTx(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		if err := repos.Tickets.Update(ctx, ticket); err != nil {
			return err
		}
		return repos.History.Create(ctx, entry)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, ticket.UserID)
	if err != nil {
		return nil, err
	}
	ticket.User = user

	if notify && user.LineUserID != "" {
		s.notifier.Dispatch(domain.NotificationPayload{
			Kind:         notificationKind(oldStatus, newStatus, assigneeChanged),
			LineUserID:   user.LineUserID,
			Message:      ticket.IssueTitle,
			TicketNumber: ticket.TicketNumber,
			Status:       newStatus,
		})
	}
	return ticket, nil
}

func notificationKind(oldStatus, newStatus domain.TicketStatus, assigneeChanged bool) domain.NotificationKind {
	switch {
	case newStatus == domain.TicketStatusCompleted:
		return domain.NotifyTicketCompleted
	case newStatus == domain.TicketStatusCancelled:
		return domain.NotifyTicketCancelled
	case assigneeChanged && newStatus == domain.TicketStatusInProgress:
		return domain.NotifyTicketAssigned
	default:
		return domain.NotifyTicketUpdated
	}
}

// List returns one page of tickets matching the query.
func (s *TicketService) List(ctx context.Context, query TicketListQuery) (*TicketListResult, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 25
	}
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	tickets, total, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		Status:       query.Status,
		Category:     query.Category,
		Priority:     query.Priority,
		DepartmentID: query.DepartmentID,
		AssignedTo:   query.AssignedTo,
		SearchTerm:   query.SearchTerm,
		CreatedFrom:  query.CreatedFrom,
		CreatedTo:    query.CreatedTo,
		SortBy:       query.SortBy,
		SortOrder:    query.SortOrder,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return nil, err
	}
	return &TicketListResult{
		Tickets: tickets,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: offset+len(tickets) < total,
	}, nil
}

// GetOne loads a ticket with its owner, department, assignee and full
// history.
func (s *TicketService) GetOne(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}

	if ticket.User, err = s.users.GetByID(ctx, ticket.UserID); err != nil {
		return nil, err
	}
	if ticket.Department, err = s.departments.GetByID(ctx, ticket.DepartmentID); err != nil {
		return nil, err
	}
	if ticket.AssignedTo != nil {
		if ticket.Assignee, err = s.admins.GetByID(ctx, *ticket.AssignedTo); err != nil {
			return nil, err
		}
	}
	if ticket.History, err = s.history.ListByTicket(ctx, ticket.ID); err != nil {
		return nil, err
	}
	return ticket, nil
}

// GetByLineUser returns the user's tickets newest first. An unknown line user
// id yields an empty list, not an error.
func (s *TicketService) GetByLineUser(ctx context.Context, lineUserID string) ([]domain.Ticket, error) {
	user, err := s.users.GetByLineUserID(ctx, lineUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Ticket{}, nil
		}
		return nil, err
	}
	tickets, err := s.tickets.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}
