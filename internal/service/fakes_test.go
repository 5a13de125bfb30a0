package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/it-repair-service/internal/domain"
	"github.com/spec-kit/it-repair-service/internal/line"
	"github.com/spec-kit/it-repair-service/internal/repository"
)

var fixedNow = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

type fakeUserRepo struct {
	users        []*domain.User
	seq          int
	touched      []string
	createErr    error
	missFirstGet bool
	getCalls     int
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.FirstSeenAt = fixedNow
	user.LastSeenAt = fixedNow
	r.users = append(r.users, user)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByLineUserID(ctx context.Context, lineUserID string) (*domain.User, error) {
	r.getCalls++
	if r.missFirstGet && r.getCalls == 1 {
		return nil, pgx.ErrNoRows
	}
	for _, user := range r.users {
		if user.LineUserID == lineUserID {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) TouchLastSeen(ctx context.Context, id string) error {
	r.touched = append(r.touched, id)
	return nil
}

func (r *fakeUserRepo) IncrementTicketCount(ctx context.Context, id string) error {
	for _, user := range r.users {
		if user.ID == id {
			user.TicketCount++
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeTicketRepo struct {
	tickets    []*domain.Ticket
	seq        int
	createErrs []error

	filterResult []domain.Ticket
	filterTotal  int
	lastFilter   repository.TicketFilter
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	ticket.CreatedAt = fixedNow
	ticket.UpdatedAt = fixedNow
	r.tickets = append(r.tickets, ticket)
	return nil
}

func (r *fakeTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	for i, existing := range r.tickets {
		if existing.ID == ticket.ID && !existing.IsDeleted {
			r.tickets[i] = ticket
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	for _, ticket := range r.tickets {
		if ticket.ID == id && !ticket.IsDeleted {
			clone := *ticket
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListByUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.UserID == userID && !ticket.IsDeleted {
			result = append(result, *ticket)
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, int, error) {
	r.lastFilter = filter
	return r.filterResult, r.filterTotal, nil
}

func (r *fakeTicketRepo) LastNumberForPrefix(ctx context.Context, prefix string) (string, error) {
	return "", nil
}

type fakeHistoryRepo struct {
	entries []*domain.TicketHistory
	seq     int
}

func (r *fakeHistoryRepo) Create(ctx context.Context, history *domain.TicketHistory) error {
	r.seq++
	history.ID = fmt.Sprintf("history-%d", r.seq)
	history.CreatedAt = fixedNow
	r.entries = append(r.entries, history)
	return nil
}

func (r *fakeHistoryRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	var result []domain.TicketHistory
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			result = append(result, *entry)
		}
	}
	return result, nil
}

type fakeDepartmentRepo struct {
	departments map[string]*domain.Department
}

func (r *fakeDepartmentRepo) Create(ctx context.Context, dept *domain.Department) error {
	dept.ID = fmt.Sprintf("dept-%d", len(r.departments)+1)
	r.departments[dept.ID] = dept
	return nil
}

func (r *fakeDepartmentRepo) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	dept, ok := r.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return dept, nil
}

func (r *fakeDepartmentRepo) ListActive(ctx context.Context) ([]domain.Department, error) {
	var result []domain.Department
	for _, dept := range r.departments {
		if dept.IsActive {
			result = append(result, *dept)
		}
	}
	return result, nil
}

type fakeAdminRepo struct {
	admins map[string]*domain.Admin
}

func (r *fakeAdminRepo) Create(ctx context.Context, admin *domain.Admin) error {
	admin.ID = fmt.Sprintf("admin-%d", len(r.admins)+1)
	r.admins[admin.ID] = admin
	return nil
}

func (r *fakeAdminRepo) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	admin, ok := r.admins[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return admin, nil
}

func (r *fakeAdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	for _, admin := range r.admins {
		if admin.Email == email {
			return admin, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAdminRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	for _, admin := range r.admins {
		if admin.Email == email || admin.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// fakeUnitOfWork hands the same in-memory repos to the transactional
// function. Rollback is not simulated; tests arrange failures so nothing is
// written before the failing step.
type fakeUnitOfWork struct {
	users   *fakeUserRepo
	tickets *fakeTicketRepo
	history *fakeHistoryRepo
}

func (u *fakeUnitOfWork) InTx(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	return fn(ctx, repository.TxRepos{
		Users:   u.users,
		Tickets: u.tickets,
		History: u.history,
	})
}

type fakeAllocator struct {
	numbers []string
	idx     int
	err     error
}

func (a *fakeAllocator) Next(ctx context.Context, date time.Time) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	number := a.numbers[a.idx]
	a.idx++
	return number, nil
}

type fakeNotifier struct {
	payloads []domain.NotificationPayload
}

func (n *fakeNotifier) Dispatch(payload domain.NotificationPayload) {
	n.payloads = append(n.payloads, payload)
}

type fakeProfileFetcher struct {
	profile *line.Profile
	err     error
	calls   int
}

func (f *fakeProfileFetcher) GetProfile(ctx context.Context, lineUserID string) (*line.Profile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

type pushCall struct {
	to       string
	messages []line.Message
}

type fakeSender struct {
	pushes []pushCall
	errs   []error
}

func (s *fakeSender) Push(ctx context.Context, to string, messages []line.Message) error {
	s.pushes = append(s.pushes, pushCall{to: to, messages: messages})
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return err
	}
	return nil
}
