package domain

import "time"

// HistoryAction captures what kind of change a history entry records.
type HistoryAction string

const (
	HistoryActionCreated       HistoryAction = "created"
	HistoryActionStatusChanged HistoryAction = "status_changed"
)

// TicketHistory is an immutable audit trail entry. Exactly one entry is
// appended per state-mutating operation on the owning ticket.
type TicketHistory struct {
	ID         string
	TicketID   string
	AdminID    *string
	Action     HistoryAction
	OldValue   *string
	NewValue   *string
	Comment    *string
	NotifyUser bool
	CreatedAt  time.Time

	// Relation, populated on detail reads.
	Admin *Admin
}
