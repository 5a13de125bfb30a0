package domain

// NotificationKind selects the outbound message template.
type NotificationKind string

const (
	NotifyTicketCreated   NotificationKind = "created"
	NotifyTicketAssigned  NotificationKind = "assigned"
	NotifyTicketUpdated   NotificationKind = "updated"
	NotifyTicketCompleted NotificationKind = "completed"
	NotifyTicketCancelled NotificationKind = "cancelled"
)

// NotificationPayload is the transient unit handed to the dispatcher. It is
// constructed from a ticket plus the triggering action and consumed once.
type NotificationPayload struct {
	Kind         NotificationKind
	LineUserID   string
	Title        string
	Message      string
	TicketNumber string
	Status       TicketStatus
}
