package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusCompleted  TicketStatus = "completed"
	TicketStatusCancelled  TicketStatus = "cancelled"
)

// IsTerminal reports whether no further status transitions are allowed.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusCompleted || s == TicketStatusCancelled
}

// IsValid reports whether s is a known status value.
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusPending, TicketStatusInProgress, TicketStatusCompleted, TicketStatusCancelled:
		return true
	}
	return false
}

// TicketCategory enumerates repair request categories.
type TicketCategory string

const (
	CategoryHardware   TicketCategory = "hardware"
	CategorySoftware   TicketCategory = "software"
	CategoryNetwork    TicketCategory = "network"
	CategoryPeripheral TicketCategory = "peripheral"
	CategoryEmail      TicketCategory = "email"
	CategoryAccount    TicketCategory = "account"
	CategoryOther      TicketCategory = "other"
)

// IsValid reports whether c is a known category.
func (c TicketCategory) IsValid() bool {
	switch c {
	case CategoryHardware, CategorySoftware, CategoryNetwork, CategoryPeripheral,
		CategoryEmail, CategoryAccount, CategoryOther:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	PriorityNormal   TicketPriority = "normal"
	PriorityUrgent   TicketPriority = "urgent"
	PriorityCritical TicketPriority = "critical"
)

// IsValid reports whether p is a known priority.
func (p TicketPriority) IsValid() bool {
	switch p {
	case PriorityNormal, PriorityUrgent, PriorityCritical:
		return true
	}
	return false
}

// Ticket is the aggregate for IT repair requests. TicketNumber is the
// business-facing identifier (REP-YYYYMMDD-NNNN) and is immutable once
// assigned; ID is the internal primary key.
type Ticket struct {
	ID                 string
	TicketNumber       string
	UserID             string
	Nickname           string
	DepartmentID       string
	Phone              *string
	LocationBuilding   string
	LocationFloor      string
	LocationRoom       string
	LocationDetail     *string
	Category           TicketCategory
	IssueTitle         string
	IssueDescription   *string
	Priority           TicketPriority
	Status             TicketStatus
	AssignedTo         *string
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason *string
	IsDeleted          bool
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Relations, populated on detail reads.
	User       *User
	Department *Department
	Assignee   *Admin
	History    []TicketHistory
}
