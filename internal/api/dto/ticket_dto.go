package dto

import (
	"time"

	"github.com/spec-kit/it-repair-service/internal/domain"
)

// CreateTicketRequest is the public ticket submission payload.
type CreateTicketRequest struct {
	LineUserID       string  `json:"lineUserId"`
	Nickname         string  `json:"nickname"`
	DepartmentID     string  `json:"departmentId"`
	Phone            *string `json:"phone"`
	LocationBuilding string  `json:"locationBuilding"`
	LocationFloor    string  `json:"locationFloor"`
	LocationRoom     string  `json:"locationRoom"`
	LocationDetail   *string `json:"locationDetail"`
	Category         string  `json:"category"`
	IssueTitle       string  `json:"issueTitle"`
	IssueDescription *string `json:"issueDescription"`
	Priority         string  `json:"priority"`
}

// UpdateTicketRequest is the admin update payload. Omitted fields are left
// untouched.
type UpdateTicketRequest struct {
	Status             *string `json:"status"`
	AssignedTo         *string `json:"assignedTo"`
	Comment            *string `json:"comment"`
	CancellationReason *string `json:"cancellationReason"`
	NotifyUser         *bool   `json:"notifyUser"`
}

// TicketSummary is the list-view projection of a ticket.
type TicketSummary struct {
	ID           string     `json:"id"`
	TicketNumber string     `json:"ticketNumber"`
	Nickname     string     `json:"nickname"`
	DepartmentID string     `json:"departmentId"`
	Category     string     `json:"category"`
	IssueTitle   string     `json:"issueTitle"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	AssignedTo   *string    `json:"assignedTo"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`
}

// TicketDetail is the full projection including relations.
type TicketDetail struct {
	TicketSummary
	Phone              *string                 `json:"phone"`
	LocationBuilding   string                  `json:"locationBuilding"`
	LocationFloor      string                  `json:"locationFloor"`
	LocationRoom       string                  `json:"locationRoom"`
	LocationDetail     *string                 `json:"locationDetail"`
	IssueDescription   *string                 `json:"issueDescription"`
	CancellationReason *string                 `json:"cancellationReason,omitempty"`
	User               *UserResponse           `json:"user,omitempty"`
	Department         *DepartmentResponse     `json:"department,omitempty"`
	Assignee           *AdminResponse          `json:"assignee,omitempty"`
	History            []TicketHistoryResponse `json:"history"`
}

// TicketHistoryResponse is one audit trail entry.
type TicketHistoryResponse struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	OldValue   *string   `json:"oldValue"`
	NewValue   *string   `json:"newValue"`
	Comment    *string   `json:"comment"`
	NotifyUser bool      `json:"notifyUser"`
	AdminName  *string   `json:"adminName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TicketListResponse is one page of results.
type TicketListResponse struct {
	Tickets []TicketSummary `json:"tickets"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	HasMore bool            `json:"hasMore"`
}

// NewTicketSummary projects a domain ticket for list views.
func NewTicketSummary(ticket *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:           ticket.ID,
		TicketNumber: ticket.TicketNumber,
		Nickname:     ticket.Nickname,
		DepartmentID: ticket.DepartmentID,
		Category:     string(ticket.Category),
		IssueTitle:   ticket.IssueTitle,
		Priority:     string(ticket.Priority),
		Status:       string(ticket.Status),
		AssignedTo:   ticket.AssignedTo,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
		CompletedAt:  ticket.CompletedAt,
		CancelledAt:  ticket.CancelledAt,
	}
}

// NewTicketDetail projects a domain ticket with loaded relations.
func NewTicketDetail(ticket *domain.Ticket) TicketDetail {
	detail := TicketDetail{
		TicketSummary:      NewTicketSummary(ticket),
		Phone:              ticket.Phone,
		LocationBuilding:   ticket.LocationBuilding,
		LocationFloor:      ticket.LocationFloor,
		LocationRoom:       ticket.LocationRoom,
		LocationDetail:     ticket.LocationDetail,
		IssueDescription:   ticket.IssueDescription,
		CancellationReason: ticket.CancellationReason,
		History:            make([]TicketHistoryResponse, 0, len(ticket.History)),
	}
	if ticket.User != nil {
		user := NewUserResponse(ticket.User)
		detail.User = &user
	}
	if ticket.Department != nil {
		dept := NewDepartmentResponse(ticket.Department)
		detail.Department = &dept
	}
	if ticket.Assignee != nil {
		assignee := NewAdminResponse(ticket.Assignee)
		detail.Assignee = &assignee
	}
	for i := range ticket.History {
		detail.History = append(detail.History, NewTicketHistoryResponse(&ticket.History[i]))
	}
	return detail
}

// NewTicketHistoryResponse projects one audit entry.
func NewTicketHistoryResponse(entry *domain.TicketHistory) TicketHistoryResponse {
	resp := TicketHistoryResponse{
		ID:         entry.ID,
		Action:     string(entry.Action),
		OldValue:   entry.OldValue,
		NewValue:   entry.NewValue,
		Comment:    entry.Comment,
		NotifyUser: entry.NotifyUser,
		CreatedAt:  entry.CreatedAt,
	}
	if entry.Admin != nil {
		resp.AdminName = &entry.Admin.FullName
	}
	return resp
}
