package dto

import (
	"time"

	"github.com/spec-kit/it-repair-service/internal/domain"
)

// UserResponse is the public projection of a platform user.
type UserResponse struct {
	ID          string    `json:"id"`
	LineUserID  string    `json:"lineUserId"`
	DisplayName string    `json:"displayName"`
	PictureURL  *string   `json:"pictureUrl,omitempty"`
	TicketCount int       `json:"ticketCount"`
	FirstSeenAt time.Time `json:"firstSeenAt"`
	LastSeenAt  time.Time `json:"lastSeenAt"`
}

// NewUserResponse projects a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		LineUserID:  user.LineUserID,
		DisplayName: user.DisplayName,
		PictureURL:  user.PictureURL,
		TicketCount: user.TicketCount,
		FirstSeenAt: user.FirstSeenAt,
		LastSeenAt:  user.LastSeenAt,
	}
}

// DepartmentResponse is the public projection of a department.
type DepartmentResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// NewDepartmentResponse projects a domain department.
func NewDepartmentResponse(dept *domain.Department) DepartmentResponse {
	return DepartmentResponse{ID: dept.ID, Name: dept.Name, IsActive: dept.IsActive}
}

// CreateDepartmentRequest adds a department to the catalog.
type CreateDepartmentRequest struct {
	Name string `json:"name"`
}
