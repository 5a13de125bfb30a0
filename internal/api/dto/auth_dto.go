package dto

import "github.com/spec-kit/it-repair-service/internal/domain"

// RegisterRequest creates an admin account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// LoginRequest authenticates an admin.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminResponse is the public projection of an admin.
type AdminResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

// AuthResponse pairs a token with its admin.
type AuthResponse struct {
	Token string        `json:"token"`
	Admin AdminResponse `json:"admin"`
}

// NewAdminResponse projects a domain admin.
func NewAdminResponse(admin *domain.Admin) AdminResponse {
	return AdminResponse{
		ID:       admin.ID,
		Email:    admin.Email,
		Username: admin.Username,
		FullName: admin.FullName,
		Role:     string(admin.Role),
		IsActive: admin.IsActive,
	}
}
