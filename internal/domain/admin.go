package domain

import "time"

// AdminRole enumerates operator roles.
type AdminRole string

const (
	AdminRoleViewer AdminRole = "viewer"
	AdminRoleAgent  AdminRole = "agent"
	AdminRoleSuper  AdminRole = "super"
)

// Admin models an IT support operator.
type Admin struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	FullName     string
	Role         AdminRole
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
