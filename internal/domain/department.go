package domain

import "time"

// Department represents an organizational unit tickets are filed against.
type Department struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
