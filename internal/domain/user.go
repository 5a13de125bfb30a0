package domain

import "time"

// User is an end-user known through the LINE platform. Users are created on
// first contact (follow/message event or first ticket submission) and are
// never deleted.
type User struct {
	ID            string
	LineUserID    string
	DisplayName   string
	PictureURL    *string
	StatusMessage *string
	FirstSeenAt   time.Time
	LastSeenAt    time.Time
	TicketCount   int
}
