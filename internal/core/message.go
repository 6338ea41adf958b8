package core

import "time"

// Message is the domain model for a chat message. Author display name
// and role are snapshotted at post time; later role changes do not
// rewrite history.
type Message struct {
	ID          int64
	Channel     string
	Content     string
	Author      string
	DisplayName string
	Role        Role
	CreatedAt   time.Time
	Edited      bool // reserved; no edit operation exists yet
}
