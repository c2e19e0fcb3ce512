package domain

import "time"

// Identity is an anonymous client identity. Every client obtains one before
// reading or writing rooms. It carries no authorization: any holder of a room
// link has full read/write access.
type Identity struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}
