package domain

import "time"

// Syncable provides the common identity and timestamp fields shared by
// every persisted document.
type Syncable struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
}

// Touch updates the UpdatedAt timestamp to the current time.
// Call this whenever the underlying entity changes.
func (s *Syncable) Touch() {
	s.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new entity.
func (s *Syncable) InitTimestamps() {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
}
