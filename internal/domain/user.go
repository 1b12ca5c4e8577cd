package domain

import "time"

// User represents a bot user and their free-generation counter.
type User struct {
	ID                  int64
	Username            string
	FirstName           string
	LastName            string
	FreeGenerationsUsed int
	CreatedAt           time.Time
}

// Profile carries the informational fields captured on first contact. They
// are never used for entitlement decisions.
type Profile struct {
	Username  string
	FirstName string
	LastName  string
}
