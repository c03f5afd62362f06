package store

import "github.com/google/uuid"

// IDGenerator produces collision-resistant identifiers for new records.
// Injectable so tests can use a deterministic sequence.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator is the production generator. Random UUIDs keep identifiers
// unique across both collections for the process lifetime, and identifiers
// are never reused after deletion.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
