package uid

import "github.com/google/uuid"

// UUID yields time-ordered v7 UUIDs, falling back to v4 if the v7 source
// fails.
type UUID struct{}

func NewUUID() UUID { return UUID{} }

func (UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
