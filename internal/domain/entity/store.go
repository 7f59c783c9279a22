package entity

import (
	"time"

	"github.com/google/uuid"
)

// Store is a rateable storefront registered by a store owner.
// AverageRating is derived state owned by the rating aggregator: it is the
// arithmetic mean of all rating values for the store rounded to two decimal
// places, or nil while the store has no ratings. Nothing else writes it.
type Store struct {
	ID            uuid.UUID
	Name          string   // Unique display name, required.
	Email         *string  // Optional contact email.
	Address       *string  // Optional postal address.
	AverageRating *float64 // Derived mean of rating values, nil when unrated.
	OwnerID       uuid.UUID
	Owner         *User // Owning user, populated on reads that request it.
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
