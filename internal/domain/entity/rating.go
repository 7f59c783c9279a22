package entity

import (
	"time"

	"github.com/google/uuid"
)

// Bounds of the accepted rating value, inclusive.
const (
	MinRatingValue = 1
	MaxRatingValue = 5
)

// Rating is a single user's score for a single store. At most one rating
// exists per (rater, store) pair. RaterID is nil once the authoring user has
// been deleted: the rating is retained without an identifiable author.
type Rating struct {
	ID        uuid.UUID
	RaterID   *uuid.UUID
	StoreID   uuid.UUID
	Value     int     // Score within [MinRatingValue, MaxRatingValue].
	Comment   *string // Optional free-form text.
	Rater     *User   // Authoring user, nil when anonymized or not loaded.
	Store     *Store  // Rated store, populated on reads that request it.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAnonymous reports whether the authoring user has been deleted.
func (r *Rating) IsAnonymous() bool {
	return r.RaterID == nil
}

// IsValidRatingValue checks that a score lies within the accepted range.
func IsValidRatingValue(value int) bool {
	return value >= MinRatingValue && value <= MaxRatingValue
}
