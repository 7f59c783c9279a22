package repository

import (
	"context"
	"errors"

	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrRatingNotFound is a domain-specific error returned when a rating is not found.
var ErrRatingNotFound = errors.New("rating not found")

// RatingRepository defines the standard operations for rating persistence.
type RatingRepository interface {
	// Create persists a new rating entity to the storage.
	Create(ctx context.Context, rating *entity.Rating) error

	// FindByID retrieves a single rating by its unique ID, including its
	// rater and store references.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Rating, error)

	// FindByRaterAndStore retrieves the rating a user gave a store, if any.
	FindByRaterAndStore(ctx context.Context, raterID, storeID uuid.UUID) (*entity.Rating, error)

	// ListAll retrieves every rating, newest first, with rater and store references.
	ListAll(ctx context.Context) ([]*entity.Rating, error)

	// ListByStore retrieves all ratings for a store, newest first, with rater references.
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]*entity.Rating, error)

	// Update modifies an existing rating entity in the storage.
	Update(ctx context.Context, rating *entity.Rating) error

	// Delete removes a rating by ID.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByStore removes every rating for a store. Deleting zero rows is not an error.
	DeleteByStore(ctx context.Context, storeID uuid.UUID) error

	// AverageByStore computes the mean rating value for a store from the
	// current transaction's snapshot. It returns nil when the store has no ratings.
	AverageByStore(ctx context.Context, storeID uuid.UUID) (*float64, error)
}
