package usecase

import (
	"context"

	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateRatingInput defines the data required to rate a store.
type CreateRatingInput struct {
	StoreID uuid.UUID
	Value   int
	Comment *string
}

// UpdateRatingInput is a patch of rating fields. Nil fields are left unchanged.
type UpdateRatingInput struct {
	Value   *int
	Comment *string
}

// RatingUsecase defines the rating ledger operations. Every successful
// mutation recomputes the affected store's average rating inside the same
// transaction, before the result is returned.
type RatingUsecase interface {
	// CreateRating records the actor's rating for a store. Fails with
	// ErrStoreNotFound when the store does not exist and ErrDuplicateRating
	// when the actor has already rated it.
	CreateRating(ctx context.Context, input *CreateRatingInput, actor *entity.User) (*entity.Rating, error)

	// GetRating retrieves a single rating with rater and store references.
	GetRating(ctx context.Context, id uuid.UUID) (*entity.Rating, error)

	// ListRatings retrieves every rating, newest first.
	ListRatings(ctx context.Context) ([]*entity.Rating, error)

	// ListRatingsByStore retrieves a store's ratings, newest first.
	// Fails with ErrStoreNotFound for an unknown store.
	ListRatingsByStore(ctx context.Context, storeID uuid.UUID) ([]*entity.Rating, error)

	// UpdateRating applies a patch. Author of the rating or admin only.
	UpdateRating(ctx context.Context, id uuid.UUID, input *UpdateRatingInput, actor *entity.User) (*entity.Rating, error)

	// DeleteRating removes a rating. Author of the rating or admin only.
	DeleteRating(ctx context.Context, id uuid.UUID, actor *entity.User) error
}
