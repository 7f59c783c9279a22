package repository

import (
	"context"
	"errors"

	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrStoreNotFound is a domain-specific error returned when a store is not found.
var ErrStoreNotFound = errors.New("store not found")

// StoreRepository defines the standard operations for store persistence.
type StoreRepository interface {
	// Create persists a new store entity to the storage.
	Create(ctx context.Context, store *entity.Store) error

	// FindByID retrieves a single store by its unique ID, including its owner.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error)

	// FindByIDForUpdate retrieves a store while taking an exclusive row lock
	// for the duration of the surrounding transaction. Rating mutations use it
	// to serialize per store, so a recompute never reads a rating set that
	// misses a concurrently acknowledged write.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Store, error)

	// List retrieves stores with their owners. When ownerID is non-nil only
	// stores owned by that user are returned.
	List(ctx context.Context, ownerID *uuid.UUID) ([]*entity.Store, error)

	// Update modifies an existing store entity in the storage.
	Update(ctx context.Context, store *entity.Store) error

	// Delete removes a store by ID.
	Delete(ctx context.Context, id uuid.UUID) error

	// SetAverageRating writes the derived average for a store. A nil average
	// clears the column, meaning the store has no ratings.
	SetAverageRating(ctx context.Context, id uuid.UUID, average *float64) error
}
