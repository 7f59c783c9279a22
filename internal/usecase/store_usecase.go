package usecase

import (
	"context"

	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateStoreInput defines the data required to register a new store.
// The owner is always the acting user; it is never taken from input.
type CreateStoreInput struct {
	Name    string
	Email   *string
	Address *string
}

// UpdateStoreInput is a patch of store fields. Nil fields are left unchanged.
// The derived average rating is not patchable.
type UpdateStoreInput struct {
	Name    *string
	Email   *string
	Address *string
}

// StoreUsecase defines the store registry operations.
type StoreUsecase interface {
	// CreateStore registers a new store owned by the actor. Requires the
	// owner or admin role; fails with ErrDuplicateStoreName on a name clash.
	CreateStore(ctx context.Context, input *CreateStoreInput, actor *entity.User) (*entity.Store, error)

	// GetStore retrieves a single store with its owner and derived average.
	GetStore(ctx context.Context, id uuid.UUID) (*entity.Store, error)

	// ListStores retrieves stores. A store-owner actor sees only their own
	// stores; any other actor, including an anonymous one, sees every store.
	ListStores(ctx context.Context, actor *entity.User) ([]*entity.Store, error)

	// UpdateStore applies a patch. Owner of the store or admin only. The
	// name-uniqueness check excludes the store's own row.
	UpdateStore(ctx context.Context, id uuid.UUID, input *UpdateStoreInput, actor *entity.User) (*entity.Store, error)

	// DeleteStore removes a store and all of its ratings in one transaction.
	// Owner of the store or admin only.
	DeleteStore(ctx context.Context, id uuid.UUID, actor *entity.User) error
}
