package impl

import (
	"context"
	"log/slog"

	deliverycontext "ratehub/internal/delivery/context"
	"ratehub/internal/domain/access"
	"ratehub/internal/domain/entity"
	domainerrors "ratehub/internal/domain/errors"
	"ratehub/internal/domain/repository"
	"ratehub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// storeService implements the StoreUsecase interface.
type storeService struct {
	txManager repository.TransactionManager
	storeRepo repository.StoreRepository
	logger    *slog.Logger
}

// NewStoreService is the constructor for storeService.
func NewStoreService(
	txManager repository.TransactionManager,
	storeRepo repository.StoreRepository,
	logger *slog.Logger,
) usecase.StoreUsecase {
	return &storeService{
		txManager: txManager,
		storeRepo: storeRepo,
		logger:    logger,
	}
}

func (srv *storeService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateStore registers a new store owned by the actor.
func (srv *storeService) CreateStore(ctx context.Context, input *usecase.CreateStoreInput, actor *entity.User) (*entity.Store, error) {
	srv.log(ctx).Info("Starting store creation", slog.String("name", input.Name))

	if decision := access.Authorize(actor, access.ActionStoreCreate, access.Target{}); decision.Denied() {
		return nil, denyError(decision)
	}

	// Ownership is never taken from input.
	newStore := &entity.Store{
		Name:    input.Name,
		Email:   input.Email,
		Address: input.Address,
		OwnerID: actor.ID,
	}

	var createdStore *entity.Store
	err := srv.txManager.Execute(ctx, func(txRepos repository.RepositoryFactory) error {
		storeRepo := txRepos.StoreRepo()

		// The unique index on name arbitrates concurrent creations; the
		// repository maps that violation to the duplicate store name error.
		if createErr := storeRepo.Create(ctx, newStore); createErr != nil {
			return errors.Wrap(createErr, "failed to create store")
		}

		loaded, findErr := storeRepo.FindByID(ctx, newStore.ID)
		if findErr != nil {
			return errors.Wrap(findErr, "failed to load created store")
		}
		createdStore = loaded

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute store creation transaction", slog.String("name", input.Name), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute store creation transaction")
	}

	srv.log(ctx).Debug("Store created", slog.Any("storeID", createdStore.ID), slog.Any("ownerID", createdStore.OwnerID))

	return createdStore, nil
}

// GetStore retrieves a single store with its owner and derived average.
func (srv *storeService) GetStore(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	store, err := srv.storeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return nil, errors.Wrap(domainerrors.ErrStoreNotFound, "get store failed")
		}

		return nil, errors.Wrap(err, "failed to find store by id")
	}

	return store, nil
}

// ListStores retrieves stores, scoped to the actor's own stores for store owners.
func (srv *storeService) ListStores(ctx context.Context, actor *entity.User) ([]*entity.Store, error) {
	var ownerID *uuid.UUID
	if actor != nil && actor.Role == entity.RoleOwner {
		ownerID = &actor.ID
	}

	stores, err := srv.storeRepo.List(ctx, ownerID)
	if err != nil {
		srv.log(ctx).Error("Failed to list stores", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list stores")
	}

	return stores, nil
}

// UpdateStore applies a patch to a store record.
func (srv *storeService) UpdateStore(ctx context.Context, id uuid.UUID, input *usecase.UpdateStoreInput, actor *entity.User) (*entity.Store, error) {
	srv.log(ctx).Info("Starting store update", slog.Any("storeID", id))

	var updatedStore *entity.Store
	err := srv.txManager.Execute(ctx, func(txRepos repository.RepositoryFactory) error {
		storeRepo := txRepos.StoreRepo()

		store, findErr := storeRepo.FindByID(ctx, id)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrStoreNotFound) {
				return errors.Wrap(domainerrors.ErrStoreNotFound, "update store failed")
			}

			return errors.Wrap(findErr, "failed to find store by id")
		}

		if decision := access.Authorize(actor, access.ActionStoreUpdate, access.Target{StoreOwnerID: store.OwnerID}); decision.Denied() {
			return denyError(decision)
		}

		if input.Name != nil {
			store.Name = *input.Name
		}
		if input.Email != nil {
			store.Email = input.Email
		}
		if input.Address != nil {
			store.Address = input.Address
		}

		// The unique index excludes the store's own row, so keeping the
		// current name is never a conflict.
		if updateErr := storeRepo.Update(ctx, store); updateErr != nil {
			return errors.Wrap(updateErr, "failed to update store")
		}

		updatedStore = store

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute store update transaction", slog.Any("storeID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute store update transaction")
	}

	srv.log(ctx).Debug("Store updated", slog.Any("storeID", id))

	return updatedStore, nil
}

// DeleteStore removes a store and all of its ratings in one transaction.
func (srv *storeService) DeleteStore(ctx context.Context, id uuid.UUID, actor *entity.User) error {
	srv.log(ctx).Info("Starting store deletion", slog.Any("storeID", id))

	err := srv.txManager.Execute(ctx, func(txRepos repository.RepositoryFactory) error {
		storeRepo := txRepos.StoreRepo()
		ratingRepo := txRepos.RatingRepo()

		store, findErr := storeRepo.FindByID(ctx, id)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrStoreNotFound) {
				return errors.Wrap(domainerrors.ErrStoreNotFound, "delete store failed")
			}

			return errors.Wrap(findErr, "failed to find store by id")
		}

		if decision := access.Authorize(actor, access.ActionStoreDelete, access.Target{StoreOwnerID: store.OwnerID}); decision.Denied() {
			return denyError(decision)
		}

		if deleteErr := ratingRepo.DeleteByStore(ctx, id); deleteErr != nil {
			return errors.Wrap(deleteErr, "failed to delete store ratings")
		}

		if deleteErr := storeRepo.Delete(ctx, id); deleteErr != nil {
			return errors.Wrap(deleteErr, "failed to delete store")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute store deletion transaction", slog.Any("storeID", id), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute store deletion transaction")
	}

	srv.log(ctx).Debug("Store deleted", slog.Any("storeID", id))

	return nil
}
