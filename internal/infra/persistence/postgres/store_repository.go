package postgres

import (
	"context"

	"ratehub/internal/domain/entity"
	domainerrors "ratehub/internal/domain/errors"
	"ratehub/internal/domain/repository"
	"ratehub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// storeRepository implements the domain.StoreRepository interface using GORM.
type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository is the constructor for storeRepository.
func NewStoreRepository(db *gorm.DB) repository.StoreRepository {
	return &storeRepository{db: db}
}

// Create persists a new store entity to the database.
func (repo *storeRepository) Create(ctx context.Context, store *entity.Store) error {
	storeM := fromStoreDomain(store)

	if err := repo.db.WithContext(ctx).Create(storeM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrDuplicateStoreName.WrapMessage("store name already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("store owner does not exist")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required store information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create store")
	}

	store.ID = storeM.ID
	store.CreatedAt = storeM.CreatedAt
	store.UpdatedAt = storeM.UpdatedAt

	return nil
}

// FindByID retrieves a single store by its unique ID, preloading its owner.
func (repo *storeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	var storeM model.StoreModel
	err := repo.db.WithContext(ctx).
		Preload("Owner").
		Where("id = ?", id).
		First(&storeM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStoreNotFound
		}

		return nil, errors.Wrap(err, "failed to find store by id")
	}

	return toStoreDomain(&storeM), nil
}

// FindByIDForUpdate retrieves a store under SELECT ... FOR UPDATE. The row
// lock is held until the surrounding transaction ends; callers outside a
// transaction gain nothing from it.
func (repo *storeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	var storeM model.StoreModel
	err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&storeM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrStoreNotFound
		}

		return nil, errors.Wrap(err, "failed to find store by id for update")
	}

	return toStoreDomain(&storeM), nil
}

// List retrieves stores with their owners, ordered by creation time.
// A non-nil ownerID restricts the result to that user's stores.
func (repo *storeRepository) List(ctx context.Context, ownerID *uuid.UUID) ([]*entity.Store, error) {
	query := repo.db.WithContext(ctx).
		Preload("Owner").
		Order("created_at ASC")
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}

	var storeModels []model.StoreModel
	if err := query.Find(&storeModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list stores")
	}

	stores := make([]*entity.Store, 0, len(storeModels))
	for i := range storeModels {
		stores = append(stores, toStoreDomain(&storeModels[i]))
	}

	return stores, nil
}

// Update modifies an existing store entity in the database. The derived
// average column is left untouched; only SetAverageRating writes it.
func (repo *storeRepository) Update(ctx context.Context, store *entity.Store) error {
	updates := map[string]any{
		"name":    store.Name,
		"email":   store.Email,
		"address": store.Address,
	}

	result := repo.db.WithContext(ctx).
		Model(&model.StoreModel{}).
		Where("id = ?", store.ID).
		Updates(updates)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrDuplicateStoreName.WrapMessage("store name already exists")
		}
		if isNotNullConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required store information")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update store")
	}
	if result.RowsAffected == 0 {
		return repository.ErrStoreNotFound
	}

	return nil
}

// Delete removes a store by ID. Callers are expected to have removed or
// cascaded the store's ratings within the same transaction.
func (repo *storeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.StoreModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete store")
	}
	if result.RowsAffected == 0 {
		return repository.ErrStoreNotFound
	}

	return nil
}

// SetAverageRating writes the derived average for a store. A nil average
// clears the column.
func (repo *storeRepository) SetAverageRating(ctx context.Context, id uuid.UUID, average *float64) error {
	result := repo.db.WithContext(ctx).
		Model(&model.StoreModel{}).
		Where("id = ?", id).
		Update("average_rating", average)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to set store average rating")
	}
	if result.RowsAffected == 0 {
		return repository.ErrStoreNotFound
	}

	return nil
}

// toStoreDomain converts a GORM StoreModel to a domain Store entity.
func toStoreDomain(data *model.StoreModel) *entity.Store {
	if data == nil {
		return nil
	}

	return &entity.Store{
		ID:            data.ID,
		Name:          data.Name,
		Email:         data.Email,
		Address:       data.Address,
		AverageRating: data.AverageRating,
		OwnerID:       data.OwnerID,
		Owner:         toUserDomain(data.Owner),
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

// fromStoreDomain converts a domain Store entity to a GORM StoreModel for persistence.
func fromStoreDomain(data *entity.Store) *model.StoreModel {
	if data == nil {
		return nil
	}

	return &model.StoreModel{
		ID:            data.ID,
		Name:          data.Name,
		Email:         data.Email,
		Address:       data.Address,
		AverageRating: data.AverageRating,
		OwnerID:       data.OwnerID,
	}
}
