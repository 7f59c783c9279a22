package postgres

import (
	"context"
	"database/sql"

	"ratehub/internal/domain/entity"
	domainerrors "ratehub/internal/domain/errors"
	"ratehub/internal/domain/repository"
	"ratehub/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ratingRepository implements the domain.RatingRepository interface using GORM.
type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository is the constructor for ratingRepository.
func NewRatingRepository(db *gorm.DB) repository.RatingRepository {
	return &ratingRepository{db: db}
}

// Create persists a new rating entity to the database. The composite unique
// index on (rater_id, store_id) arbitrates concurrent submissions.
func (repo *ratingRepository) Create(ctx context.Context, rating *entity.Rating) error {
	ratingM := fromRatingDomain(rating)

	if err := repo.db.WithContext(ctx).Create(ratingM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrDuplicateRating.WrapMessage("store already rated by this user")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrStoreNotFound.WrapMessage("rated store does not exist")
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("rating value out of range")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create rating")
	}

	rating.ID = ratingM.ID
	rating.CreatedAt = ratingM.CreatedAt
	rating.UpdatedAt = ratingM.UpdatedAt

	return nil
}

// FindByID retrieves a single rating with its rater and store references.
func (repo *ratingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Rating, error) {
	var ratingM model.RatingModel
	err := repo.db.WithContext(ctx).
		Preload("Rater").
		Preload("Store").
		Where("id = ?", id).
		First(&ratingM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRatingNotFound
		}

		return nil, errors.Wrap(err, "failed to find rating by id")
	}

	return toRatingDomain(&ratingM), nil
}

// FindByRaterAndStore retrieves the rating a user gave a store, if any.
func (repo *ratingRepository) FindByRaterAndStore(ctx context.Context, raterID, storeID uuid.UUID) (*entity.Rating, error) {
	var ratingM model.RatingModel
	err := repo.db.WithContext(ctx).
		Where("rater_id = ? AND store_id = ?", raterID, storeID).
		First(&ratingM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRatingNotFound
		}

		return nil, errors.Wrap(err, "failed to find rating by rater and store")
	}

	return toRatingDomain(&ratingM), nil
}

// ListAll retrieves every rating, newest first, with rater and store references.
func (repo *ratingRepository) ListAll(ctx context.Context) ([]*entity.Rating, error) {
	var ratingModels []model.RatingModel
	err := repo.db.WithContext(ctx).
		Preload("Rater").
		Preload("Store").
		Order("created_at DESC").
		Find(&ratingModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list ratings")
	}

	return toRatingDomains(ratingModels), nil
}

// ListByStore retrieves all ratings for a store, newest first, with rater references.
func (repo *ratingRepository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]*entity.Rating, error) {
	var ratingModels []model.RatingModel
	err := repo.db.WithContext(ctx).
		Preload("Rater").
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&ratingModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list ratings by store")
	}

	return toRatingDomains(ratingModels), nil
}

// Update modifies an existing rating entity in the database.
func (repo *ratingRepository) Update(ctx context.Context, rating *entity.Rating) error {
	updates := map[string]any{
		"value":   rating.Value,
		"comment": rating.Comment,
	}

	result := repo.db.WithContext(ctx).
		Model(&model.RatingModel{}).
		Where("id = ?", rating.ID).
		Updates(updates)
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("rating value out of range")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update rating")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRatingNotFound
	}

	return nil
}

// Delete removes a rating by ID.
func (repo *ratingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.RatingModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete rating")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRatingNotFound
	}

	return nil
}

// DeleteByStore removes every rating for a store. Deleting zero rows is not an error.
func (repo *ratingRepository) DeleteByStore(ctx context.Context, storeID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Delete(&model.RatingModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete ratings by store")
	}

	return nil
}

// AverageByStore computes the mean rating value for a store from the current
// transaction's snapshot. It returns nil when the store has no ratings.
func (repo *ratingRepository) AverageByStore(ctx context.Context, storeID uuid.UUID) (*float64, error) {
	var average sql.NullFloat64
	err := repo.db.WithContext(ctx).
		Model(&model.RatingModel{}).
		Where("store_id = ?", storeID).
		Select("AVG(value)").
		Scan(&average).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute average rating by store")
	}

	if !average.Valid {
		return nil, nil
	}

	return &average.Float64, nil
}

// toRatingDomain converts a GORM RatingModel to a domain Rating entity.
func toRatingDomain(data *model.RatingModel) *entity.Rating {
	if data == nil {
		return nil
	}

	return &entity.Rating{
		ID:        data.ID,
		RaterID:   data.RaterID,
		StoreID:   data.StoreID,
		Value:     data.Value,
		Comment:   data.Comment,
		Rater:     toUserDomain(data.Rater),
		Store:     toStoreDomain(data.Store),
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func toRatingDomains(models []model.RatingModel) []*entity.Rating {
	ratings := make([]*entity.Rating, 0, len(models))
	for i := range models {
		ratings = append(ratings, toRatingDomain(&models[i]))
	}

	return ratings
}

// fromRatingDomain converts a domain Rating entity to a GORM RatingModel for persistence.
func fromRatingDomain(data *entity.Rating) *model.RatingModel {
	if data == nil {
		return nil
	}

	return &model.RatingModel{
		ID:      data.ID,
		RaterID: data.RaterID,
		StoreID: data.StoreID,
		Value:   data.Value,
		Comment: data.Comment,
	}
}
