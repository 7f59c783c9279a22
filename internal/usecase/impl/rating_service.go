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

// ratingService implements the RatingUsecase interface.
type ratingService struct {
	txManager  repository.TransactionManager
	ratingRepo repository.RatingRepository
	storeRepo  repository.StoreRepository
	aggregator usecase.AverageAggregator
	logger     *slog.Logger
}

// NewRatingService is the constructor for ratingService.
func NewRatingService(
	txManager repository.TransactionManager,
	ratingRepo repository.RatingRepository,
	storeRepo repository.StoreRepository,
	aggregator usecase.AverageAggregator,
	logger *slog.Logger,
) usecase.RatingUsecase {
	return &ratingService{
		txManager:  txManager,
		ratingRepo: ratingRepo,
		storeRepo:  storeRepo,
		aggregator: aggregator,
		logger:     logger,
	}
}

func (srv *ratingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateRating records the actor's rating for a store and refreshes the
// store's average in the same transaction.
func (srv *ratingService) CreateRating(ctx context.Context, input *usecase.CreateRatingInput, actor *entity.User) (*entity.Rating, error) {
	srv.log(ctx).Info("Starting rating creation", slog.Any("storeID", input.StoreID))

	if !entity.IsValidRatingValue(input.Value) {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "rating value must be between 1 and 5")
	}

	raterID := actor.ID
	newRating := &entity.Rating{
		RaterID: &raterID,
		StoreID: input.StoreID,
		Value:   input.Value,
		Comment: input.Comment,
	}

	var createdRating *entity.Rating
	err := srv.txManager.Execute(ctx, func(txRepos repository.RepositoryFactory) error {
		storeRepo := txRepos.StoreRepo()
		ratingRepo := txRepos.RatingRepo()

		// Locking the store row serializes concurrent rating mutations for the
		// same store; without it two READ COMMITTED transactions can each
		// average only their own insert and the later commit wins with a
		// stale value.
		if _, findErr := storeRepo.FindByIDForUpdate(ctx, input.StoreID); findErr != nil {
			if errors.Is(findErr, repository.ErrStoreNotFound) {
				return errors.Wrap(domainerrors.ErrStoreNotFound, "create rating failed")
			}

			return errors.Wrap(findErr, "failed to find store by id")
		}

		_, findErr := ratingRepo.FindByRaterAndStore(ctx, raterID, input.StoreID)
		if findErr == nil {
			return errors.Wrap(domainerrors.ErrDuplicateRating, "store already rated by this user")
		}
		if !errors.Is(findErr, repository.ErrRatingNotFound) {
			return errors.Wrap(findErr, "failed to check existing rating")
		}

		// The unique index on (rater, store) arbitrates concurrent submissions;
		// the repository maps that violation to the same duplicate rating error.
		if createErr := ratingRepo.Create(ctx, newRating); createErr != nil {
			return errors.Wrap(createErr, "failed to create rating")
		}

		if aggErr := srv.aggregator.Recompute(ctx, txRepos, input.StoreID); aggErr != nil {
			return errors.Wrap(aggErr, "failed to recompute store average")
		}

		loaded, loadErr := ratingRepo.FindByID(ctx, newRating.ID)
		if loadErr != nil {
			return errors.Wrap(loadErr, "failed to load created rating")
		}
		createdRating = loaded

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute rating creation transaction", slog.Any("storeID", input.StoreID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute rating creation transaction")
	}

	srv.log(ctx).Debug("Rating created", slog.Any("ratingID", createdRating.ID), slog.Any("storeID", input.StoreID))

	return createdRating, nil
}

// GetRating retrieves a single rating with rater and store references.
func (srv *ratingService) GetRating(ctx context.Context, id uuid.UUID) (*entity.Rating, error) {
	rating, err := srv.ratingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRatingNotFound) {
			return nil, errors.Wrap(domainerrors.ErrRatingNotFound, "get rating failed")
		}

		return nil, errors.Wrap(err, "failed to find rating by id")
	}

	return rating, nil
}

// ListRatings retrieves every rating, newest first.
func (srv *ratingService) ListRatings(ctx context.Context) ([]*entity.Rating, error) {
	ratings, err := srv.ratingRepo.ListAll(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list ratings", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list ratings")
	}

	return ratings, nil
}

// ListRatingsByStore retrieves a store's ratings, newest first.
func (srv *ratingService) ListRatingsByStore(ctx context.Context, storeID uuid.UUID) ([]*entity.Rating, error) {
	if _, err := srv.storeRepo.FindByID(ctx, storeID); err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return nil, errors.Wrap(domainerrors.ErrStoreNotFound, "list store ratings failed")
		}

		return nil, errors.Wrap(err, "failed to find store by id")
	}

	ratings, err := srv.ratingRepo.ListByStore(ctx, storeID)
	if err != nil {
		srv.log(ctx).Error("Failed to list store ratings", slog.Any("storeID", storeID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list store ratings")
	}

	return ratings, nil
}

// UpdateRating applies a patch to a rating and refreshes the store's average
// in the same transaction.
func (srv *ratingService) UpdateRating(ctx context.Context, id uuid.UUID, input *usecase.UpdateRatingInput, actor *entity.User) (*entity.Rating, error) {
	srv.log(ctx).Info("Starting rating update", slog.Any("ratingID", id))

	if input.Value != nil && !entity.IsValidRatingValue(*input.Value) {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "rating value must be between 1 and 5")
	}

	var updatedRating *entity.Rating
	err := srv.txManager.Execute(ctx, func(txRepos repository.RepositoryFactory) error {
		ratingRepo := txRepos.RatingRepo()

		rating, findErr := ratingRepo.FindByID(ctx, id)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrRatingNotFound) {
				return errors.Wrap(domainerrors.ErrRatingNotFound, "update rating failed")
			}

			return errors.Wrap(findErr, "failed to find rating by id")
		}

		if decision := access.Authorize(actor, access.ActionRatingUpdate, access.Target{RaterID: rating.RaterID}); decision.Denied() {
			return denyError(decision)
		}

		// Serialize with other mutations of the same store before writing.
		if _, lockErr := txRepos.StoreRepo().FindByIDForUpdate(ctx, rating.StoreID); lockErr != nil {
			return errors.Wrap(lockErr, "failed to lock store for update")
		}

		if input.Value != nil {
			rating.Value = *input.Value
		}
		if input.Comment != nil {
			rating.Comment = input.Comment
		}

		if updateErr := ratingRepo.Update(ctx, rating); updateErr != nil {
			return errors.Wrap(updateErr, "failed to update rating")
		}

		if aggErr := srv.aggregator.Recompute(ctx, txRepos, rating.StoreID); aggErr != nil {
			return errors.Wrap(aggErr, "failed to recompute store average")
		}

		loaded, loadErr := ratingRepo.FindByID(ctx, rating.ID)
		if loadErr != nil {
			return errors.Wrap(loadErr, "failed to load updated rating")
		}
		updatedRating = loaded

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute rating update transaction", slog.Any("ratingID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute rating update transaction")
	}

	srv.log(ctx).Debug("Rating updated", slog.Any("ratingID", id))

	return updatedRating, nil
}

// DeleteRating removes a rating and refreshes the store's average in the same
// transaction.
func (srv *ratingService) DeleteRating(ctx context.Context, id uuid.UUID, actor *entity.User) error {
	srv.log(ctx).Info("Starting rating deletion", slog.Any("ratingID", id))

	err := srv.txManager.Execute(ctx, func(txRepos repository.RepositoryFactory) error {
		ratingRepo := txRepos.RatingRepo()

		rating, findErr := ratingRepo.FindByID(ctx, id)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrRatingNotFound) {
				return errors.Wrap(domainerrors.ErrRatingNotFound, "delete rating failed")
			}

			return errors.Wrap(findErr, "failed to find rating by id")
		}

		if decision := access.Authorize(actor, access.ActionRatingDelete, access.Target{RaterID: rating.RaterID}); decision.Denied() {
			return denyError(decision)
		}

		// Serialize with other mutations of the same store before writing.
		if _, lockErr := txRepos.StoreRepo().FindByIDForUpdate(ctx, rating.StoreID); lockErr != nil {
			return errors.Wrap(lockErr, "failed to lock store for update")
		}

		if deleteErr := ratingRepo.Delete(ctx, id); deleteErr != nil {
			return errors.Wrap(deleteErr, "failed to delete rating")
		}

		if aggErr := srv.aggregator.Recompute(ctx, txRepos, rating.StoreID); aggErr != nil {
			return errors.Wrap(aggErr, "failed to recompute store average")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute rating deletion transaction", slog.Any("ratingID", id), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute rating deletion transaction")
	}

	srv.log(ctx).Debug("Rating deleted", slog.Any("ratingID", id))

	return nil
}
