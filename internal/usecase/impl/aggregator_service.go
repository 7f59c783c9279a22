// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"math"

	"ratehub/internal/domain/repository"
	"ratehub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// averageAggregator implements the AverageAggregator interface.
type averageAggregator struct{}

// NewAverageAggregator is the constructor for averageAggregator.
func NewAverageAggregator() usecase.AverageAggregator {
	return &averageAggregator{}
}

// Recompute reads the mean rating value from the transaction's snapshot and
// writes it back to the store row. The mean is rounded half away from zero to
// two decimal places; with no ratings left the stored average is cleared.
func (agg *averageAggregator) Recompute(ctx context.Context, txRepos repository.RepositoryFactory, storeID uuid.UUID) error {
	average, err := txRepos.RatingRepo().AverageByStore(ctx, storeID)
	if err != nil {
		return errors.Wrap(err, "failed to compute store average")
	}

	if average != nil {
		rounded := math.Round(*average*100) / 100
		average = &rounded
	}

	if err := txRepos.StoreRepo().SetAverageRating(ctx, storeID, average); err != nil {
		return errors.Wrap(err, "failed to write store average")
	}

	return nil
}
