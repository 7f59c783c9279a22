package usecase

import (
	"context"

	"ratehub/internal/domain/repository"

	"github.com/google/uuid"
)

// AverageAggregator recomputes a store's derived average rating.
//
// Recompute must run against repositories bound to the transaction that
// performed the triggering rating mutation, so the mean is taken from a
// snapshot that already contains the mutation and the write of the average
// commits or rolls back together with it. A recompute failure therefore
// fails the whole operation; aggregation is never fire-and-forget.
type AverageAggregator interface {
	Recompute(ctx context.Context, txRepos repository.RepositoryFactory, storeID uuid.UUID) error
}
