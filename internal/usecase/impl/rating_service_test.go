package impl

import (
	"context"
	"testing"

	"ratehub/internal/domain/entity"
	domainerrors "ratehub/internal/domain/errors"
	"ratehub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRatingFixture() (*memoryStore, usecase.RatingUsecase) {
	store := newMemoryStore()
	svc := NewRatingService(store, store.RatingRepo(), store.StoreRepo(), NewAverageAggregator(), newDiscardLogger())

	return store, svc
}

func storeAverage(t *testing.T, store *memoryStore, storeID uuid.UUID) *float64 {
	t.Helper()

	loaded, err := store.StoreRepo().FindByID(context.Background(), storeID)
	require.NoError(t, err)

	return loaded.AverageRating
}

func TestRatingService_CreateRating_SetsAverage(t *testing.T) {
	store, svc := newRatingFixture()
	owner := seedUser(t, store, "Owner", "owner@example.com", entity.RoleOwner)
	rater := seedUser(t, store, "Alice", "alice@example.com", entity.RoleUser)
	rated := seedStore(t, store, "Corner Cafe", owner.ID)

	created, err := svc.CreateRating(context.Background(), &usecase.CreateRatingInput{
		StoreID: rated.ID,
		Value:   4,
		Comment: strPtr("solid coffee"),
	}, rater)
	require.NoError(t, err)
	require.NotNil(t, created.RaterID)
	assert.Equal(t, rater.ID, *created.RaterID)
	require.NotNil(t, created.Rater)
	assert.Equal(t, "Alice", created.Rater.Name)

	avg := storeAverage(t, store, rated.ID)
	require.NotNil(t, avg)
	assert.InDelta(t, 4.0, *avg, 0.0001)
}

// Every rating mutation must take the store row lock before writing, so
// concurrent mutations of the same store serialize and each recompute sees
// every previously acknowledged rating.
func TestRatingService_MutationsLockStoreRow(t *testing.T) {
	store, svc := newRatingFixture()
	owner := seedUser(t, store, "Owner", "owner@example.com", entity.RoleOwner)
	rater := seedUser(t, store, "Alice", "alice@example.com", entity.RoleUser)
	rated := seedStore(t, store, "Corner Cafe", owner.ID)

	created, err := svc.CreateRating(context.Background(), &usecase.CreateRatingInput{
		StoreID: rated.ID,
		Value:   4,
	}, rater)
	require.NoError(t, err)
	assert.Equal(t, 1, store.lockCount(rated.ID))

	_, err = svc.UpdateRating(context.Background(), created.ID, &usecase.UpdateRatingInput{
		Value: intPtr(5),
	}, rater)
	require.NoError(t, err)
	assert.Equal(t, 2, store.lockCount(rated.ID))

	require.NoError(t, svc.DeleteRating(context.Background(), created.ID, rater))
	assert.Equal(t, 3, store.lockCount(rated.ID))

	// Reads stay lock-free.
	_, err = svc.ListRatingsByStore(context.Background(), rated.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, store.lockCount(rated.ID))
}

// The full lifecycle of a store's average: 4 and 2 give 3.00, patching the 2
// to 3 gives 3.50, deleting the 4 leaves 3.00, deleting the last rating
// clears the average entirely.
func TestRatingService_AverageFollowsMutations(t *testing.T) {
	store, svc := newRatingFixture()
	owner := seedUser(t, store, "Owner", "owner@example.com", entity.RoleOwner)
	alice := seedUser(t, store, "Alice", "alice@example.com", entity.RoleUser)
	bob := seedUser(t, store, "Bob", "bob@example.com", entity.RoleUser)
	rated := seedStore(t, store, "Corner Cafe", owner.ID)

	first, err := svc.CreateRating(context.Background(), &usecase.CreateRatingInput{
		StoreID: rated.ID,
		Value:   4,
	}, alice)
	require.NoError(t, err)

	second, err := svc.CreateRating(context.Background(), &usecase.CreateRatingInput{
		StoreID: rated.ID,
		Value:   2,
	}, bob)
	require.NoError(t, err)

	avg := storeAverage(t, store, rated.ID)
	require.NotNil(t, avg)
	assert.InDelta(t, 3.00, *avg, 0.0001)

	_, err = svc.UpdateRating(context.Background(), second.ID, &usecase.UpdateRatingInput{
		Value: intPtr(3),
	}, bob)
	require.NoError(t, err)

	avg = storeAverage(t, store, rated.ID)
	require.NotNil(t, avg)
	assert.InDelta(t, 3.50, *avg, 0.0001)

	require.NoError(t, svc.DeleteRating(context.Background(), first.ID, alice))

	avg = storeAverage(t, store, rated.ID)
	require.NotNil(t, avg)
	assert.InDelta(t, 3.00, *avg, 0.0001)

	require.NoError(t, svc.DeleteRating(context.Background(), second.ID, bob))
	assert.Nil(t, storeAverage(t, store, rated.ID))
}

// A repeating third stays a repeating third: 1, 2 and 2 average to 1.6667 and
// the stored value is rounded to two decimals.
func TestRatingService_AverageRoundedToTwoDecimals(t *testing.T) {
	store, svc := newRatingFixture()
	owner := seedUser(t, store, "Owner", "owner@example.com", entity.RoleOwner)
	rated := seedStore(t, store, "Corner Cafe", owner.ID)

	values := []int{1, 2, 2}
	for i, value := range values {
		rater := seedUser(t, store, "Rater", uuid.NewString()+"@example.com", entity.RoleUser)
		_, err := svc.CreateRating(context.Background(), &usecase.CreateRatingInput{
			StoreID: rated.ID,
			Value:   value,
		}, rater)
		require.NoError(t, err, "rating %d", i)
	}

	avg := storeAverage(t, store, rated.ID)
	require.NotNil(t, avg)
	assert.Equal(t, 1.67, *avg)
}

func TestRatingService_CreateRating_UnknownStore(t *testing.T) {
	store, svc := newRatingFixture()
	rater := seedUser(t, store, "Alice", "alice@example.com", entity.RoleUser)

	_, err := svc.CreateRating(context.Background(), &usecase.CreateRatingInput{
		StoreID: uuid.New(),
		Value:   4,
	}, rater)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrStoreNotFound))
}

func TestRatingService_CreateRating_ValueOutOfRange(t *testing.T) {
	store, svc := newRatingFixture()
	owner := seedUser(t, store, "Owner", "owner@example.com", entity.RoleOwner)
	rater := seedUser(t, store, "Alice", "alice@example.com", entity.RoleUser)
	rated := seedStore(t, store, "Corner Cafe", owner.ID)

	for _, value := range []int{0, 6, -1} {
		_, err := svc.CreateRating(context.Background(), &usecase.CreateRatingInput{
			StoreID: rated.ID,
			Value:   value,
		}, rater)
		require.Error(t, err, "value %d", value)
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	}
}

// A rejected duplicate must not disturb the existing average.
func TestRatingService_CreateRating_DuplicateLeavesAverageIntact(t *testing.T) {
	store, svc := newRatingFixture()
	owner := seedUser(t, store, "Owner", "owner@example.com", entity.RoleOwner)
	rater := seedUser(t, store, "Alice", "alice@example.com", entity.RoleUser)
	rated := seedStore(t, store, "Corner Cafe", owner.ID)

	_, err := svc.CreateRating(context.Background(), &usecase.CreateRatingInput{
		StoreID: rated.ID,
		Value:   4,
	}, rater)
	require.NoError(t, err)

	_, err = svc.CreateRating(context.Background(), &usecase.CreateRatingInput{
		StoreID: rated.ID,
		Value:   1,
	}, rater)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateRating))

	avg := storeAverage(t, store, rated.ID)
	require.NotNil(t, avg)
	assert.InDelta(t, 4.0, *avg, 0.0001)
}

func TestRatingService_UpdateRating_NonAuthorDenied(t *testing.T) {
	store, svc := newRatingFixture()
	owner := seedUser(t, store, "Owner", "owner@example.com", entity.RoleOwner)
	alice := seedUser(t, store, "Alice", "alice@example.com", entity.RoleUser)
	bob := seedUser(t, store, "Bob", "bob@example.com", entity.RoleUser)
	rated := seedStore(t, store, "Corner Cafe", owner.ID)

	created, err := svc.CreateRating(context.Background(), &usecase.CreateRatingInput{
		StoreID: rated.ID,
		Value:   4,
	}, alice)
	require.NoError(t, err)

	_, err = svc.UpdateRating(context.Background(), created.ID, &usecase.UpdateRatingInput{
		Value: intPtr(1),
	}, bob)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotOwner))

	err = svc.DeleteRating(context.Background(), created.ID, bob)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotOwner))
}

func TestRatingService_UpdateRating_AdminAllowed(t *testing.T) {
	store, svc := newRatingFixture()
	owner := seedUser(t, store, "Owner", "owner@example.com", entity.RoleOwner)
	alice := seedUser(t, store, "Alice", "alice@example.com", entity.RoleUser)
	admin := seedUser(t, store, "Root", "root@example.com", entity.RoleAdmin)
	rated := seedStore(t, store, "Corner Cafe", owner.ID)

	created, err := svc.CreateRating(context.Background(), &usecase.CreateRatingInput{
		StoreID: rated.ID,
		Value:   4,
	}, alice)
	require.NoError(t, err)

	updated, err := svc.UpdateRating(context.Background(), created.ID, &usecase.UpdateRatingInput{
		Value:   intPtr(2),
		Comment: strPtr("moderated"),
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Value)

	avg := storeAverage(t, store, rated.ID)
	require.NotNil(t, avg)
	assert.InDelta(t, 2.0, *avg, 0.0001)
}

func TestRatingService_ListRatingsByStore(t *testing.T) {
	store, svc := newRatingFixture()
	owner := seedUser(t, store, "Owner", "owner@example.com", entity.RoleOwner)
	alice := seedUser(t, store, "Alice", "alice@example.com", entity.RoleUser)
	bob := seedUser(t, store, "Bob", "bob@example.com", entity.RoleUser)
	rated := seedStore(t, store, "Corner Cafe", owner.ID)
	otherStore := seedStore(t, store, "Side Cafe", owner.ID)

	_, err := svc.CreateRating(context.Background(), &usecase.CreateRatingInput{StoreID: rated.ID, Value: 4}, alice)
	require.NoError(t, err)
	_, err = svc.CreateRating(context.Background(), &usecase.CreateRatingInput{StoreID: rated.ID, Value: 2}, bob)
	require.NoError(t, err)
	_, err = svc.CreateRating(context.Background(), &usecase.CreateRatingInput{StoreID: otherStore.ID, Value: 5}, alice)
	require.NoError(t, err)

	ratings, err := svc.ListRatingsByStore(context.Background(), rated.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	// Newest first.
	assert.Equal(t, 2, ratings[0].Value)
	assert.Equal(t, 4, ratings[1].Value)

	all, err := svc.ListRatings(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.ListRatingsByStore(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrStoreNotFound))
}

func TestRatingService_GetRating_NotFound(t *testing.T) {
	_, svc := newRatingFixture()

	_, err := svc.GetRating(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrRatingNotFound))
}
