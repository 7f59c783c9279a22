package impl

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"ratehub/internal/domain/entity"
	domainerrors "ratehub/internal/domain/errors"
	"ratehub/internal/domain/repository"
	"ratehub/internal/domain/service"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryStore is an in-memory stand-in for the persistence layer. It backs
// the repository interfaces and the transaction manager with plain maps so
// service tests exercise real multi-step flows, including the average
// recomputation that runs inside rating transactions.
type memoryStore struct {
	mu      sync.Mutex
	seq     int64
	users   map[uuid.UUID]*entity.User
	stores  map[uuid.UUID]*entity.Store
	ratings map[uuid.UUID]*entity.Rating

	// storeLocks counts FindByIDForUpdate calls per store, standing in for
	// the row lock the real repository takes.
	storeLocks map[uuid.UUID]int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:      make(map[uuid.UUID]*entity.User),
		stores:     make(map[uuid.UUID]*entity.Store),
		ratings:    make(map[uuid.UUID]*entity.Rating),
		storeLocks: make(map[uuid.UUID]int),
	}
}

func (m *memoryStore) lockCount(storeID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.storeLocks[storeID]
}

// nextTime hands out strictly increasing timestamps so newest-first ordering
// is deterministic even when inserts land within the same wall-clock tick.
func (m *memoryStore) nextTime() time.Time {
	m.seq++

	return time.Unix(0, m.seq)
}

// Execute satisfies repository.TransactionManager. The fake has no rollback;
// the flows under test either fail before mutating or succeed entirely.
func (m *memoryStore) Execute(_ context.Context, fn func(txRepos repository.RepositoryFactory) error) error {
	return fn(m)
}

func (m *memoryStore) UserRepo() repository.UserRepository     { return &memoryUserRepo{store: m} }
func (m *memoryStore) StoreRepo() repository.StoreRepository   { return &memoryStoreRepo{store: m} }
func (m *memoryStore) RatingRepo() repository.RatingRepository { return &memoryRatingRepo{store: m} }

func copyUser(u *entity.User) *entity.User {
	cp := *u

	return &cp
}

func copyStore(s *entity.Store) *entity.Store {
	cp := *s

	return &cp
}

func copyRating(r *entity.Rating) *entity.Rating {
	cp := *r

	return &cp
}

type memoryUserRepo struct {
	store *memoryStore
}

func (r *memoryUserRepo) Create(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return domainerrors.ErrDuplicateEmail
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = r.store.nextTime()
	user.UpdatedAt = user.CreatedAt
	r.store.users[user.ID] = copyUser(user)

	return nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return copyUser(user), nil
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memoryUserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	users := make([]*entity.User, 0, len(r.store.users))
	for _, user := range r.store.users {
		users = append(users, copyUser(user))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })

	return users, nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}

	for _, existing := range r.store.users {
		if existing.ID != user.ID && existing.Email == user.Email {
			return domainerrors.ErrDuplicateEmail
		}
	}

	user.UpdatedAt = r.store.nextTime()
	r.store.users[user.ID] = copyUser(user)

	return nil
}

// Delete mirrors the schema's referential actions: owned stores cascade with
// their ratings, authored ratings elsewhere get their rater reference cleared.
func (r *memoryUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.store.users, id)

	for storeID, store := range r.store.stores {
		if store.OwnerID != id {
			continue
		}
		delete(r.store.stores, storeID)
		for ratingID, rating := range r.store.ratings {
			if rating.StoreID == storeID {
				delete(r.store.ratings, ratingID)
			}
		}
	}

	for _, rating := range r.store.ratings {
		if rating.RaterID != nil && *rating.RaterID == id {
			rating.RaterID = nil
		}
	}

	return nil
}

type memoryStoreRepo struct {
	store *memoryStore
}

func (r *memoryStoreRepo) Create(_ context.Context, store *entity.Store) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.stores {
		if existing.Name == store.Name {
			return domainerrors.ErrDuplicateStoreName
		}
	}

	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}
	store.CreatedAt = r.store.nextTime()
	store.UpdatedAt = store.CreatedAt
	r.store.stores[store.ID] = copyStore(store)

	return nil
}

func (r *memoryStoreRepo) withOwner(store *entity.Store) *entity.Store {
	cp := copyStore(store)
	if owner, ok := r.store.users[store.OwnerID]; ok {
		cp.Owner = copyUser(owner)
	}

	return cp
}

func (r *memoryStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Store, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	store, ok := r.store.stores[id]
	if !ok {
		return nil, repository.ErrStoreNotFound
	}

	return r.withOwner(store), nil
}

func (r *memoryStoreRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*entity.Store, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	store, ok := r.store.stores[id]
	if !ok {
		return nil, repository.ErrStoreNotFound
	}

	r.store.storeLocks[id]++

	return r.withOwner(store), nil
}

func (r *memoryStoreRepo) List(_ context.Context, ownerID *uuid.UUID) ([]*entity.Store, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stores := make([]*entity.Store, 0, len(r.store.stores))
	for _, store := range r.store.stores {
		if ownerID != nil && store.OwnerID != *ownerID {
			continue
		}
		stores = append(stores, r.withOwner(store))
	}
	sort.Slice(stores, func(i, j int) bool { return stores[i].CreatedAt.Before(stores[j].CreatedAt) })

	return stores, nil
}

func (r *memoryStoreRepo) Update(_ context.Context, store *entity.Store) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.stores[store.ID]; !ok {
		return repository.ErrStoreNotFound
	}

	for _, existing := range r.store.stores {
		if existing.ID != store.ID && existing.Name == store.Name {
			return domainerrors.ErrDuplicateStoreName
		}
	}

	store.UpdatedAt = r.store.nextTime()
	stored := copyStore(store)
	stored.Owner = nil
	r.store.stores[store.ID] = stored

	return nil
}

func (r *memoryStoreRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.stores[id]; !ok {
		return repository.ErrStoreNotFound
	}
	delete(r.store.stores, id)

	return nil
}

func (r *memoryStoreRepo) SetAverageRating(_ context.Context, id uuid.UUID, average *float64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	store, ok := r.store.stores[id]
	if !ok {
		return repository.ErrStoreNotFound
	}
	store.AverageRating = average

	return nil
}

type memoryRatingRepo struct {
	store *memoryStore
}

func (r *memoryRatingRepo) Create(_ context.Context, rating *entity.Rating) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.ratings {
		if existing.RaterID != nil && rating.RaterID != nil &&
			*existing.RaterID == *rating.RaterID && existing.StoreID == rating.StoreID {
			return domainerrors.ErrDuplicateRating
		}
	}

	if rating.ID == uuid.Nil {
		rating.ID = uuid.New()
	}
	rating.CreatedAt = r.store.nextTime()
	rating.UpdatedAt = rating.CreatedAt
	r.store.ratings[rating.ID] = copyRating(rating)

	return nil
}

func (r *memoryRatingRepo) withRefs(rating *entity.Rating) *entity.Rating {
	cp := copyRating(rating)
	if rating.RaterID != nil {
		if rater, ok := r.store.users[*rating.RaterID]; ok {
			cp.Rater = copyUser(rater)
		}
	}
	if store, ok := r.store.stores[rating.StoreID]; ok {
		cp.Store = copyStore(store)
	}

	return cp
}

func (r *memoryRatingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Rating, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rating, ok := r.store.ratings[id]
	if !ok {
		return nil, repository.ErrRatingNotFound
	}

	return r.withRefs(rating), nil
}

func (r *memoryRatingRepo) FindByRaterAndStore(_ context.Context, raterID, storeID uuid.UUID) (*entity.Rating, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rating := range r.store.ratings {
		if rating.RaterID != nil && *rating.RaterID == raterID && rating.StoreID == storeID {
			return r.withRefs(rating), nil
		}
	}

	return nil, repository.ErrRatingNotFound
}

func (r *memoryRatingRepo) ListAll(_ context.Context) ([]*entity.Rating, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ratings := make([]*entity.Rating, 0, len(r.store.ratings))
	for _, rating := range r.store.ratings {
		ratings = append(ratings, r.withRefs(rating))
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].CreatedAt.After(ratings[j].CreatedAt) })

	return ratings, nil
}

func (r *memoryRatingRepo) ListByStore(_ context.Context, storeID uuid.UUID) ([]*entity.Rating, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ratings := make([]*entity.Rating, 0)
	for _, rating := range r.store.ratings {
		if rating.StoreID == storeID {
			ratings = append(ratings, r.withRefs(rating))
		}
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].CreatedAt.After(ratings[j].CreatedAt) })

	return ratings, nil
}

func (r *memoryRatingRepo) Update(_ context.Context, rating *entity.Rating) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.ratings[rating.ID]; !ok {
		return repository.ErrRatingNotFound
	}

	rating.UpdatedAt = r.store.nextTime()
	stored := copyRating(rating)
	stored.Rater = nil
	stored.Store = nil
	r.store.ratings[rating.ID] = stored

	return nil
}

func (r *memoryRatingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.ratings[id]; !ok {
		return repository.ErrRatingNotFound
	}
	delete(r.store.ratings, id)

	return nil
}

func (r *memoryRatingRepo) DeleteByStore(_ context.Context, storeID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, rating := range r.store.ratings {
		if rating.StoreID == storeID {
			delete(r.store.ratings, id)
		}
	}

	return nil
}

func (r *memoryRatingRepo) AverageByStore(_ context.Context, storeID uuid.UUID) (*float64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var sum, count float64
	for _, rating := range r.store.ratings {
		if rating.StoreID == storeID {
			sum += float64(rating.Value)
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}
	average := sum / count

	return &average, nil
}

// fakeHasher is a deterministic stand-in for the bcrypt hasher.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

func (fakeHasher) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return domainerrors.ErrPasswordStrength
	}

	return nil
}

// fakeTokenService issues predictable tokens keyed by user ID.
type fakeTokenService struct{}

func (fakeTokenService) GenerateToken(userID uuid.UUID, _ string) (string, error) {
	return "token-" + userID.String(), nil
}

func (fakeTokenService) ValidateToken(_ string) (*service.Claims, error) {
	return nil, domainerrors.ErrTokenInvalid
}

func (fakeTokenService) GetTokenDuration() time.Duration {
	return 24 * time.Hour
}

func strPtr(s string) *string { return &s }

func intPtr(v int) *int { return &v }

func seedUser(t interface{ Fatalf(string, ...any) }, store *memoryStore, name, email string, role entity.Role) *entity.User {
	user := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hashed:Sup3r$ecret",
		Role:         role,
	}
	if err := (&memoryUserRepo{store: store}).Create(context.Background(), user); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}

	return user
}

func seedStore(t interface{ Fatalf(string, ...any) }, store *memoryStore, name string, ownerID uuid.UUID) *entity.Store {
	st := &entity.Store{
		Name:    name,
		OwnerID: ownerID,
	}
	if err := (&memoryStoreRepo{store: store}).Create(context.Background(), st); err != nil {
		t.Fatalf("seed store %s: %v", name, err)
	}

	return st
}
