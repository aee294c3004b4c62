package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tair/user-favorites/internal/user/domain"
)

// MemoryStore keeps users and favorites in process memory. It enforces the
// same constraints as the SQL schema: unique user names, a unique
// (owner, target) pair, no self edges, and restricted deletes for users
// that are still referenced.
type MemoryStore struct {
	mu         sync.Mutex
	users      map[uint]domain.User
	favorites  map[uint]domain.Favorite
	nextUserID uint
	nextFavID  uint
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[uint]domain.User),
		favorites: make(map[uint]domain.Favorite),
	}
}

// Users returns the user repository view of the store
func (s *MemoryStore) Users() domain.UserRepository {
	return &memoryUsers{s: s}
}

// Favorites returns the favorite repository view of the store
func (s *MemoryStore) Favorites() domain.FavoriteRepository {
	return &memoryFavorites{s: s}
}

// WithinTx implements domain.Transactor. The store lock is held for the
// whole of fn; changes made before a failing step are rolled back.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(domain.UserRepository, domain.FavoriteRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make(map[uint]domain.User, len(s.users))
	for k, v := range s.users {
		users[k] = v
	}
	favorites := make(map[uint]domain.Favorite, len(s.favorites))
	for k, v := range s.favorites {
		favorites[k] = v
	}
	nextUserID, nextFavID := s.nextUserID, s.nextFavID

	if err := fn(&memoryUsers{s: s, inTx: true}, &memoryFavorites{s: s, inTx: true}); err != nil {
		s.users, s.favorites = users, favorites
		s.nextUserID, s.nextFavID = nextUserID, nextFavID
		return err
	}
	return nil
}

func (s *MemoryStore) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type memoryUsers struct {
	s    *MemoryStore
	inTx bool
}

func (r *memoryUsers) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.s.lock(r.inTx)()

	for _, u := range r.s.users {
		if u.UserName == user.UserName {
			return domain.NewError(domain.KindConflict, "user name %q already exists", user.UserName)
		}
	}
	r.s.nextUserID++
	user.ID = r.s.nextUserID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}
	stored := *user
	stored.Favorites = nil
	stored.IsFavorite = false
	r.s.users[user.ID] = stored
	return nil
}

func (r *memoryUsers) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.s.lock(r.inTx)()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.NewUserNotFoundError(id)
	}
	return &u, nil
}

func (r *memoryUsers) FindByUserName(ctx context.Context, userName string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.s.lock(r.inTx)()

	for _, u := range r.s.users {
		if u.UserName == userName {
			u := u
			return &u, nil
		}
	}
	return nil, domain.NewError(domain.KindNotFound, "user %q not found", userName)
}

func (r *memoryUsers) FindAll(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.s.lock(r.inTx)()

	users := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	if offset > 0 {
		if offset >= len(users) {
			return []domain.User{}, nil
		}
		users = users[offset:]
	}
	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}
	return users, nil
}

func (r *memoryUsers) Update(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.s.lock(r.inTx)()

	existing, ok := r.s.users[user.ID]
	if !ok {
		return domain.NewUserNotFoundError(user.ID)
	}
	for id, u := range r.s.users {
		if id != user.ID && u.UserName == user.UserName {
			return domain.NewError(domain.KindConflict, "user name %q already exists", user.UserName)
		}
	}
	existing.UserName = user.UserName
	existing.UserNameDescription = user.UserNameDescription
	existing.Role = user.Role
	existing.UpdatedAt = user.UpdatedAt
	r.s.users[user.ID] = existing
	return nil
}

func (r *memoryUsers) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.s.lock(r.inTx)()

	if _, ok := r.s.users[id]; !ok {
		return domain.NewUserNotFoundError(id)
	}
	for _, f := range r.s.favorites {
		if f.OwnerID == id || f.TargetID == id {
			return domain.NewError(domain.KindInvalidOperation, "cannot delete user with favorites")
		}
	}
	delete(r.s.users, id)
	return nil
}

func (r *memoryUsers) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	defer r.s.lock(r.inTx)()

	return int64(len(r.s.users)), nil
}

func (r *memoryUsers) CountByRole(ctx context.Context, role string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	defer r.s.lock(r.inTx)()

	var count int64
	for _, u := range r.s.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

type memoryFavorites struct {
	s    *MemoryStore
	inTx bool
}

func (r *memoryFavorites) FindByPair(ctx context.Context, ownerID, targetID uint) (*domain.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.s.lock(r.inTx)()

	for _, f := range r.s.favorites {
		if f.OwnerID == ownerID && f.TargetID == targetID {
			f := f
			return &f, nil
		}
	}
	return nil, domain.NewFavoriteNotFoundError(ownerID, targetID)
}

func (r *memoryFavorites) FindByOwner(ctx context.Context, ownerID uint) ([]domain.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.s.lock(r.inTx)()

	favorites := []domain.Favorite{}
	for _, f := range r.s.favorites {
		if f.OwnerID != ownerID {
			continue
		}
		if target, ok := r.s.users[f.TargetID]; ok {
			f.Target = &target
		}
		favorites = append(favorites, f)
	}
	sort.Slice(favorites, func(i, j int) bool { return favorites[i].ID < favorites[j].ID })
	return favorites, nil
}

func (r *memoryFavorites) Create(ctx context.Context, favorite *domain.Favorite) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.s.lock(r.inTx)()

	if favorite.OwnerID == favorite.TargetID {
		return domain.NewError(domain.KindInvalidOperation, "cannot favorite yourself")
	}
	_, ownerOK := r.s.users[favorite.OwnerID]
	_, targetOK := r.s.users[favorite.TargetID]
	if !ownerOK || !targetOK {
		return domain.NewError(domain.KindNotFound, "favorite references a missing user")
	}
	for _, f := range r.s.favorites {
		if f.OwnerID == favorite.OwnerID && f.TargetID == favorite.TargetID {
			return domain.NewError(domain.KindConflict, "user %d already favorited user %d", favorite.OwnerID, favorite.TargetID)
		}
	}

	r.s.nextFavID++
	favorite.ID = r.s.nextFavID
	if favorite.CreatedAt.IsZero() {
		favorite.CreatedAt = time.Now()
	}
	stored := *favorite
	stored.Target = nil
	r.s.favorites[favorite.ID] = stored
	return nil
}

func (r *memoryFavorites) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.s.lock(r.inTx)()

	if _, ok := r.s.favorites[id]; !ok {
		return domain.NewError(domain.KindNotFound, "favorite %d not found", id)
	}
	delete(r.s.favorites, id)
	return nil
}

func (r *memoryFavorites) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	defer r.s.lock(r.inTx)()

	var count int64
	for _, f := range r.s.favorites {
		if f.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *memoryFavorites) DeleteByTarget(ctx context.Context, targetID uint) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	defer r.s.lock(r.inTx)()

	var removed int64
	for id, f := range r.s.favorites {
		if f.TargetID == targetID {
			delete(r.s.favorites, id)
			removed++
		}
	}
	return removed, nil
}

func (r *memoryFavorites) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	defer r.s.lock(r.inTx)()

	var removed int64
	for id, f := range r.s.favorites {
		if f.OwnerID == userID || f.TargetID == userID {
			delete(r.s.favorites, id)
			removed++
		}
	}
	return removed, nil
}

func (r *memoryFavorites) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	defer r.s.lock(r.inTx)()

	return int64(len(r.s.favorites)), nil
}

// String is used in logs when the memory driver is selected.
func (s *MemoryStore) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("memory(users=%d, favorites=%d)", len(s.users), len(s.favorites))
}
