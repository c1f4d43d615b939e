// Package memory provides map-backed repositories used for local runs and
// tests. They honour the same uniqueness and not-found contracts as the
// database backends.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"codebox/internal/entity"
	"codebox/internal/repository"

	"github.com/google/uuid"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]entity.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]entity.User)}
}

func (r *UserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if err := repository.PrepareUser(user, uuid.NewString); err != nil {
		return err
	}
	stamp(&user.CreatedAt, &user.UpdatedAt)
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []string) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := []entity.User{}
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.match(func(u entity.User) bool { return u.Username == username }), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.match(func(u entity.User) bool { return u.Email == email }), nil
}

func (r *UserRepository) FindByIdentifier(_ context.Context, emailOrUsername string, activeOnly bool) (*entity.User, error) {
	return r.match(func(u entity.User) bool {
		if activeOnly && u.IsDeleted {
			return false
		}
		return u.Email == emailOrUsername || u.Username == emailOrUsername
	}), nil
}

func (r *UserRepository) List(_ context.Context, deleted bool) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := []entity.User{}
	for _, user := range r.users {
		if user.IsDeleted == deleted {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context, deleted bool) (int64, error) {
	users, err := r.List(ctx, deleted)
	return int64(len(users)), err
}

func (r *UserRepository) SetDeleted(_ context.Context, id string, deleted bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	user.IsDeleted = deleted
	user.UpdatedAt = time.Now()
	r.users[id] = user
	return &user, nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now()
	r.users[id] = user
	return nil
}

func (r *UserRepository) Update(_ context.Context, id string, update entity.UserUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok || update.Empty() {
		return nil
	}
	if update.Email != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Email == *update.Email {
				return repository.ErrDuplicateEmail
			}
		}
	}
	update.Apply(&user)
	user.UpdatedAt = time.Now()
	r.users[id] = user
	return nil
}

// Remove deletes a record outright. The services never hard-delete; tests use
// it to simulate a record vanishing between two operations.
func (r *UserRepository) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

func (r *UserRepository) match(pred func(entity.User) bool) *entity.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if pred(user) {
			return &user
		}
	}
	return nil
}

type SnippetRepository struct {
	mu       sync.RWMutex
	snippets map[string]entity.Snippet
}

func NewSnippetRepository() *SnippetRepository {
	return &SnippetRepository{snippets: make(map[string]entity.Snippet)}
}

func (r *SnippetRepository) Create(_ context.Context, snippet *entity.Snippet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if snippet.ID == "" {
		snippet.ID = uuid.NewString()
	}
	stamp(&snippet.CreatedAt, &snippet.UpdatedAt)
	r.snippets[snippet.ID] = *snippet
	return nil
}

func (r *SnippetRepository) FindByID(_ context.Context, id string) (*entity.Snippet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snippet, ok := r.snippets[id]
	if !ok {
		return nil, nil
	}
	return &snippet, nil
}

func (r *SnippetRepository) List(_ context.Context, deleted bool) ([]entity.Snippet, error) {
	snippets := r.filter(func(s entity.Snippet) bool { return s.IsDeleted == deleted })
	sort.SliceStable(snippets, func(i, j int) bool { return snippets[i].CreatedAt.Before(snippets[j].CreatedAt) })
	return snippets, nil
}

func (r *SnippetRepository) ListByOwner(_ context.Context, ownerID string, deleted bool, newestFirst bool) ([]entity.Snippet, error) {
	snippets := r.filter(func(s entity.Snippet) bool {
		return s.OwnerUserID != nil && *s.OwnerUserID == ownerID && s.IsDeleted == deleted
	})
	if newestFirst {
		sort.SliceStable(snippets, func(i, j int) bool { return snippets[i].UpdatedAt.After(snippets[j].UpdatedAt) })
	} else {
		sort.SliceStable(snippets, func(i, j int) bool { return snippets[i].CreatedAt.Before(snippets[j].CreatedAt) })
	}
	return snippets, nil
}

func (r *SnippetRepository) Update(_ context.Context, id string, update entity.SnippetUpdate) (*entity.Snippet, error) {
	return r.mutate(id, func(s *entity.Snippet) { update.Apply(s) })
}

func (r *SnippetRepository) SetDeleted(_ context.Context, id string, deleted bool) (*entity.Snippet, error) {
	return r.mutate(id, func(s *entity.Snippet) { s.IsDeleted = deleted })
}

func (r *SnippetRepository) mutate(id string, apply func(*entity.Snippet)) (*entity.Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snippet, ok := r.snippets[id]
	if !ok {
		return nil, nil
	}
	apply(&snippet)
	snippet.UpdatedAt = time.Now()
	r.snippets[id] = snippet
	return &snippet, nil
}

func (r *SnippetRepository) filter(pred func(entity.Snippet) bool) []entity.Snippet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snippets := []entity.Snippet{}
	for _, snippet := range r.snippets {
		if pred(snippet) {
			snippets = append(snippets, snippet)
		}
	}
	return snippets
}

type SecurityLogRepository struct {
	mu   sync.Mutex
	logs []entity.SecurityLog
}

func NewSecurityLogRepository() *SecurityLogRepository {
	return &SecurityLogRepository{}
}

func (r *SecurityLogRepository) Log(_ context.Context, log *entity.SecurityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *SecurityLogRepository) Actions() []entity.SecurityAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := make([]entity.SecurityAction, 0, len(r.logs))
	for _, log := range r.logs {
		actions = append(actions, log.Action)
	}
	return actions
}

func stamp(createdAt, updatedAt *time.Time) {
	if createdAt.IsZero() {
		*createdAt = time.Now()
	}
	if updatedAt.IsZero() {
		*updatedAt = *createdAt
	}
}

var (
	_ repository.UserRepository        = (*UserRepository)(nil)
	_ repository.SnippetRepository     = (*SnippetRepository)(nil)
	_ repository.SecurityLogRepository = (*SecurityLogRepository)(nil)
)
