package repository

import (
	"context"
	"errors"

	"codebox/internal/entity"
)

var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrInvalidRole       = errors.New("invalid user role")
)

// PrepareUser fills the id and role defaults shared by every backend and
// rejects roles outside user and admin.
func PrepareUser(user *entity.User, newID func() string) error {
	if user.Role == "" {
		user.Role = entity.UserRoleUser
	}
	if !user.Role.Valid() {
		return ErrInvalidRole
	}
	if user.ID == "" {
		user.ID = newID()
	}
	return nil
}

// UserRepository returns nil, nil when no record matches.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByIdentifier(ctx context.Context, emailOrUsername string, activeOnly bool) (*entity.User, error)
	List(ctx context.Context, deleted bool) ([]entity.User, error)
	Count(ctx context.Context, deleted bool) (int64, error)
	SetDeleted(ctx context.Context, id string, deleted bool) (*entity.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	Update(ctx context.Context, id string, update entity.UserUpdate) error
}

// SnippetRepository returns nil, nil when no record matches.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *entity.Snippet) error
	FindByID(ctx context.Context, id string) (*entity.Snippet, error)
	List(ctx context.Context, deleted bool) ([]entity.Snippet, error)
	ListByOwner(ctx context.Context, ownerID string, deleted bool, newestFirst bool) ([]entity.Snippet, error)
	Update(ctx context.Context, id string, update entity.SnippetUpdate) (*entity.Snippet, error)
	SetDeleted(ctx context.Context, id string, deleted bool) (*entity.Snippet, error)
}

type SecurityLogRepository interface {
	Log(ctx context.Context, log *entity.SecurityLog) error
}
