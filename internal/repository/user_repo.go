package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"codebox/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	if err := PrepareUser(user, uuid.NewString); err != nil {
		return err
	}
	return translateUniqueError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.first(ctx, r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	users := []entity.User{}
	if len(valid) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", valid).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("username = ?", username))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("email = ?", email))
}

func (r *userRepository) FindByIdentifier(ctx context.Context, emailOrUsername string, activeOnly bool) (*entity.User, error) {
	query := r.db.WithContext(ctx).Where("(email = ? OR username = ?)", emailOrUsername, emailOrUsername)
	if activeOnly {
		query = query.Where("is_deleted = ?", false)
	}
	return r.first(ctx, query)
}

func (r *userRepository) List(ctx context.Context, deleted bool) ([]entity.User, error) {
	users := []entity.User{}
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", deleted).
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context, deleted bool) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("is_deleted = ?", deleted).
		Count(&count).Error
	return count, err
}

func (r *userRepository) SetDeleted(ctx context.Context, id string, deleted bool) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	var user entity.User
	result := r.db.WithContext(ctx).
		Model(&user).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_deleted": deleted, "updated_at": time.Now()})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"password": passwordHash, "updated_at": time.Now()}).
		Error
}

func (r *userRepository) Update(ctx context.Context, id string, update entity.UserUpdate) error {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	columns := update.Columns()
	if len(columns) == 0 {
		return nil
	}
	columns["updated_at"] = time.Now()
	err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Updates(columns).
		Error
	return translateUniqueError(err)
}

func (r *userRepository) first(ctx context.Context, query *gorm.DB) (*entity.User, error) {
	var user entity.User
	err := query.First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// translateUniqueError maps unique-constraint violations on users to the
// duplicate sentinels. It relies on the index names declared on entity.User.
func translateUniqueError(err error) error {
	if err == nil {
		return nil
	}
	message := err.Error()
	if !errors.Is(err, gorm.ErrDuplicatedKey) && !strings.Contains(message, "duplicate key") {
		return err
	}
	switch {
	case strings.Contains(message, "idx_users_username"):
		return ErrDuplicateUsername
	case strings.Contains(message, "idx_users_email"):
		return ErrDuplicateEmail
	}
	return err
}
