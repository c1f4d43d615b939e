package repository

import (
	"context"
	"errors"
	"time"

	"codebox/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type snippetRepository struct {
	db *gorm.DB
}

func NewSnippetRepository(db *gorm.DB) SnippetRepository {
	return &snippetRepository{db: db}
}

func (r *snippetRepository) Create(ctx context.Context, snippet *entity.Snippet) error {
	if snippet.ID == "" {
		snippet.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Omit("Owner").Create(snippet).Error
}

func (r *snippetRepository) FindByID(ctx context.Context, id string) (*entity.Snippet, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	var snippet entity.Snippet
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&snippet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snippet, nil
}

func (r *snippetRepository) List(ctx context.Context, deleted bool) ([]entity.Snippet, error) {
	snippets := []entity.Snippet{}
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", deleted).
		Order("created_at ASC").
		Find(&snippets).Error
	if err != nil {
		return nil, err
	}
	return snippets, nil
}

func (r *snippetRepository) ListByOwner(ctx context.Context, ownerID string, deleted bool, newestFirst bool) ([]entity.Snippet, error) {
	snippets := []entity.Snippet{}
	if _, err := uuid.Parse(ownerID); err != nil {
		return snippets, nil
	}
	query := r.db.WithContext(ctx).Where("user_id = ? AND is_deleted = ?", ownerID, deleted)
	if newestFirst {
		query = query.Order("updated_at DESC")
	} else {
		query = query.Order("created_at ASC")
	}
	if err := query.Find(&snippets).Error; err != nil {
		return nil, err
	}
	return snippets, nil
}

func (r *snippetRepository) Update(ctx context.Context, id string, update entity.SnippetUpdate) (*entity.Snippet, error) {
	columns := update.Columns()
	columns["updated_at"] = time.Now()
	return r.updateReturning(ctx, id, columns)
}

func (r *snippetRepository) SetDeleted(ctx context.Context, id string, deleted bool) (*entity.Snippet, error) {
	return r.updateReturning(ctx, id, map[string]any{"is_deleted": deleted, "updated_at": time.Now()})
}

func (r *snippetRepository) updateReturning(ctx context.Context, id string, columns map[string]any) (*entity.Snippet, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	var snippet entity.Snippet
	result := r.db.WithContext(ctx).
		Model(&snippet).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(columns)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &snippet, nil
}
