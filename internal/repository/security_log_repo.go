package repository

import (
	"context"

	"codebox/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type securityLogRepository struct {
	db *gorm.DB
}

func NewSecurityLogRepository(db *gorm.DB) SecurityLogRepository {
	return &securityLogRepository{db: db}
}

func (r *securityLogRepository) Log(ctx context.Context, log *entity.SecurityLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(log).Error
}
