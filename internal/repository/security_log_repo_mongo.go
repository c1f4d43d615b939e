package repository

import (
	"context"
	"time"

	"codebox/internal/entity"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoSecurityLogRepository struct {
	logs *mongo.Collection
}

func NewMongoSecurityLogRepository(db *mongo.Database) SecurityLogRepository {
	return &mongoSecurityLogRepository{logs: db.Collection(SecurityLogsCollection)}
}

func (r *mongoSecurityLogRepository) Log(ctx context.Context, log *entity.SecurityLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	_, err := r.logs.InsertOne(ctx, log)
	return err
}
