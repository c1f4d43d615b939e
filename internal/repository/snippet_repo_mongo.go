package repository

import (
	"context"
	"errors"
	"time"

	"codebox/internal/entity"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoSnippetRepository struct {
	snippets *mongo.Collection
}

func NewMongoSnippetRepository(db *mongo.Database) SnippetRepository {
	return &mongoSnippetRepository{snippets: db.Collection(SnippetsCollection)}
}

func (r *mongoSnippetRepository) Create(ctx context.Context, snippet *entity.Snippet) error {
	if snippet.ID == "" {
		snippet.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if snippet.CreatedAt.IsZero() {
		snippet.CreatedAt = now
	}
	snippet.UpdatedAt = now
	_, err := r.snippets.InsertOne(ctx, snippet)
	return err
}

func (r *mongoSnippetRepository) FindByID(ctx context.Context, id string) (*entity.Snippet, error) {
	var snippet entity.Snippet
	err := r.snippets.FindOne(ctx, bson.M{"_id": id}).Decode(&snippet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snippet, nil
}

func (r *mongoSnippetRepository) List(ctx context.Context, deleted bool) ([]entity.Snippet, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.find(ctx, bson.M{"isDeleted": deleted}, opts)
}

func (r *mongoSnippetRepository) ListByOwner(ctx context.Context, ownerID string, deleted bool, newestFirst bool) ([]entity.Snippet, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if newestFirst {
		opts = options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	}
	return r.find(ctx, bson.M{"user": ownerID, "isDeleted": deleted}, opts)
}

func (r *mongoSnippetRepository) Update(ctx context.Context, id string, update entity.SnippetUpdate) (*entity.Snippet, error) {
	fields := bson.M{"updatedAt": time.Now().UTC()}
	if update.Code != nil {
		fields["code"] = *update.Code
	}
	if update.Title != nil {
		fields["title"] = *update.Title
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	return r.findAndSet(ctx, id, fields)
}

func (r *mongoSnippetRepository) SetDeleted(ctx context.Context, id string, deleted bool) (*entity.Snippet, error) {
	return r.findAndSet(ctx, id, bson.M{"isDeleted": deleted, "updatedAt": time.Now().UTC()})
}

func (r *mongoSnippetRepository) findAndSet(ctx context.Context, id string, fields bson.M) (*entity.Snippet, error) {
	var snippet entity.Snippet
	err := r.snippets.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&snippet)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snippet, nil
}

func (r *mongoSnippetRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]entity.Snippet, error) {
	snippets := []entity.Snippet{}
	cursor, err := r.snippets.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &snippets); err != nil {
		return nil, err
	}
	return snippets, nil
}
