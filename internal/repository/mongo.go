package repository

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection        = "users"
	SnippetsCollection     = "usercodes"
	SecurityLogsCollection = "securitylogs"
)

// EnsureMongoIndexes creates the unique indexes that guard username and
// email, plus the lookup indexes used by the listings.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName("username_1")},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_1")},
		{Keys: bson.D{{Key: "isDeleted", Value: 1}}},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(SnippetsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "updatedAt", Value: -1}}},
		{Keys: bson.D{{Key: "isDeleted", Value: 1}}},
	})
	return err
}

func translateMongoDuplicate(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	message := err.Error()
	switch {
	case strings.Contains(message, "username_1"):
		return ErrDuplicateUsername
	case strings.Contains(message, "email_1"):
		return ErrDuplicateEmail
	}
	return err
}
