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

type mongoUserRepository struct {
	users *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{users: db.Collection(UsersCollection)}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *entity.User) error {
	if err := PrepareUser(user, uuid.NewString); err != nil {
		return err
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	_, err := r.users.InsertOne(ctx, user)
	return translateMongoDuplicate(err)
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) FindByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	users := []entity.User{}
	if len(ids) == 0 {
		return users, nil
	}
	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *mongoUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) FindByIdentifier(ctx context.Context, emailOrUsername string, activeOnly bool) (*entity.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": emailOrUsername},
		bson.M{"username": emailOrUsername},
	}}
	if activeOnly {
		filter["isDeleted"] = false
	}
	return r.findOne(ctx, filter)
}

func (r *mongoUserRepository) List(ctx context.Context, deleted bool) ([]entity.User, error) {
	users := []entity.User{}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.users.Find(ctx, bson.M{"isDeleted": deleted}, opts)
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *mongoUserRepository) Count(ctx context.Context, deleted bool) (int64, error) {
	return r.users.CountDocuments(ctx, bson.M{"isDeleted": deleted})
}

func (r *mongoUserRepository) SetDeleted(ctx context.Context, id string, deleted bool) (*entity.User, error) {
	var user entity.User
	err := r.users.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"isDeleted": deleted, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *mongoUserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	_, err := r.users.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"password": passwordHash, "updatedAt": time.Now().UTC()}},
	)
	return err
}

func (r *mongoUserRepository) Update(ctx context.Context, id string, update entity.UserUpdate) error {
	fields := bson.M{}
	if update.FirstName != nil {
		fields["firstName"] = *update.FirstName
	}
	if update.LastName != nil {
		fields["lastName"] = *update.LastName
	}
	if update.MobileNumber != nil {
		fields["mobileNumber"] = *update.MobileNumber
	}
	if update.Email != nil {
		fields["email"] = *update.Email
	}
	if update.Profile != nil {
		fields["profile"] = *update.Profile
	}
	if len(fields) == 0 {
		return nil
	}
	fields["updatedAt"] = time.Now().UTC()
	_, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	return translateMongoDuplicate(err)
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var user entity.User
	err := r.users.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
