package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"stocktalk-service/internal/domain/entities"
	"stocktalk-service/internal/domain/repositories"
)

type UserRepository struct {
	users *mongo.Collection
}

func NewUserRepository(store *Store) repositories.UserRepository {
	return &UserRepository{users: store.collection(usersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error) {
	u := user.GetUser()
	doc := userDocument{
		Id:             primitive.NewObjectID(),
		Username:       u.Username,
		Email:          u.Email,
		Password:       u.Password,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: email %s", entities.ErrConflict, u.Email)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	u.Id = doc.Id.Hex()
	return doc.toEntity(), nil
}

func (r *UserRepository) FindById(ctx context.Context, id string) (*entities.User, error) {
	oid, err := objectID(id, "user")
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entities.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: user", entities.ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) FindByIds(ctx context.Context, ids []string) (map[string]*entities.User, error) {
	users := make(map[string]*entities.User, len(ids))
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return users, nil
	}

	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	for i := range docs {
		users[docs[i].Id.Hex()] = docs[i].toEntity()
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error) {
	u := user.GetUser()
	oid, err := objectID(u.Id, "user")
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"username":       u.Username,
		"password":       u.Password,
		"bio":            u.Bio,
		"profilePicture": u.ProfilePicture,
		"updatedAt":      u.UpdatedAt,
	}}
	res, err := r.users.UpdateByID(ctx, oid, update)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: user", entities.ErrNotFound)
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}
