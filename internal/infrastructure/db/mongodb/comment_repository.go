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

type CommentRepository struct {
	comments *mongo.Collection
}

func NewCommentRepository(store *Store) repositories.CommentRepository {
	return &CommentRepository{comments: store.collection(commentsCollection)}
}

func (r *CommentRepository) Create(ctx context.Context, comment *entities.Comment) (*entities.Comment, error) {
	user, err := primitive.ObjectIDFromHex(comment.UserId)
	if err != nil {
		return nil, fmt.Errorf("%w: author id", entities.ErrValidation)
	}
	post, err := objectID(comment.PostId, "post")
	if err != nil {
		return nil, err
	}

	doc := commentDocument{
		Id:        primitive.NewObjectID(),
		Comment:   comment.Text,
		User:      user,
		Post:      post,
		CreatedAt: comment.CreatedAt,
	}
	if _, err := r.comments.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *CommentRepository) FindById(ctx context.Context, id string) (*entities.Comment, error) {
	oid, err := objectID(id, "comment")
	if err != nil {
		return nil, err
	}

	var doc commentDocument
	if err := r.comments.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: comment", entities.ErrNotFound)
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *CommentRepository) FindByIds(ctx context.Context, ids []string) ([]*entities.Comment, error) {
	comments := make([]*entities.Comment, 0, len(ids))
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return comments, nil
	}

	cursor, err := r.comments.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}
	var docs []commentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	byID := make(map[string]*commentDocument, len(docs))
	for i := range docs {
		byID[docs[i].Id.Hex()] = &docs[i]
	}
	for _, id := range ids {
		if doc, ok := byID[id]; ok {
			comments = append(comments, doc.toEntity())
		}
	}
	return comments, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, "comment")
	if err != nil {
		return err
	}
	res, err := r.comments.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: comment", entities.ErrNotFound)
	}
	return nil
}

func (r *CommentRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	oid, err := objectID(postID, "post")
	if err != nil {
		return 0, err
	}
	res, err := r.comments.DeleteMany(ctx, bson.M{"post": oid})
	if err != nil {
		return 0, fmt.Errorf("delete post comments: %w", err)
	}
	return res.DeletedCount, nil
}
