package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stocktalk-service/internal/domain/entities"
	"stocktalk-service/internal/domain/repositories"
)

type PostRepository struct {
	posts *mongo.Collection
}

func NewPostRepository(store *Store) repositories.PostRepository {
	return &PostRepository{posts: store.collection(postsCollection)}
}

func (r *PostRepository) Create(ctx context.Context, post *entities.Post) (*entities.Post, error) {
	owner, err := primitive.ObjectIDFromHex(post.UserId)
	if err != nil {
		return nil, fmt.Errorf("%w: owner id", entities.ErrValidation)
	}
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}

	doc := postDocument{
		Id:          primitive.NewObjectID(),
		StockSymbol: post.StockSymbol,
		Title:       post.Title,
		Description: post.Description,
		Tags:        tags,
		User:        owner,
		Likes:       []primitive.ObjectID{},
		LikesCount:  0,
		Comments:    []primitive.ObjectID{},
		CreatedAt:   post.CreatedAt,
	}
	if _, err := r.posts.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *PostRepository) FindById(ctx context.Context, id string) (*entities.Post, error) {
	oid, err := objectID(id, "post")
	if err != nil {
		return nil, err
	}

	var doc postDocument
	if err := r.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: post", entities.ErrNotFound)
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *PostRepository) List(ctx context.Context, filter repositories.PostFilter) ([]*entities.Post, error) {
	query := bson.M{}
	if filter.StockSymbol != "" {
		query["stockSymbol"] = filter.StockSymbol
	}
	if len(filter.Tags) > 0 {
		query["tags"] = bson.M{"$in": filter.Tags}
	}

	opts := options.Find()
	switch filter.SortBy {
	case repositories.SortDate:
		opts.SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	case repositories.SortLikes:
		opts.SetSort(bson.D{{Key: "likesCount", Value: -1}, {Key: "createdAt", Value: -1}})
	}

	cursor, err := r.posts.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	posts := make([]*entities.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toEntity())
	}
	return posts, nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, "post")
	if err != nil {
		return err
	}
	res, err := r.posts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: post", entities.ErrNotFound)
	}
	return nil
}

// AddLike adds the user and bumps the counter in one document update; the
// filter only matches while the user is not yet a liker.
func (r *PostRepository) AddLike(ctx context.Context, postID, userID string) error {
	pid, uid, err := likeIDs(postID, userID)
	if err != nil {
		return err
	}

	res, err := r.posts.UpdateOne(ctx,
		bson.M{"_id": pid, "likes": bson.M{"$ne": uid}},
		bson.M{"$addToSet": bson.M{"likes": uid}, "$inc": bson.M{"likesCount": 1}},
	)
	if err != nil {
		return fmt.Errorf("like post: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missOrState(ctx, pid, entities.ErrAlreadyLiked)
	}
	return nil
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	pid, uid, err := likeIDs(postID, userID)
	if err != nil {
		return err
	}

	res, err := r.posts.UpdateOne(ctx,
		bson.M{"_id": pid, "likes": uid},
		bson.M{"$pull": bson.M{"likes": uid}, "$inc": bson.M{"likesCount": -1}},
	)
	if err != nil {
		return fmt.Errorf("unlike post: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missOrState(ctx, pid, entities.ErrNotLiked)
	}
	return nil
}

func (r *PostRepository) AppendComment(ctx context.Context, postID, commentID string) error {
	return r.updateComments(ctx, postID, commentID, "$push")
}

func (r *PostRepository) PullComment(ctx context.Context, postID, commentID string) error {
	return r.updateComments(ctx, postID, commentID, "$pull")
}

func (r *PostRepository) updateComments(ctx context.Context, postID, commentID, op string) error {
	pid, err := objectID(postID, "post")
	if err != nil {
		return err
	}
	cid, err := objectID(commentID, "comment")
	if err != nil {
		return err
	}

	res, err := r.posts.UpdateByID(ctx, pid, bson.M{op: bson.M{"comments": cid}})
	if err != nil {
		return fmt.Errorf("update post comments: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: post", entities.ErrNotFound)
	}
	return nil
}

// missOrState tells a missing post apart from a guarded update that did not match.
func (r *PostRepository) missOrState(ctx context.Context, pid primitive.ObjectID, state error) error {
	n, err := r.posts.CountDocuments(ctx, bson.M{"_id": pid}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("find post: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: post", entities.ErrNotFound)
	}
	return state
}

func likeIDs(postID, userID string) (primitive.ObjectID, primitive.ObjectID, error) {
	pid, err := objectID(postID, "post")
	if err != nil {
		return pid, primitive.NilObjectID, err
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return pid, uid, fmt.Errorf("%w: malformed user id", entities.ErrUnauthorized)
	}
	return pid, uid, nil
}
