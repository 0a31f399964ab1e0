package mongodb

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"stocktalk-service/internal/domain/entities"
)

// openTestStore needs a reachable server in MONGO_TEST_URL. Transactions are
// exercised only when MONGO_TEST_TRANSACTIONS=true (replica set).
func openTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URL")
	if uri == "" {
		t.Skip("MONGO_TEST_URL not set")
	}
	ctx := context.Background()
	database := "stocktalk_test_" + primitive.NewObjectID().Hex()

	store, err := Connect(ctx, uri, database, os.Getenv("MONGO_TEST_TRANSACTIONS") == "true")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.db.Drop(context.Background())
		_ = store.Disconnect(context.Background())
	})
	return store
}

func TestMongoUsers(t *testing.T) {
	store := openTestStore(t)
	users := NewUserRepository(store)
	ctx := context.Background()

	vu, err := entities.NewValidatedUser(entities.NewUser("alice", "alice@example.com", "hash"))
	require.NoError(t, err)
	alice, err := users.Create(ctx, vu)
	require.NoError(t, err)

	dup, err := entities.NewValidatedUser(entities.NewUser("other", "alice@example.com", "hash"))
	require.NoError(t, err)
	_, err = users.Create(ctx, dup)
	assert.True(t, errors.Is(err, entities.ErrConflict))

	found, err := users.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.Id, found.Id)

	_, err = users.FindById(ctx, "garbage")
	assert.True(t, errors.Is(err, entities.ErrNotFound))
}

func TestMongoLikesStayConsistent(t *testing.T) {
	store := openTestStore(t)
	posts := NewPostRepository(store)
	ctx := context.Background()

	post, err := posts.Create(ctx, entities.NewPost(primitive.NewObjectID().Hex(), "AAPL", "t", "d", nil))
	require.NoError(t, err)

	liker := primitive.NewObjectID().Hex()
	require.NoError(t, posts.AddLike(ctx, post.Id, liker))
	assert.True(t, errors.Is(posts.AddLike(ctx, post.Id, liker), entities.ErrAlreadyLiked))
	require.NoError(t, posts.RemoveLike(ctx, post.Id, liker))
	assert.True(t, errors.Is(posts.RemoveLike(ctx, post.Id, liker), entities.ErrNotLiked))
	assert.True(t, errors.Is(posts.AddLike(ctx, primitive.NewObjectID().Hex(), liker), entities.ErrNotFound))

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uid := primitive.NewObjectID().Hex()
			_ = posts.AddLike(ctx, post.Id, uid)
			_ = posts.AddLike(ctx, post.Id, uid)
		}()
	}
	wg.Wait()

	got, err := posts.FindById(ctx, post.Id)
	require.NoError(t, err)
	assert.Len(t, got.Likes, 25)
	assert.Equal(t, 25, got.LikesCount)
}

func TestMongoCommentsInTransaction(t *testing.T) {
	store := openTestStore(t)
	posts := NewPostRepository(store)
	comments := NewCommentRepository(store)
	ctx := context.Background()

	post, err := posts.Create(ctx, entities.NewPost(primitive.NewObjectID().Hex(), "AAPL", "t", "d", nil))
	require.NoError(t, err)

	var created *entities.Comment
	err = store.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = comments.Create(ctx, entities.NewComment(primitive.NewObjectID().Hex(), post.Id, "nice"))
		if err != nil {
			return err
		}
		return posts.AppendComment(ctx, post.Id, created.Id)
	})
	require.NoError(t, err)

	got, err := posts.FindById(ctx, post.Id)
	require.NoError(t, err)
	assert.Equal(t, []string{created.Id}, got.Comments)

	n, err := comments.DeleteByPost(ctx, post.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, posts.Delete(ctx, post.Id))
	assert.True(t, errors.Is(posts.Delete(ctx, post.Id), entities.ErrNotFound))
}
