package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stocktalk-service/internal/application/command"
	"stocktalk-service/internal/application/query"
	"stocktalk-service/internal/domain/entities"
	"stocktalk-service/internal/domain/events"
	"stocktalk-service/internal/domain/repositories"
)

type postFixture struct {
	posts     *mockPostRepository
	comments  *mockCommentRepository
	users     *mockUserRepository
	tx        *inlineTx
	publisher *recordingPublisher
}

func newPostFixture() *postFixture {
	return &postFixture{
		posts:     &mockPostRepository{},
		comments:  &mockCommentRepository{},
		users:     &mockUserRepository{},
		tx:        &inlineTx{},
		publisher: &recordingPublisher{},
	}
}

func (f *postFixture) postService() *PostService {
	return NewPostService(f.posts, f.comments, f.users, f.tx, f.publisher).(*PostService)
}

func (f *postFixture) commentService() *CommentService {
	return NewCommentService(f.posts, f.comments, f.users, f.tx, f.publisher).(*CommentService)
}

func samplePost(id, owner string) *entities.Post {
	p := entities.NewPost(owner, "AAPL", "t", "d", []string{"tech"})
	p.Id = id
	return p
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("owner is the caller", func(t *testing.T) {
		f := newPostFixture()
		f.posts.On("Create", ctx, mock.MatchedBy(func(p *entities.Post) bool {
			return p.UserId == "u1" && p.LikesCount == 0 && len(p.Likes) == 0 && len(p.Comments) == 0
		})).Return(samplePost("p1", "u1"), nil)

		res, err := f.postService().CreatePost(ctx, &command.CreatePostCommand{
			CallerId: "u1", StockSymbol: "AAPL", Title: "t", Description: "d",
		})
		require.NoError(t, err)
		assert.Equal(t, "p1", res.PostId)
		assert.Equal(t, "u1", res.UserId)
	})

	t.Run("missing title", func(t *testing.T) {
		f := newPostFixture()
		_, err := f.postService().CreatePost(ctx, &command.CreatePostCommand{
			CallerId: "u1", StockSymbol: "AAPL", Description: "d",
		})
		assert.True(t, errors.Is(err, entities.ErrValidation))
		f.posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestListPosts(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()

	p1, p2 := samplePost("p1", "u1"), samplePost("p2", "u1")
	f.posts.On("List", ctx, repositories.PostFilter{StockSymbol: "AAPL", Tags: []string{"tech"}, SortBy: repositories.SortLikes}).
		Return([]*entities.Post{p1, p2}, nil)
	f.users.On("FindByIds", ctx, []string{"u1"}).
		Return(map[string]*entities.User{"u1": {Id: "u1", Username: "alice"}}, nil)

	res, err := f.postService().ListPosts(ctx, &query.ListPostsQuery{StockSymbol: "AAPL", Tags: []string{"tech"}, SortBy: "likes"})
	require.NoError(t, err)
	require.Len(t, res.Result, 2)
	assert.Equal(t, "alice", res.Result[0].User.Username)
	assert.Equal(t, []string{}, res.Result[0].Likes)

	t.Run("unknown sort key falls back to store order", func(t *testing.T) {
		f := newPostFixture()
		f.posts.On("List", ctx, repositories.PostFilter{}).Return([]*entities.Post{}, nil)
		f.users.On("FindByIds", ctx, []string{}).Return(map[string]*entities.User{}, nil)

		res, err := f.postService().ListPosts(ctx, &query.ListPostsQuery{SortBy: "random"})
		require.NoError(t, err)
		assert.Empty(t, res.Result)
	})
}

func TestGetPostResolvesCommentAuthors(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()

	post := samplePost("p1", "u1")
	post.Comments = []string{"c1"}
	comment := &entities.Comment{Id: "c1", Text: "nice", UserId: "u2", PostId: "p1", CreatedAt: time.Now()}

	f.posts.On("FindById", ctx, "p1").Return(post, nil)
	f.comments.On("FindByIds", ctx, []string{"c1"}).Return([]*entities.Comment{comment}, nil)
	f.users.On("FindByIds", ctx, []string{"u1", "u2"}).Return(map[string]*entities.User{
		"u1": {Id: "u1", Username: "alice"},
		"u2": {Id: "u2", Username: "bob"},
	}, nil)

	res, err := f.postService().GetPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Result.User.Username)
	require.Len(t, res.Result.Comments, 1)
	assert.Equal(t, "nice", res.Result.Comments[0].Comment)
	assert.Equal(t, "bob", res.Result.Comments[0].User.Username)

	t.Run("missing post", func(t *testing.T) {
		f := newPostFixture()
		f.posts.On("FindById", ctx, "nope").Return(nil, entities.ErrNotFound)
		_, err := f.postService().GetPost(ctx, "nope")
		assert.True(t, errors.Is(err, entities.ErrNotFound))
	})
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes post and its comments", func(t *testing.T) {
		f := newPostFixture()
		f.posts.On("FindById", ctx, "p1").Return(samplePost("p1", "u1"), nil)
		f.comments.On("DeleteByPost", ctx, "p1").Return(int64(2), nil)
		f.posts.On("Delete", ctx, "p1").Return(nil)

		require.NoError(t, f.postService().DeletePost(ctx, &command.DeletePostCommand{CallerId: "u1", PostId: "p1"}))
		assert.Equal(t, 1, f.tx.calls)
		f.posts.AssertExpectations(t)
		f.comments.AssertExpectations(t)
	})

	t.Run("non-owner is unauthorized", func(t *testing.T) {
		f := newPostFixture()
		f.posts.On("FindById", ctx, "p1").Return(samplePost("p1", "u1"), nil)

		err := f.postService().DeletePost(ctx, &command.DeletePostCommand{CallerId: "u2", PostId: "p1"})
		assert.True(t, errors.Is(err, entities.ErrUnauthorized))
		f.posts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		assert.Zero(t, f.tx.calls)
	})

	t.Run("missing post", func(t *testing.T) {
		f := newPostFixture()
		f.posts.On("FindById", ctx, "p1").Return(nil, entities.ErrNotFound)
		err := f.postService().DeletePost(ctx, &command.DeletePostCommand{CallerId: "u1", PostId: "p1"})
		assert.True(t, errors.Is(err, entities.ErrNotFound))
	})
}

func TestLikePost(t *testing.T) {
	ctx := context.Background()

	t.Run("like emits postLiked", func(t *testing.T) {
		f := newPostFixture()
		f.posts.On("AddLike", ctx, "p1", "u1").Return(nil)

		require.NoError(t, f.postService().LikePost(ctx, &command.LikePostCommand{CallerId: "u1", PostId: "p1"}))
		require.Len(t, f.publisher.events, 1)
		assert.Equal(t, events.PostLiked, f.publisher.events[0].Name)

		var postID string
		require.NoError(t, json.Unmarshal(f.publisher.events[0].Data, &postID))
		assert.Equal(t, "p1", postID)
	})

	t.Run("already liked emits nothing", func(t *testing.T) {
		f := newPostFixture()
		f.posts.On("AddLike", ctx, "p1", "u1").Return(entities.ErrAlreadyLiked)

		err := f.postService().LikePost(ctx, &command.LikePostCommand{CallerId: "u1", PostId: "p1"})
		assert.True(t, errors.Is(err, entities.ErrAlreadyLiked))
		assert.Empty(t, f.publisher.events)
	})

	t.Run("publish failure does not fail the like", func(t *testing.T) {
		f := newPostFixture()
		f.publisher.err = errors.New("bus down")
		f.posts.On("AddLike", ctx, "p1", "u1").Return(nil)

		assert.NoError(t, f.postService().LikePost(ctx, &command.LikePostCommand{CallerId: "u1", PostId: "p1"}))
	})

	t.Run("unlike not liked", func(t *testing.T) {
		f := newPostFixture()
		f.posts.On("RemoveLike", ctx, "p1", "u1").Return(entities.ErrNotLiked)

		err := f.postService().UnlikePost(ctx, &command.LikePostCommand{CallerId: "u1", PostId: "p1"})
		assert.True(t, errors.Is(err, entities.ErrNotLiked))
	})
}
