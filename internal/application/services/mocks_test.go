package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"stocktalk-service/internal/domain/entities"
	"stocktalk-service/internal/domain/events"
	"stocktalk-service/internal/domain/repositories"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error) {
	args := m.Called(ctx, user)
	return userArg(args, 0), args.Error(1)
}

func (m *mockUserRepository) FindById(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	return userArg(args, 0), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	return userArg(args, 0), args.Error(1)
}

func (m *mockUserRepository) FindByIds(ctx context.Context, ids []string) (map[string]*entities.User, error) {
	args := m.Called(ctx, ids)
	users, _ := args.Get(0).(map[string]*entities.User)
	return users, args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error) {
	args := m.Called(ctx, user)
	return userArg(args, 0), args.Error(1)
}

func userArg(args mock.Arguments, i int) *entities.User {
	u, _ := args.Get(i).(*entities.User)
	return u
}

type mockPostRepository struct {
	mock.Mock
}

func (m *mockPostRepository) Create(ctx context.Context, post *entities.Post) (*entities.Post, error) {
	args := m.Called(ctx, post)
	p, _ := args.Get(0).(*entities.Post)
	return p, args.Error(1)
}

func (m *mockPostRepository) FindById(ctx context.Context, id string) (*entities.Post, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*entities.Post)
	return p, args.Error(1)
}

func (m *mockPostRepository) List(ctx context.Context, filter repositories.PostFilter) ([]*entities.Post, error) {
	args := m.Called(ctx, filter)
	posts, _ := args.Get(0).([]*entities.Post)
	return posts, args.Error(1)
}

func (m *mockPostRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPostRepository) AddLike(ctx context.Context, postID, userID string) error {
	return m.Called(ctx, postID, userID).Error(0)
}

func (m *mockPostRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	return m.Called(ctx, postID, userID).Error(0)
}

func (m *mockPostRepository) AppendComment(ctx context.Context, postID, commentID string) error {
	return m.Called(ctx, postID, commentID).Error(0)
}

func (m *mockPostRepository) PullComment(ctx context.Context, postID, commentID string) error {
	return m.Called(ctx, postID, commentID).Error(0)
}

type mockCommentRepository struct {
	mock.Mock
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *entities.Comment) (*entities.Comment, error) {
	args := m.Called(ctx, comment)
	c, _ := args.Get(0).(*entities.Comment)
	return c, args.Error(1)
}

func (m *mockCommentRepository) FindById(ctx context.Context, id string) (*entities.Comment, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entities.Comment)
	return c, args.Error(1)
}

func (m *mockCommentRepository) FindByIds(ctx context.Context, ids []string) ([]*entities.Comment, error) {
	args := m.Called(ctx, ids)
	comments, _ := args.Get(0).([]*entities.Comment)
	return comments, args.Error(1)
}

func (m *mockCommentRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCommentRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

// inlineTx runs the unit of work directly and counts invocations.
type inlineTx struct {
	calls int
}

func (tx *inlineTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	return fn(ctx)
}

type mockTokens struct {
	mock.Mock
}

func (m *mockTokens) GenerateToken(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

type mockProfileCache struct {
	mock.Mock
}

func (m *mockProfileCache) GetProfile(ctx context.Context, userID string) (*entities.User, error) {
	args := m.Called(ctx, userID)
	return userArg(args, 0), args.Error(1)
}

func (m *mockProfileCache) SetProfile(ctx context.Context, user *entities.User, ttl time.Duration) error {
	return m.Called(ctx, user, ttl).Error(0)
}

func (m *mockProfileCache) DeleteProfile(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type denyLimiter struct{}

func (denyLimiter) Allow(string) bool { return false }

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return p.err
}
