package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	postsCollection    = "posts"
	commentsCollection = "comments"
)

// Store wraps the Mongo client and database used by the repositories.
type Store struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

// Connect dials uri and verifies the connection. With transactions disabled
// WithinTransaction runs its unit of work without a session, for standalone
// servers that cannot host multi-document transactions.
func Connect(ctx context.Context, uri, database string, transactions bool) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	// Check connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	store := &Store{
		client:       client,
		db:           client.Database(database),
		transactions: transactions,
	}
	if err := store.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Info().Str("database", database).Bool("transactions", transactions).Msg("✅ Connected to MongoDB!")
	return store, nil
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		postsCollection: {
			{Keys: bson.D{{Key: "stockSymbol", Value: 1}}},
			{Keys: bson.D{{Key: "tags", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "likesCount", Value: -1}}},
		},
		commentsCollection: {
			{Keys: bson.D{{Key: "post", Value: 1}}},
		},
	}
	for name, models := range indexes {
		if _, err := s.collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

// WithinTransaction joins the session already bound to ctx, if any.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.transactions || mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
