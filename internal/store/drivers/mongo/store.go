package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/codemasterhq/codemaster/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	collUsers       = "users"
	collProblems    = "problems"
	collSubmissions = "submissions"
	collVideos      = "videos"
)

// Store implements store.Store on a MongoDB-compatible document store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	users       *usersRepo
	problems    *problemsRepo
	submissions *submissionsRepo
	videos      *videosRepo
}

// NewStore connects to the document store, verifies the connection and
// ensures the indexes the contract depends on (most importantly the unique
// email index backing duplicate-registration detection).
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client:      client,
		db:          db,
		users:       &usersRepo{coll: db.Collection(collUsers)},
		problems:    &problemsRepo{coll: db.Collection(collProblems)},
		submissions: &submissionsRepo{coll: db.Collection(collSubmissions)},
		videos:      &videosRepo{coll: db.Collection(collVideos)},
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: ensure indexes: %w", err)
	}

	return s, nil
}

func (s *Store) Users() store.Users             { return s.users }
func (s *Store) Problems() store.Problems       { return s.problems }
func (s *Store) Submissions() store.Submissions { return s.submissions }
func (s *Store) Videos() store.Videos           { return s.videos }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(collUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = s.db.Collection(collVideos).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "problem_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = s.db.Collection(collSubmissions).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "problem_id", Value: 1}},
	})
	return err
}

// mapError normalises driver errors to store sentinels.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.ErrAlreadyExists
	default:
		return err
	}
}
