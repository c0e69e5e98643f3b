package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tazhibayda/gist-tracker/internal/apperror"
	"github.com/tazhibayda/gist-tracker/internal/config"
)

type Store struct {
	Client *mongo.Client
	DB     *mongo.Database

	colUsers     *mongo.Collection
	colGists     *mongo.Collection
	colFavorites *mongo.Collection
	colComments  *mongo.Collection
}

func NewStore(ctx context.Context, uri, dbname string, mo config.MongoOptions) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(mo.MaxPoolSize).
		SetMinPoolSize(mo.MinPoolSize).
		SetConnectTimeout(mo.ConnectTimeout).
		SetSocketTimeout(mo.SocketTimeout).
		SetServerSelectionTimeout(mo.SelectTimeout).
		SetMaxConnIdleTime(mo.MaxConnIdleTime).
		SetRetryWrites(mo.RetryWrites).
		SetRetryReads(mo.RetryReads)

	cli, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx, nil); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, err
	}
	db := cli.Database(dbname)
	return &Store{
		Client:       cli,
		DB:           db,
		colUsers:     db.Collection("users"),
		colGists:     db.Collection("gists"),
		colFavorites: db.Collection("favorites"),
		colComments:  db.Collection("comments"),
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error { return s.Client.Disconnect(ctx) }

func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.colUsers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	}); err != nil {
		return err
	}

	if _, err := s.colGists.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("owner_created_desc"),
	}); err != nil {
		return err
	}

	// one favorite per (user, gist); concurrent double-favorites lose here
	if _, err := s.colFavorites.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "gist_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_user_gist"),
		},
		{
			Keys:    bson.D{{Key: "gist_id", Value: 1}},
			Options: options.Index().SetName("by_gist"),
		},
	}); err != nil {
		return err
	}

	_, err := s.colComments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "gist_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("gist_created_desc"),
	})
	return err
}

func IsDup(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return false
}

// classify normalizes driver errors at the store boundary so handlers
// only ever see the apperror taxonomy.
func classify(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperror.NotFound(notFoundMsg)
	}
	if IsDup(err) {
		return apperror.Conflict("duplicate")
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) {
		return apperror.Unavailable("Store unavailable", err)
	}
	return apperror.Internal("Something went wrong", err)
}
