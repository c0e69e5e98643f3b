package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tazhibayda/gist-tracker/internal/apperror"
	"github.com/tazhibayda/gist-tracker/internal/domain"
)

func (s *Store) CreateGist(ctx context.Context, g *domain.Gist) error {
	now := time.Now().UTC()
	g.CreatedAt, g.UpdatedAt = now, now

	res, err := s.colGists.InsertOne(ctx, g)
	if err != nil {
		return classify(err, "Gist not found")
	}
	g.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindGistByID returns (nil, nil) when the gist does not exist. Callers
// decide visibility; the repo does not.
func (s *Store) FindGistByID(ctx context.Context, id primitive.ObjectID) (*domain.Gist, error) {
	var g domain.Gist
	err := s.colGists.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, "Gist not found")
	}
	return &g, nil
}

type GistFilter struct {
	Viewer primitive.ObjectID // whose session is asking
	Owner  *primitive.ObjectID
	Limit  int
	Skip   int
}

// ListGists returns gists the viewer may see, newest first: their own
// plus public ones, optionally narrowed to a single owner.
func (s *Store) ListGists(ctx context.Context, f GistFilter) ([]domain.Gist, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Skip < 0 {
		f.Skip = 0
	}

	visible := bson.M{"$or": bson.A{
		bson.M{"is_public": true},
		bson.M{"user_id": f.Viewer},
	}}
	filter := visible
	if f.Owner != nil {
		filter = bson.M{"$and": bson.A{visible, bson.M{"user_id": *f.Owner}}}
	}

	cur, err := s.colGists.Find(ctx, filter,
		options.Find().
			SetLimit(int64(f.Limit)).
			SetSkip(int64(f.Skip)).
			SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, classify(err, "Gist not found")
	}
	defer cur.Close(ctx)

	out := []domain.Gist{}
	for cur.Next(ctx) {
		var g domain.Gist
		if err := cur.Decode(&g); err != nil {
			return nil, classify(err, "Gist not found")
		}
		out = append(out, g)
	}
	return out, classify(cur.Err(), "Gist not found")
}

type GistUpdate struct {
	Title       string
	Description string
	Content     string
	Language    string
	IsPublic    bool
}

// UpdateGist mutates the gist only when owner matches; a not-owned gist
// reads as absent so callers cannot probe for existence.
func (s *Store) UpdateGist(ctx context.Context, id, owner primitive.ObjectID, upd GistUpdate) (*domain.Gist, error) {
	res := s.colGists.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": owner},
		bson.M{"$set": bson.M{
			"title":       upd.Title,
			"description": upd.Description,
			"content":     upd.Content,
			"language":    upd.Language,
			"is_public":   upd.IsPublic,
			"updated_at":  time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var g domain.Gist
	if err := res.Decode(&g); err != nil {
		return nil, classify(err, "Gist not found")
	}
	return &g, nil
}

func (s *Store) DeleteGist(ctx context.Context, id, owner primitive.ObjectID) error {
	res, err := s.colGists.DeleteOne(ctx, bson.M{"_id": id, "user_id": owner})
	if err != nil {
		return classify(err, "Gist not found")
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("Gist not found")
	}
	// comments and favorites on the gist go with it
	if _, err := s.colComments.DeleteMany(ctx, bson.M{"gist_id": id}); err != nil {
		return classify(err, "Gist not found")
	}
	if _, err := s.colFavorites.DeleteMany(ctx, bson.M{"gist_id": id}); err != nil {
		return classify(err, "Gist not found")
	}
	return nil
}
