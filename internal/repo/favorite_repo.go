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

// AddFavorite relies on the uniq_user_gist index: the second insert for
// the same pair fails as a duplicate, even under concurrent requests.
func (s *Store) AddFavorite(ctx context.Context, user, gist primitive.ObjectID) error {
	f := domain.Favorite{UserID: user, GistID: gist, CreatedAt: time.Now().UTC()}
	_, err := s.colFavorites.InsertOne(ctx, f)
	if IsDup(err) {
		return apperror.Conflict("Gist already in favorites")
	}
	return classify(err, "Favorite not found")
}

func (s *Store) RemoveFavorite(ctx context.Context, user, gist primitive.ObjectID) error {
	res, err := s.colFavorites.DeleteOne(ctx, bson.M{"user_id": user, "gist_id": gist})
	if err != nil {
		return classify(err, "Favorite not found")
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("Favorite not found")
	}
	return nil
}

func (s *Store) IsFavorite(ctx context.Context, user, gist primitive.ObjectID) (bool, error) {
	err := s.colFavorites.FindOne(ctx, bson.M{"user_id": user, "gist_id": gist}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, classify(err, "Favorite not found")
	}
	return true, nil
}

func (s *Store) CountFavorites(ctx context.Context, user, gist primitive.ObjectID) (int64, error) {
	n, err := s.colFavorites.CountDocuments(ctx, bson.M{"user_id": user, "gist_id": gist})
	return n, classify(err, "Favorite not found")
}

// ListFavoriteGists returns the gists the user bookmarked, newest
// bookmark first. Gists that went private since stay listed for the
// user who favorited them only if public or owned, same rule as reads.
func (s *Store) ListFavoriteGists(ctx context.Context, user primitive.ObjectID) ([]domain.Gist, error) {
	cur, err := s.colFavorites.Find(ctx, bson.M{"user_id": user},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, classify(err, "Favorite not found")
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var f domain.Favorite
		if err := cur.Decode(&f); err != nil {
			return nil, classify(err, "Favorite not found")
		}
		ids = append(ids, f.GistID)
	}
	if err := cur.Err(); err != nil {
		return nil, classify(err, "Favorite not found")
	}
	if len(ids) == 0 {
		return []domain.Gist{}, nil
	}

	gcur, err := s.colGists.Find(ctx, bson.M{
		"_id": bson.M{"$in": ids},
		"$or": bson.A{bson.M{"is_public": true}, bson.M{"user_id": user}},
	})
	if err != nil {
		return nil, classify(err, "Gist not found")
	}
	defer gcur.Close(ctx)

	byID := make(map[primitive.ObjectID]domain.Gist, len(ids))
	for gcur.Next(ctx) {
		var g domain.Gist
		if err := gcur.Decode(&g); err != nil {
			return nil, classify(err, "Gist not found")
		}
		byID[g.ID] = g
	}
	if err := gcur.Err(); err != nil {
		return nil, classify(err, "Gist not found")
	}

	// keep bookmark order
	out := []domain.Gist{}
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}
