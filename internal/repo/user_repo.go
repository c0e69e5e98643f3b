package repo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tazhibayda/gist-tracker/internal/apperror"
	"github.com/tazhibayda/gist-tracker/internal/domain"
)

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	res, err := s.colUsers.InsertOne(ctx, u)
	if IsDup(err) {
		return apperror.Conflict("User already exists")
	}
	if err != nil {
		return classify(err, "User not found")
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindUserByEmail returns (nil, nil) when no user has the email.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.colUsers.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, "User not found")
	}
	return &u, nil
}

func (s *Store) FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	err := s.colUsers.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, "User not found")
	}
	return &u, nil
}

type ProfileUpdate struct {
	Name           string
	GithubUsername string
	Bio            string
}

func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (*domain.User, error) {
	res := s.colUsers.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"name":            upd.Name,
			"github_username": upd.GithubUsername,
			"bio":             upd.Bio,
			"updated_at":      time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var u domain.User
	if err := res.Decode(&u); err != nil {
		return nil, classify(err, "User not found")
	}
	return &u, nil
}

// DeleteUser removes the account and everything hanging off it: the
// user's gists, favorites and comments, plus favorites other users put
// on the deleted gists.
func (s *Store) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	gistIDs, err := s.gistIDsByOwner(ctx, id)
	if err != nil {
		return err
	}

	res, err := s.colUsers.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return classify(err, "User not found")
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("User not found")
	}

	if _, err := s.colGists.DeleteMany(ctx, bson.M{"user_id": id}); err != nil {
		return classify(err, "User not found")
	}
	if _, err := s.colComments.DeleteMany(ctx, bson.M{"user_id": id}); err != nil {
		return classify(err, "User not found")
	}
	favFilter := bson.M{"user_id": id}
	if len(gistIDs) > 0 {
		favFilter = bson.M{"$or": bson.A{
			bson.M{"user_id": id},
			bson.M{"gist_id": bson.M{"$in": gistIDs}},
		}}
	}
	if _, err := s.colFavorites.DeleteMany(ctx, favFilter); err != nil {
		return classify(err, "User not found")
	}
	return nil
}

func (s *Store) gistIDsByOwner(ctx context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.colGists.Find(ctx, bson.M{"user_id": owner},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, classify(err, "Gist not found")
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, classify(err, "Gist not found")
		}
		ids = append(ids, doc.ID)
	}
	return ids, classify(cur.Err(), "Gist not found")
}
