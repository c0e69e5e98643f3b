package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tazhibayda/gist-tracker/internal/domain"
)

func (s *Store) CreateComment(ctx context.Context, c *domain.Comment) error {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	res, err := s.colComments.InsertOne(ctx, c)
	if err != nil {
		return classify(err, "Comment not found")
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// ListComments returns a gist's comments newest first, with the author's
// name and github handle joined in from the users collection.
func (s *Store) ListComments(ctx context.Context, gist primitive.ObjectID) ([]domain.CommentWithAuthor, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"gist_id": gist}}},
		{{Key: "$sort", Value: bson.M{"created_at": -1}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "author",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$author", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{
			"content": 1, "user_id": 1, "gist_id": 1, "created_at": 1, "updated_at": 1,
			"author._id": 1, "author.name": 1, "author.github_username": 1,
		}}},
	}

	cur, err := s.colComments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, classify(err, "Comment not found")
	}
	defer cur.Close(ctx)

	out := []domain.CommentWithAuthor{}
	for cur.Next(ctx) {
		var c domain.CommentWithAuthor
		if err := cur.Decode(&c); err != nil {
			return nil, classify(err, "Comment not found")
		}
		out = append(out, c)
	}
	return out, classify(cur.Err(), "Comment not found")
}

// CommentWithAuthor fetches one comment joined with its author, used for
// the create response.
func (s *Store) CommentWithAuthor(ctx context.Context, id primitive.ObjectID) (*domain.CommentWithAuthor, error) {
	var c domain.Comment
	if err := s.colComments.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, classify(err, "Comment not found")
	}
	out := domain.CommentWithAuthor{Comment: c}
	if u, err := s.FindUserByID(ctx, c.UserID); err == nil && u != nil {
		out.Author = domain.CommentAuthor{ID: u.ID, Name: u.Name, GithubUsername: u.GithubUsername}
	}
	return &out, nil
}
