package queue

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exchange is the topic exchange all service events go to.
const Exchange = "gist.events"

type Publisher interface {
	Publish(ctx context.Context, key string, event any, reqID string) error
	Close() error
}

// NoopPub stands in when RABBIT_URL is not configured (dev, tests).
type NoopPub struct{}

func NewNoop() Publisher { return NoopPub{} }

func (NoopPub) Publish(ctx context.Context, key string, event any, reqID string) error {
	return nil
}
func (NoopPub) Close() error { return nil }

type UserRegistered struct {
	UserID primitive.ObjectID `json:"user_id"`
	Email  string             `json:"email"`
	Name   string             `json:"name"`
}

type GistCreated struct {
	GistID   primitive.ObjectID `json:"gist_id"`
	UserID   primitive.ObjectID `json:"user_id"`
	Title    string             `json:"title"`
	Language string             `json:"language"`
	IsPublic bool               `json:"is_public"`
}

type CommentCreated struct {
	CommentID primitive.ObjectID `json:"comment_id"`
	GistID    primitive.ObjectID `json:"gist_id"`
	UserID    primitive.ObjectID `json:"user_id"`
}
