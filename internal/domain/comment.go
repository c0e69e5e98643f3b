package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Content   string             `bson:"content"       json:"content"`
	UserID    primitive.ObjectID `bson:"user_id"       json:"user"`
	GistID    primitive.ObjectID `bson:"gist_id"       json:"gist"`
	CreatedAt time.Time          `bson:"created_at"    json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at"    json:"updatedAt"`
}

// CommentWithAuthor is the listing shape: the comment plus the author
// fields clients render next to it.
type CommentWithAuthor struct {
	Comment `bson:",inline"`
	Author  CommentAuthor `bson:"author" json:"author"`
}

type CommentAuthor struct {
	ID             primitive.ObjectID `bson:"_id"                       json:"id"`
	Name           string             `bson:"name"                      json:"name"`
	GithubUsername string             `bson:"github_username,omitempty" json:"githubUsername,omitempty"`
}
