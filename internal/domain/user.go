package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"              json:"id"`
	Name           string             `bson:"name"                      json:"name"`
	Email          string             `bson:"email"                     json:"email"`
	PasswordHash   string             `bson:"password_hash"             json:"-"`
	GithubUsername string             `bson:"github_username,omitempty" json:"githubUsername,omitempty"`
	Bio            string             `bson:"bio,omitempty"             json:"bio,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"                json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updated_at"                json:"updatedAt"`
}
