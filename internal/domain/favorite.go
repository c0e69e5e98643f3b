package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite marks a bookmark. At most one per (user, gist) pair; the
// compound unique index on the collection enforces it.
type Favorite struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id"       json:"user"`
	GistID    primitive.ObjectID `bson:"gist_id"       json:"gist"`
	CreatedAt time.Time          `bson:"created_at"    json:"createdAt"`
}
