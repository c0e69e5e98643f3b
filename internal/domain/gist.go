package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Gist struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"         json:"id"`
	Title       string             `bson:"title"                 json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Content     string             `bson:"content"               json:"content"`
	Language    string             `bson:"language"              json:"language"`
	IsPublic    bool               `bson:"is_public"             json:"isPublic"`
	UserID      primitive.ObjectID `bson:"user_id"               json:"user"`
	CreatedAt   time.Time          `bson:"created_at"            json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at"            json:"updatedAt"`
}

// ReadableBy reports whether uid may view the gist. Private gists are
// visible to their owner only.
func (g *Gist) ReadableBy(uid primitive.ObjectID) bool {
	return g.IsPublic || g.UserID == uid
}
