package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like represents a user liking a tuit
type Like struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Tuit      primitive.ObjectID `json:"tuit" bson:"tuit"`
	LikedBy   primitive.ObjectID `json:"liked_by" bson:"liked_by"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// Liker is a like with the liking user populated
type Liker struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Tuit      primitive.ObjectID `json:"tuit" bson:"tuit"`
	LikedBy   *User              `json:"liked_by" bson:"liked_by,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// LikedTuit is a like with the liked tuit populated
type LikedTuit struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Tuit      *Tuit              `json:"tuit" bson:"tuit,omitempty"`
	LikedBy   primitive.ObjectID `json:"liked_by" bson:"liked_by"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// LikePathParams binds the user/tuit pair from the request path
type LikePathParams struct {
	UID string `param:"uid" validate:"required,mongodb"`
	TID string `param:"tid" validate:"required,mongodb"`
}

// TuitPathParams binds a single tuit id from the request path
type TuitPathParams struct {
	TID string `param:"tid" validate:"required,mongodb"`
}
