package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Follow is a directed edge: UserFollowing follows UserFollowed
type Follow struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserFollowing primitive.ObjectID `json:"user_following" bson:"user_following"`
	UserFollowed  primitive.ObjectID `json:"user_followed" bson:"user_followed"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}

// Following is an entry of a user's following list, with the followed user populated.
// UserFollowed is nil when the referenced user no longer exists.
type Following struct {
	ID            primitive.ObjectID `json:"id" bson:"_id"`
	UserFollowing primitive.ObjectID `json:"user_following" bson:"user_following"`
	UserFollowed  *User              `json:"user_followed" bson:"user_followed,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}

// Follower is an entry of a user's followers list, with the following user populated.
type Follower struct {
	ID            primitive.ObjectID `json:"id" bson:"_id"`
	UserFollowing *User              `json:"user_following" bson:"user_following,omitempty"`
	UserFollowed  primitive.ObjectID `json:"user_followed" bson:"user_followed"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}

// FollowPathParams binds the follower/followed pair from the request path
type FollowPathParams struct {
	UIDFollowing string `param:"uidFollowing" validate:"required,mongodb"`
	UIDFollowed  string `param:"uidFollowed" validate:"required,mongodb"`
}

// UserPathParams binds a single user id from the request path
type UserPathParams struct {
	UID string `param:"uid" validate:"required,mongodb"`
}
