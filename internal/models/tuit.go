package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tuit represents a short post stored in MongoDB
type Tuit struct {
	ID       primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Tuit     string             `json:"tuit" bson:"tuit"`
	PostedBy primitive.ObjectID `json:"posted_by" bson:"posted_by"`
	PostedOn time.Time          `json:"posted_on" bson:"posted_on"`
}
