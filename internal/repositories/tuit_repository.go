package repositories

import (
	"context"
	"time"

	"github.com/anonto42/tuiter/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TuitRepository defines the interface for tuit data operations
type TuitRepository interface {
	CreateTuit(ctx context.Context, tuit *models.Tuit) error
}

// MongoTuitRepository implements TuitRepository for MongoDB
type MongoTuitRepository struct {
	collection *mongo.Collection
}

// NewMongoTuitRepository creates a new MongoTuitRepository
func NewMongoTuitRepository(db *mongo.Database) *MongoTuitRepository {
	return &MongoTuitRepository{collection: db.Collection("tuits")}
}

// CreateTuit creates a new tuit in MongoDB
func (r *MongoTuitRepository) CreateTuit(ctx context.Context, tuit *models.Tuit) error {
	tuit.ID = primitive.NewObjectID()
	if tuit.PostedOn.IsZero() {
		tuit.PostedOn = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, tuit)
	return err
}
