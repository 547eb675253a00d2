package repositories

import (
	"context"
	"time"

	"github.com/anonto42/tuiter/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	FindAllUsersThatLikedTuit(ctx context.Context, tid string) ([]models.Liker, error)
	FindAllTuitsLikedByUser(ctx context.Context, uid string) ([]models.LikedTuit, error)
	UserLikesTuit(ctx context.Context, uid, tid string) (*models.Like, error)
	UserUnlikesTuit(ctx context.Context, uid, tid string) (*models.DeleteStatus, error)
	CountHowManyLikedTuit(ctx context.Context, tid string) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

// MongoLikeRepository implements LikeRepository for MongoDB
type MongoLikeRepository struct {
	collection *mongo.Collection
}

// NewMongoLikeRepository creates a new MongoLikeRepository
func NewMongoLikeRepository(db *mongo.Database) *MongoLikeRepository {
	return &MongoLikeRepository{collection: db.Collection("likes")}
}

// EnsureIndexes creates the unique tuit/user index and the per-user lookup index
func (r *MongoLikeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tuit", Value: 1}, {Key: "liked_by", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_tuit_liked_by"),
		},
		{Keys: bson.D{{Key: "liked_by", Value: 1}}},
	})
	return err
}

// FindAllUsersThatLikedTuit returns the likes on a tuit with the liking users populated
func (r *MongoLikeRepository) FindAllUsersThatLikedTuit(ctx context.Context, tid string) ([]models.Liker, error) {
	objID, err := toObjectID("tuit", tid)
	if err != nil {
		return nil, err
	}
	likers := []models.Liker{}
	if err := populate(ctx, r.collection, bson.M{"tuit": objID}, "liked_by", "users", &likers); err != nil {
		return nil, err
	}
	return likers, nil
}

// FindAllTuitsLikedByUser returns the likes of a user with the liked tuits populated
func (r *MongoLikeRepository) FindAllTuitsLikedByUser(ctx context.Context, uid string) ([]models.LikedTuit, error) {
	objID, err := toObjectID("user", uid)
	if err != nil {
		return nil, err
	}
	liked := []models.LikedTuit{}
	if err := populate(ctx, r.collection, bson.M{"liked_by": objID}, "tuit", "tuits", &liked); err != nil {
		return nil, err
	}
	return liked, nil
}

// UserLikesTuit records that uid likes tid
func (r *MongoLikeRepository) UserLikesTuit(ctx context.Context, uid, tid string) (*models.Like, error) {
	userID, err := toObjectID("user", uid)
	if err != nil {
		return nil, err
	}
	tuitID, err := toObjectID("tuit", tid)
	if err != nil {
		return nil, err
	}

	like := &models.Like{
		ID:        primitive.NewObjectID(),
		Tuit:      tuitID,
		LikedBy:   userID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.collection.InsertOne(ctx, like); err != nil {
		return nil, wrapInsertErr(err)
	}
	return like, nil
}

// UserUnlikesTuit removes one like; a missing like reports zero deletions
func (r *MongoLikeRepository) UserUnlikesTuit(ctx context.Context, uid, tid string) (*models.DeleteStatus, error) {
	userID, err := toObjectID("user", uid)
	if err != nil {
		return nil, err
	}
	tuitID, err := toObjectID("tuit", tid)
	if err != nil {
		return nil, err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"tuit": tuitID, "liked_by": userID})
	if err != nil {
		return nil, err
	}
	return &models.DeleteStatus{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

// CountHowManyLikedTuit counts the likes on a tuit
func (r *MongoLikeRepository) CountHowManyLikedTuit(ctx context.Context, tid string) (int64, error) {
	objID, err := toObjectID("tuit", tid)
	if err != nil {
		return 0, err
	}
	return r.collection.CountDocuments(ctx, bson.M{"tuit": objID})
}
