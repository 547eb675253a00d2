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

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	FindUsersFollowedByUser(ctx context.Context, uid string) ([]models.Following, error)
	FindUsersFollowingUser(ctx context.Context, uid string) ([]models.Follower, error)
	UserFollowsUser(ctx context.Context, uidFollowing, uidFollowed string) (*models.Follow, error)
	UserUnfollowsUser(ctx context.Context, uidFollowing, uidFollowed string) (*models.DeleteStatus, error)
	IsFollowing(ctx context.Context, uidFollowing, uidFollowed string) (bool, error)
	EnsureIndexes(ctx context.Context) error
}

// MongoFollowRepository implements FollowRepository for MongoDB
type MongoFollowRepository struct {
	collection *mongo.Collection
}

// NewMongoFollowRepository creates a new MongoFollowRepository
func NewMongoFollowRepository(db *mongo.Database) *MongoFollowRepository {
	return &MongoFollowRepository{collection: db.Collection("follows")}
}

// EnsureIndexes creates the lookup indexes and the unique follower/followed pair index
func (r *MongoFollowRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_following", Value: 1}, {Key: "user_followed", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_following_followed"),
		},
		{Keys: bson.D{{Key: "user_followed", Value: 1}}},
	})
	return err
}

// FindUsersFollowedByUser returns the follows created by uid with the followed user populated
func (r *MongoFollowRepository) FindUsersFollowedByUser(ctx context.Context, uid string) ([]models.Following, error) {
	objID, err := toObjectID("user", uid)
	if err != nil {
		return nil, err
	}
	following := []models.Following{}
	if err := populate(ctx, r.collection, bson.M{"user_following": objID}, "user_followed", "users", &following); err != nil {
		return nil, err
	}
	return following, nil
}

// FindUsersFollowingUser returns the follows pointing at uid with the following user populated
func (r *MongoFollowRepository) FindUsersFollowingUser(ctx context.Context, uid string) ([]models.Follower, error) {
	objID, err := toObjectID("user", uid)
	if err != nil {
		return nil, err
	}
	followers := []models.Follower{}
	if err := populate(ctx, r.collection, bson.M{"user_followed": objID}, "user_following", "users", &followers); err != nil {
		return nil, err
	}
	return followers, nil
}

// UserFollowsUser records that uidFollowing follows uidFollowed
func (r *MongoFollowRepository) UserFollowsUser(ctx context.Context, uidFollowing, uidFollowed string) (*models.Follow, error) {
	follower, err := toObjectID("user", uidFollowing)
	if err != nil {
		return nil, err
	}
	followed, err := toObjectID("user", uidFollowed)
	if err != nil {
		return nil, err
	}

	follow := &models.Follow{
		ID:            primitive.NewObjectID(),
		UserFollowing: follower,
		UserFollowed:  followed,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := r.collection.InsertOne(ctx, follow); err != nil {
		return nil, wrapInsertErr(err)
	}
	return follow, nil
}

// UserUnfollowsUser removes one follow edge; a missing edge reports zero deletions
func (r *MongoFollowRepository) UserUnfollowsUser(ctx context.Context, uidFollowing, uidFollowed string) (*models.DeleteStatus, error) {
	follower, err := toObjectID("user", uidFollowing)
	if err != nil {
		return nil, err
	}
	followed, err := toObjectID("user", uidFollowed)
	if err != nil {
		return nil, err
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"user_following": follower, "user_followed": followed})
	if err != nil {
		return nil, err
	}
	return &models.DeleteStatus{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

// IsFollowing checks if uidFollowing follows uidFollowed
func (r *MongoFollowRepository) IsFollowing(ctx context.Context, uidFollowing, uidFollowed string) (bool, error) {
	follower, err := toObjectID("user", uidFollowing)
	if err != nil {
		return false, err
	}
	followed, err := toObjectID("user", uidFollowed)
	if err != nil {
		return false, err
	}

	count, err := r.collection.CountDocuments(ctx,
		bson.M{"user_following": follower, "user_followed": followed},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
