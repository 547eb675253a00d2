package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/tuiter/backend/internal/middleware"
	"github.com/anonto42/tuiter/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type okPinger struct{}

func (okPinger) Ping(context.Context, *readpref.ReadPref) error { return nil }

type stubFollows struct{}

func (stubFollows) FindUsersFollowedByUser(context.Context, string) ([]models.Following, error) {
	return []models.Following{}, nil
}
func (stubFollows) FindUsersFollowingUser(context.Context, string) ([]models.Follower, error) {
	return []models.Follower{}, nil
}
func (stubFollows) UserFollowsUser(_ context.Context, a, b string) (*models.Follow, error) {
	follower, _ := primitive.ObjectIDFromHex(a)
	followed, _ := primitive.ObjectIDFromHex(b)
	return &models.Follow{ID: primitive.NewObjectID(), UserFollowing: follower, UserFollowed: followed}, nil
}
func (stubFollows) UserUnfollowsUser(context.Context, string, string) (*models.DeleteStatus, error) {
	return &models.DeleteStatus{Acknowledged: true}, nil
}
func (stubFollows) IsFollowing(context.Context, string, string) (bool, error) { return false, nil }
func (stubFollows) EnsureIndexes(context.Context) error                       { return nil }

type stubLikes struct{}

func (stubLikes) FindAllUsersThatLikedTuit(context.Context, string) ([]models.Liker, error) {
	return []models.Liker{}, nil
}
func (stubLikes) FindAllTuitsLikedByUser(context.Context, string) ([]models.LikedTuit, error) {
	return []models.LikedTuit{}, nil
}
func (stubLikes) UserLikesTuit(context.Context, string, string) (*models.Like, error) {
	return &models.Like{ID: primitive.NewObjectID()}, nil
}
func (stubLikes) UserUnlikesTuit(context.Context, string, string) (*models.DeleteStatus, error) {
	return &models.DeleteStatus{Acknowledged: true}, nil
}
func (stubLikes) CountHowManyLikedTuit(context.Context, string) (int64, error) { return 7, nil }
func (stubLikes) EnsureIndexes(context.Context) error                          { return nil }

func newServer(auth echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	SetupMiddleware(e, middleware.NewMetrics(prometheus.NewRegistry()))
	SetupRoutes(e, Dependencies{
		Store:   okPinger{},
		Follows: stubFollows{},
		Likes:   stubLikes{},
		Auth:    auth,
	})
	return e
}

func serve(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSetupRoutes_Open(t *testing.T) {
	e := newServer(nil)
	a, b := primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/health"},
		{http.MethodGet, "/api/users/" + a + "/following"},
		{http.MethodGet, "/api/users/" + a + "/followers"},
		{http.MethodGet, "/api/users/" + a + "/follows/" + b},
		{http.MethodPost, "/api/users/" + a + "/follows/" + b},
		{http.MethodDelete, "/api/users/" + a + "/follows/" + b},
		{http.MethodGet, "/api/users/" + a + "/likes"},
		{http.MethodGet, "/api/tuits/" + b + "/likes"},
		{http.MethodGet, "/api/tuits/" + b + "/likes/count"},
		{http.MethodPost, "/api/users/" + a + "/likes/" + b},
		{http.MethodDelete, "/api/users/" + a + "/likes/" + b},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, http.StatusOK, serve(e, tt.method, tt.path, "").Code)
		})
	}
}

func TestSetupRoutes_FollowResponseUsesPathIDs(t *testing.T) {
	e := newServer(nil)
	a, b := primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()

	rec := serve(e, http.MethodPost, "/api/users/"+a+"/follows/"+b, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_following":"`+a+`"`)
	assert.Contains(t, rec.Body.String(), `"user_followed":"`+b+`"`)
}

func TestSetupRoutes_Guarded(t *testing.T) {
	const secret = "router-secret"
	e := newServer(middleware.JWTAuthMiddleware(secret))
	a, b := primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()

	claims := &models.JwtCustomClaims{
		UserID:           a,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	// reads stay open
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/api/users/"+a+"/following", "").Code)

	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodPost, "/api/users/"+a+"/follows/"+b, "").Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodPost, "/api/users/"+a+"/follows/"+b, token).Code)
	assert.Equal(t, http.StatusForbidden, serve(e, http.MethodPost, "/api/users/"+b+"/follows/"+a, token).Code)

	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodDelete, "/api/users/"+a+"/likes/"+b, "").Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodDelete, "/api/users/"+a+"/likes/"+b, token).Code)
	assert.Equal(t, http.StatusForbidden, serve(e, http.MethodPost, "/api/users/"+b+"/likes/"+a, token).Code)
}
