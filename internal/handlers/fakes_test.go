package handlers

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/anonto42/tuiter/backend/internal/events"
	"github.com/anonto42/tuiter/backend/internal/middleware"
	"github.com/anonto42/tuiter/backend/internal/models"
	"github.com/anonto42/tuiter/backend/internal/repositories"
	"github.com/anonto42/tuiter/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryStore is an in-memory stand-in for the follow and like repositories
type memoryStore struct {
	mu      sync.Mutex
	users   map[primitive.ObjectID]*models.User
	tuits   map[primitive.ObjectID]*models.Tuit
	follows []models.Follow
	likes   []models.Like
	err     error
	counted int
	// afterCount runs once, after the next count is taken and before it is returned
	afterCount func()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users: map[primitive.ObjectID]*models.User{},
		tuits: map[primitive.ObjectID]*models.Tuit{},
	}
}

func (s *memoryStore) addUser(name string) *models.User {
	u := &models.User{ID: primitive.NewObjectID(), Username: name}
	s.users[u.ID] = u
	return u
}

func (s *memoryStore) addTuit(by *models.User, text string) *models.Tuit {
	t := &models.Tuit{ID: primitive.NewObjectID(), Tuit: text, PostedBy: by.ID}
	s.tuits[t.ID] = t
	return t
}

func oid(id string) (primitive.ObjectID, error) {
	o, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return o, repositories.ErrInvalidID
	}
	return o, nil
}

func (s *memoryStore) FindUsersFollowedByUser(_ context.Context, uid string) ([]models.Following, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	id, err := oid(uid)
	if err != nil {
		return nil, err
	}
	out := []models.Following{}
	for _, f := range s.follows {
		if f.UserFollowing == id {
			out = append(out, models.Following{ID: f.ID, UserFollowing: f.UserFollowing, UserFollowed: s.users[f.UserFollowed], CreatedAt: f.CreatedAt})
		}
	}
	return out, nil
}

func (s *memoryStore) FindUsersFollowingUser(_ context.Context, uid string) ([]models.Follower, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	id, err := oid(uid)
	if err != nil {
		return nil, err
	}
	out := []models.Follower{}
	for _, f := range s.follows {
		if f.UserFollowed == id {
			out = append(out, models.Follower{ID: f.ID, UserFollowing: s.users[f.UserFollowing], UserFollowed: f.UserFollowed, CreatedAt: f.CreatedAt})
		}
	}
	return out, nil
}

func (s *memoryStore) UserFollowsUser(_ context.Context, a, b string) (*models.Follow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	follower, _ := oid(a)
	followed, _ := oid(b)
	for _, f := range s.follows {
		if f.UserFollowing == follower && f.UserFollowed == followed {
			return nil, repositories.ErrDuplicate
		}
	}
	f := models.Follow{ID: primitive.NewObjectID(), UserFollowing: follower, UserFollowed: followed}
	s.follows = append(s.follows, f)
	return &f, nil
}

func (s *memoryStore) UserUnfollowsUser(_ context.Context, a, b string) (*models.DeleteStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	follower, _ := oid(a)
	followed, _ := oid(b)
	for i, f := range s.follows {
		if f.UserFollowing == follower && f.UserFollowed == followed {
			s.follows = append(s.follows[:i], s.follows[i+1:]...)
			return &models.DeleteStatus{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return &models.DeleteStatus{Acknowledged: true}, nil
}

func (s *memoryStore) IsFollowing(_ context.Context, a, b string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	follower, _ := oid(a)
	followed, _ := oid(b)
	for _, f := range s.follows {
		if f.UserFollowing == follower && f.UserFollowed == followed {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) FindAllUsersThatLikedTuit(_ context.Context, tid string) ([]models.Liker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	id, err := oid(tid)
	if err != nil {
		return nil, err
	}
	out := []models.Liker{}
	for _, l := range s.likes {
		if l.Tuit == id {
			out = append(out, models.Liker{ID: l.ID, Tuit: l.Tuit, LikedBy: s.users[l.LikedBy]})
		}
	}
	return out, nil
}

func (s *memoryStore) FindAllTuitsLikedByUser(_ context.Context, uid string) ([]models.LikedTuit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	id, err := oid(uid)
	if err != nil {
		return nil, err
	}
	out := []models.LikedTuit{}
	for _, l := range s.likes {
		if l.LikedBy == id {
			out = append(out, models.LikedTuit{ID: l.ID, Tuit: s.tuits[l.Tuit], LikedBy: l.LikedBy})
		}
	}
	return out, nil
}

func (s *memoryStore) UserLikesTuit(_ context.Context, uid, tid string) (*models.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	user, _ := oid(uid)
	tuit, _ := oid(tid)
	for _, l := range s.likes {
		if l.LikedBy == user && l.Tuit == tuit {
			return nil, repositories.ErrDuplicate
		}
	}
	l := models.Like{ID: primitive.NewObjectID(), Tuit: tuit, LikedBy: user}
	s.likes = append(s.likes, l)
	return &l, nil
}

func (s *memoryStore) UserUnlikesTuit(_ context.Context, uid, tid string) (*models.DeleteStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	user, _ := oid(uid)
	tuit, _ := oid(tid)
	for i, l := range s.likes {
		if l.LikedBy == user && l.Tuit == tuit {
			s.likes = append(s.likes[:i], s.likes[i+1:]...)
			return &models.DeleteStatus{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return &models.DeleteStatus{Acknowledged: true}, nil
}

func (s *memoryStore) CountHowManyLikedTuit(_ context.Context, tid string) (int64, error) {
	s.mu.Lock()
	if s.err != nil {
		s.mu.Unlock()
		return 0, s.err
	}
	s.counted++
	tuit, _ := oid(tid)
	var n int64
	for _, l := range s.likes {
		if l.Tuit == tuit {
			n++
		}
	}
	hook := s.afterCount
	s.afterCount = nil
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return n, nil
}

func (s *memoryStore) EnsureIndexes(context.Context) error { return nil }

type mapCache struct {
	counts      map[string]int64
	gens        map[string]int64
	invalidated []string
}

func newMapCache() *mapCache {
	return &mapCache{counts: map[string]int64{}, gens: map[string]int64{}}
}

func (c *mapCache) Get(_ context.Context, tid string) (int64, int64, bool, error) {
	n, ok := c.counts[tid]
	return n, c.gens[tid], ok, nil
}

func (c *mapCache) Set(_ context.Context, tid string, n int64, gen int64) error {
	if c.gens[tid] == gen {
		c.counts[tid] = n
	}
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, tid string) error {
	c.gens[tid]++
	delete(c.counts, tid)
	c.invalidated = append(c.invalidated, tid)
	return nil
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type testServer struct {
	e         *echo.Echo
	store     *memoryStore
	cache     *mapCache
	publisher *recordingPublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		e:         echo.New(),
		store:     newMemoryStore(),
		cache:     newMapCache(),
		publisher: &recordingPublisher{},
	}
	ts.e.Validator = validators.NewValidator()
	api := ts.e.Group("/api")
	NewFollowHandler(ts.store, ts.publisher).RegisterFollowRoutes(api, middleware.NoGuard)
	NewLikeHandler(ts.store, ts.cache, ts.publisher).RegisterLikeRoutes(api, middleware.NoGuard)
	return ts
}

func (ts *testServer) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}
