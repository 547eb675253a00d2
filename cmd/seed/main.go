package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/anonto42/tuiter/backend/internal/models"
	"github.com/anonto42/tuiter/backend/internal/repositories"
	"github.com/anonto42/tuiter/backend/pkg/config"
	"github.com/brianvoe/gofakeit/v6"
)

func main() {
	numUsers := flag.Int("users", 50, "number of users to create")
	numTuits := flag.Int("tuits", 200, "number of tuits to create")
	numFollows := flag.Int("follows", 300, "number of follow edges to attempt")
	numLikes := flag.Int("likes", 600, "number of like edges to attempt")
	seed := flag.Int64("seed", 0, "random seed, 0 for a random one")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	mongoDB := db.Mongo.Database(cfg.MongoDatabase)
	s := &seeder{
		faker:   gofakeit.New(*seed),
		users:   repositories.NewMongoUserRepository(mongoDB),
		tuits:   repositories.NewMongoTuitRepository(mongoDB),
		follows: repositories.NewMongoFollowRepository(mongoDB),
		likes:   repositories.NewMongoLikeRepository(mongoDB),
	}
	if err := s.follows.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create follows indexes: %v", err)
	}
	if err := s.likes.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create likes indexes: %v", err)
	}

	stats, err := s.run(ctx, *numUsers, *numTuits, *numFollows, *numLikes)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d users, %d tuits, %d follows, %d likes (%d duplicate edges skipped)",
		stats.users, stats.tuits, stats.follows, stats.likes, stats.skipped)
}

type seeder struct {
	faker   *gofakeit.Faker
	users   repositories.UserRepository
	tuits   repositories.TuitRepository
	follows repositories.FollowRepository
	likes   repositories.LikeRepository
}

type seedStats struct {
	users, tuits, follows, likes, skipped int
}

func (s *seeder) run(ctx context.Context, numUsers, numTuits, numFollows, numLikes int) (seedStats, error) {
	var stats seedStats
	if numUsers < 2 {
		return stats, errors.New("at least two users are required")
	}

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		u := &models.User{
			Username:  s.faker.Username(),
			FirstName: s.faker.FirstName(),
			LastName:  s.faker.LastName(),
			Email:     s.faker.Email(),
			Bio:       s.faker.Sentence(8),
			JoinedAt:  s.faker.DateRange(time.Now().AddDate(-3, 0, 0), time.Now()).UTC(),
		}
		if err := s.users.CreateUser(ctx, u); err != nil {
			return stats, err
		}
		users = append(users, u)
	}
	stats.users = len(users)

	tuits := make([]*models.Tuit, 0, numTuits)
	for i := 0; i < numTuits; i++ {
		author := users[s.faker.Number(0, len(users)-1)]
		t := &models.Tuit{
			Tuit:     s.faker.Sentence(s.faker.Number(3, 20)),
			PostedBy: author.ID,
			PostedOn: s.faker.DateRange(author.JoinedAt, time.Now()).UTC(),
		}
		if err := s.tuits.CreateTuit(ctx, t); err != nil {
			return stats, err
		}
		tuits = append(tuits, t)
	}
	stats.tuits = len(tuits)

	for i := 0; i < numFollows; i++ {
		a := users[s.faker.Number(0, len(users)-1)]
		b := users[s.faker.Number(0, len(users)-1)]
		if a.ID == b.ID {
			continue
		}
		_, err := s.follows.UserFollowsUser(ctx, a.ID.Hex(), b.ID.Hex())
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			stats.skipped++
		case err != nil:
			return stats, err
		default:
			stats.follows++
		}
	}

	if len(tuits) == 0 {
		return stats, nil
	}
	for i := 0; i < numLikes; i++ {
		u := users[s.faker.Number(0, len(users)-1)]
		t := tuits[s.faker.Number(0, len(tuits)-1)]
		_, err := s.likes.UserLikesTuit(ctx, u.ID.Hex(), t.ID.Hex())
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			stats.skipped++
		case err != nil:
			return stats, err
		default:
			stats.likes++
		}
	}
	return stats, nil
}
