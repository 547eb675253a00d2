package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// LikeCountCache caches per-tuit like counts.
//
// Get reports the cache generation of tid alongside the count. A miss is
// filled with Set using that generation; Set stores nothing when an
// Invalidate has bumped the generation since, so a count read before a
// like or unlike never outlives it.
type LikeCountCache interface {
	Get(ctx context.Context, tid string) (count int64, gen int64, ok bool, err error)
	Set(ctx context.Context, tid string, count int64, gen int64) error
	Invalidate(ctx context.Context, tid string) error
}

// generation keys outlive any count they guard
const likeGenTTL = 24 * time.Hour

// RedisLikeCountCache implements LikeCountCache on Redis
type RedisLikeCountCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisLikeCountCache creates a new RedisLikeCountCache
func NewRedisLikeCountCache(rdb *redis.Client, ttl time.Duration) *RedisLikeCountCache {
	return &RedisLikeCountCache{rdb: rdb, ttl: ttl}
}

// Both keys share a hash tag so the scripts below stay in one cluster slot.
func likeCountKey(tid string) string { return fmt.Sprintf("tuiter:likes:{%s}:count", tid) }
func likeGenKey(tid string) string   { return fmt.Sprintf("tuiter:likes:{%s}:gen", tid) }

// KEYS[1] count, KEYS[2] gen; ARGV[1] count, ARGV[2] expected gen, ARGV[3] ttl ms
var setIfCurrentScript = redis.NewScript(`
local gen = tonumber(redis.call('GET', KEYS[2]) or '0')
if gen ~= tonumber(ARGV[2]) then
  return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

func (c *RedisLikeCountCache) Get(ctx context.Context, tid string) (int64, int64, bool, error) {
	vals, err := c.rdb.MGet(ctx, likeCountKey(tid), likeGenKey(tid)).Result()
	if err != nil {
		return 0, 0, false, err
	}
	gen, err := parseCounter(vals[1])
	if err != nil {
		return 0, 0, false, fmt.Errorf("like count generation: %w", err)
	}
	if vals[0] == nil {
		return 0, gen, false, nil
	}
	count, err := parseCounter(vals[0])
	if err != nil {
		return 0, gen, false, fmt.Errorf("like count: %w", err)
	}
	return count, gen, true, nil
}

func (c *RedisLikeCountCache) Set(ctx context.Context, tid string, count int64, gen int64) error {
	err := setIfCurrentScript.Run(ctx, c.rdb,
		[]string{likeCountKey(tid), likeGenKey(tid)},
		count, gen, c.ttl.Milliseconds(),
	).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func (c *RedisLikeCountCache) Invalidate(ctx context.Context, tid string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, likeGenKey(tid))
		pipe.Expire(ctx, likeGenKey(tid), likeGenTTL)
		pipe.Del(ctx, likeCountKey(tid))
		return nil
	})
	return err
}

func parseCounter(v interface{}) (int64, error) {
	switch s := v.(type) {
	case nil:
		return 0, nil
	case string:
		return strconv.ParseInt(s, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected value %T", v)
	}
}

// NopLikeCountCache never holds a value; used when Redis is not configured
type NopLikeCountCache struct{}

func (NopLikeCountCache) Get(context.Context, string) (int64, int64, bool, error) {
	return 0, 0, false, nil
}
func (NopLikeCountCache) Set(context.Context, string, int64, int64) error { return nil }
func (NopLikeCountCache) Invalidate(context.Context, string) error        { return nil }
