package limiter

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisLimiter shares attempt counts across instances.
type RedisLimiter struct {
	cli    redis.Scripter
	limit  int
	period time.Duration
}

func NewRedisLimiter(cli redis.Scripter, limit int, period time.Duration) *RedisLimiter {
	return &RedisLimiter{cli: cli, limit: limit, period: period}
}

// NewRedisClient connects and pings.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// luaIncrWindow increments the counter and gives it a TTL in one step. A key
// left without a TTL gets one on its next increment.
var luaIncrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n`)

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := luaIncrWindow.Run(ctx, l.cli, []string{key}, l.period.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return count <= int64(l.limit), nil
}
