// Package lock implements the distributed mutex the immediate path (C5)
// uses to guard a batch of seats before it ever touches a database row
// lock: SET key owner NX EX ttl to acquire, a Lua compare-and-delete to
// release, a Lua compare-and-(re)expire to extend.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotOwner is returned by Release/Extend when the caller's token no
// longer matches the key — the lease expired and was claimed by someone
// else. The caller must treat its critical section as potentially
// divergent and rely on the idempotent primitive underneath it.
var ErrNotOwner = errors.New("lock: not owner")

// ErrAcquireFailed is returned by Acquire once its retry budget is spent.
var ErrAcquireFailed = errors.New("lock: acquire failed")

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

var extendScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
else
	return 0
end
`)

// Options configures acquisition behavior. Zero values fall back to the
// package defaults (30s TTL, 100ms retry delay, 50 retries).
type Options struct {
	TTL        time.Duration
	RetryDelay time.Duration
	MaxRetries int
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = 30 * time.Second
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 100 * time.Millisecond
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 50
	}
	return o
}

// Lock is a single named lease, owner-tagged with a freshly generated
// token so release/extend can never affect a lease someone else now
// holds.
type Lock struct {
	rdb   *redis.Client
	key   string
	token string
	ttl   time.Duration
}

// Acquire claims "lock:<key>" for the caller. With blocking=false it tries
// once. With blocking=true it retries every RetryDelay up to MaxRetries
// times, giving a bounded worst-case latency of MaxRetries*RetryDelay.
func Acquire(ctx context.Context, rdb *redis.Client, key string, blocking bool, opts Options) (*Lock, error) {
	opts = opts.withDefaults()
	token := uuid.NewString()
	redisKey := "lock:" + key

	attempts := 1
	if blocking {
		attempts = opts.MaxRetries + 1
	}

	for i := 0; i < attempts; i++ {
		ok, err := rdb.SetNX(ctx, redisKey, token, opts.TTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return &Lock{rdb: rdb, key: redisKey, token: token, ttl: opts.TTL}, nil
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(opts.RetryDelay):
			}
		}
	}
	return nil, ErrAcquireFailed
}

// Release performs the compare-and-delete. An unconditional DEL is
// forbidden here: a lease that outlived its TTL may now belong to a
// different owner, and deleting it unconditionally would release their
// lock instead of ours.
func (l *Lock) Release(ctx context.Context) error {
	res, err := releaseScript.Run(ctx, l.rdb, []string{l.key}, l.token).Int64()
	if err != nil {
		return err
	}
	if res == 0 {
		return ErrNotOwner
	}
	return nil
}

// Extend performs the compare-and-(re)expire, bumping the lease out to
// ttl (or the lock's original TTL if ttl <= 0).
func (l *Lock) Extend(ctx context.Context, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = l.ttl
	}
	res, err := extendScript.Run(ctx, l.rdb, []string{l.key}, l.token, ttl.Milliseconds()).Int64()
	if err != nil {
		return err
	}
	if res == 0 {
		return ErrNotOwner
	}
	return nil
}
