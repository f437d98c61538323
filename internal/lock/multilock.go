package lock

import (
	"context"
	"sort"

	"github.com/redis/go-redis/v9"
)

// MultiLock holds a set of Lock leases acquired together in sorted byte
// order — the sole deadlock-avoidance mechanism for multi-seat
// operations. Every caller that locks more than one key must go through
// here rather than acquiring keys individually.
type MultiLock struct {
	locks []*Lock
}

// AcquireMulti sorts keys and acquires one Lock per key in that order. On
// any partial failure it releases everything already acquired, in
// reverse order, before returning the error.
func AcquireMulti(ctx context.Context, rdb *redis.Client, keys []string, blocking bool, opts Options) (*MultiLock, error) {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	ml := &MultiLock{}
	for _, key := range sorted {
		l, err := Acquire(ctx, rdb, key, blocking, opts)
		if err != nil {
			ml.Release(ctx)
			return nil, err
		}
		ml.locks = append(ml.locks, l)
	}
	return ml, nil
}

// Release releases every held lock in reverse acquisition order. Errors
// releasing an individual lock (e.g. ErrNotOwner because its lease
// already expired) are not fatal to the unwind — release continues for
// the rest.
func (ml *MultiLock) Release(ctx context.Context) {
	for i := len(ml.locks) - 1; i >= 0; i-- {
		_ = ml.locks[i].Release(ctx)
	}
	ml.locks = nil
}
