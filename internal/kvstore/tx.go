package kvstore

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	dErrors "minimarket/pkg/domain-errors"
)

// ScopeTx serializes read-modify-write cycles on one storage scope.
// Implementations may wrap a distributed lock or, in-process, sharded mutexes.
type ScopeTx interface {
	RunInScope(ctx context.Context, scope string, fn func(store Store) error) error
}

// numScopeShards spreads scopes over sharded mutexes instead of one global lock.
const numScopeShards = 128

const defaultScopeTxTimeout = 5 * time.Second

// ShardedScopeTx locks per scope within this process only. Two instances
// behind a load balancer can still interleave writes on the same scope.
type ShardedScopeTx struct {
	shards  [numScopeShards]sync.Mutex
	store   Store
	timeout time.Duration
}

func NewShardedScopeTx(store Store, timeout time.Duration) *ShardedScopeTx {
	if timeout <= 0 {
		timeout = defaultScopeTxTimeout
	}
	return &ShardedScopeTx{store: store, timeout: timeout}
}

func (t *ShardedScopeTx) RunInScope(ctx context.Context, scope string, fn func(store Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	shard := shardFor(scope)
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	// the wait for the lock may have outlived the caller
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(Scoped(t.store, scope))
}

func shardFor(scope string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(scope))
	return h.Sum32() % numScopeShards
}
