package zoneengine

import (
	"context"
	"hash/fnv"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/concurrency"

	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"
)

// ShardFor returns the shard id for zoneID: hash(zone_id) mod
// MaxNumberOfShards, per spec.md section 9's design note. FNV-1a is used
// directly from the standard library: no pack library offers a consistent
// hash primitive better suited to "hash a string to a bounded integer" than
// hash/fnv, so there is nothing to prefer it over.
func ShardFor(zoneID zonewire.ZoneID) int {
	h := fnv.New32a()
	h.Write([]byte(zoneID))
	return int(h.Sum32() % zonewire.MaxNumberOfShards)
}

// ShardLease guarantees at most one live validator instance per zone across
// the cluster, using an etcd session-scoped mutex keyed by zone id.
// This is the Sharding Router's ownership primitive from spec.md section 2;
// routing envelopes to the owning node is the router's concern and lives
// outside this package. Grounded on the teacher's etcd client dependency
// (used for clustered kvdb backends in the real lnd).
type ShardLease struct {
	session *concurrency.Session
	mutex   *concurrency.Mutex
}

// AcquireShardLease blocks until this process holds exclusive ownership of
// zoneID, or ctx is cancelled. The lease is per zone; it is not keyed by the
// ShardFor shard.
func AcquireShardLease(ctx context.Context, client *clientv3.Client, zoneID zonewire.ZoneID) (*ShardLease, error) {
	session, err := concurrency.NewSession(client)
	if err != nil {
		return nil, err
	}

	key := "/liquidity/zones/" + string(zoneID)
	mutex := concurrency.NewMutex(session, key)
	if err := mutex.Lock(ctx); err != nil {
		session.Close()
		return nil, err
	}

	return &ShardLease{session: session, mutex: mutex}, nil
}

// Release gives up ownership, allowing a replacement validator to acquire
// the lease and replay the journal (spec.md section 5's "shard
// rebalancing").
func (l *ShardLease) Release(ctx context.Context) error {
	if err := l.mutex.Unlock(ctx); err != nil {
		l.session.Close()
		return err
	}
	return l.session.Close()
}

// Lost reports a channel that closes if the underlying etcd session expires
// (e.g. this node lost connectivity), signalling the validator must stop
// immediately — another node may already be assuming ownership.
func (l *ShardLease) Lost() <-chan struct{} {
	return l.session.Done()
}
