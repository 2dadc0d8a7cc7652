package liquidity

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nats-io/stan.go"
	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonedb"
	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zoneengine"
	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"
)

// Server is the process-wide host for every zone validator this node
// currently owns. It is the sole gateway-facing boundary (spec.md section
// 2's "out of scope" HTTP/websocket gateway talks only to Submit/Subscribe)
// and owns the shard lease lifecycle, mirroring the way the teacher's
// server.go supervises its subsystems from one struct.
type Server struct {
	cfg    *Config
	db     *zonedb.DB
	etcd   *clientv3.Client
	stan   stan.Conn
	health *HealthServer

	mu         sync.Mutex
	validators map[zonewire.ZoneID]*zoneengine.Validator
	leases     map[zonewire.ZoneID]*zoneengine.ShardLease
}

// NewServer wires together the journal, etcd client, and NATS Streaming
// connection into a running gateway-facing boundary. Callers own closing
// the etcd/stan connections after Stop.
func NewServer(cfg *Config, db *zonedb.DB, etcd *clientv3.Client, nats stan.Conn, health *HealthServer) *Server {
	return &Server{
		cfg:        cfg,
		db:         db,
		etcd:       etcd,
		stan:       nats,
		health:     health,
		validators: make(map[zonewire.ZoneID]*zoneengine.Validator),
		leases:     make(map[zonewire.ZoneID]*zoneengine.ShardLease),
	}
}

// Submit routes env to its zone's validator, acquiring the shard lease and
// lazily starting the validator if this node doesn't already own it. This
// is the single entry point the out-of-scope gateway calls after
// authenticating the caller and resolving their PublicKey.
func (s *Server) Submit(ctx context.Context, env *zonewire.ZoneCommandEnvelope) (*zonewire.ZoneResponseEnvelope, error) {
	if env.CorrelationID == "" {
		env.CorrelationID = uuid.NewString()
	}

	v, err := s.validatorFor(ctx, env.ZoneID)
	if err != nil {
		return nil, err
	}

	resp, ok := <-v.Submit(env)
	if !ok {
		return nil, fmt.Errorf("liquidity: validator for zone %s stopped before responding", env.ZoneID)
	}
	return resp, nil
}

// Subscribe registers a connected client's delivery sink against its zone's
// validator. Called by the gateway once it has routed the client's
// JoinZoneCommand through Submit.
func (s *Server) Subscribe(ctx context.Context, zoneID zonewire.ZoneID, handle zonewire.ClientHandle, sink zoneengine.ClientSink) error {
	v, err := s.validatorFor(ctx, zoneID)
	if err != nil {
		return err
	}
	v.RegisterClient(handle, sink)
	return nil
}

func (s *Server) validatorFor(ctx context.Context, zoneID zonewire.ZoneID) (*zoneengine.Validator, error) {
	s.mu.Lock()
	if v, ok := s.validators[zoneID]; ok {
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	lease, err := zoneengine.AcquireShardLease(ctx, s.etcd, zoneID)
	if err != nil {
		return nil, fmt.Errorf("liquidity: unable to acquire shard lease for zone %s: %w", zoneID, err)
	}

	status := zoneengine.NewStatusPublisher(s.stan)
	v := zoneengine.NewValidator(zoneID, s.db, status)

	s.mu.Lock()
	if existing, ok := s.validators[zoneID]; ok {
		s.mu.Unlock()
		lease.Release(ctx)
		return existing, nil
	}
	s.validators[zoneID] = v
	s.leases[zoneID] = lease
	zoneengine.ActiveZones.Inc()
	s.mu.Unlock()

	go v.Run()
	go s.watchLease(zoneID, v, lease)

	return v, nil
}

// watchLease removes the validator's bookkeeping entry and stops it if its
// shard lease is ever lost out from under it (spec.md section 5's shard
// rebalancing). Stopping the validator is what guarantees at most one live
// validator instance per zone across the cluster: another node may already
// have acquired the lease and started its own validator for this zone by
// the time this one notices.
func (s *Server) watchLease(zoneID zonewire.ZoneID, v *zoneengine.Validator, lease *zoneengine.ShardLease) {
	<-lease.Lost()

	s.mu.Lock()
	delete(s.validators, zoneID)
	delete(s.leases, zoneID)
	zoneengine.ActiveZones.Dec()
	s.mu.Unlock()

	v.Stop()
}

// Stop releases every shard lease this node currently holds.
func (s *Server) Stop(ctx context.Context) {
	s.mu.Lock()
	leases := make([]*zoneengine.ShardLease, 0, len(s.leases))
	for _, l := range s.leases {
		leases = append(leases, l)
	}
	s.mu.Unlock()

	for _, l := range leases {
		l.Release(ctx)
	}
}
