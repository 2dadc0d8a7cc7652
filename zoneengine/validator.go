package zoneengine

import (
	"fmt"
	"time"

	"github.com/lightningnetwork/lnd/clock"

	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonedb"
	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"
)

// Journal is the durable boundary a Validator persists through and replays
// from. zonedb.DB satisfies it directly; tests may substitute a fake.
type Journal interface {
	Append(zoneID zonewire.ZoneID, ev *zonewire.ZoneEventEnvelope) (uint64, error)
	Replay(zoneID zonewire.ZoneID, fn func(seq uint64, ev *zonewire.ZoneEventEnvelope) error) error
	ReplayFrom(zoneID zonewire.ZoneID, afterSeq uint64, fn func(seq uint64, ev *zonewire.ZoneEventEnvelope) error) error
	SaveSnapshot(zoneID zonewire.ZoneID, snap *zonedb.Snapshot) error
	LoadSnapshot(zoneID zonewire.ZoneID) (*zonedb.Snapshot, error)
}

// inboxRequest is one command envelope sitting in the validator's mailbox,
// paired with the channel its dispatch result is delivered back on —
// mirroring lnd peer.go's queryHandler pattern of a request/reply channel
// riding alongside the payload on a single inbox channel, rather than a
// pool of worker goroutines racing over shared state.
type inboxRequest struct {
	envelope *zonewire.ZoneCommandEnvelope
	replyCh  chan<- *zonewire.ZoneResponseEnvelope
}

// Validator is one zone's single-writer actor: every command for its zone
// is processed strictly sequentially off one inbox channel (spec.md section
// 5). Nothing outside this goroutine ever touches its ZoneState.
type Validator struct {
	zoneID zonewire.ZoneID
	state  *ZoneState

	journal  Journal
	registry *ClientRegistry
	timer    *PassivationTimer
	status   *StatusPublisher
	clock    clock.Clock

	inbox chan inboxRequest
	quit  chan struct{}

	lastSeq uint64
	haveSeq bool

	// eventsSinceSnapshot counts persisted events since the last snapshot
	// write, compared against zonewire.SnapshotEventInterval.
	eventsSinceSnapshot uint64
}

// NewValidator constructs a validator for zoneID. It does not start the
// mailbox loop or replay the journal — call Run for that, typically in its
// own goroutine, once a shard lease has been acquired.
func NewValidator(zoneID zonewire.ZoneID, journal Journal, status *StatusPublisher) *Validator {
	return &Validator{
		zoneID:   zoneID,
		state:    NewZoneState(),
		journal:  journal,
		registry: NewClientRegistry(zoneID),
		timer:    NewPassivationTimer(),
		status:   status,
		clock:    clock.NewDefaultClock(),
		inbox:    make(chan inboxRequest, 64),
		quit:     make(chan struct{}),
	}
}

// Submit enqueues env and returns the channel its response is delivered on.
// If the validator has already stopped, the returned channel is closed
// without a response.
func (v *Validator) Submit(env *zonewire.ZoneCommandEnvelope) <-chan *zonewire.ZoneResponseEnvelope {
	replyCh := make(chan *zonewire.ZoneResponseEnvelope, 1)
	select {
	case v.inbox <- inboxRequest{envelope: env, replyCh: replyCh}:
	case <-v.quit:
		close(replyCh)
	}
	return replyCh
}

// RegisterClient wires a connected client's delivery sink into the
// validator's Client Registry. The gateway calls this once it has routed a
// JoinZoneCommand to this validator and received its response.
func (v *Validator) RegisterClient(handle zonewire.ClientHandle, sink ClientSink) {
	v.registry.Register(handle, sink)
}

// Stop tells a running validator to shut down: its Run loop exits after
// finishing any in-flight dispatch, releasing the registry and passivation
// timer the same way the idle-timeout path does. The caller (server.go's
// watchLease) calls this when the shard lease backing this validator is
// lost, so at most one live validator instance ever exists per zone. Safe
// to call more than once.
func (v *Validator) Stop() {
	select {
	case <-v.quit:
	default:
		close(v.quit)
	}
}

// Run replays the journal to rebuild state, then processes the mailbox
// until Timeout fires or Stop is requested. It is meant to be called once,
// from a dedicated goroutine, for the validator's entire lifetime.
func (v *Validator) Run() {
	if err := v.replay(); err != nil && err != zonedb.ErrJournalNotFound {
		log.Errorf("zone %s: replay failed: %v", v.zoneID, err)
		return
	}

	statusTicker := time.NewTicker(v.status.Interval())
	defer statusTicker.Stop()

	for {
		select {
		case req := <-v.inbox:
			if !v.dispatch(req) {
				// Persistence failed: state here can no longer be
				// trusted to match the journal. Stop outright and let
				// the next instance rebuild from what was durably
				// written (spec.md section 7, persistence failures).
				v.shutdown()
				return
			}
			v.timer.CommandReceived()

		case handle := <-v.registry.Disconnected:
			if !v.handleDisconnect(handle) {
				v.shutdown()
				return
			}

		case <-statusTicker.C:
			v.publishStatus()

		case <-v.timer.Timeout:
			log.Debugf("zone %s: passivating after idle timeout", v.zoneID)
			v.shutdown()
			return

		case <-v.quit:
			// Stop was called externally: the shard lease backing this
			// validator was lost, possibly to another node already
			// running a replacement.
			log.Debugf("zone %s: stopping, lease released", v.zoneID)
			v.shutdown()
			return
		}
	}
}

// shutdown releases the registry and passivation timer and marks the
// validator's quit channel closed. Only ever called from the Run goroutine,
// each call site returning immediately after, so it never races itself.
func (v *Validator) shutdown() {
	v.registry.StopAll()
	v.timer.Close()
	select {
	case <-v.quit:
	default:
		close(v.quit)
	}
}

// replay rebuilds state from the journal. When a snapshot exists, it seeds
// state from it and replays only the events persisted afterwards, rather
// than refolding the zone's entire history (spec.md section 6's replay-time
// optimization). Correctness never depends on the snapshot being present or
// current: ReplayFrom always resumes exactly at the snapshot's recorded
// sequence, and if no snapshot exists this falls back to a full Replay from
// sequence zero.
func (v *Validator) replay() error {
	snap, err := v.journal.LoadSnapshot(v.zoneID)
	if err != nil && err != zonedb.ErrNoSnapshot {
		return err
	}

	fold := func(seq uint64, ev *zonewire.ZoneEventEnvelope) error {
		Apply(v.state, ev)
		v.lastSeq = seq
		v.haveSeq = true
		return nil
	}

	if snap == nil {
		return v.journal.Replay(v.zoneID, fold)
	}

	zone := snap.Zone
	v.state.Zone = &zone
	v.state.Balances = snap.Balances
	v.lastSeq = snap.LastSequence
	v.haveSeq = true

	err = v.journal.ReplayFrom(v.zoneID, snap.LastSequence, fold)
	if err == zonedb.ErrJournalNotFound {
		// A snapshot with no journal bucket yet would be a corrupt
		// state; the journal is always created before the first
		// snapshot can be taken, so this can only mean an empty zone.
		return nil
	}
	return err
}

// maybeSnapshot saves a snapshot of the current state once
// zonewire.SnapshotEventInterval events have been persisted since the last
// one. Failures are logged, not fatal: a stale or missing snapshot never
// compromises correctness, only replay speed (spec.md section 6).
func (v *Validator) maybeSnapshot() {
	v.eventsSinceSnapshot++
	if v.eventsSinceSnapshot < zonewire.SnapshotEventInterval {
		return
	}
	v.eventsSinceSnapshot = 0

	if v.state.Zone == nil {
		return
	}

	balances := make(map[zonewire.AccountID]zonewire.Decimal, len(v.state.Balances))
	for id, bal := range v.state.Balances {
		balances[id] = bal
	}

	snap := &zonedb.Snapshot{
		Zone:         *v.state.Zone,
		Balances:     balances,
		LastSequence: v.lastSeq,
	}
	if err := v.journal.SaveSnapshot(v.zoneID, snap); err != nil {
		log.Warnf("zone %s: snapshot save failed: %v", v.zoneID, err)
	}
}

// dispatch processes one command end to end. It returns false if persisting
// the resulting event failed, which the caller (Run) treats as fatal for
// the whole validator (spec.md section 7, persistence failures).
func (v *Validator) dispatch(req inboxRequest) bool {
	env := req.envelope

	kind := env.Command.MsgType().String()

	effects, errs := Handle(v.state, env, v.clock.Now().UnixMilli())
	if !errs.Ok() {
		CommandsTotal.WithLabelValues(kind, "rejected").Inc()
		req.replyCh <- &zonewire.ZoneResponseEnvelope{
			CorrelationID: env.CorrelationID,
			Response:      &zonewire.ErrorResponse{Errors: errs},
		}
		close(req.replyCh)
		return true
	}
	CommandsTotal.WithLabelValues(kind, "accepted").Inc()

	if effects.Event != nil {
		eventEnv := &zonewire.ZoneEventEnvelope{
			RemoteAddress: env.RemoteAddress,
			PublicKey:     env.PublicKey,
			Timestamp:     v.clock.Now().UnixMilli(),
			ZoneEvent:     effects.Event,
		}

		seq, err := v.journal.Append(v.zoneID, eventEnv)
		if err != nil {
			// Surfaced as a transport error: closing the reply channel
			// with no response is exactly what Submit's quit case
			// already does when the validator isn't running at all.
			log.Errorf("zone %s: persistence failed, stopping validator: %v", v.zoneID, err)
			close(req.replyCh)
			return false
		}
		v.lastSeq, v.haveSeq = seq, true
		EventsPersistedTotal.Inc()

		Apply(v.state, eventEnv)
		v.maybeSnapshot()
		v.adjustPassivation(effects.Event)
	}

	// Response before notification, in this same turn, per spec.md
	// section 5's ordering guarantee 3.
	req.replyCh <- &zonewire.ZoneResponseEnvelope{
		CorrelationID: env.CorrelationID,
		Response:      effects.Response,
	}
	close(req.replyCh)

	v.registry.Broadcast(v.state, effects.Notification, effects.ExcludeFromNotification)
	return true
}

func (v *Validator) adjustPassivation(event zonewire.Message) {
	switch event.(type) {
	case *zonewire.ClientJoinedEvent:
		if len(v.state.ConnectedClients) == 1 {
			v.timer.Stop()
		}
	case *zonewire.ClientQuitEvent:
		if len(v.state.ConnectedClients) == 0 {
			v.timer.Start()
		}
	}
}

// handleDisconnect persists a synthetic ClientQuit for a client whose sink
// closed without an explicit QuitZoneCommand. It returns false if persisting
// that event failed, which the caller (Run) treats as fatal for the whole
// validator, the same as a dispatch persistence failure.
func (v *Validator) handleDisconnect(handle zonewire.ClientHandle) bool {
	pub, present := v.state.ConnectedClients[handle]
	if !present {
		return true
	}

	eventEnv := &zonewire.ZoneEventEnvelope{
		PublicKey: pub,
		Timestamp: v.clock.Now().UnixMilli(),
		ZoneEvent: &zonewire.ClientQuitEvent{Handle: handle},
	}

	seq, err := v.journal.Append(v.zoneID, eventEnv)
	if err != nil {
		log.Errorf("zone %s: persisting disconnect quit failed, stopping validator: %v", v.zoneID, err)
		return false
	}
	v.lastSeq, v.haveSeq = seq, true
	EventsPersistedTotal.Inc()

	Apply(v.state, eventEnv)
	v.maybeSnapshot()
	v.adjustPassivation(eventEnv.ZoneEvent)
	v.registry.Unregister(handle)

	v.registry.Broadcast(v.state, &zonewire.ClientQuitNotification{
		ClientIdentity: string(handle),
		PublicKey:      pub,
	}, handle)
	return true
}

// publishStatus hands the current summary to the StatusPublisher's async
// publish and returns immediately; it never waits on the NATS Streaming
// round-trip, so it cannot stall the mailbox loop that called it.
func (v *Validator) publishStatus() {
	summary := Summarize(v.zoneID, v.state, v.clock.Now().UnixMilli())
	if summary == nil {
		return
	}
	zoneID := v.zoneID
	if err := v.status.Publish(summary, func(err error) {
		if err != nil {
			log.Warnf("zone %s: status publish failed: %v", zoneID, err)
		}
	}); err != nil {
		log.Warnf("zone %s: status publish failed: %v", zoneID, err)
	}
}

// String implements fmt.Stringer for log messages.
func (v *Validator) String() string {
	return fmt.Sprintf("validator(zone=%s)", v.zoneID)
}
