package zoneengine

import (
	"sync"

	"github.com/lightningnetwork/lnd/queue"

	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"
)

// notificationQueueSize bounds each client's pending-notification backlog.
const notificationQueueSize = 50

// ClientSink is how the Client Registry delivers a ZoneNotificationEnvelope
// to one connected client. The gateway implements this over the client's
// websocket/stream channel; a closed/erroring sink signals lost liveness.
type ClientSink interface {
	Send(env *zonewire.ZoneNotificationEnvelope) error
	Closed() <-chan struct{}
}

// clientWriter pairs a ClientSink with its own outbound queue, so one slow
// client's send can't stall delivery to others — grounded on lnd's peer.go
// per-peer outgoingQueue and its queue.ConcurrentQueue-backed writeHandler.
type clientWriter struct {
	handle zonewire.ClientHandle
	sink   ClientSink
	queue  *queue.ConcurrentQueue
	quit   chan struct{}
}

// ClientRegistry tracks live per-client delivery queues for one zone and
// fans out notifications in connected-client insertion order, assigning
// strictly increasing, gapless per-client sequence numbers (spec.md section
// 4.4).
type ClientRegistry struct {
	mu      sync.Mutex
	writers map[zonewire.ClientHandle]*clientWriter
	zoneID  zonewire.ZoneID

	// Disconnected receives the handle of any client whose sink closes,
	// so the validator can persist a ClientQuit event for it.
	Disconnected chan zonewire.ClientHandle
}

// NewClientRegistry constructs an empty registry for zoneID.
func NewClientRegistry(zoneID zonewire.ZoneID) *ClientRegistry {
	return &ClientRegistry{
		writers:      make(map[zonewire.ClientHandle]*clientWriter),
		zoneID:       zoneID,
		Disconnected: make(chan zonewire.ClientHandle, 8),
	}
}

// Register starts a delivery queue for handle backed by sink, and begins
// watching it for lost liveness.
func (r *ClientRegistry) Register(handle zonewire.ClientHandle, sink ClientSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.writers[handle]; exists {
		return
	}

	w := &clientWriter{
		handle: handle,
		sink:   sink,
		queue:  queue.NewConcurrentQueue(notificationQueueSize),
		quit:   make(chan struct{}),
	}
	w.queue.Start()
	r.writers[handle] = w

	go r.drain(w)
	go r.watch(w)
}

// Unregister stops handle's delivery queue. Called on QuitZone or observed
// disconnect, after the corresponding event has been persisted.
func (r *ClientRegistry) Unregister(handle zonewire.ClientHandle) {
	r.mu.Lock()
	w, ok := r.writers[handle]
	if ok {
		delete(r.writers, handle)
	}
	r.mu.Unlock()

	if ok {
		close(w.quit)
		w.queue.Stop()
	}
}

func (r *ClientRegistry) drain(w *clientWriter) {
	for {
		select {
		case item, ok := <-w.queue.ChanOut():
			if !ok {
				return
			}
			env := item.(*zonewire.ZoneNotificationEnvelope)
			if err := w.sink.Send(env); err != nil {
				return
			}
		case <-w.quit:
			return
		}
	}
}

func (r *ClientRegistry) watch(w *clientWriter) {
	select {
	case <-w.sink.Closed():
		r.mu.Lock()
		_, stillRegistered := r.writers[w.handle]
		r.mu.Unlock()
		if stillRegistered {
			r.Disconnected <- w.handle
		}
	case <-w.quit:
	}
}

// Broadcast delivers notification to every connected client in state's
// join order except exclude (typically the command's own author), handing
// out strictly increasing per-client sequence numbers.
func (r *ClientRegistry) Broadcast(state *ZoneState, notification zonewire.Message, exclude zonewire.ClientHandle) {
	if notification == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, handle := range state.JoinOrder {
		if handle == exclude {
			continue
		}
		w, ok := r.writers[handle]
		if !ok {
			continue
		}

		seq := state.SequenceNumbers[handle]
		env := &zonewire.ZoneNotificationEnvelope{
			Origin:         handle,
			ZoneID:         r.zoneID,
			SequenceNumber: seq,
			Notification:   notification,
		}
		state.SequenceNumbers[handle] = seq + 1

		w.queue.ChanIn() <- env
	}
}

// StopAll tears down every registered client's delivery queue, used when
// the validator passivates.
func (r *ClientRegistry) StopAll() {
	r.mu.Lock()
	writers := make([]*clientWriter, 0, len(r.writers))
	for _, w := range r.writers {
		writers = append(writers, w)
	}
	r.writers = make(map[zonewire.ClientHandle]*clientWriter)
	r.mu.Unlock()

	for _, w := range writers {
		close(w.quit)
		w.queue.Stop()
	}
}
