package zoneengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"
)

type fakeSink struct {
	received chan *zonewire.ZoneNotificationEnvelope
	closed   chan struct{}
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		received: make(chan *zonewire.ZoneNotificationEnvelope, 16),
		closed:   make(chan struct{}),
	}
}

func (f *fakeSink) Send(env *zonewire.ZoneNotificationEnvelope) error {
	f.received <- env
	return nil
}

func (f *fakeSink) Closed() <-chan struct{} { return f.closed }

func TestClientRegistryBroadcastAssignsGaplessSequenceNumbers(t *testing.T) {
	registry := NewClientRegistry("zone-1")
	state := NewZoneState()
	state.Zone = zonewire.NewZone("zone-1", "0", 0, nil, nil)
	state.addClient("a", nil)

	sink := newFakeSink()
	registry.Register("a", sink)
	defer registry.StopAll()

	for i := 0; i < 3; i++ {
		registry.Broadcast(state, &zonewire.ClientJoinedNotification{ClientIdentity: "a"}, "")
	}

	for want := uint64(0); want < 3; want++ {
		select {
		case env := <-sink.received:
			require.Equal(t, want, env.SequenceNumber)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for notification %d", want)
		}
	}
}

func TestClientRegistryBroadcastExcludesAuthor(t *testing.T) {
	registry := NewClientRegistry("zone-1")
	state := NewZoneState()
	state.Zone = zonewire.NewZone("zone-1", "0", 0, nil, nil)
	state.addClient("a", nil)
	state.addClient("b", nil)

	sinkA, sinkB := newFakeSink(), newFakeSink()
	registry.Register("a", sinkA)
	registry.Register("b", sinkB)
	defer registry.StopAll()

	registry.Broadcast(state, &zonewire.ClientJoinedNotification{ClientIdentity: "b"}, "a")

	select {
	case <-sinkB.received:
	case <-time.After(time.Second):
		t.Fatal("expected b to receive the notification")
	}
	select {
	case env := <-sinkA.received:
		t.Fatalf("did not expect excluded client a to receive a notification, got %+v", env)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestClientRegistryWatchReportsDisconnect(t *testing.T) {
	registry := NewClientRegistry("zone-1")
	sink := newFakeSink()
	registry.Register("a", sink)
	defer registry.StopAll()

	close(sink.closed)

	select {
	case handle := <-registry.Disconnected:
		require.Equal(t, zonewire.ClientHandle("a"), handle)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for disconnect notice")
	}
}

func TestClientRegistryUnregisterStopsDelivery(t *testing.T) {
	registry := NewClientRegistry("zone-1")
	state := NewZoneState()
	state.Zone = zonewire.NewZone("zone-1", "0", 0, nil, nil)
	state.addClient("a", nil)

	sink := newFakeSink()
	registry.Register("a", sink)
	registry.Unregister("a")

	registry.Broadcast(state, &zonewire.ClientJoinedNotification{ClientIdentity: "a"}, "")

	select {
	case env := <-sink.received:
		t.Fatalf("did not expect delivery after unregister, got %+v", env)
	case <-time.After(50 * time.Millisecond):
	}
}
