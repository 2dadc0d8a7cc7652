package zoneengine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"
)

func TestApplyZoneCreatedInitialisesZeroBalance(t *testing.T) {
	state := NewZoneState()
	key := genTestKey(t, 2048)
	zone := zonewire.NewZone("zone-1", "0", 1000, nil, nil)
	zone.Members["0"] = &zonewire.Member{ID: "0", OwnerPublicKeys: []zonewire.PublicKey{key}}
	zone.Accounts["0"] = &zonewire.Account{ID: "0", OwnerMemberIDs: []zonewire.MemberID{"0"}}

	Apply(state, &zonewire.ZoneEventEnvelope{ZoneEvent: &zonewire.ZoneCreatedEvent{Zone: *zone}})

	require.Equal(t, 0, state.Balances["0"].Cmp(zonewire.Zero()))
}

func TestApplyClientJoinedThenQuitMaintainsJoinOrder(t *testing.T) {
	state := NewZoneState()
	state.Zone = zonewire.NewZone("zone-1", "0", 0, nil, nil)
	key := genTestKey(t, 2048)

	Apply(state, &zonewire.ZoneEventEnvelope{PublicKey: key, ZoneEvent: &zonewire.ClientJoinedEvent{Handle: "a"}})
	Apply(state, &zonewire.ZoneEventEnvelope{PublicKey: key, ZoneEvent: &zonewire.ClientJoinedEvent{Handle: "b"}})
	Apply(state, &zonewire.ZoneEventEnvelope{PublicKey: key, ZoneEvent: &zonewire.ClientJoinedEvent{Handle: "c"}})
	require.Equal(t, []zonewire.ClientHandle{"a", "b", "c"}, state.JoinOrder)

	Apply(state, &zonewire.ZoneEventEnvelope{ZoneEvent: &zonewire.ClientQuitEvent{Handle: "b"}})
	require.Equal(t, []zonewire.ClientHandle{"a", "c"}, state.JoinOrder)
	require.NotContains(t, state.ConnectedClients, zonewire.ClientHandle("b"))
}

func TestApplyTransactionAddedMovesBalance(t *testing.T) {
	state := NewZoneState()
	state.Zone = zonewire.NewZone("zone-1", "0", 0, nil, nil)
	state.Balances["0"] = zonewire.Zero()
	state.Balances["1"] = zonewire.Zero()

	value := zonewire.NewDecimalFromInt64(100)
	Apply(state, &zonewire.ZoneEventEnvelope{ZoneEvent: &zonewire.TransactionAddedEvent{
		Transaction: zonewire.Transaction{ID: "0", From: "0", To: "1", Value: value},
	}})

	require.Equal(t, 0, state.Balances["0"].Cmp(zonewire.NewDecimalFromInt64(-100)))
	require.Equal(t, 0, state.Balances["1"].Cmp(value))
}

func TestResolveActingAsFallsBackToFirstOwner(t *testing.T) {
	ev := &zonewire.AccountUpdatedEvent{
		Account: zonewire.Account{ID: "1", OwnerMemberIDs: []zonewire.MemberID{"3", "4"}},
	}
	require.Equal(t, zonewire.MemberID("3"), resolveActingAs(ev))

	member := zonewire.MemberID("4")
	ev.ActingAs = &member
	require.Equal(t, zonewire.MemberID("4"), resolveActingAs(ev))
}

func TestReplayEquivalentToSequentialApply(t *testing.T) {
	key := genTestKey(t, 2048)
	zone := zonewire.NewZone("zone-1", "0", 0, nil, nil)
	zone.Members["0"] = &zonewire.Member{ID: "0", OwnerPublicKeys: []zonewire.PublicKey{key}}
	zone.Accounts["0"] = &zonewire.Account{ID: "0", OwnerMemberIDs: []zonewire.MemberID{"0"}}

	envelopes := []*zonewire.ZoneEventEnvelope{
		{ZoneEvent: &zonewire.ZoneCreatedEvent{Zone: *zone}},
		{PublicKey: key, ZoneEvent: &zonewire.ClientJoinedEvent{Handle: "a"}},
	}

	sequential := NewZoneState()
	for _, env := range envelopes {
		Apply(sequential, env)
	}

	replayed := Replay(envelopes)
	require.Equal(t, sequential.Zone.ID, replayed.Zone.ID)
	require.Equal(t, sequential.JoinOrder, replayed.JoinOrder)
}
