package zoneengine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"
)

func TestScenarioCreateThenRename(t *testing.T) {
	state := NewZoneState()
	key := genTestKey(t, 2048)
	name := "Dave's Game"
	ownerName := "Dave"

	env := &zonewire.ZoneCommandEnvelope{
		PublicKey:     key,
		CorrelationID: "c1",
		ZoneID:        "zone-1",
		Command: &zonewire.CreateZoneCommand{
			EquityOwnerPublicKeys: []zonewire.PublicKey{key},
			EquityOwnerName:       &ownerName,
			Name:                  &name,
			Created:               1514156286183,
		},
	}

	effects, errs := Handle(state, env, 1514156286183)
	require.True(t, errs.Ok())
	resp := effects.Response.(*zonewire.CreateZoneResponse)
	require.Equal(t, zonewire.AccountID("0"), resp.Zone.EquityAccountID)
	require.Equal(t, ownerName, *resp.Zone.Members["0"].Name)
	require.EqualValues(t, 1514156286183+int64(zonewire.ZoneLifetime.Milliseconds()), resp.Zone.Expires)

	journal := newFakeJournal()
	eventEnv := &zonewire.ZoneEventEnvelope{PublicKey: key, ZoneEvent: effects.Event}
	_, err := journal.Append("zone-1", eventEnv)
	require.NoError(t, err)
	Apply(state, eventEnv)

	renameEnv := &zonewire.ZoneCommandEnvelope{
		PublicKey: key, CorrelationID: "c2", ZoneID: "zone-1",
		Command: &zonewire.ChangeZoneNameCommand{Name: nil},
	}
	effects, errs = Handle(state, renameEnv, 0)
	require.True(t, errs.Ok())
	require.NotNil(t, effects.Event)

	renameEventEnv := &zonewire.ZoneEventEnvelope{PublicKey: key, ZoneEvent: effects.Event}
	_, err = journal.Append("zone-1", renameEventEnv)
	require.NoError(t, err)
	Apply(state, renameEventEnv)
	require.Nil(t, state.Zone.Name)

	// Re-send the identical rename: idempotent, no new event.
	effects2, errs2 := Handle(state, renameEnv, 0)
	require.True(t, errs2.Ok())
	require.Nil(t, effects2.Event)
}

func TestScenarioTransferWithBalanceCheck(t *testing.T) {
	state, key := createdZone(t)

	createMemberEnv := &zonewire.ZoneCommandEnvelope{
		PublicKey: key, ZoneID: "zone-1",
		Command: &zonewire.CreateMemberCommand{OwnerPublicKeys: []zonewire.PublicKey{key}, Name: strPtr("Jenny")},
	}
	effects, errs := Handle(state, createMemberEnv, 0)
	require.True(t, errs.Ok())
	Apply(state, &zonewire.ZoneEventEnvelope{PublicKey: key, ZoneEvent: effects.Event})
	member := effects.Response.(*zonewire.CreateMemberResponse).Member
	require.Equal(t, zonewire.MemberID("1"), member.ID)

	createAccountEnv := &zonewire.ZoneCommandEnvelope{
		PublicKey: key, ZoneID: "zone-1",
		Command: &zonewire.CreateAccountCommand{OwnerMemberIDs: []zonewire.MemberID{"1"}, Name: strPtr("Jenny's Account")},
	}
	effects, errs = Handle(state, createAccountEnv, 0)
	require.True(t, errs.Ok())
	Apply(state, &zonewire.ZoneEventEnvelope{PublicKey: key, ZoneEvent: effects.Event})
	account := effects.Response.(*zonewire.CreateAccountResponse).Account
	require.Equal(t, zonewire.AccountID("1"), account.ID)

	value, err := zonewire.ParseDecimal("5000000000000000000000")
	require.NoError(t, err)
	txnEnv := &zonewire.ZoneCommandEnvelope{
		PublicKey: key, ZoneID: "zone-1",
		Command: &zonewire.AddTransactionCommand{
			ActingAs: "0", From: "0", To: "1", Value: value, Description: strPtr("Jenny's Lottery Win"),
		},
	}
	effects, errs = Handle(state, txnEnv, 0)
	require.True(t, errs.Ok())
	Apply(state, &zonewire.ZoneEventEnvelope{PublicKey: key, ZoneEvent: effects.Event})

	negFive, _ := zonewire.ParseDecimal("-5000000000000000000000")
	require.Equal(t, 0, state.Balances["0"].Cmp(negFive))
	require.Equal(t, 0, state.Balances["1"].Cmp(value))
}

func TestScenarioRejectOverdrawFromNonEquity(t *testing.T) {
	state, key := createdZoneWithJenny(t)

	overdraw, err := zonewire.ParseDecimal("5000000000000000000001")
	require.NoError(t, err)
	env := &zonewire.ZoneCommandEnvelope{
		PublicKey: key, ZoneID: "zone-1",
		Command: &zonewire.AddTransactionCommand{ActingAs: "1", From: "1", To: "0", Value: overdraw},
	}
	_, errs := Handle(state, env, 0)
	require.False(t, errs.Ok())
	require.Contains(t, errs, zonewire.Err(zonewire.ErrInsufficientBalance))
}

func TestScenarioAuthorisationMismatch(t *testing.T) {
	state, _ := createdZone(t)
	otherKey := genTestKey(t, 2048)

	env := &zonewire.ZoneCommandEnvelope{
		PublicKey: otherKey, ZoneID: "zone-1",
		Command: &zonewire.UpdateMemberCommand{Member: *state.Zone.Members["0"]},
	}
	_, errs := Handle(state, env, 0)
	require.False(t, errs.Ok())
	require.Contains(t, errs, zonewire.Err(zonewire.ErrMemberKeyMismatch))
}

func TestScenarioReflexiveTransactionRejected(t *testing.T) {
	state, key := createdZoneWithJenny(t)

	env := &zonewire.ZoneCommandEnvelope{
		PublicKey: key, ZoneID: "zone-1",
		Command: &zonewire.AddTransactionCommand{ActingAs: "1", From: "1", To: "1", Value: zonewire.NewDecimalFromInt64(1)},
	}
	_, errs := Handle(state, env, 0)
	require.False(t, errs.Ok())
	require.Contains(t, errs, zonewire.Err(zonewire.ErrReflexiveTransaction))
}

func TestScenarioReplayEquivalence(t *testing.T) {
	state := NewZoneState()
	key := genTestKey(t, 2048)
	journal := newFakeJournal()

	apply := func(env *zonewire.ZoneCommandEnvelope) {
		t.Helper()
		effects, errs := Handle(state, env, 0)
		require.True(t, errs.Ok())
		eventEnv := &zonewire.ZoneEventEnvelope{PublicKey: key, ZoneEvent: effects.Event}
		_, err := journal.Append("zone-1", eventEnv)
		require.NoError(t, err)
		Apply(state, eventEnv)
	}

	apply(&zonewire.ZoneCommandEnvelope{
		PublicKey: key, ZoneID: "zone-1",
		Command: &zonewire.CreateZoneCommand{
			EquityOwnerPublicKeys: []zonewire.PublicKey{key},
			EquityOwnerName:       strPtr("Dave"),
			Created:               1514156286183,
		},
	})
	apply(&zonewire.ZoneCommandEnvelope{
		PublicKey: key, ZoneID: "zone-1",
		Command: &zonewire.CreateMemberCommand{OwnerPublicKeys: []zonewire.PublicKey{key}, Name: strPtr("Jenny")},
	})
	apply(&zonewire.ZoneCommandEnvelope{
		PublicKey: key, ZoneID: "zone-1",
		Command: &zonewire.CreateAccountCommand{OwnerMemberIDs: []zonewire.MemberID{"1"}, Name: strPtr("Jenny's Account")},
	})
	value, _ := zonewire.ParseDecimal("5000000000000000000000")
	apply(&zonewire.ZoneCommandEnvelope{
		PublicKey: key, ZoneID: "zone-1",
		Command: &zonewire.AddTransactionCommand{ActingAs: "0", From: "0", To: "1", Value: value},
	})

	var envelopes []*zonewire.ZoneEventEnvelope
	err := journal.Replay("zone-1", func(seq uint64, ev *zonewire.ZoneEventEnvelope) error {
		envelopes = append(envelopes, ev)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, envelopes, 4)

	replayed := Replay(envelopes)
	require.Equal(t, state.Zone.ID, replayed.Zone.ID)
	require.Equal(t, state.Zone.Name, replayed.Zone.Name)
	require.Len(t, replayed.Zone.Members, 2)
	require.Len(t, replayed.Zone.Accounts, 2)
	require.Equal(t, 0, state.Balances["1"].Cmp(replayed.Balances["1"]))
	require.Equal(t, 0, state.Balances["0"].Cmp(replayed.Balances["0"]))
}

func createdZone(t *testing.T) (*ZoneState, zonewire.PublicKey) {
	t.Helper()
	state := NewZoneState()
	key := genTestKey(t, 2048)

	env := &zonewire.ZoneCommandEnvelope{
		PublicKey: key, ZoneID: "zone-1",
		Command: &zonewire.CreateZoneCommand{
			EquityOwnerPublicKeys: []zonewire.PublicKey{key},
			EquityOwnerName:       strPtr("Dave"),
			Created:               1514156286183,
		},
	}
	effects, errs := Handle(state, env, 1514156286183)
	require.True(t, errs.Ok())
	Apply(state, &zonewire.ZoneEventEnvelope{PublicKey: key, ZoneEvent: effects.Event})
	return state, key
}

func createdZoneWithJenny(t *testing.T) (*ZoneState, zonewire.PublicKey) {
	t.Helper()
	state, key := createdZone(t)

	effects, errs := Handle(state, &zonewire.ZoneCommandEnvelope{
		PublicKey: key, ZoneID: "zone-1",
		Command: &zonewire.CreateMemberCommand{OwnerPublicKeys: []zonewire.PublicKey{key}, Name: strPtr("Jenny")},
	}, 0)
	require.True(t, errs.Ok())
	Apply(state, &zonewire.ZoneEventEnvelope{PublicKey: key, ZoneEvent: effects.Event})

	effects, errs = Handle(state, &zonewire.ZoneCommandEnvelope{
		PublicKey: key, ZoneID: "zone-1",
		Command: &zonewire.CreateAccountCommand{OwnerMemberIDs: []zonewire.MemberID{"1"}, Name: strPtr("Jenny's Account")},
	}, 0)
	require.True(t, errs.Ok())
	Apply(state, &zonewire.ZoneEventEnvelope{PublicKey: key, ZoneEvent: effects.Event})

	value, _ := zonewire.ParseDecimal("5000000000000000000000")
	effects, errs = Handle(state, &zonewire.ZoneCommandEnvelope{
		PublicKey: key, ZoneID: "zone-1",
		Command: &zonewire.AddTransactionCommand{ActingAs: "0", From: "0", To: "1", Value: value},
	}, 0)
	require.True(t, errs.Ok())
	Apply(state, &zonewire.ZoneEventEnvelope{PublicKey: key, ZoneEvent: effects.Event})

	return state, key
}

func strPtr(s string) *string { return &s }
