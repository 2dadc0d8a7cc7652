package zoneengine

import "github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"

// Apply folds one persisted event into state, in place, and returns it for
// chaining. It is the single fold used both by live command handling (after
// a successful persist) and by Replay — spec.md section 4.3 requires both
// call sites share exactly this function.
func Apply(state *ZoneState, env *zonewire.ZoneEventEnvelope) *ZoneState {
	switch ev := env.ZoneEvent.(type) {
	case *zonewire.ZoneCreatedEvent:
		zone := ev.Zone
		state.Zone = &zone
		for id := range zone.Accounts {
			state.Balances[id] = zonewire.Zero()
		}

	case *zonewire.ClientJoinedEvent:
		state.addClient(ev.Handle, env.PublicKey)

	case *zonewire.ClientQuitEvent:
		state.removeClient(ev.Handle)

	case *zonewire.ZoneNameChangedEvent:
		state.Zone.Name = ev.Name

	case *zonewire.MemberCreatedEvent:
		m := ev.Member
		state.Zone.Members[m.ID] = &m

	case *zonewire.MemberUpdatedEvent:
		m := ev.Member
		state.Zone.Members[m.ID] = &m

	case *zonewire.AccountCreatedEvent:
		a := ev.Account
		state.Zone.Accounts[a.ID] = &a
		state.Balances[a.ID] = zonewire.Zero()

	case *zonewire.AccountUpdatedEvent:
		a := ev.Account
		state.Zone.Accounts[a.ID] = &a

	case *zonewire.TransactionAddedEvent:
		t := ev.Transaction
		state.Zone.Transactions[t.ID] = &t
		from := state.Balances[t.From]
		to := state.Balances[t.To]
		state.Balances[t.From] = from.Sub(t.Value)
		state.Balances[t.To] = to.Add(t.Value)
	}

	return state
}

// Replay rebuilds a ZoneState from empty by folding env in persisted order,
// satisfying the replay-equivalence property of spec.md section 8.
func Replay(envelopes []*zonewire.ZoneEventEnvelope) *ZoneState {
	state := NewZoneState()
	for _, env := range envelopes {
		Apply(state, env)
	}
	return state
}

// resolveActingAs returns the member a notification should attribute an
// AccountUpdated event to: the genuine ActingAs if present, or — for
// legacy events lacking one (spec.md section 9's open question) — the
// account's first owner in stored order.
func resolveActingAs(ev *zonewire.AccountUpdatedEvent) zonewire.MemberID {
	if ev.ActingAs != nil {
		return *ev.ActingAs
	}
	if len(ev.Account.OwnerMemberIDs) == 0 {
		return ""
	}
	return ev.Account.OwnerMemberIDs[0]
}
