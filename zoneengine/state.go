// Package zoneengine is the Zone Validator: the per-zone, single-writer,
// event-sourced state machine described in spec.md sections 2-5. It
// validates commands (validation.go), folds accepted events into state
// (apply.go), dispatches effects (command_handler.go), tracks connected
// clients (client_registry.go), passivates idle zones (passivation.go), and
// publishes cluster-wide status summaries (status_publisher.go).
//
// The validator itself runs as an owned goroutine with an inbox channel
// (validator.go), mirroring the single-writer mailbox shape of
// github.com/lightningnetwork/lnd's peer.go and htlcswitch.go rather than
// any actor-framework runtime.
package zoneengine

import (
	"strconv"

	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"
)

// ZoneState is the validator's entire in-memory world: nil Zone until the
// first CreateZoneCommand is accepted, per spec.md section 3 invariant 1.
type ZoneState struct {
	Zone             *zonewire.Zone
	Balances         map[zonewire.AccountID]zonewire.Decimal
	ConnectedClients map[zonewire.ClientHandle]zonewire.PublicKey

	// SequenceNumbers tracks the next notification sequence number to
	// assign per connected client (spec.md section 4.4). Reset to 0 on
	// join, removed on quit; never persisted.
	SequenceNumbers map[zonewire.ClientHandle]uint64

	// JoinOrder preserves insertion order of ConnectedClients so
	// broadcasts iterate "in insertion order" as spec.md section 4.4
	// requires — a plain Go map has no stable iteration order.
	JoinOrder []zonewire.ClientHandle
}

// NewZoneState returns the empty initial state, the fold's zero value.
func NewZoneState() *ZoneState {
	return &ZoneState{
		Balances:         make(map[zonewire.AccountID]zonewire.Decimal),
		ConnectedClients: make(map[zonewire.ClientHandle]zonewire.PublicKey),
		SequenceNumbers:  make(map[zonewire.ClientHandle]uint64),
	}
}

func (s *ZoneState) addClient(handle zonewire.ClientHandle, pub zonewire.PublicKey) {
	if _, exists := s.ConnectedClients[handle]; exists {
		return
	}
	s.ConnectedClients[handle] = pub
	s.SequenceNumbers[handle] = 0
	s.JoinOrder = append(s.JoinOrder, handle)
}

func (s *ZoneState) removeClient(handle zonewire.ClientHandle) {
	if _, exists := s.ConnectedClients[handle]; !exists {
		return
	}
	delete(s.ConnectedClients, handle)
	delete(s.SequenceNumbers, handle)
	for i, h := range s.JoinOrder {
		if h == handle {
			s.JoinOrder = append(s.JoinOrder[:i], s.JoinOrder[i+1:]...)
			break
		}
	}
}

// nextMemberID and nextAccountID implement the "decimal index of insertion"
// id assignment rule of spec.md section 3 invariant 6.
func (s *ZoneState) nextMemberID() zonewire.MemberID {
	return zonewire.MemberID(strconv.Itoa(len(s.Zone.Members)))
}

func (s *ZoneState) nextAccountID() zonewire.AccountID {
	return zonewire.AccountID(strconv.Itoa(len(s.Zone.Accounts)))
}

func (s *ZoneState) nextTransactionID() zonewire.TransactionID {
	return zonewire.TransactionID(strconv.Itoa(len(s.Zone.Transactions)))
}
