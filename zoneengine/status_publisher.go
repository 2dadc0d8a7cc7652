package zoneengine

import (
	"time"

	"github.com/nats-io/stan.go"
	"github.com/vmihailenco/msgpack"

	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"
)

// ActiveZoneSummary is the UpsertActiveZoneSummary payload of spec.md
// section 4.6, published every StatusPublishInterval to the cluster-wide
// "zone-status" topic for the Zone Monitor to aggregate.
type ActiveZoneSummary struct {
	ZoneID           zonewire.ZoneID                  `msgpack:"zone_id"`
	Members          []zonewire.Member                `msgpack:"members"`
	Accounts         []zonewire.Account                `msgpack:"accounts"`
	Transactions     []zonewire.Transaction            `msgpack:"transactions"`
	Metadata         []byte                            `msgpack:"metadata"`
	ConnectedClients []zonewire.PublicKey               `msgpack:"connected_clients"`
	PublishedAt      int64                              `msgpack:"published_at"`
}

// StatusPublisher periodically msgpack-encodes an ActiveZoneSummary and
// publishes it to the shared NATS Streaming topic. Grounded on
// TheRockettek-Sandwich-Producer's manager.go/sessions.go, which publishes
// msgpack-encoded events via a stan.Conn the same way.
type StatusPublisher struct {
	conn     stan.Conn
	topic    string
	interval time.Duration
}

// NewStatusPublisher wraps an already-connected stan.Conn (owned by the
// validator host process, shared across zone validators).
func NewStatusPublisher(conn stan.Conn) *StatusPublisher {
	return &StatusPublisher{
		conn:     conn,
		topic:    zonewire.StatusTopic,
		interval: zonewire.StatusPublishInterval,
	}
}

// Publish encodes summary and hands it to stan's async publisher, returning
// as soon as the send is queued. It never blocks on the NATS Streaming
// round-trip: status publication is best-effort, not part of the durability
// boundary (spec.md section 5), and the validator's mailbox loop must keep
// draining commands even if the cluster is slow or unreachable. ackHandler
// is invoked on stan's own goroutine once the server acks (or times out) and
// only logs; it must never touch validator state.
func (p *StatusPublisher) Publish(summary *ActiveZoneSummary, ackHandler func(err error)) error {
	payload, err := msgpack.Marshal(summary)
	if err != nil {
		return err
	}
	_, err = p.conn.PublishAsync(p.topic, payload, func(_ string, err error) {
		ackHandler(err)
	})
	return err
}

// Interval returns the configured publish period, used by the validator
// loop to arm its status-publish ticker.
func (p *StatusPublisher) Interval() time.Duration {
	return p.interval
}

// Summarize builds an ActiveZoneSummary from the current state. Returns nil
// if the zone has not been created yet.
func Summarize(zoneID zonewire.ZoneID, state *ZoneState, now int64) *ActiveZoneSummary {
	if state.Zone == nil {
		return nil
	}

	members := make([]zonewire.Member, 0, len(state.Zone.Members))
	for _, m := range state.Zone.Members {
		members = append(members, *m)
	}

	accounts := make([]zonewire.Account, 0, len(state.Zone.Accounts))
	for _, a := range state.Zone.Accounts {
		accounts = append(accounts, *a)
	}

	transactions := make([]zonewire.Transaction, 0, len(state.Zone.Transactions))
	for _, t := range state.Zone.Transactions {
		transactions = append(transactions, *t)
	}

	clients := make([]zonewire.PublicKey, 0, len(state.ConnectedClients))
	for _, pub := range state.ConnectedClients {
		clients = append(clients, pub)
	}

	return &ActiveZoneSummary{
		ZoneID:           zoneID,
		Members:          members,
		Accounts:         accounts,
		Transactions:     transactions,
		Metadata:         state.Zone.Metadata,
		ConnectedClients: clients,
		PublishedAt:      now,
	}
}
