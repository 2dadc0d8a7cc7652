package zonewire

import "time"

// Protocol-wide constants, spec.md section 6.
const (
	// MaximumTagLength is the maximum length, in UTF-8 characters, of any
	// "tag" field (zone/member/account name, transaction description).
	MaximumTagLength = 160

	// MaximumMetadataSize is the maximum length, in serialised bytes, of
	// any metadata blob.
	MaximumMetadataSize = 1024

	// RequiredKeySize is the required RSA modulus size, in bits, of every
	// owner public key.
	RequiredKeySize = 2048

	// MaxNumberOfShards bounds the cluster's shard space; zone ids are
	// routed to shard hash(zone_id) mod MaxNumberOfShards.
	MaxNumberOfShards = 10
)

// ZoneLifetime is how long a zone remains valid past its creation time.
const ZoneLifetime = 7 * 24 * time.Hour

// PassivationTimeout is how long a zone validator with no connected clients
// waits before stopping itself.
const PassivationTimeout = 2 * time.Minute

// StatusPublishInterval is how often an active zone publishes a summary to
// the cluster-wide zone-status topic.
const StatusPublishInterval = 30 * time.Second

// StatusTopic is the well-known NATS Streaming subject summaries are
// published to.
const StatusTopic = "zone-status"

// SnapshotEventInterval is how many events a validator persists between
// snapshots of its own state, trading a bounded amount of replay work after
// a restart against the cost of writing a full snapshot.
const SnapshotEventInterval = 500
