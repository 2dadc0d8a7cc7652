// Package zonewire defines the on-the-wire and persisted representation of
// zones: the entity types (Zone, Member, Account, Transaction), the tagged
// command/event/notification/response envelopes that carry them between the
// gateway, the validator, and the journal, and the length-delimited codec
// used to (de)serialize all of it.
//
// The framing is modelled directly on the Lightning wire protocol's message
// envelope (github.com/lightningnetwork/lnd/lnwire): a 2-byte type tag
// followed by a type-specific payload, with optional fields carried as TLV
// extension records rather than baked into the fixed layout.
package zonewire

import "fmt"

// ZoneID identifies a zone. Canonically a UUID string.
type ZoneID string

// MemberID identifies a member within a zone. Assigned by the validator as
// the decimal index of insertion ("0", "1", ...).
type MemberID string

// AccountID identifies an account within a zone, assigned the same way as
// MemberID.
type AccountID string

// TransactionID identifies a transaction within a zone, assigned the same
// way as MemberID and AccountID.
type TransactionID string

// ClientHandle is the opaque, serialisable identity of a connected client
// assigned by the gateway when it establishes a channel to a zone. It is
// never persisted as durable membership (spec.md Lifecycles) — only
// ClientJoined/ClientQuit events reference it, and those events are replayed
// into a running validator's connected_clients map, which starts empty on
// every restart.
type ClientHandle string

// PublicKey is the DER encoding of an RSA SubjectPublicKeyInfo. It is the
// sole notion of caller identity the validator understands; the gateway has
// already verified the caller owns the corresponding private key before a
// PublicKey ever reaches the validator.
type PublicKey []byte

// Equal reports whether two public keys have identical DER encodings.
func (k PublicKey) Equal(other PublicKey) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

func (k PublicKey) String() string {
	return fmt.Sprintf("%x", []byte(k))
}

// Member is an owner of zero or more accounts, identified by one or more RSA
// public keys. Any key in OwnerPublicKeys authorises acting as this member.
type Member struct {
	ID              MemberID
	OwnerPublicKeys []PublicKey
	Name            *string
	Metadata        []byte
}

// Equal reports structural equality, used by the Command Handler's
// redelivery-idempotence check for UpdateMember (spec.md section 4.1).
func (m *Member) Equal(other *Member) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.ID != other.ID {
		return false
	}
	if !equalOptionalString(m.Name, other.Name) {
		return false
	}
	if !equalBytes(m.Metadata, other.Metadata) {
		return false
	}
	if len(m.OwnerPublicKeys) != len(other.OwnerPublicKeys) {
		return false
	}
	for i := range m.OwnerPublicKeys {
		if !m.OwnerPublicKeys[i].Equal(other.OwnerPublicKeys[i]) {
			return false
		}
	}
	return true
}

// OwnsKey reports whether pub is among the member's owner public keys.
func (m *Member) OwnsKey(pub PublicKey) bool {
	for _, k := range m.OwnerPublicKeys {
		if k.Equal(pub) {
			return true
		}
	}
	return false
}

// Account holds a balance (tracked separately, in ZoneState.Balances) and is
// jointly owned by one or more members.
type Account struct {
	ID             AccountID
	OwnerMemberIDs []MemberID
	Name           *string
	Metadata       []byte
}

// Equal reports structural equality, used by UpdateAccount's
// redelivery-idempotence check.
func (a *Account) Equal(other *Account) bool {
	if a == nil || other == nil {
		return a == other
	}
	if a.ID != other.ID {
		return false
	}
	if !equalOptionalString(a.Name, other.Name) {
		return false
	}
	if !equalBytes(a.Metadata, other.Metadata) {
		return false
	}
	if len(a.OwnerMemberIDs) != len(other.OwnerMemberIDs) {
		return false
	}
	for i := range a.OwnerMemberIDs {
		if a.OwnerMemberIDs[i] != other.OwnerMemberIDs[i] {
			return false
		}
	}
	return true
}

// OwnedByMember reports whether id is among the account's owner member ids.
func (a *Account) OwnedByMember(id MemberID) bool {
	for _, m := range a.OwnerMemberIDs {
		if m == id {
			return true
		}
	}
	return false
}

// Transaction moves Value from one account to another within a zone. Value
// is always non-negative; debit/credit sign is implied by From/To.
type Transaction struct {
	ID          TransactionID
	From        AccountID
	To          AccountID
	Value       Decimal
	Creator     MemberID
	Created     int64
	Description *string
	Metadata    []byte
}

// Zone is a self-contained virtual-currency ledger: its members, accounts,
// and transactions, plus the lifetime bookkeeping described in spec.md
// section 3.
type Zone struct {
	ID               ZoneID
	EquityAccountID  AccountID
	Members          map[MemberID]*Member
	Accounts         map[AccountID]*Account
	Transactions     map[TransactionID]*Transaction
	Created          int64
	Expires          int64
	Name             *string
	Metadata         []byte
}

// NewZone builds an empty zone shell (no members/accounts yet) with its
// lifetime fields pinned. CreateZone additionally populates the equity
// account and the creating member before the ZoneCreated event is emitted;
// see spec.md section 4.3.
func NewZone(id ZoneID, equityAccountID AccountID, created int64, name *string, metadata []byte) *Zone {
	return &Zone{
		ID:              id,
		EquityAccountID: equityAccountID,
		Members:         make(map[MemberID]*Member),
		Accounts:        make(map[AccountID]*Account),
		Transactions:    make(map[TransactionID]*Transaction),
		Created:         created,
		Expires:         created + int64(ZoneLifetime.Milliseconds()),
		Name:            name,
		Metadata:        metadata,
	}
}

func equalOptionalString(a, b *string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return *a == *b
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
