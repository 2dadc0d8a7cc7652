package zonewire

import "io"

// ZoneEventEnvelope is the persisted record: a ZoneEvent plus the metadata
// needed to reconstruct the command that produced it (spec.md section 3).
type ZoneEventEnvelope struct {
	RemoteAddress *string
	PublicKey     PublicKey
	Timestamp     int64
	ZoneEvent     Message
}

// ZoneCreatedEvent carries the fully formed zone (equity account and
// creating member already populated) produced by CreateZoneCommand.
type ZoneCreatedEvent struct {
	Zone Zone
}

func (e *ZoneCreatedEvent) MsgType() MessageType   { return MsgZoneCreatedEvent }
func (e *ZoneCreatedEvent) Encode(w io.Writer) error { return e.Zone.Encode(w) }
func (e *ZoneCreatedEvent) Decode(r io.Reader) error {
	z, err := DecodeZone(r)
	if err != nil {
		return err
	}
	e.Zone = *z
	return nil
}

// ClientJoinedEvent records a client connecting. The joining public key
// rides on the envelope, not the event body.
type ClientJoinedEvent struct {
	Handle ClientHandle
}

func (e *ClientJoinedEvent) MsgType() MessageType    { return MsgClientJoinedEvent }
func (e *ClientJoinedEvent) Encode(w io.Writer) error { return writeElements(w, e.Handle) }
func (e *ClientJoinedEvent) Decode(r io.Reader) error { return readElements(r, &e.Handle) }

// ClientQuitEvent records a client disconnecting, whether by explicit
// QuitZoneCommand or observed loss of liveness.
type ClientQuitEvent struct {
	Handle ClientHandle
}

func (e *ClientQuitEvent) MsgType() MessageType    { return MsgClientQuitEvent }
func (e *ClientQuitEvent) Encode(w io.Writer) error { return writeElements(w, e.Handle) }
func (e *ClientQuitEvent) Decode(r io.Reader) error { return readElements(r, &e.Handle) }

// ZoneNameChangedEvent overwrites the zone's name (nil to clear it).
type ZoneNameChangedEvent struct {
	Name *string
}

func (e *ZoneNameChangedEvent) MsgType() MessageType { return MsgZoneNameChangedEvent }
func (e *ZoneNameChangedEvent) Encode(w io.Writer) error {
	return encodeOptionalFields(w, e.Name, nil, nil)
}
func (e *ZoneNameChangedEvent) Decode(r io.Reader) error {
	name, _, _, err := decodeOptionalFields(r)
	e.Name = name
	return err
}

// MemberCreatedEvent inserts a new member.
type MemberCreatedEvent struct {
	Member Member
}

func (e *MemberCreatedEvent) MsgType() MessageType   { return MsgMemberCreatedEvent }
func (e *MemberCreatedEvent) Encode(w io.Writer) error { return e.Member.Encode(w) }
func (e *MemberCreatedEvent) Decode(r io.Reader) error {
	m, err := DecodeMember(r)
	if err != nil {
		return err
	}
	e.Member = *m
	return nil
}

// MemberUpdatedEvent overwrites an existing member by id.
type MemberUpdatedEvent struct {
	Member Member
}

func (e *MemberUpdatedEvent) MsgType() MessageType   { return MsgMemberUpdatedEvent }
func (e *MemberUpdatedEvent) Encode(w io.Writer) error { return e.Member.Encode(w) }
func (e *MemberUpdatedEvent) Decode(r io.Reader) error {
	m, err := DecodeMember(r)
	if err != nil {
		return err
	}
	e.Member = *m
	return nil
}

// AccountCreatedEvent inserts a new account, its balance initialised to
// zero by the Event Applier.
type AccountCreatedEvent struct {
	Account Account
}

func (e *AccountCreatedEvent) MsgType() MessageType   { return MsgAccountCreatedEvent }
func (e *AccountCreatedEvent) Encode(w io.Writer) error { return e.Account.Encode(w) }
func (e *AccountCreatedEvent) Decode(r io.Reader) error {
	a, err := DecodeAccount(r)
	if err != nil {
		return err
	}
	e.Account = *a
	return nil
}

// AccountUpdatedEvent overwrites an existing account. ActingAs is nil for
// events written by validators predating this field (spec.md section 9's
// Open Question); the Event Applier and notification path both tolerate
// that by falling back to the account's first owner.
type AccountUpdatedEvent struct {
	ActingAs *MemberID
	Account  Account
}

func (e *AccountUpdatedEvent) MsgType() MessageType { return MsgAccountUpdatedEvent }

func (e *AccountUpdatedEvent) Encode(w io.Writer) error {
	if err := e.Account.Encode(w); err != nil {
		return err
	}
	return encodeOptionalFields(w, nil, nil, e.ActingAs)
}

func (e *AccountUpdatedEvent) Decode(r io.Reader) error {
	a, err := DecodeAccount(r)
	if err != nil {
		return err
	}
	e.Account = *a

	_, _, actingAs, err := decodeOptionalFields(r)
	if err != nil {
		return err
	}
	e.ActingAs = actingAs
	return nil
}

// TransactionAddedEvent inserts a new transaction and adjusts balances.
type TransactionAddedEvent struct {
	Transaction Transaction
}

func (e *TransactionAddedEvent) MsgType() MessageType   { return MsgTransactionAddedEvent }
func (e *TransactionAddedEvent) Encode(w io.Writer) error { return e.Transaction.Encode(w) }
func (e *TransactionAddedEvent) Decode(r io.Reader) error {
	t, err := DecodeTransaction(r)
	if err != nil {
		return err
	}
	e.Transaction = *t
	return nil
}
