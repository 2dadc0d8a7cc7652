package zonewire

import "io"

// ZoneNotificationEnvelope is delivered to each connected client in
// insertion order, numbered per-client without gaps (spec.md section 4.4).
type ZoneNotificationEnvelope struct {
	Origin         ClientHandle
	ZoneID         ZoneID
	SequenceNumber uint64
	Notification   Message
}

// ClientJoinedNotification announces a newly connected client to the
// zone's other connected clients.
type ClientJoinedNotification struct {
	ClientIdentity string
	PublicKey      PublicKey
}

func (n *ClientJoinedNotification) MsgType() MessageType { return MsgClientJoinedNotification }
func (n *ClientJoinedNotification) Encode(w io.Writer) error {
	return writeElements(w, n.ClientIdentity, n.PublicKey)
}
func (n *ClientJoinedNotification) Decode(r io.Reader) error {
	return readElements(r, &n.ClientIdentity, &n.PublicKey)
}

// ClientQuitNotification announces a disconnecting client.
type ClientQuitNotification struct {
	ClientIdentity string
	PublicKey      PublicKey
}

func (n *ClientQuitNotification) MsgType() MessageType { return MsgClientQuitNotification }
func (n *ClientQuitNotification) Encode(w io.Writer) error {
	return writeElements(w, n.ClientIdentity, n.PublicKey)
}
func (n *ClientQuitNotification) Decode(r io.Reader) error {
	return readElements(r, &n.ClientIdentity, &n.PublicKey)
}

// ZoneNameChangedNotification mirrors ZoneNameChangedEvent.
type ZoneNameChangedNotification struct {
	Name *string
}

func (n *ZoneNameChangedNotification) MsgType() MessageType { return MsgZoneNameChangedNotification }
func (n *ZoneNameChangedNotification) Encode(w io.Writer) error {
	return encodeOptionalFields(w, n.Name, nil, nil)
}
func (n *ZoneNameChangedNotification) Decode(r io.Reader) error {
	name, _, _, err := decodeOptionalFields(r)
	n.Name = name
	return err
}

// MemberCreatedNotification mirrors MemberCreatedEvent.
type MemberCreatedNotification struct {
	Member Member
}

func (n *MemberCreatedNotification) MsgType() MessageType   { return MsgMemberCreatedNotification }
func (n *MemberCreatedNotification) Encode(w io.Writer) error { return n.Member.Encode(w) }
func (n *MemberCreatedNotification) Decode(r io.Reader) error {
	m, err := DecodeMember(r)
	if err != nil {
		return err
	}
	n.Member = *m
	return nil
}

// MemberUpdatedNotification mirrors MemberUpdatedEvent.
type MemberUpdatedNotification struct {
	Member Member
}

func (n *MemberUpdatedNotification) MsgType() MessageType   { return MsgMemberUpdatedNotification }
func (n *MemberUpdatedNotification) Encode(w io.Writer) error { return n.Member.Encode(w) }
func (n *MemberUpdatedNotification) Decode(r io.Reader) error {
	m, err := DecodeMember(r)
	if err != nil {
		return err
	}
	n.Member = *m
	return nil
}

// AccountCreatedNotification mirrors AccountCreatedEvent.
type AccountCreatedNotification struct {
	Account Account
}

func (n *AccountCreatedNotification) MsgType() MessageType   { return MsgAccountCreatedNotification }
func (n *AccountCreatedNotification) Encode(w io.Writer) error { return n.Account.Encode(w) }
func (n *AccountCreatedNotification) Decode(r io.Reader) error {
	a, err := DecodeAccount(r)
	if err != nil {
		return err
	}
	n.Account = *a
	return nil
}

// AccountUpdatedNotification carries the resolved actingAs member: either
// the genuine ActingAs from the event, or — for legacy events lacking
// one — the account's first owner (spec.md section 4.4).
type AccountUpdatedNotification struct {
	ActingAs MemberID
	Account  Account
}

func (n *AccountUpdatedNotification) MsgType() MessageType { return MsgAccountUpdatedNotification }
func (n *AccountUpdatedNotification) Encode(w io.Writer) error {
	if err := writeElements(w, n.ActingAs); err != nil {
		return err
	}
	return n.Account.Encode(w)
}
func (n *AccountUpdatedNotification) Decode(r io.Reader) error {
	if err := readElements(r, &n.ActingAs); err != nil {
		return err
	}
	a, err := DecodeAccount(r)
	if err != nil {
		return err
	}
	n.Account = *a
	return nil
}

// TransactionAddedNotification mirrors TransactionAddedEvent.
type TransactionAddedNotification struct {
	Transaction Transaction
}

func (n *TransactionAddedNotification) MsgType() MessageType { return MsgTransactionAddedNotification }
func (n *TransactionAddedNotification) Encode(w io.Writer) error {
	return n.Transaction.Encode(w)
}
func (n *TransactionAddedNotification) Decode(r io.Reader) error {
	t, err := DecodeTransaction(r)
	if err != nil {
		return err
	}
	n.Transaction = *t
	return nil
}
