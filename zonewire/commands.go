package zonewire

import "io"

// ZoneCommandEnvelope wraps a Command with the routing/reply metadata the
// gateway attaches before handing it to a validator (spec.md section 4.1).
type ZoneCommandEnvelope struct {
	RemoteAddress *string
	PublicKey     PublicKey
	CorrelationID string
	ReplyTo       ClientHandle
	ZoneID        ZoneID
	Command       Message
}

// CreateZoneCommand creates a zone, its sole initial ("equity") account, and
// the creating member in a single step — see the scenario in spec.md
// section 8: the creator becomes member "0" and owns equity account "0".
type CreateZoneCommand struct {
	EquityOwnerPublicKeys []PublicKey
	EquityOwnerName       *string
	EquityOwnerMetadata   []byte
	Name                  *string
	Metadata              []byte
	Created               int64
}

func (c *CreateZoneCommand) MsgType() MessageType { return MsgCreateZoneCommand }

func (c *CreateZoneCommand) Encode(w io.Writer) error {
	if err := writeElements(w, c.EquityOwnerPublicKeys, c.Created); err != nil {
		return err
	}
	if err := encodeOptionalFields(w, c.Name, c.Metadata, nil); err != nil {
		return err
	}
	return encodeOptionalFields(w, c.EquityOwnerName, c.EquityOwnerMetadata, nil)
}

func (c *CreateZoneCommand) Decode(r io.Reader) error {
	if err := readElements(r, &c.EquityOwnerPublicKeys, &c.Created); err != nil {
		return err
	}
	name, metadata, _, err := decodeOptionalFields(r)
	if err != nil {
		return err
	}
	c.Name, c.Metadata = name, metadata

	ownerName, ownerMeta, _, err := decodeOptionalFields(r)
	if err != nil {
		return err
	}
	c.EquityOwnerName, c.EquityOwnerMetadata = ownerName, ownerMeta
	return nil
}

// JoinZoneCommand registers the envelope's ReplyTo handle and PublicKey as
// a connected client of the zone.
type JoinZoneCommand struct{}

func (c *JoinZoneCommand) MsgType() MessageType    { return MsgJoinZoneCommand }
func (c *JoinZoneCommand) Encode(w io.Writer) error { return nil }
func (c *JoinZoneCommand) Decode(r io.Reader) error { return nil }

// QuitZoneCommand removes the caller's connected-client entry.
type QuitZoneCommand struct{}

func (c *QuitZoneCommand) MsgType() MessageType    { return MsgQuitZoneCommand }
func (c *QuitZoneCommand) Encode(w io.Writer) error { return nil }
func (c *QuitZoneCommand) Decode(r io.Reader) error { return nil }

// ChangeZoneNameCommand sets (or, if Name is nil, clears) the zone's name.
type ChangeZoneNameCommand struct {
	Name *string
}

func (c *ChangeZoneNameCommand) MsgType() MessageType { return MsgChangeZoneNameCommand }

func (c *ChangeZoneNameCommand) Encode(w io.Writer) error {
	return encodeOptionalFields(w, c.Name, nil, nil)
}

func (c *ChangeZoneNameCommand) Decode(r io.Reader) error {
	name, _, _, err := decodeOptionalFields(r)
	c.Name = name
	return err
}

// CreateMemberCommand creates a new member owned by one or more keys.
type CreateMemberCommand struct {
	OwnerPublicKeys []PublicKey
	Name            *string
	Metadata        []byte
}

func (c *CreateMemberCommand) MsgType() MessageType { return MsgCreateMemberCommand }

func (c *CreateMemberCommand) Encode(w io.Writer) error {
	if err := writeElements(w, c.OwnerPublicKeys); err != nil {
		return err
	}
	return encodeOptionalFields(w, c.Name, c.Metadata, nil)
}

func (c *CreateMemberCommand) Decode(r io.Reader) error {
	if err := readElements(r, &c.OwnerPublicKeys); err != nil {
		return err
	}
	name, metadata, _, err := decodeOptionalFields(r)
	c.Name, c.Metadata = name, metadata
	return err
}

// UpdateMemberCommand replaces a member's record wholesale; the caller must
// own the member being updated (spec.md section 4.2).
type UpdateMemberCommand struct {
	Member Member
}

func (c *UpdateMemberCommand) MsgType() MessageType { return MsgUpdateMemberCommand }

func (c *UpdateMemberCommand) Encode(w io.Writer) error {
	return c.Member.Encode(w)
}

func (c *UpdateMemberCommand) Decode(r io.Reader) error {
	m, err := DecodeMember(r)
	if err != nil {
		return err
	}
	c.Member = *m
	return nil
}

// CreateAccountCommand creates a new account owned by one or more members.
type CreateAccountCommand struct {
	OwnerMemberIDs []MemberID
	Name           *string
	Metadata       []byte
}

func (c *CreateAccountCommand) MsgType() MessageType { return MsgCreateAccountCommand }

func (c *CreateAccountCommand) Encode(w io.Writer) error {
	if err := writeElements(w, c.OwnerMemberIDs); err != nil {
		return err
	}
	return encodeOptionalFields(w, c.Name, c.Metadata, nil)
}

func (c *CreateAccountCommand) Decode(r io.Reader) error {
	if err := readElements(r, &c.OwnerMemberIDs); err != nil {
		return err
	}
	name, metadata, _, err := decodeOptionalFields(r)
	c.Name, c.Metadata = name, metadata
	return err
}

// UpdateAccountCommand replaces an account's record. ActingAs names which
// of the account's (possibly several) owner members the caller is acting
// as; the caller must own ActingAs, and ActingAs must own the account.
type UpdateAccountCommand struct {
	ActingAs MemberID
	Account  Account
}

func (c *UpdateAccountCommand) MsgType() MessageType { return MsgUpdateAccountCommand }

func (c *UpdateAccountCommand) Encode(w io.Writer) error {
	if err := writeElements(w, c.ActingAs); err != nil {
		return err
	}
	return c.Account.Encode(w)
}

func (c *UpdateAccountCommand) Decode(r io.Reader) error {
	if err := readElements(r, &c.ActingAs); err != nil {
		return err
	}
	a, err := DecodeAccount(r)
	if err != nil {
		return err
	}
	c.Account = *a
	return nil
}

// AddTransactionCommand debits From and credits To by Value, acting as the
// member ActingAs.
type AddTransactionCommand struct {
	ActingAs    MemberID
	From        AccountID
	To          AccountID
	Value       Decimal
	Description *string
	Metadata    []byte
}

func (c *AddTransactionCommand) MsgType() MessageType { return MsgAddTransactionCommand }

func (c *AddTransactionCommand) Encode(w io.Writer) error {
	if err := writeElements(w, c.ActingAs, c.From, c.To, c.Value); err != nil {
		return err
	}
	return encodeOptionalFields(w, c.Description, c.Metadata, nil)
}

func (c *AddTransactionCommand) Decode(r io.Reader) error {
	if err := readElements(r, &c.ActingAs, &c.From, &c.To, &c.Value); err != nil {
		return err
	}
	desc, metadata, _, err := decodeOptionalFields(r)
	c.Description, c.Metadata = desc, metadata
	return err
}
