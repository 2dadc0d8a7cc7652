package zonewire

import "io"

// ZoneResponseEnvelope is sent back to the command's reply_to handle,
// tagged with its correlation id so the caller can match it to the request
// (spec.md section 4.1).
type ZoneResponseEnvelope struct {
	CorrelationID string
	Response      Message
}

// CreateZoneResponse carries the newly created zone.
type CreateZoneResponse struct {
	Zone Zone
}

func (r *CreateZoneResponse) MsgType() MessageType   { return MsgCreateZoneResponse }
func (r *CreateZoneResponse) Encode(w io.Writer) error { return r.Zone.Encode(w) }
func (r *CreateZoneResponse) Decode(rd io.Reader) error {
	z, err := DecodeZone(rd)
	if err != nil {
		return err
	}
	r.Zone = *z
	return nil
}

// JoinZoneResponse carries the zone and the set of already-connected
// clients (so the joining client can render existing presence).
type JoinZoneResponse struct {
	Zone             Zone
	ConnectedClients map[ClientHandle]PublicKey
}

func (r *JoinZoneResponse) MsgType() MessageType { return MsgJoinZoneResponse }

func (r *JoinZoneResponse) Encode(w io.Writer) error {
	if err := r.Zone.Encode(w); err != nil {
		return err
	}
	if err := writeUint64(w, uint64(len(r.ConnectedClients))); err != nil {
		return err
	}
	for handle, pub := range r.ConnectedClients {
		if err := writeElements(w, handle, pub); err != nil {
			return err
		}
	}
	return nil
}

func (r *JoinZoneResponse) Decode(rd io.Reader) error {
	z, err := DecodeZone(rd)
	if err != nil {
		return err
	}
	r.Zone = *z

	n, err := readUint64(rd)
	if err != nil {
		return err
	}
	r.ConnectedClients = make(map[ClientHandle]PublicKey, n)
	for i := uint64(0); i < n; i++ {
		var handle ClientHandle
		var pub PublicKey
		if err := readElements(rd, &handle, &pub); err != nil {
			return err
		}
		r.ConnectedClients[handle] = pub
	}
	return nil
}

// QuitZoneResponse acknowledges QuitZoneCommand.
type QuitZoneResponse struct{}

func (r *QuitZoneResponse) MsgType() MessageType    { return MsgQuitZoneResponse }
func (r *QuitZoneResponse) Encode(w io.Writer) error { return nil }
func (r *QuitZoneResponse) Decode(rd io.Reader) error { return nil }

// ChangeZoneNameResponse acknowledges ChangeZoneNameCommand.
type ChangeZoneNameResponse struct{}

func (r *ChangeZoneNameResponse) MsgType() MessageType    { return MsgChangeZoneNameResponse }
func (r *ChangeZoneNameResponse) Encode(w io.Writer) error { return nil }
func (r *ChangeZoneNameResponse) Decode(rd io.Reader) error { return nil }

// CreateMemberResponse carries the newly created member.
type CreateMemberResponse struct {
	Member Member
}

func (r *CreateMemberResponse) MsgType() MessageType   { return MsgCreateMemberResponse }
func (r *CreateMemberResponse) Encode(w io.Writer) error { return r.Member.Encode(w) }
func (r *CreateMemberResponse) Decode(rd io.Reader) error {
	m, err := DecodeMember(rd)
	if err != nil {
		return err
	}
	r.Member = *m
	return nil
}

// UpdateMemberResponse acknowledges UpdateMemberCommand.
type UpdateMemberResponse struct{}

func (r *UpdateMemberResponse) MsgType() MessageType    { return MsgUpdateMemberResponse }
func (r *UpdateMemberResponse) Encode(w io.Writer) error { return nil }
func (r *UpdateMemberResponse) Decode(rd io.Reader) error { return nil }

// CreateAccountResponse carries the newly created account.
type CreateAccountResponse struct {
	Account Account
}

func (r *CreateAccountResponse) MsgType() MessageType   { return MsgCreateAccountResponse }
func (r *CreateAccountResponse) Encode(w io.Writer) error { return r.Account.Encode(w) }
func (r *CreateAccountResponse) Decode(rd io.Reader) error {
	a, err := DecodeAccount(rd)
	if err != nil {
		return err
	}
	r.Account = *a
	return nil
}

// UpdateAccountResponse acknowledges UpdateAccountCommand.
type UpdateAccountResponse struct{}

func (r *UpdateAccountResponse) MsgType() MessageType    { return MsgUpdateAccountResponse }
func (r *UpdateAccountResponse) Encode(w io.Writer) error { return nil }
func (r *UpdateAccountResponse) Decode(rd io.Reader) error { return nil }

// AddTransactionResponse carries the newly created transaction.
type AddTransactionResponse struct {
	Transaction Transaction
}

func (r *AddTransactionResponse) MsgType() MessageType   { return MsgAddTransactionResponse }
func (r *AddTransactionResponse) Encode(w io.Writer) error { return r.Transaction.Encode(w) }
func (r *AddTransactionResponse) Decode(rd io.Reader) error {
	t, err := DecodeTransaction(rd)
	if err != nil {
		return err
	}
	r.Transaction = *t
	return nil
}

// ErrorResponse carries the accumulated validation error list for a
// rejected command (spec.md section 4.2). Never retried by the validator —
// the caller decides.
type ErrorResponse struct {
	Errors ErrorList
}

func (r *ErrorResponse) MsgType() MessageType { return MsgErrorResponse }

func (r *ErrorResponse) Encode(w io.Writer) error {
	if err := writeUint64(w, uint64(len(r.Errors))); err != nil {
		return err
	}
	for _, e := range r.Errors {
		if err := writeElements(w, uint64(e.Kind), e.RefID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ErrorResponse) Decode(rd io.Reader) error {
	n, err := readUint64(rd)
	if err != nil {
		return err
	}
	r.Errors = make(ErrorList, 0, n)
	for i := uint64(0); i < n; i++ {
		var kind uint64
		var refID string
		if err := readElements(rd, &kind, &refID); err != nil {
			return err
		}
		r.Errors = append(r.Errors, ErrorCode{Kind: ErrorKind(kind), RefID: refID})
	}
	return nil
}
