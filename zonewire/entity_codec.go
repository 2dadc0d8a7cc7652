package zonewire

import "io"

// EncodeMember writes m's required fields followed by its optional name and
// metadata as a TLV extension record.
func (m *Member) Encode(w io.Writer) error {
	if err := writeElements(w, m.ID, m.OwnerPublicKeys); err != nil {
		return err
	}
	return encodeOptionalFields(w, m.Name, m.Metadata, nil)
}

// DecodeMember reads a Member written by Encode.
func DecodeMember(r io.Reader) (*Member, error) {
	m := &Member{}
	if err := readElements(r, &m.ID, &m.OwnerPublicKeys); err != nil {
		return nil, err
	}
	name, metadata, _, err := decodeOptionalFields(r)
	if err != nil {
		return nil, err
	}
	m.Name = name
	m.Metadata = metadata
	return m, nil
}

// Encode writes a's required fields followed by its optional name/metadata.
func (a *Account) Encode(w io.Writer) error {
	if err := writeElements(w, a.ID, a.OwnerMemberIDs); err != nil {
		return err
	}
	return encodeOptionalFields(w, a.Name, a.Metadata, nil)
}

// DecodeAccount reads an Account written by Encode.
func DecodeAccount(r io.Reader) (*Account, error) {
	a := &Account{}
	if err := readElements(r, &a.ID, &a.OwnerMemberIDs); err != nil {
		return nil, err
	}
	name, metadata, _, err := decodeOptionalFields(r)
	if err != nil {
		return nil, err
	}
	a.Name = name
	a.Metadata = metadata
	return a, nil
}

// Encode writes t's fields. Description/Metadata ride along as TLV too,
// since both are optional "tag" style fields.
func (t *Transaction) Encode(w io.Writer) error {
	if err := writeElements(w, t.ID, t.From, t.To, t.Value, t.Creator, t.Created); err != nil {
		return err
	}
	return encodeOptionalFields(w, t.Description, t.Metadata, nil)
}

// DecodeTransaction reads a Transaction written by Encode.
func DecodeTransaction(r io.Reader) (*Transaction, error) {
	t := &Transaction{}
	err := readElements(r, &t.ID, &t.From, &t.To, &t.Value, &t.Creator, &t.Created)
	if err != nil {
		return nil, err
	}
	desc, metadata, _, err := decodeOptionalFields(r)
	if err != nil {
		return nil, err
	}
	t.Description = desc
	t.Metadata = metadata
	return t, nil
}

// Encode writes z's required fields, its member/account/transaction maps
// (each entry via the entity's own Encode), and its optional name/metadata.
func (z *Zone) Encode(w io.Writer) error {
	err := writeElements(w,
		z.ID, z.EquityAccountID, z.Created, z.Expires,
	)
	if err != nil {
		return err
	}

	if err := writeUint64(w, uint64(len(z.Members))); err != nil {
		return err
	}
	for _, m := range z.Members {
		if err := m.Encode(w); err != nil {
			return err
		}
	}

	if err := writeUint64(w, uint64(len(z.Accounts))); err != nil {
		return err
	}
	for _, a := range z.Accounts {
		if err := a.Encode(w); err != nil {
			return err
		}
	}

	if err := writeUint64(w, uint64(len(z.Transactions))); err != nil {
		return err
	}
	for _, t := range z.Transactions {
		if err := t.Encode(w); err != nil {
			return err
		}
	}

	return encodeOptionalFields(w, z.Name, z.Metadata, nil)
}

// DecodeZone reads a Zone written by Encode.
func DecodeZone(r io.Reader) (*Zone, error) {
	z := &Zone{
		Members:      make(map[MemberID]*Member),
		Accounts:     make(map[AccountID]*Account),
		Transactions: make(map[TransactionID]*Transaction),
	}

	err := readElements(r, &z.ID, &z.EquityAccountID, &z.Created, &z.Expires)
	if err != nil {
		return nil, err
	}

	nMembers, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nMembers; i++ {
		m, err := DecodeMember(r)
		if err != nil {
			return nil, err
		}
		z.Members[m.ID] = m
	}

	nAccounts, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nAccounts; i++ {
		a, err := DecodeAccount(r)
		if err != nil {
			return nil, err
		}
		z.Accounts[a.ID] = a
	}

	nTxns, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < nTxns; i++ {
		t, err := DecodeTransaction(r)
		if err != nil {
			return nil, err
		}
		z.Transactions[t.ID] = t
	}

	name, metadata, _, err := decodeOptionalFields(r)
	if err != nil {
		return nil, err
	}
	z.Name = name
	z.Metadata = metadata

	return z, nil
}
