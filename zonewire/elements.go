package zonewire

// Element encoding helpers, adapted from lnwire's writeElements/readElements
// dispatch (github.com/lightningnetwork/lnd lnwire/message.go,
// lnwire/node_announcement.go): each field type knows how to write/read
// itself onto an io.Writer/from an io.Reader, and writeElements/readElements
// fan a variadic list of fields out to the right case.

import (
	"encoding/binary"
	"fmt"
	"io"
)

func writeVarBytes(w io.Writer, b []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	_, err := w.Write(b)
	return err
}

func readVarBytes(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeString(w io.Writer, s string) error {
	return writeVarBytes(w, []byte(s))
}

func readString(r io.Reader) (string, error) {
	b, err := readVarBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func writeOptionalString(w io.Writer, s *string) error {
	if s == nil {
		return writeVarBytes(w, nil)
	}
	return writeVarBytes(w, []byte(*s))
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

func writeInt64(w io.Writer, v int64) error {
	return writeUint64(w, uint64(v))
}

func readInt64(r io.Reader) (int64, error) {
	v, err := readUint64(r)
	return int64(v), err
}

func writeBool(w io.Writer, v bool) error {
	var b [1]byte
	if v {
		b[0] = 1
	}
	_, err := w.Write(b[:])
	return err
}

func readBool(r io.Reader) (bool, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

func writeDecimal(w io.Writer, d Decimal) error {
	return writeString(w, d.String())
}

func readDecimal(r io.Reader) (Decimal, error) {
	s, err := readString(r)
	if err != nil {
		return Decimal{}, err
	}
	return ParseDecimal(s)
}

func writePublicKey(w io.Writer, k PublicKey) error {
	return writeVarBytes(w, []byte(k))
}

func readPublicKey(r io.Reader) (PublicKey, error) {
	b, err := readVarBytes(r)
	if err != nil {
		return nil, err
	}
	return PublicKey(b), nil
}

func writePublicKeySet(w io.Writer, keys []PublicKey) error {
	if err := writeUint64(w, uint64(len(keys))); err != nil {
		return err
	}
	for _, k := range keys {
		if err := writePublicKey(w, k); err != nil {
			return err
		}
	}
	return nil
}

func readPublicKeySet(r io.Reader) ([]PublicKey, error) {
	n, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	keys := make([]PublicKey, 0, n)
	for i := uint64(0); i < n; i++ {
		k, err := readPublicKey(r)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func writeMemberIDSet(w io.Writer, ids []MemberID) error {
	if err := writeUint64(w, uint64(len(ids))); err != nil {
		return err
	}
	for _, id := range ids {
		if err := writeString(w, string(id)); err != nil {
			return err
		}
	}
	return nil
}

func readMemberIDSet(r io.Reader) ([]MemberID, error) {
	n, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	ids := make([]MemberID, 0, n)
	for i := uint64(0); i < n; i++ {
		s, err := readString(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, MemberID(s))
	}
	return ids, nil
}

// writeElements and readElements fan out to the concrete helper for each
// field's type, mirroring lnwire's type-switch dispatch. Keeping commands
// and events in terms of these (rather than each writing raw bytes inline)
// is what lets a new optional field be added as a TLV record without
// touching every caller.
func writeElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		if err := writeElement(w, element); err != nil {
			return err
		}
	}
	return nil
}

func readElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		if err := readElement(r, element); err != nil {
			return err
		}
	}
	return nil
}

func writeElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case ZoneID:
		return writeString(w, string(e))
	case MemberID:
		return writeString(w, string(e))
	case AccountID:
		return writeString(w, string(e))
	case TransactionID:
		return writeString(w, string(e))
	case ClientHandle:
		return writeString(w, string(e))
	case string:
		return writeString(w, e)
	case *string:
		return writeOptionalString(w, e)
	case []byte:
		return writeVarBytes(w, e)
	case bool:
		return writeBool(w, e)
	case int64:
		return writeInt64(w, e)
	case uint64:
		return writeUint64(w, e)
	case Decimal:
		return writeDecimal(w, e)
	case PublicKey:
		return writePublicKey(w, e)
	case []PublicKey:
		return writePublicKeySet(w, e)
	case []MemberID:
		return writeMemberIDSet(w, e)
	default:
		return fmt.Errorf("zonewire: unsupported element type %T", element)
	}
}

func readElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *ZoneID:
		s, err := readString(r)
		*e = ZoneID(s)
		return err
	case *MemberID:
		s, err := readString(r)
		*e = MemberID(s)
		return err
	case *AccountID:
		s, err := readString(r)
		*e = AccountID(s)
		return err
	case *TransactionID:
		s, err := readString(r)
		*e = TransactionID(s)
		return err
	case *ClientHandle:
		s, err := readString(r)
		*e = ClientHandle(s)
		return err
	case *string:
		s, err := readString(r)
		*e = s
		return err
	case **string:
		s, err := readString(r)
		if err != nil {
			return err
		}
		if s == "" {
			*e = nil
			return nil
		}
		*e = &s
		return nil
	case *[]byte:
		b, err := readVarBytes(r)
		*e = b
		return err
	case *bool:
		v, err := readBool(r)
		*e = v
		return err
	case *int64:
		v, err := readInt64(r)
		*e = v
		return err
	case *uint64:
		v, err := readUint64(r)
		*e = v
		return err
	case *Decimal:
		v, err := readDecimal(r)
		*e = v
		return err
	case *PublicKey:
		v, err := readPublicKey(r)
		*e = v
		return err
	case *[]PublicKey:
		v, err := readPublicKeySet(r)
		*e = v
		return err
	case *[]MemberID:
		v, err := readMemberIDSet(r)
		*e = v
		return err
	default:
		return fmt.Errorf("zonewire: unsupported element type %T", element)
	}
}
