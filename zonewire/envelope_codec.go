package zonewire

import "io"

// EncodeEventEnvelope writes a ZoneEventEnvelope in full, including its
// length-delimited Message payload. Used by the journal (zonedb) to persist
// events.
func EncodeEventEnvelope(w io.Writer, ev *ZoneEventEnvelope) error {
	hasAddr := ev.RemoteAddress != nil
	if err := writeBool(w, hasAddr); err != nil {
		return err
	}
	if hasAddr {
		if err := writeString(w, *ev.RemoteAddress); err != nil {
			return err
		}
	}
	if err := writePublicKey(w, ev.PublicKey); err != nil {
		return err
	}
	if err := writeInt64(w, ev.Timestamp); err != nil {
		return err
	}
	_, err := WriteMessage(w, ev.ZoneEvent)
	return err
}

// DecodeEventEnvelope is the inverse of EncodeEventEnvelope.
func DecodeEventEnvelope(r io.Reader) (*ZoneEventEnvelope, error) {
	hasAddr, err := readBool(r)
	if err != nil {
		return nil, err
	}
	var addr *string
	if hasAddr {
		s, err := readString(r)
		if err != nil {
			return nil, err
		}
		addr = &s
	}

	pub, err := readPublicKey(r)
	if err != nil {
		return nil, err
	}

	ts, err := readInt64(r)
	if err != nil {
		return nil, err
	}

	msg, err := ReadMessage(r)
	if err != nil {
		return nil, err
	}

	return &ZoneEventEnvelope{
		RemoteAddress: addr,
		PublicKey:     pub,
		Timestamp:     ts,
		ZoneEvent:     msg,
	}, nil
}
