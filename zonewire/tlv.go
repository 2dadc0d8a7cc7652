package zonewire

import (
	"bytes"
	"io"

	"github.com/lightningnetwork/lnd/tlv"
)

// Optional-field TLV types. These are local to a single message's extension
// stream (they do not need to be globally unique the way lnwire TLV types
// are), one small enum shared by every message that carries optional data.
const (
	tlvTypeName     tlv.Type = 0
	tlvTypeMetadata tlv.Type = 1
	tlvTypeActingAs tlv.Type = 2
)

// encodeOptionalFields serialises the given optional name/metadata (and,
// for AccountUpdated, the optional actingAs member id) as a TLV extension
// stream appended after a message's fixed-position required fields. This is
// the mechanism behind the backward-compatible decode of
// AccountUpdatedEvent(None, ...) described in spec.md section 9: a field
// absent from an older journal record simply has no corresponding TLV
// record, and decodeOptionalFields below leaves the pointer nil.
func encodeOptionalFields(w io.Writer, name *string, metadata []byte, actingAs *MemberID) error {
	var records []tlv.Record

	if name != nil {
		nameBytes := []byte(*name)
		records = append(records, tlv.MakeDynamicRecord(
			tlvTypeName, &nameBytes, func() uint64 { return uint64(len(nameBytes)) },
			tlv.EVarBytes, tlv.DVarBytes,
		))
	}
	if metadata != nil {
		records = append(records, tlv.MakeDynamicRecord(
			tlvTypeMetadata, &metadata, func() uint64 { return uint64(len(metadata)) },
			tlv.EVarBytes, tlv.DVarBytes,
		))
	}
	if actingAs != nil {
		actingBytes := []byte(*actingAs)
		records = append(records, tlv.MakeDynamicRecord(
			tlvTypeActingAs, &actingBytes, func() uint64 { return uint64(len(actingBytes)) },
			tlv.EVarBytes, tlv.DVarBytes,
		))
	}

	stream, err := tlv.NewStream(records...)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := stream.Encode(&buf); err != nil {
		return err
	}

	return writeVarBytes(w, buf.Bytes())
}

// decodeOptionalFields is the inverse of encodeOptionalFields. Any of the
// three optional fields not present in the stream are left nil/unchanged,
// which is exactly the tolerant-of-missing-fields behaviour spec.md section
// 9 calls for.
func decodeOptionalFields(r io.Reader) (name *string, metadata []byte, actingAs *MemberID, err error) {
	raw, err := readVarBytes(r)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(raw) == 0 {
		return nil, nil, nil, nil
	}

	var nameBytes, metaBytes, actingBytes []byte
	records := []tlv.Record{
		tlv.MakeDynamicRecord(
			tlvTypeName, &nameBytes, func() uint64 { return uint64(len(nameBytes)) },
			tlv.EVarBytes, tlv.DVarBytes,
		),
		tlv.MakeDynamicRecord(
			tlvTypeMetadata, &metaBytes, func() uint64 { return uint64(len(metaBytes)) },
			tlv.EVarBytes, tlv.DVarBytes,
		),
		tlv.MakeDynamicRecord(
			tlvTypeActingAs, &actingBytes, func() uint64 { return uint64(len(actingBytes)) },
			tlv.EVarBytes, tlv.DVarBytes,
		),
	}

	stream, err := tlv.NewStream(records...)
	if err != nil {
		return nil, nil, nil, err
	}

	parsed, err := stream.DecodeWithParsedTypes(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, nil, err
	}

	if _, ok := parsed[tlvTypeName]; ok {
		s := string(nameBytes)
		name = &s
	}
	if _, ok := parsed[tlvTypeMetadata]; ok {
		metadata = metaBytes
	}
	if _, ok := parsed[tlvTypeActingAs]; ok {
		id := MemberID(actingBytes)
		actingAs = &id
	}

	return name, metadata, actingAs, nil
}
