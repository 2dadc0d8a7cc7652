package zonedb

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/boltdb/bolt"

	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"
)

// Snapshot is a point-in-time rendering of a zone, purely an optimization
// over replaying from event zero. Replay always works from sequence zero
// whether or not a snapshot exists. LastSequence is the last journal event
// the snapshot includes; a caller restoring it folds the remaining events
// with ReplayFrom(LastSequence). Nothing here checks the snapshot against
// the journal (spec.md section 6).
type Snapshot struct {
	Zone         zonewire.Zone
	Balances     map[zonewire.AccountID]zonewire.Decimal
	LastSequence uint64
}

// SaveSnapshot overwrites the stored snapshot for the zone.
func (d *DB) SaveSnapshot(zoneID zonewire.ZoneID, snap *Snapshot) error {
	var buf bytes.Buffer
	if err := encodeSnapshot(&buf, snap); err != nil {
		return err
	}

	persistenceID := PersistenceID(zoneID)
	return d.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(snapshotsBucket)
		return bucket.Put(persistenceID, buf.Bytes())
	})
}

// LoadSnapshot fetches the stored snapshot for the zone, or ErrNoSnapshot if
// none has ever been taken.
func (d *DB) LoadSnapshot(zoneID zonewire.ZoneID) (*Snapshot, error) {
	persistenceID := PersistenceID(zoneID)

	var raw []byte
	err := d.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(snapshotsBucket)
		v := bucket.Get(persistenceID)
		if v == nil {
			return ErrNoSnapshot
		}
		raw = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return decodeSnapshot(bytes.NewReader(raw))
}

func encodeSnapshot(w io.Writer, snap *Snapshot) error {
	if err := snap.Zone.Encode(w); err != nil {
		return err
	}

	var seqBuf [8]byte
	binary.BigEndian.PutUint64(seqBuf[:], snap.LastSequence)
	if _, err := w.Write(seqBuf[:]); err != nil {
		return err
	}

	var countBuf [8]byte
	binary.BigEndian.PutUint64(countBuf[:], uint64(len(snap.Balances)))
	if _, err := w.Write(countBuf[:]); err != nil {
		return err
	}

	for id, bal := range snap.Balances {
		if err := writeLenPrefixed(w, []byte(id)); err != nil {
			return err
		}
		if err := writeLenPrefixed(w, []byte(bal.String())); err != nil {
			return err
		}
	}
	return nil
}

func decodeSnapshot(r io.Reader) (*Snapshot, error) {
	zone, err := zonewire.DecodeZone(r)
	if err != nil {
		return nil, err
	}

	var seqBuf [8]byte
	if _, err := io.ReadFull(r, seqBuf[:]); err != nil {
		return nil, err
	}
	lastSeq := binary.BigEndian.Uint64(seqBuf[:])

	var countBuf [8]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, err
	}
	count := binary.BigEndian.Uint64(countBuf[:])

	balances := make(map[zonewire.AccountID]zonewire.Decimal, count)
	for i := uint64(0); i < count; i++ {
		idBytes, err := readLenPrefixed(r)
		if err != nil {
			return nil, err
		}
		valBytes, err := readLenPrefixed(r)
		if err != nil {
			return nil, err
		}
		dec, err := zonewire.ParseDecimal(string(valBytes))
		if err != nil {
			return nil, err
		}
		balances[zonewire.AccountID(idBytes)] = dec
	}

	return &Snapshot{Zone: *zone, Balances: balances, LastSequence: lastSeq}, nil
}

func writeLenPrefixed(w io.Writer, b []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readLenPrefixed(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	buf := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
	}
	return buf, nil
}
