package zonedb

import (
	"bytes"

	"github.com/boltdb/bolt"

	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"
)

// Append persists ev to the zone's journal, assigning it the next monotonic
// sequence number (the "decimal index of insertion" id scheme of spec.md
// section 3), and returns that sequence number. A zone's very first event
// gets sequence 0.
func (d *DB) Append(zoneID zonewire.ZoneID, ev *zonewire.ZoneEventEnvelope) (uint64, error) {
	persistenceID := PersistenceID(zoneID)

	var buf bytes.Buffer
	if err := zonewire.EncodeEventEnvelope(&buf, ev); err != nil {
		return 0, err
	}

	var seq uint64
	err := d.Update(func(tx *bolt.Tx) error {
		journals := tx.Bucket(journalsBucket)
		bucket, err := journals.CreateBucketIfNotExists(persistenceID)
		if err != nil {
			return err
		}

		seq = uint64(bucket.Stats().KeyN)

		var key [8]byte
		byteOrder.PutUint64(key[:], seq)
		return bucket.Put(key[:], buf.Bytes())
	})
	if err != nil {
		return 0, err
	}

	return seq, nil
}

// Replay reads every event in the zone's journal, in insertion order,
// invoking fn for each. It never trusts the snapshot bucket — correctness
// always holds from sequence zero, per spec.md section 6.
func (d *DB) Replay(zoneID zonewire.ZoneID, fn func(seq uint64, ev *zonewire.ZoneEventEnvelope) error) error {
	persistenceID := PersistenceID(zoneID)

	return d.View(func(tx *bolt.Tx) error {
		journals := tx.Bucket(journalsBucket)
		bucket := journals.Bucket(persistenceID)
		if bucket == nil {
			return ErrJournalNotFound
		}

		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			seq := byteOrder.Uint64(k)
			ev, err := zonewire.DecodeEventEnvelope(bytes.NewReader(v))
			if err != nil {
				return ErrCorruptJournal
			}
			if err := fn(seq, ev); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplayFrom reads every event in the zone's journal whose sequence number
// is strictly greater than afterSeq, in insertion order. A validator that
// has restored a snapshot through afterSeq calls this instead of Replay to
// avoid refolding events the snapshot already accounts for (spec.md section
// 6). Because afterSeq itself is skipped, ReplayFrom(zoneID, 0, fn) omits
// the zone's first event and is not equivalent to Replay.
func (d *DB) ReplayFrom(zoneID zonewire.ZoneID, afterSeq uint64, fn func(seq uint64, ev *zonewire.ZoneEventEnvelope) error) error {
	persistenceID := PersistenceID(zoneID)

	return d.View(func(tx *bolt.Tx) error {
		journals := tx.Bucket(journalsBucket)
		bucket := journals.Bucket(persistenceID)
		if bucket == nil {
			return ErrJournalNotFound
		}

		var seekKey [8]byte
		byteOrder.PutUint64(seekKey[:], afterSeq)

		c := bucket.Cursor()
		k, v := c.Seek(seekKey[:])
		if k != nil && bytes.Equal(k, seekKey[:]) {
			// Seek lands on afterSeq itself if present; skip it since
			// ReplayFrom is exclusive of afterSeq.
			k, v = c.Next()
		}
		for ; k != nil; k, v = c.Next() {
			seq := byteOrder.Uint64(k)
			ev, err := zonewire.DecodeEventEnvelope(bytes.NewReader(v))
			if err != nil {
				return ErrCorruptJournal
			}
			if err := fn(seq, ev); err != nil {
				return err
			}
		}
		return nil
	})
}

// LastSequence returns the sequence number of the most recently appended
// event for zoneID, and false if the journal is empty or absent.
func (d *DB) LastSequence(zoneID zonewire.ZoneID) (uint64, bool, error) {
	persistenceID := PersistenceID(zoneID)

	var seq uint64
	var ok bool
	err := d.View(func(tx *bolt.Tx) error {
		journals := tx.Bucket(journalsBucket)
		bucket := journals.Bucket(persistenceID)
		if bucket == nil {
			return nil
		}
		k, _ := bucket.Cursor().Last()
		if k == nil {
			return nil
		}
		seq = byteOrder.Uint64(k)
		ok = true
		return nil
	})
	return seq, ok, err
}

// JournalExists reports whether any events have ever been appended for
// zoneID, distinguishing "zone never existed" from "zone has zero events".
func (d *DB) JournalExists(zoneID zonewire.ZoneID) (bool, error) {
	persistenceID := PersistenceID(zoneID)
	var exists bool
	err := d.View(func(tx *bolt.Tx) error {
		journals := tx.Bucket(journalsBucket)
		exists = journals.Bucket(persistenceID) != nil
		return nil
	})
	return exists, err
}
