package zonedb

import "errors"

// Sentinel errors, mirroring channeldb's error.go convention of small
// exported fmt.Errorf/errors.New values rather than a typed error hierarchy.
var (
	// ErrMetaNotFound is returned when the meta bucket has no version
	// record yet, i.e. a freshly created database.
	ErrMetaNotFound = errors.New("zonedb: metadata not found")

	// ErrJournalNotFound is returned by Replay/ReplayFrom when no journal
	// bucket exists yet for the requested persistence id. Append creates
	// the bucket on first use instead.
	ErrJournalNotFound = errors.New("zonedb: journal not found")

	// ErrNoSnapshot is returned by LoadSnapshot when the zone has never
	// been snapshotted. Never fatal: callers fall back to full replay.
	ErrNoSnapshot = errors.New("zonedb: no snapshot")

	// ErrCorruptJournal is returned when a stored record fails to decode
	// as a zonewire.ZoneEventEnvelope.
	ErrCorruptJournal = errors.New("zonedb: corrupt journal record")
)
