// Package zonedb is the zone event journal: an append-only, per-zone log of
// ZoneEventEnvelopes keyed by persistence id ("zone-" + zone id), plus an
// optional snapshot bucket used purely to speed up replay.
//
// Adapted from channeldb (github.com/lightningnetwork/lnd channeldb/db.go):
// same BoltDB-backed, schema-versioned-with-migrations shape, generalized
// from per-node channel/graph buckets to a single monotonic-sequence event
// bucket per zone.
package zonedb

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/boltdb/bolt"

	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"
)

const (
	dbName           = "zone.db"
	dbFilePermission = 0600
)

var byteOrder = binary.BigEndian

// migration mutates the bucket structure of an existing database in place,
// mirroring channeldb's migration type.
type migration func(tx *bolt.Tx) error

type version struct {
	number    uint32
	migration migration
}

// dbVersions lists every schema version this build knows how to migrate to,
// applied in order by syncVersions. Mirrors channeldb.dbVersions.
var dbVersions = []version{
	{number: 0, migration: nil},
}

var (
	// journalsBucket is the top level bucket holding one nested bucket
	// per persistence id.
	journalsBucket = []byte("journals")

	// snapshotsBucket holds the last-applied zonewire.Zone, msgpack-free
	// (wire-encoded) snapshot per persistence id. Purely an optimization:
	// Replay never reads it. A validator that finds a snapshot seeds its
	// state from it and folds only the later events via ReplayFrom; with no
	// snapshot it replays from sequence zero.
	snapshotsBucket = []byte("snapshots")

	metaBucket = []byte("meta")
)

// DB is the zone event journal.
type DB struct {
	*bolt.DB
	dbPath string
}

// Open opens (creating if necessary) the zone journal at dbPath.
func Open(dbPath string) (*DB, error) {
	path := filepath.Join(dbPath, dbName)

	if !fileExists(path) {
		if err := createZoneDB(dbPath); err != nil {
			return nil, err
		}
	}

	bdb, err := bolt.Open(path, dbFilePermission, nil)
	if err != nil {
		return nil, err
	}

	zdb := &DB{DB: bdb, dbPath: dbPath}
	if err := zdb.syncVersions(dbVersions); err != nil {
		bdb.Close()
		return nil, err
	}

	return zdb, nil
}

func createZoneDB(dbPath string) error {
	if !fileExists(dbPath) {
		if err := os.MkdirAll(dbPath, 0700); err != nil {
			return err
		}
	}

	path := filepath.Join(dbPath, dbName)
	bdb, err := bolt.Open(path, dbFilePermission, nil)
	if err != nil {
		return err
	}

	err = bdb.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucket(journalsBucket); err != nil {
			return err
		}
		if _, err := tx.CreateBucket(snapshotsBucket); err != nil {
			return err
		}
		if _, err := tx.CreateBucket(metaBucket); err != nil {
			return err
		}

		meta := &dbMeta{Version: getLatestDBVersion(dbVersions)}
		return putMeta(tx, meta)
	})
	if err != nil {
		return fmt.Errorf("zonedb: unable to create new zone db: %w", err)
	}

	return bdb.Close()
}

func fileExists(path string) bool {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// PersistenceID is the durable journal key for a zone, "zone-" + zone id,
// per the Glossary in spec.md.
func PersistenceID(zoneID zonewire.ZoneID) []byte {
	return []byte("zone-" + string(zoneID))
}

func (d *DB) syncVersions(versions []version) error {
	meta, err := d.fetchMeta()
	if err != nil {
		if err == ErrMetaNotFound {
			meta = &dbMeta{}
		} else {
			return err
		}
	}

	latest := getLatestDBVersion(versions)
	if meta.Version == latest {
		return nil
	}

	migrations, versionNumbers := migrationsToApply(versions, meta.Version)
	return d.Update(func(tx *bolt.Tx) error {
		for i, m := range migrations {
			if m == nil {
				continue
			}
			if err := m(tx); err != nil {
				return fmt.Errorf("zonedb: migration #%d failed: %w",
					versionNumbers[i], err)
			}
		}
		meta.Version = latest
		return putMeta(tx, meta)
	})
}

func getLatestDBVersion(versions []version) uint32 {
	return versions[len(versions)-1].number
}

func migrationsToApply(versions []version, current uint32) ([]migration, []uint32) {
	var migrations []migration
	var numbers []uint32
	for _, v := range versions {
		if v.number > current {
			migrations = append(migrations, v.migration)
			numbers = append(numbers, v.number)
		}
	}
	return migrations, numbers
}
