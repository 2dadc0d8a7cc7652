package zonedb

import (
	"encoding/binary"

	"github.com/boltdb/bolt"
)

var metaVersionKey = []byte("dbp")

type dbMeta struct {
	Version uint32
}

func putMeta(tx *bolt.Tx, meta *dbMeta) error {
	bucket := tx.Bucket(metaBucket)
	var b [4]byte
	byteOrder.PutUint32(b[:], meta.Version)
	return bucket.Put(metaVersionKey, b[:])
}

func fetchMeta(tx *bolt.Tx) (*dbMeta, error) {
	bucket := tx.Bucket(metaBucket)
	if bucket == nil {
		return nil, ErrMetaNotFound
	}
	v := bucket.Get(metaVersionKey)
	if v == nil {
		return nil, ErrMetaNotFound
	}
	return &dbMeta{Version: binary.BigEndian.Uint32(v)}, nil
}

func (d *DB) fetchMeta() (*dbMeta, error) {
	var meta *dbMeta
	err := d.View(func(tx *bolt.Tx) error {
		m, err := fetchMeta(tx)
		if err != nil {
			return err
		}
		meta = m
		return nil
	})
	return meta, err
}
