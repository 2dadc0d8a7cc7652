package zoneengine

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonedb"
	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"
)

// genTestKey returns a DER-encoded RSA SubjectPublicKeyInfo of the given
// modulus size, for boundary tests (2047 vs 2048 bits).
func genTestKey(t *testing.T, bits int) zonewire.PublicKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, bits)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	return zonewire.PublicKey(der)
}

// fakeJournal is an in-memory Journal for tests that don't need BoltDB. It
// satisfies the zoneengine.Journal interface in full, including snapshots,
// so it can stand in anywhere a *zonedb.DB would.
type fakeJournal struct {
	events    map[zonewire.ZoneID][]*zonewire.ZoneEventEnvelope
	snapshots map[zonewire.ZoneID]*zonedb.Snapshot
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{
		events:    make(map[zonewire.ZoneID][]*zonewire.ZoneEventEnvelope),
		snapshots: make(map[zonewire.ZoneID]*zonedb.Snapshot),
	}
}

func (f *fakeJournal) Append(zoneID zonewire.ZoneID, ev *zonewire.ZoneEventEnvelope) (uint64, error) {
	f.events[zoneID] = append(f.events[zoneID], ev)
	return uint64(len(f.events[zoneID]) - 1), nil
}

func (f *fakeJournal) Replay(zoneID zonewire.ZoneID, fn func(seq uint64, ev *zonewire.ZoneEventEnvelope) error) error {
	for i, ev := range f.events[zoneID] {
		if err := fn(uint64(i), ev); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeJournal) ReplayFrom(zoneID zonewire.ZoneID, afterSeq uint64, fn func(seq uint64, ev *zonewire.ZoneEventEnvelope) error) error {
	for i, ev := range f.events[zoneID] {
		seq := uint64(i)
		if seq <= afterSeq {
			continue
		}
		if err := fn(seq, ev); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeJournal) SaveSnapshot(zoneID zonewire.ZoneID, snap *zonedb.Snapshot) error {
	f.snapshots[zoneID] = snap
	return nil
}

func (f *fakeJournal) LoadSnapshot(zoneID zonewire.ZoneID) (*zonedb.Snapshot, error) {
	snap, ok := f.snapshots[zoneID]
	if !ok {
		return nil, zonedb.ErrNoSnapshot
	}
	return snap, nil
}
