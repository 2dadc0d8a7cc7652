package zonedb

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dir, err := os.MkdirTemp("", "zonedb-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	db, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAppendAndReplayPreservesOrder(t *testing.T) {
	db := openTestDB(t)
	zoneID := zonewire.ZoneID("zone-1")

	handles := []zonewire.ClientHandle{"client-a", "client-b", "client-c"}
	for _, h := range handles {
		ev := &zonewire.ZoneEventEnvelope{
			PublicKey: zonewire.PublicKey("key"),
			Timestamp: 1000,
			ZoneEvent: &zonewire.ClientJoinedEvent{Handle: h},
		}
		_, err := db.Append(zoneID, ev)
		require.NoError(t, err)
	}

	var replayed []zonewire.ClientHandle
	var seqs []uint64
	err := db.Replay(zoneID, func(seq uint64, ev *zonewire.ZoneEventEnvelope) error {
		seqs = append(seqs, seq)
		joined := ev.ZoneEvent.(*zonewire.ClientJoinedEvent)
		replayed = append(replayed, joined.Handle)
		return nil
	})
	require.NoError(t, err)

	require.Equal(t, handles, replayed)
	require.Equal(t, []uint64{0, 1, 2}, seqs)
}

func TestReplayUnknownZoneReturnsErrJournalNotFound(t *testing.T) {
	db := openTestDB(t)
	err := db.Replay(zonewire.ZoneID("nope"), func(uint64, *zonewire.ZoneEventEnvelope) error {
		return nil
	})
	require.ErrorIs(t, err, ErrJournalNotFound)
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := openTestDB(t)
	zoneID := zonewire.ZoneID("zone-2")

	zone := zonewire.NewZone(zoneID, "0", 1000, nil, nil)
	snap := &Snapshot{
		Zone: *zone,
		Balances: map[zonewire.AccountID]zonewire.Decimal{
			"0": zonewire.NewDecimalFromInt64(100),
		},
		LastSequence: 4,
	}

	require.NoError(t, db.SaveSnapshot(zoneID, snap))

	got, err := db.LoadSnapshot(zoneID)
	require.NoError(t, err)
	require.Equal(t, uint64(4), got.LastSequence)
	require.Equal(t, zoneID, got.Zone.ID)
	require.Equal(t, 0, got.Balances["0"].Cmp(zonewire.NewDecimalFromInt64(100)))
}

func TestLoadSnapshotMissingReturnsErrNoSnapshot(t *testing.T) {
	db := openTestDB(t)
	_, err := db.LoadSnapshot(zonewire.ZoneID("absent"))
	require.ErrorIs(t, err, ErrNoSnapshot)
}
