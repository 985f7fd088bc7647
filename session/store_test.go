package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobiusaolo/Cariya-wallet/models"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := OpenBolt(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)

	rec, err := store.Load()
	require.NoError(t, err)
	assert.True(t, rec.Empty())

	want := Record{
		Token:    "tok-1",
		UserID:   "user-1",
		UserInfo: models.UserInfo{"firstName": "Amina", "numChildren": float64(2)},
	}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBoltStoreClear(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Save(Record{Token: "t", UserID: "u"}))
	require.NoError(t, store.Clear())

	rec, err := store.Load()
	require.NoError(t, err)
	assert.True(t, rec.Empty())

	// Clearing an already empty store is fine.
	require.NoError(t, store.Clear())
}

func TestRecordEmpty(t *testing.T) {
	assert.True(t, Record{}.Empty())
	assert.True(t, Record{Token: "t"}.Empty())
	assert.True(t, Record{UserID: "u"}.Empty())
	assert.False(t, Record{Token: "t", UserID: "u"}.Empty())
}
