package storage_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/tally/pkg/common"
	"github.com/gohornet/tally/pkg/model/storage"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
)

func TestStorage_HealthLifecycle(t *testing.T) {
	store := mapdb.NewMapDB()

	s, err := storage.New(store)
	require.NoError(t, err)
	require.NoError(t, s.CheckHealth())

	version, err := s.HealthTracker().DatabaseVersion()
	require.NoError(t, err)
	require.Equal(t, storage.DBVersion, version)

	require.NoError(t, s.MarkCorrupted())

	// a restart without proper shutdown detects the marker
	restarted, err := storage.New(store)
	require.NoError(t, err)

	err = restarted.CheckHealth()
	require.ErrorIs(t, err, storage.ErrDatabaseCorrupted)
	var criticalErr common.CriticalError
	require.True(t, errors.As(err, &criticalErr))

	require.NoError(t, restarted.Shutdown())
	require.NoError(t, restarted.CheckHealth())

	require.NoError(t, restarted.MarkTainted())
	require.ErrorIs(t, restarted.CheckHealth(), storage.ErrDatabaseTainted)
}

func TestStorage_RealmsAreSeparated(t *testing.T) {
	store := mapdb.NewMapDB()

	s, err := storage.New(store)
	require.NoError(t, err)

	require.NoError(t, s.PollStore().Set([]byte("dbCorrupted"), []byte{}))
	require.NoError(t, s.CheckHealth())
}

func TestStorage_VersionMismatch(t *testing.T) {
	store := mapdb.NewMapDB()
	require.NoError(t, store.WithRealm([]byte{storage.StorePrefixHealth}).Set([]byte("dbVersion"), []byte{storage.DBVersion + 1}))

	s, err := storage.New(store)
	require.NoError(t, err)
	require.ErrorIs(t, s.CheckHealth(), storage.ErrDatabaseVersion)
}
