package database_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gohornet/tally/pkg/database"
)

func TestDatabaseEngine(t *testing.T) {
	engine, err := database.DatabaseEngine("Pebble")
	require.NoError(t, err)
	require.Equal(t, database.EnginePebble, engine)

	engine, err = database.DatabaseEngine("mapdb")
	require.NoError(t, err)
	require.Equal(t, database.EngineMapDB, engine)

	_, err = database.DatabaseEngine("rocksdb")
	require.ErrorIs(t, err, database.ErrUnknownEngine)
}

func TestCheckDatabaseEngine(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "polls")

	_, err := database.CheckDatabaseEngine(dir, false, database.EnginePebble)
	require.Error(t, err)

	engine, err := database.CheckDatabaseEngine(dir, true, database.EnginePebble)
	require.NoError(t, err)
	require.Equal(t, database.EnginePebble, engine)

	loaded, err := database.LoadDatabaseEngineFromFile(filepath.Join(dir, "dbinfo"))
	require.NoError(t, err)
	require.Equal(t, database.EnginePebble, loaded)

	// the info file pins the engine
	engine, err = database.CheckDatabaseEngine(dir, false, database.EnginePebble)
	require.NoError(t, err)
	require.Equal(t, database.EnginePebble, engine)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "dbinfo"), []byte(`databaseEngine = "mapdb"`), 0660))
	_, err = database.CheckDatabaseEngine(dir, false, database.EnginePebble)
	require.Error(t, err)
}

func TestNew_MapDB(t *testing.T) {
	db, err := database.New("", database.EngineMapDB, false)
	require.NoError(t, err)
	require.Equal(t, database.EngineMapDB, db.Engine())
	require.False(t, db.CompactionSupported())
	require.Empty(t, db.Path())

	require.NoError(t, db.KVStore().Set([]byte("key"), []byte("value")))
	value, err := db.KVStore().Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), value)

	require.NoError(t, db.Close())
}

func TestNew_PebblePersists(t *testing.T) {
	dir := t.TempDir()

	db, err := database.New(dir, database.EnginePebble, false)
	require.NoError(t, err)
	require.True(t, db.CompactionSupported())
	require.Equal(t, dir, db.Path())

	require.NoError(t, db.KVStore().Set([]byte("key"), []byte("value")))
	require.NoError(t, db.Close())

	reopened, err := database.New(dir, database.EnginePebble, false)
	require.NoError(t, err)

	value, err := reopened.KVStore().Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), value)
	require.NoError(t, reopened.Close())
}
