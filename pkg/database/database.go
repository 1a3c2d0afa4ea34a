package database

import (
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
	"github.com/iotaledger/hive.go/kvstore/pebble"
)

// DatabaseCompactionCaller is the caller of the DatabaseCompaction event.
func DatabaseCompactionCaller(handler interface{}, params ...interface{}) {
	handler.(func(bool))(params[0].(bool))
}

type Events struct {
	// DatabaseCompaction is triggered with true when a compaction starts and with false when it ends.
	DatabaseCompaction *events.Event
}

// Database holds the underlying KVStore and database specific functions.
type Database struct {
	engine            Engine
	path              string
	store             kvstore.KVStore
	events            *Events
	compactionRunning *atomic.Bool
}

// New opens the store of the given engine at path.
// Pebble databases are created if they do not exist yet.
func New(path string, engine Engine, verbose bool) (*Database, error) {

	db := &Database{
		engine: engine,
		path:   path,
		events: &Events{
			DatabaseCompaction: events.NewEvent(DatabaseCompactionCaller),
		},
		compactionRunning: atomic.NewBool(false),
	}

	targetEngine, err := CheckDatabaseEngine(path, true, engine)
	if err != nil {
		return nil, err
	}

	switch targetEngine {
	case EnginePebble:
		pebbleInstance, err := NewPebbleDB(path, db.reportCompactionRunning, verbose)
		if err != nil {
			return nil, errors.Wrapf(err, "opening pebble database at %s failed", path)
		}
		db.store = pebble.New(pebbleInstance)

	case EngineMapDB:
		db.store = mapdb.NewMapDB()

	default:
		return nil, errors.Wrapf(ErrUnknownEngine, "%s", targetEngine)
	}

	return db, nil
}

func (db *Database) reportCompactionRunning(running bool) {
	db.compactionRunning.Store(running)
	db.events.DatabaseCompaction.Trigger(running)
}

// Engine returns the engine of the database.
func (db *Database) Engine() Engine {
	return db.engine
}

// Path returns the directory of the database. It is empty for in-memory databases.
func (db *Database) Path() string {
	if db.engine == EngineMapDB {
		return ""
	}
	return db.path
}

// KVStore returns the underlying KVStore.
func (db *Database) KVStore() kvstore.KVStore {
	return db.store
}

// Events returns the events of the database.
func (db *Database) Events() *Events {
	return db.events
}

// CompactionSupported returns whether the database engine supports compaction.
func (db *Database) CompactionSupported() bool {
	return db.engine == EnginePebble
}

// CompactionRunning returns whether a compaction is running.
func (db *Database) CompactionRunning() bool {
	return db.compactionRunning.Load()
}

// Close flushes and closes the database.
func (db *Database) Close() error {
	if err := db.store.Flush(); err != nil {
		return err
	}
	return db.store.Close()
}
