package storage

import (
	"github.com/pkg/errors"

	"github.com/gohornet/tally/pkg/common"
	"github.com/iotaledger/hive.go/kvstore"
)

const (
	DBVersion = 1

	// StorePrefixPoll is the realm of the poll data.
	StorePrefixPoll byte = 1
	// StorePrefixHealth is the realm of the health markers.
	StorePrefixHealth byte = 255
)

var (
	ErrDatabaseCorrupted = errors.New("the poll database was not shutdown properly")
	ErrDatabaseTainted   = errors.New("the poll database is tainted")
	ErrDatabaseVersion   = errors.New("the poll database has an incompatible version")
)

// Storage splits a store into the realms used by the node.
type Storage struct {
	store         kvstore.KVStore
	pollStore     kvstore.KVStore
	healthTracker *StoreHealthTracker
}

func New(store kvstore.KVStore) (*Storage, error) {
	healthTracker, err := NewStoreHealthTracker(store)
	if err != nil {
		return nil, err
	}

	return &Storage{
		store:         store,
		pollStore:     store.WithRealm([]byte{StorePrefixPoll}),
		healthTracker: healthTracker,
	}, nil
}

// PollStore returns the realm holding catalogs, tallies and voter records.
func (s *Storage) PollStore() kvstore.KVStore {
	return s.pollStore
}

func (s *Storage) HealthTracker() *StoreHealthTracker {
	return s.healthTracker
}

// CheckHealth returns an error if the store was not shutdown properly, is tainted or has a different version.
// Corruption and version mismatches are critical.
func (s *Storage) CheckHealth() error {
	corrupted, err := s.healthTracker.IsCorrupted()
	if err != nil {
		return err
	}
	if corrupted {
		return common.CriticalError{Err: ErrDatabaseCorrupted}
	}

	tainted, err := s.healthTracker.IsTainted()
	if err != nil {
		return err
	}
	if tainted {
		return common.CriticalError{Err: ErrDatabaseTainted}
	}

	correctVersion, err := s.healthTracker.CheckCorrectDatabaseVersion()
	if err != nil {
		return err
	}
	if !correctVersion {
		return common.CriticalError{Err: ErrDatabaseVersion}
	}

	return nil
}

// MarkCorrupted marks the store as in use. It is reverted by Shutdown.
func (s *Storage) MarkCorrupted() error {
	return s.healthTracker.MarkCorrupted()
}

func (s *Storage) MarkTainted() error {
	return s.healthTracker.MarkTainted()
}

// Shutdown flushes the store and marks it healthy.
func (s *Storage) Shutdown() error {
	if err := s.store.Flush(); err != nil {
		return errors.Wrap(common.NewDatabaseError(err), "failed to flush store")
	}

	return s.healthTracker.MarkHealthy()
}
