package storage

import (
	"github.com/pkg/errors"

	"github.com/gohornet/tally/pkg/common"
	"github.com/iotaledger/hive.go/kvstore"
)

var (
	healthKeyCorrupted = []byte("dbCorrupted")
	healthKeyTainted   = []byte("dbTainted")
	healthKeyVersion   = []byte("dbVersion")
)

// StoreHealthTracker keeps track of the version and the health markers of a store.
type StoreHealthTracker struct {
	store kvstore.KVStore
}

func NewStoreHealthTracker(store kvstore.KVStore) (*StoreHealthTracker, error) {
	s := &StoreHealthTracker{
		store: store.WithRealm([]byte{StorePrefixHealth}),
	}

	if err := s.setDatabaseVersion(DBVersion); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *StoreHealthTracker) MarkCorrupted() error {

	if err := s.store.Set(healthKeyCorrupted, []byte{}); err != nil {
		return errors.Wrap(common.NewDatabaseError(err), "failed to set database health status")
	}
	return s.store.Flush()
}

func (s *StoreHealthTracker) MarkTainted() error {

	if err := s.store.Set(healthKeyTainted, []byte{}); err != nil {
		return errors.Wrap(common.NewDatabaseError(err), "failed to set database health status")
	}
	return s.store.Flush()
}

func (s *StoreHealthTracker) MarkHealthy() error {

	if err := s.store.Delete(healthKeyCorrupted); err != nil {
		return errors.Wrap(common.NewDatabaseError(err), "failed to set database health status")
	}
	return s.store.Flush()
}

func (s *StoreHealthTracker) IsCorrupted() (bool, error) {

	contains, err := s.store.Has(healthKeyCorrupted)
	if err != nil {
		return true, errors.Wrap(common.NewDatabaseError(err), "failed to read database health status")
	}
	return contains, nil
}

func (s *StoreHealthTracker) IsTainted() (bool, error) {

	contains, err := s.store.Has(healthKeyTainted)
	if err != nil {
		return true, errors.Wrap(common.NewDatabaseError(err), "failed to read database health status")
	}
	return contains, nil
}

// DatabaseVersion returns the database version.
func (s *StoreHealthTracker) DatabaseVersion() (int, error) {

	value, err := s.store.Get(healthKeyVersion)
	if err != nil {
		return 0, errors.Wrap(common.NewDatabaseError(err), "failed to read database version")
	}

	if len(value) < 1 {
		return 0, errors.New("failed to read database version: empty value")
	}

	return int(value[0]), nil
}

func (s *StoreHealthTracker) setDatabaseVersion(version byte) error {

	_, err := s.store.Get(healthKeyVersion)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		// Only create the entry, if it doesn't exist already (fresh database)
		if err := s.store.Set(healthKeyVersion, []byte{version}); err != nil {
			return errors.Wrap(common.NewDatabaseError(err), "failed to set database version")
		}
		return nil
	}
	if err != nil {
		return errors.Wrap(common.NewDatabaseError(err), "failed to read database version")
	}

	return nil
}

func (s *StoreHealthTracker) CheckCorrectDatabaseVersion() (bool, error) {

	version, err := s.DatabaseVersion()
	if err != nil {
		return false, err
	}

	return version == DBVersion, nil
}
