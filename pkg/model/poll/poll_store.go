package poll

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/marshalutil"
)

// Catalog

func catalogKeyForPollID(pollID PollID) []byte {
	m := marshalutil.New(5)
	m.WriteByte(StoreKeyPrefixCatalog) // 1 byte
	m.WriteUint32(uint32(pollID))      // 4 bytes
	return m.Bytes()
}

func readCatalog(store kvstore.KVStore, pollID PollID) (OptionCatalog, error) {
	value, err := store.Get(catalogKeyForPollID(pollID))
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError(err, "failed to read option catalog")
	}

	return OptionCatalogFromBytes(value)
}

// Tallies

func talliesKeyForPollID(pollID PollID) []byte {
	m := marshalutil.New(5)
	m.WriteByte(StoreKeyPrefixTallies) // 1 byte
	m.WriteUint32(uint32(pollID))      // 4 bytes
	return m.Bytes()
}

func readTallies(store kvstore.KVStore, pollID PollID) (TallyVector, error) {
	value, err := store.Get(talliesKeyForPollID(pollID))
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return TallyVector{}, nil
	}
	if err != nil {
		return nil, storageError(err, "failed to read tallies")
	}

	return TallyVectorFromBytes(value)
}

// Voters

func votersKeyPrefixForPollID(pollID PollID) []byte {
	m := marshalutil.New(5)
	m.WriteByte(StoreKeyPrefixVoters) // 1 byte
	m.WriteUint32(uint32(pollID))     // 4 bytes
	return m.Bytes()
}

func voterKeyForPollIDAndIdentity(pollID PollID, voter Identity) []byte {
	m := marshalutil.New(37)
	m.WriteBytes(votersKeyPrefixForPollID(pollID)) // 5 bytes
	m.WriteBytes(voter[:])                         // 32 bytes
	return m.Bytes()
}

func voterCountKeyForPollID(pollID PollID) []byte {
	m := marshalutil.New(5)
	m.WriteByte(StoreKeyPrefixVoterCount) // 1 byte
	m.WriteUint32(uint32(pollID))         // 4 bytes
	return m.Bytes()
}

func readVoterCount(store kvstore.KVStore, pollID PollID) (uint64, error) {
	value, err := store.Get(voterCountKeyForPollID(pollID))
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, storageError(err, "failed to read voter count")
	}

	count, err := marshalutil.New(value).ReadUint64()
	if err != nil {
		return 0, errors.Wrap(err, "invalid voter count")
	}

	return count, nil
}

func voterCountBytes(count uint64) []byte {
	m := marshalutil.New(8)
	m.WriteUint64(count)
	return m.Bytes()
}

func pollIDFromKey(key kvstore.Key) (PollID, error) {
	// Skip the prefix
	id, err := marshalutil.New(key[1:]).ReadUint32()
	if err != nil {
		return 0, err
	}

	return PollID(id), nil
}

// readPollIDs returns the sorted poll ids of all keys with the given prefix.
func readPollIDs(store kvstore.KVStore, keyPrefix byte) ([]PollID, error) {
	var pollIDs []PollID

	var innerErr error
	if err := store.IterateKeys(kvstore.KeyPrefix{keyPrefix}, func(key kvstore.Key) bool {
		pollID, err := pollIDFromKey(key)
		if err != nil {
			innerErr = errors.Wrapf(err, "invalid key with prefix %d", keyPrefix)
			return false
		}

		pollIDs = append(pollIDs, pollID)
		return true
	}); err != nil {
		return nil, storageError(err, "failed to iterate poll keys")
	}

	if innerErr != nil {
		return nil, innerErr
	}

	sort.Slice(pollIDs, func(i, j int) bool { return pollIDs[i] < pollIDs[j] })

	return pollIDs, nil
}
