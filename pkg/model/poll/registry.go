package poll

import (
	"fmt"
	"math"

	"github.com/gohornet/tally/pkg/utils"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/syncutils"
)

// Registry owns the option catalogs of the polls.
type Registry struct {
	// the logger used to log events.
	*utils.WrappedLogger

	store kvstore.KVStore
	opts  *Options

	// serializes the allocation of new poll ids.
	allocationMutex syncutils.Mutex

	Events *Events
}

// NewRegistry creates a new Registry on top of the given store.
func NewRegistry(store kvstore.KVStore, opts ...Option) *Registry {
	options := newOptions(opts)

	return &Registry{
		WrappedLogger: utils.NewWrappedLogger(options.logger),
		store:         store,
		opts:          options,
		Events:        newEvents(),
	}
}

type defineOptions struct {
	pollID PollID
}

// DefineOption is a function setting a DefinePoll option.
type DefineOption func(opts *defineOptions)

// WithPollID defines the poll the catalog is stored for.
func WithPollID(pollID PollID) DefineOption {
	return func(opts *defineOptions) {
		opts.pollID = pollID
	}
}

// DefinePoll stores the option catalog and returns the poll id.
// Without WithPollID the catalog is stored for DefaultPollID.
// An existing catalog of the poll is overwritten, recorded votes are kept.
func (r *Registry) DefinePoll(options []string, opts ...DefineOption) (PollID, error) {
	defOpts := &defineOptions{pollID: DefaultPollID}
	for _, opt := range opts {
		opt(defOpts)
	}

	catalog := OptionCatalog(options).Clone()
	catalogBytes, err := catalog.Bytes()
	if err != nil {
		return 0, err
	}

	r.opts.locks.Lock(defOpts.pollID)
	err = r.store.Set(catalogKeyForPollID(defOpts.pollID), catalogBytes)
	r.opts.locks.Unlock(defOpts.pollID)
	if err != nil {
		return 0, storageError(err, "failed to store option catalog")
	}

	r.LogDebugf("defined poll %d with %d options", defOpts.pollID, len(catalog))

	r.safelyTrigger(defOpts.pollID, catalog)

	return defOpts.pollID, nil
}

func (r *Registry) safelyTrigger(pollID PollID, catalog OptionCatalog) {
	defer func() {
		if rec := recover(); rec != nil {
			r.LogWarnf("poll defined event failed: %s", fmt.Sprint(rec))
		}
	}()

	r.Events.PollDefined.Trigger(pollID, catalog.Clone())
}

// CreatePoll stores the option catalog under the next free poll id.
// A poll id is in use if it has an option catalog or recorded votes.
func (r *Registry) CreatePoll(options []string) (PollID, error) {
	r.allocationMutex.Lock()
	defer r.allocationMutex.Unlock()

	highest, found, err := r.highestUsedPollID()
	if err != nil {
		return 0, err
	}

	pollID := DefaultPollID
	if found {
		if highest == math.MaxUint32 {
			return 0, ErrPollIDsExhausted
		}
		pollID = highest + 1
	}

	return r.DefinePoll(options, WithPollID(pollID))
}

func (r *Registry) highestUsedPollID() (PollID, bool, error) {
	var highest PollID
	var found bool

	for _, keyPrefix := range []byte{StoreKeyPrefixCatalog, StoreKeyPrefixTallies} {
		pollIDs, err := readPollIDs(r.store, keyPrefix)
		if err != nil {
			return 0, false, err
		}
		if len(pollIDs) == 0 {
			continue
		}

		// poll ids are sorted ascending
		if last := pollIDs[len(pollIDs)-1]; !found || last > highest {
			highest = last
		}
		found = true
	}

	return highest, found, nil
}

// ListOptions returns the option catalog of the poll. It is empty if the poll was never defined.
func (r *Registry) ListOptions(pollID PollID) (OptionCatalog, error) {
	catalog, err := readCatalog(r.store, pollID)
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		return OptionCatalog{}, nil
	}

	return catalog, nil
}

// HasPoll returns whether an option catalog is stored for the poll.
func (r *Registry) HasPoll(pollID PollID) (bool, error) {
	has, err := r.store.Has(catalogKeyForPollID(pollID))
	if err != nil {
		return false, storageError(err, "failed to read option catalog")
	}

	return has, nil
}

// PollIDs returns the ids of all defined polls in ascending order.
func (r *Registry) PollIDs() ([]PollID, error) {
	return readPollIDs(r.store, StoreKeyPrefixCatalog)
}
