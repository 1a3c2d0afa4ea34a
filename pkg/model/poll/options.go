package poll

import (
	"github.com/iotaledger/hive.go/logger"
)

// DuplicatePolicy defines how the BallotStore handles a second vote of the same identity.
type DuplicatePolicy byte

const (
	// DuplicatePolicyReject rejects every further vote of an identity with ErrDuplicateVote.
	DuplicatePolicyReject DuplicatePolicy = iota
	// DuplicatePolicyPermit counts every vote, also repeated ones of the same identity.
	DuplicatePolicyPermit
)

// ParseDuplicatePolicy parses "reject" or "permit".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, bool) {
	switch s {
	case "reject":
		return DuplicatePolicyReject, true
	case "permit":
		return DuplicatePolicyPermit, true
	default:
		return DuplicatePolicyReject, false
	}
}

func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicatePolicyPermit:
		return "permit"
	default:
		return "reject"
	}
}

// the default options applied to the BallotStore and the Registry.
var defaultOptions = []Option{
	WithDuplicatePolicy(DuplicatePolicyReject),
	WithCatalogValidation(false),
	WithMaxTallyLength(0),
}

// Options define options for the BallotStore and the Registry.
type Options struct {
	logger *logger.Logger

	duplicatePolicy   DuplicatePolicy
	catalogValidation bool
	maxTallyLength    uint32
	publisher         Publisher
	locks             *PollLocks
}

// applies the given Option.
func (so *Options) apply(opts ...Option) {
	for _, opt := range opts {
		opt(so)
	}
}

// WithLogger enables logging within the store.
func WithLogger(logger *logger.Logger) Option {
	return func(opts *Options) {
		opts.logger = logger
	}
}

// WithDuplicatePolicy defines how repeated votes of the same identity are handled.
func WithDuplicatePolicy(policy DuplicatePolicy) Option {
	return func(opts *Options) {
		opts.duplicatePolicy = policy
	}
}

// WithCatalogValidation rejects option indexes outside of a defined option catalog.
// Polls without a catalog are not validated.
func WithCatalogValidation(enabled bool) Option {
	return func(opts *Options) {
		opts.catalogValidation = enabled
	}
}

// WithMaxTallyLength rejects option indexes which would grow the tally vector beyond the given length.
// Zero only limits the index to MaxOptionIndex. A tally vector is read and written as a whole,
// so stores which accept votes of untrusted voters should set a ceiling.
func WithMaxTallyLength(maxLength uint32) Option {
	return func(opts *Options) {
		opts.maxTallyLength = maxLength
	}
}

// WithPublisher sets the publisher informed about accepted votes.
func WithPublisher(publisher Publisher) Option {
	return func(opts *Options) {
		opts.publisher = publisher
	}
}

// WithPollLocks shares the per poll locks between a BallotStore and a Registry operating on the same store.
func WithPollLocks(locks *PollLocks) Option {
	return func(opts *Options) {
		opts.locks = locks
	}
}

// Option is a function setting a store option.
type Option func(opts *Options)

func newOptions(opts []Option) *Options {
	options := &Options{}
	options.apply(defaultOptions...)
	options.apply(opts...)

	if options.locks == nil {
		options.locks = NewPollLocks()
	}

	return options
}

type IterateOptions struct {
	maxResultCount int
}

type IterateOption func(*IterateOptions)

func MaxResultCount(count int) IterateOption {
	return func(args *IterateOptions) {
		args.maxResultCount = count
	}
}

func iterateOptions(optionalOptions []IterateOption) *IterateOptions {
	result := &IterateOptions{
		maxResultCount: 0,
	}

	for _, optionalOption := range optionalOptions {
		optionalOption(result)
	}
	return result
}
