package poll

const (
	// Holds the option catalog of a poll
	StoreKeyPrefixCatalog byte = 0

	// Holds the tally vector of a poll
	StoreKeyPrefixTallies byte = 1

	// Holds the voted flag per poll and identity
	StoreKeyPrefixVoters byte = 2

	// Holds the number of accepted votes per poll
	StoreKeyPrefixVoterCount byte = 3
)
