package poll

// PollStatus combines the catalog and the tallies of a poll.
type PollStatus struct {
	PollID     PollID        `json:"pollId"`
	Options    OptionCatalog `json:"options"`
	Tallies    TallyVector   `json:"tallies"`
	TotalVotes uint64        `json:"totalVotes"`
	Voters     uint64        `json:"voters"`
}

// Status reads the combined status of the poll.
func Status(registry *Registry, ballots *BallotStore, pollID PollID) (*PollStatus, error) {
	options, err := registry.ListOptions(pollID)
	if err != nil {
		return nil, err
	}

	tallies, err := ballots.ReadTallies(pollID)
	if err != nil {
		return nil, err
	}

	voters, err := ballots.VoterCount(pollID)
	if err != nil {
		return nil, err
	}

	return &PollStatus{
		PollID:     pollID,
		Options:    options,
		Tallies:    tallies,
		TotalVotes: tallies.Total(),
		Voters:     voters,
	}, nil
}
