package voting

// Votes is the weight cast for each vote.
type Votes struct {
	Yes     uint64 `json:"yes" yaml:"yes" msgpack:"yes"`
	No      uint64 `json:"no" yaml:"no" msgpack:"no"`
	Abstain uint64 `json:"abstain" yaml:"abstain" msgpack:"abstain"`
	Veto    uint64 `json:"veto" yaml:"veto" msgpack:"veto"`
}

// NewYesVotes seeds the tally with the proposer's weight.
func NewYesVotes(weight uint64) Votes {
	return Votes{Yes: weight}
}

func (v Votes) Total() uint64 {
	return v.Yes + v.No + v.Abstain + v.Veto
}

func (v *Votes) Add(vote Vote, weight uint64) {
	switch vote {
	case VoteYes:
		v.Yes += weight
	case VoteNo:
		v.No += weight
	case VoteAbstain:
		v.Abstain += weight
	case VoteVeto:
		v.Veto += weight
	}
}
