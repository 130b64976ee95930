package proposal

import (
	"boscoin.io/govern/lib/common"
	"boscoin.io/govern/lib/errors"
	"boscoin.io/govern/lib/storage"
	"boscoin.io/govern/lib/voting"
)

// Ballot model in storage
//  * 'gb-<proposal id><voter>': `Ballot`; the ballots of a proposal share the
//    prefix 'gb-<proposal id>' and are ordered by voter.
const BallotPrefix string = "gb-"

type Ballot struct {
	ProposalID uint64      `json:"proposal_id" yaml:"proposal_id" msgpack:"proposal_id"`
	Voter      string      `json:"voter" yaml:"voter" msgpack:"voter"`
	Weight     uint64      `json:"weight" yaml:"weight" msgpack:"weight"`
	Vote       voting.Vote `json:"vote" yaml:"vote" msgpack:"vote"`
}

func NewBallot(proposalID uint64, voter string, weight uint64, vote voting.Vote) Ballot {
	return Ballot{
		ProposalID: proposalID,
		Voter:      voter,
		Weight:     weight,
		Vote:       vote,
	}
}

func (b Ballot) String() string {
	return string(common.MustMarshalJSON(b))
}

func GetBallotPrefix(proposalID uint64) string {
	id := common.EncodeUint64ToByteSlice(proposalID)
	return BallotPrefix + string(id[:])
}

func GetBallotKey(proposalID uint64, voter string) string {
	return GetBallotPrefix(proposalID) + voter
}

// CastBallot stores the ballot only when the voter has not voted yet on the
// proposal, otherwise it fails with `AlreadyVoted`.
func CastBallot(st storage.DBBackend, b Ballot) error {
	err := st.New(GetBallotKey(b.ProposalID, b.Voter), b)
	if errors.StorageRecordAlreadyExists.Is(err) {
		return errors.AlreadyVoted.Clone().
			SetData("proposal", b.ProposalID).
			SetData("voter", b.Voter)
	}

	return err
}

func GetBallot(st storage.DBBackend, proposalID uint64, voter string) (b Ballot, err error) {
	if err = st.Get(GetBallotKey(proposalID, voter), &b); err != nil {
		if errors.StorageRecordDoesNotExist.Is(err) {
			err = errors.BallotNotFound.Clone().
				SetData("proposal", proposalID).
				SetData("voter", voter)
		}
	}

	return
}

// GetBallots iterates the ballots of the proposal ordered by voter, after the
// `startAfter` voter if given.
func GetBallots(st storage.DBBackend, proposalID uint64, startAfter string, limit uint64) (func() (Ballot, bool, error), func()) {
	var cursor []byte
	if len(startAfter) > 0 {
		cursor = []byte(GetBallotKey(proposalID, startAfter))
	}

	option := storage.NewDefaultListOptions(false, cursor, limit)
	iterFunc, closeFunc := st.GetIterator(GetBallotPrefix(proposalID), option)

	return (func() (Ballot, bool, error) {
			item, hasNext := iterFunc()
			if !hasNext {
				return Ballot{}, false, nil
			}

			var b Ballot
			if err := item.Decode(&b); err != nil {
				closeFunc()
				return Ballot{}, false, errors.StorageCoreError.Clone().
					SetData("proposal", proposalID).
					SetData("error", err.Error())
			}

			return b, true, nil
		}), (func() {
			closeFunc()
		})
}
