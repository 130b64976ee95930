package proposal

import (
	"strconv"

	"boscoin.io/govern/lib/common"
	"boscoin.io/govern/lib/errors"
	"boscoin.io/govern/lib/expiration"
	"boscoin.io/govern/lib/storage"
	"boscoin.io/govern/lib/threshold"
	"boscoin.io/govern/lib/voting"
)

// Proposal model in storage
//  * 'gp-<id>': `Proposal`; the id is 8 bytes big endian, so the proposals
//    are iterated in the id order.
//  * 'gn-proposal-count': last proposal id
const (
	ProposalPrefix     string = "gp-"
	ProposalCounterKey string = "gn-proposal-count"
)

type Proposal struct {
	ID          uint64                `json:"id" yaml:"id" msgpack:"id"`
	Title       string                `json:"title" yaml:"title" msgpack:"title"`
	Description string                `json:"description" yaml:"description" msgpack:"description"`
	Payload     []byte                `json:"payload" yaml:"payload" msgpack:"payload"`
	Proposer    string                `json:"proposer" yaml:"proposer" msgpack:"proposer"`
	StartHeight uint64                `json:"start_height" yaml:"start_height" msgpack:"start_height"`
	Expires     expiration.Expiration `json:"expires" yaml:"expires" msgpack:"expires"`
	Status      Status                `json:"status" yaml:"status" msgpack:"status"`
	Votes       voting.Votes          `json:"votes" yaml:"votes" msgpack:"votes"`

	// snapshot of the config at creation
	Threshold   threshold.Threshold `json:"threshold" yaml:"threshold" msgpack:"threshold"`
	TotalWeight uint64              `json:"total_weight" yaml:"total_weight" msgpack:"total_weight"`
}

// NewProposal makes the open proposal with the proposer's yes vote. The id is
// allocated by `Proposal.New()`.
func NewProposal(
	config Config,
	block expiration.BlockInfo,
	proposer string,
	weight uint64,
	title, description string,
	payload []byte,
	expires expiration.Expiration,
) *Proposal {
	p := &Proposal{
		Title:       title,
		Description: description,
		Payload:     payload,
		Proposer:    proposer,
		StartHeight: block.Height,
		Expires:     expires,
		Status:      StatusOpen,
		Votes:       voting.NewYesVotes(weight),
		Threshold:   config.Threshold,
		TotalWeight: config.TotalWeight,
	}
	p.UpdateStatus(block)

	return p
}

func (p *Proposal) String() string {
	return string(common.MustMarshalJSON(p))
}

func (p *Proposal) IsExpired(block expiration.BlockInfo) bool {
	return p.Expires.IsExpired(block)
}

// CurrentStatus evaluates the votes of the open proposal at the block. The
// status of the other proposals does not change by time.
func (p *Proposal) CurrentStatus(block expiration.BlockInfo) Status {
	if p.Status != StatusOpen {
		return p.Status
	}

	switch p.Threshold.Evaluate(p.Votes, p.TotalWeight, p.IsExpired(block)) {
	case threshold.Passed:
		return StatusPassed
	case threshold.Rejected:
		return StatusRejected
	default:
		return p.Status
	}
}

func (p *Proposal) UpdateStatus(block expiration.BlockInfo) {
	p.Status = p.CurrentStatus(block)
}

// New allocates the next id and stores the new proposal. Run it inside a
// transaction with the other writes of the proposal.
func (p *Proposal) New(st storage.DBBackend) (err error) {
	if p.ID, err = storage.NextSequence(st, ProposalCounterKey); err != nil {
		return
	}

	return st.New(GetProposalKey(p.ID), p)
}

func (p *Proposal) Save(st storage.DBBackend) error {
	return st.Set(GetProposalKey(p.ID), p)
}

func GetProposalKey(id uint64) string {
	b := common.EncodeUint64ToByteSlice(id)
	return ProposalPrefix + string(b[:])
}

func GetProposal(st storage.DBBackend, id uint64) (p *Proposal, err error) {
	if err = st.Get(GetProposalKey(id), &p); err != nil {
		if errors.StorageRecordDoesNotExist.Is(err) {
			err = errors.ProposalNotFound.Clone().SetData("proposal", id)
		}
		return nil, err
	}

	return
}

func ExistsProposal(st storage.DBBackend, id uint64) (bool, error) {
	return st.Has(GetProposalKey(id))
}

func GetProposalCount(st storage.DBBackend) (uint64, error) {
	return storage.LastSequence(st, ProposalCounterKey)
}

// GetProposals iterates the proposals by id. The `cursor` id is excluded;
// 0 starts from the first, or with `reverse` from the last proposal.
func GetProposals(st storage.DBBackend, cursor uint64, reverse bool, limit uint64) (func() (*Proposal, bool, error), func()) {
	var c []byte
	if cursor > 0 {
		c = []byte(GetProposalKey(cursor))
	}

	option := storage.NewDefaultListOptions(reverse, c, limit)
	iterFunc, closeFunc := st.GetIterator(ProposalPrefix, option)

	return (func() (*Proposal, bool, error) {
			item, hasNext := iterFunc()
			if !hasNext {
				return nil, false, nil
			}

			var p Proposal
			if err := item.Decode(&p); err != nil {
				closeFunc()
				return nil, false, errors.StorageCoreError.Clone().
					SetData("key", strconv.Quote(string(item.Key))).
					SetData("error", err.Error())
			}

			return &p, true, nil
		}), (func() {
			closeFunc()
		})
}
