package governance

import (
	"boscoin.io/govern/lib/errors"
	"boscoin.io/govern/lib/expiration"
	"boscoin.io/govern/lib/proposal"
	"boscoin.io/govern/lib/threshold"
	"boscoin.io/govern/lib/voting"
)

const (
	DefaultLimit uint64 = 10
	MaxLimit     uint64 = 30
)

// Limit returns the page size of the list queries; 0 means the default.
func Limit(limit uint64) uint64 {
	switch {
	case limit == 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// ProposalResponse shows the proposal with the status at the block of the
// query.
type ProposalResponse struct {
	ID          uint64                `json:"id" yaml:"id"`
	Title       string                `json:"title" yaml:"title"`
	Description string                `json:"description" yaml:"description"`
	Payload     []byte                `json:"payload" yaml:"payload"`
	Proposer    string                `json:"proposer" yaml:"proposer"`
	StartHeight uint64                `json:"start_height" yaml:"start_height"`
	Expires     expiration.Expiration `json:"expires" yaml:"expires"`
	Status      proposal.Status       `json:"status" yaml:"status"`
	Votes       voting.Votes          `json:"votes" yaml:"votes"`
	Threshold   threshold.Response    `json:"threshold" yaml:"threshold"`
}

func NewProposalResponse(p *proposal.Proposal, block expiration.BlockInfo) ProposalResponse {
	return ProposalResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Payload:     p.Payload,
		Proposer:    p.Proposer,
		StartHeight: p.StartHeight,
		Expires:     p.Expires,
		Status:      p.CurrentStatus(block),
		Votes:       p.Votes,
		Threshold:   p.Threshold.ToResponse(p.TotalWeight),
	}
}

type ProposalListResponse struct {
	Proposals []ProposalResponse `json:"proposals" yaml:"proposals"`
}

type BallotListResponse struct {
	Ballots []proposal.Ballot `json:"ballots" yaml:"ballots"`
}

type VoterListResponse struct {
	Voters []proposal.Voter `json:"voters" yaml:"voters"`
}

func (e *Engine) Config() (proposal.Config, error) {
	e.RLock()
	defer e.RUnlock()

	return loadConfig(e.storage)
}

func (e *Engine) Threshold() (threshold.Response, error) {
	config, err := e.Config()
	if err != nil {
		return threshold.Response{}, err
	}

	return config.Threshold.ToResponse(config.TotalWeight), nil
}

// Proposal returns the proposal; the status is evaluated at the block of
// env, but it is not stored.
func (e *Engine) Proposal(env Env, id uint64) (ProposalResponse, error) {
	e.RLock()
	defer e.RUnlock()

	p, err := proposal.GetProposal(e.storage, id)
	if err != nil {
		return ProposalResponse{}, err
	}

	return NewProposalResponse(p, env.Block), nil
}

// ListProposals lists the proposals in ascending id order after
// `startAfter`.
func (e *Engine) ListProposals(env Env, startAfter uint64, limit uint64) (ProposalListResponse, error) {
	return e.listProposals(env, startAfter, false, limit)
}

// ReverseProposals lists the proposals in descending id order before
// `startBefore`.
func (e *Engine) ReverseProposals(env Env, startBefore uint64, limit uint64) (ProposalListResponse, error) {
	return e.listProposals(env, startBefore, true, limit)
}

func (e *Engine) listProposals(env Env, cursor uint64, reverse bool, limit uint64) (ProposalListResponse, error) {
	e.RLock()
	defer e.RUnlock()

	iterFunc, closeFunc := proposal.GetProposals(e.storage, cursor, reverse, Limit(limit))
	defer closeFunc()

	r := ProposalListResponse{Proposals: []ProposalResponse{}}
	for {
		p, hasNext, err := iterFunc()
		if err != nil {
			return ProposalListResponse{}, err
		} else if !hasNext {
			break
		}
		r.Proposals = append(r.Proposals, NewProposalResponse(p, env.Block))
	}

	return r, nil
}

func (e *Engine) Ballot(proposalID uint64, voter string) (proposal.Ballot, error) {
	e.RLock()
	defer e.RUnlock()

	return proposal.GetBallot(e.storage, proposalID, voter)
}

// ListBallots lists the ballots of the proposal ordered by voter address.
func (e *Engine) ListBallots(proposalID uint64, startAfter string, limit uint64) (BallotListResponse, error) {
	e.RLock()
	defer e.RUnlock()

	iterFunc, closeFunc := proposal.GetBallots(e.storage, proposalID, startAfter, Limit(limit))
	defer closeFunc()

	r := BallotListResponse{Ballots: []proposal.Ballot{}}
	for {
		b, hasNext, err := iterFunc()
		if err != nil {
			return BallotListResponse{}, err
		} else if !hasNext {
			break
		}
		r.Ballots = append(r.Ballots, b)
	}

	return r, nil
}

func (e *Engine) Voter(addr string) (proposal.Voter, error) {
	e.RLock()
	defer e.RUnlock()

	weight, found, err := e.voterWeight(e.storage, addr)
	if err != nil {
		return proposal.Voter{}, err
	} else if !found {
		return proposal.Voter{}, errors.VoterNotFound.Clone().SetData("voter", addr)
	}

	return proposal.Voter{Addr: addr, Weight: weight}, nil
}

// ListVoters lists the voters ordered by address.
func (e *Engine) ListVoters(startAfter string, limit uint64) (VoterListResponse, error) {
	e.RLock()
	defer e.RUnlock()

	iterFunc, closeFunc := proposal.GetVoters(e.storage, startAfter, Limit(limit))
	defer closeFunc()

	r := VoterListResponse{Voters: []proposal.Voter{}}
	for {
		v, hasNext, err := iterFunc()
		if err != nil {
			return VoterListResponse{}, err
		} else if !hasNext {
			break
		}
		r.Voters = append(r.Voters, v)
	}

	return r, nil
}
