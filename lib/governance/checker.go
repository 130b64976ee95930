/*
	The governance operations run as checker pipelines. `OperationChecker` is
	shared by the checker funcs, which are run in order by `common.RunChecker()`
	inside the storage transaction of the operation.

	propose: CheckInstantiated, CheckProposer, CheckExpiration, CreateProposal
	vote:    CheckVote, CheckInstantiated, CheckVoter, LoadProposal,
	         CheckProposalOpen, CastVote
	execute: LoadProposal, CheckExecutable, ExecuteProposal
	close:   LoadProposal, CheckClosable, CloseProposal
*/

package governance

import (
	logging "github.com/inconshreveable/log15"

	"boscoin.io/govern/lib/common"
	"boscoin.io/govern/lib/dispatch"
	"boscoin.io/govern/lib/errors"
	"boscoin.io/govern/lib/expiration"
	"boscoin.io/govern/lib/proposal"
	"boscoin.io/govern/lib/storage"
	"boscoin.io/govern/lib/voting"
)

type OperationChecker struct {
	common.CheckerFuncs

	Engine  *Engine
	Storage storage.DBBackend
	Env     Env
	Action  string
	Log     logging.Logger

	// propose
	Title       string
	Description string
	Payload     []byte
	Expires     *expiration.Expiration

	// vote
	Vote   voting.Vote
	Ballot proposal.Ballot

	ProposalID     uint64
	Config         proposal.Config
	Weight         uint64
	Proposal       *proposal.Proposal
	PreviousStatus proposal.Status
	Message        dispatch.Message
}

var ProposeCheckerFuncs = common.CheckerFuncs{
	CheckInstantiated,
	CheckProposer,
	CheckExpiration,
	CreateProposal,
}

var VoteCheckerFuncs = common.CheckerFuncs{
	CheckVote,
	CheckInstantiated,
	CheckVoter,
	LoadProposal,
	CheckProposalOpen,
	CastVote,
}

var ExecuteCheckerFuncs = common.CheckerFuncs{
	LoadProposal,
	CheckExecutable,
	ExecuteProposal,
}

var CloseCheckerFuncs = common.CheckerFuncs{
	LoadProposal,
	CheckClosable,
	CloseProposal,
}

func (checker *OperationChecker) deferFunc(n int, name string, _ common.Checker, err error) {
	if err != nil {
		checker.Log.Debug("checker failed", "n", n, "step", name, "error", err)
	}
}

func (checker *OperationChecker) Result() Result {
	r := Result{
		Action:     checker.Action,
		Sender:     checker.Env.Sender,
		ProposalID: checker.ProposalID,
	}
	if checker.Proposal != nil {
		r.ProposalID = checker.Proposal.ID
		r.Status = checker.Proposal.Status
	}

	return r
}

// CheckInstantiated loads the config.
func CheckInstantiated(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*OperationChecker)

	checker.Config, err = loadConfig(checker.Storage)
	return
}

// CheckProposer checks the sender is voter; the voter without weight also
// can propose.
func CheckProposer(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*OperationChecker)

	var found bool
	if checker.Weight, found, err = checker.Engine.voterWeight(checker.Storage, checker.Env.Sender); err != nil {
		return
	} else if !found {
		return errors.Unauthorized.Clone().SetData("sender", checker.Env.Sender)
	}

	return
}

// CheckExpiration sets the expiration of the new proposal, which can not be
// later than the max voting period.
func CheckExpiration(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*OperationChecker)

	max := checker.Config.MaxVotingPeriod.After(checker.Env.Block)
	if checker.Expires == nil {
		checker.Expires = &max
		return
	}

	var expires expiration.Expiration
	if expires, err = expiration.Clamp(*checker.Expires, max); err != nil {
		return
	}
	checker.Expires = &expires

	return
}

// CreateProposal stores the new proposal with the proposer's ballot.
func CreateProposal(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*OperationChecker)

	p := proposal.NewProposal(
		checker.Config,
		checker.Env.Block,
		checker.Env.Sender,
		checker.Weight,
		checker.Title,
		checker.Description,
		checker.Payload,
		*checker.Expires,
	)
	checker.PreviousStatus = proposal.StatusOpen

	if err = p.New(checker.Storage); err != nil {
		return
	}

	checker.Ballot = proposal.NewBallot(p.ID, checker.Env.Sender, checker.Weight, voting.VoteYes)
	if err = proposal.CastBallot(checker.Storage, checker.Ballot); err != nil {
		return
	}

	checker.Proposal = p
	checker.Log = checker.Log.New(logging.Ctx{"proposal": p.ID})
	checker.Log.Debug("proposal created", "expires", p.Expires, "status", p.Status)

	return
}

func CheckVote(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*OperationChecker)

	if !checker.Vote.IsValid() {
		return errors.InvalidVote.Clone().SetData("vote", checker.Vote)
	}

	return
}

// CheckVoter checks the sender is voter with weight; the voter without
// weight can not vote.
func CheckVoter(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*OperationChecker)

	var found bool
	if checker.Weight, found, err = checker.Engine.voterWeight(checker.Storage, checker.Env.Sender); err != nil {
		return
	} else if !found || checker.Weight < 1 {
		return errors.Unauthorized.Clone().SetData("sender", checker.Env.Sender)
	}

	return
}

func LoadProposal(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*OperationChecker)

	if checker.Proposal, err = proposal.GetProposal(checker.Storage, checker.ProposalID); err != nil {
		return
	}
	checker.PreviousStatus = checker.Proposal.Status
	checker.Log = checker.Log.New(logging.Ctx{"proposal": checker.ProposalID})

	return
}

// CheckProposalOpen checks the stored status is open and the voting period
// is not over.
func CheckProposalOpen(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*OperationChecker)

	p := checker.Proposal
	if p.Status != proposal.StatusOpen {
		return errors.NotOpen.Clone().SetData("proposal", p.ID).SetData("status", p.Status)
	}
	if p.IsExpired(checker.Env.Block) {
		return errors.Expired.Clone().SetData("proposal", p.ID)
	}

	return
}

// CastVote records the ballot and refreshes the status with the new tally.
func CastVote(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*OperationChecker)

	p := checker.Proposal
	checker.Ballot = proposal.NewBallot(p.ID, checker.Env.Sender, checker.Weight, checker.Vote)
	if err = proposal.CastBallot(checker.Storage, checker.Ballot); err != nil {
		return
	}

	p.Votes.Add(checker.Vote, checker.Weight)
	p.UpdateStatus(checker.Env.Block)

	if err = p.Save(checker.Storage); err != nil {
		return
	}

	checker.Log.Debug("ballot cast", "vote", checker.Vote, "weight", checker.Weight, "status", p.Status)

	return
}

func CheckExecutable(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*OperationChecker)

	p := checker.Proposal
	if status := p.CurrentStatus(checker.Env.Block); status != proposal.StatusPassed {
		return errors.WrongExecuteStatus.Clone().SetData("proposal", p.ID).SetData("status", status)
	}

	return
}

// ExecuteProposal hands the payload to the dispatcher. When the dispatcher
// fails, the whole execution is discarded.
func ExecuteProposal(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*OperationChecker)

	p := checker.Proposal
	p.Status = proposal.StatusExecuted
	if err = p.Save(checker.Storage); err != nil {
		return
	}

	checker.Message, err = dispatch.NewMessage(
		p.ID,
		p.Proposer,
		checker.Env.Sender,
		checker.Env.Block.Height,
		p.Payload,
	)
	if err != nil {
		return
	}

	if err = checker.Engine.dispatcher.Dispatch(checker.Storage, checker.Message); err != nil {
		if _, ok := err.(*errors.Error); !ok {
			err = errors.DispatchFailed.Clone().SetData("proposal", p.ID).SetData("error", err.Error())
		}
		return
	}

	checker.Log.Debug("proposal executed", "message", checker.Message.ID)

	return
}

// CheckClosable checks the proposal is still open, did not pass, and is
// expired.
func CheckClosable(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*OperationChecker)

	p := checker.Proposal
	if p.Status.IsFinal() {
		return errors.WrongCloseStatus.Clone().SetData("proposal", p.ID).SetData("status", p.Status)
	}
	if status := p.CurrentStatus(checker.Env.Block); status == proposal.StatusPassed {
		return errors.WrongCloseStatus.Clone().SetData("proposal", p.ID).SetData("status", status)
	}
	if !p.IsExpired(checker.Env.Block) {
		return errors.NotExpired.Clone().SetData("proposal", p.ID).SetData("expires", p.Expires.String())
	}

	return
}

func CloseProposal(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*OperationChecker)

	p := checker.Proposal
	p.Status = proposal.StatusRejected
	if err = p.Save(checker.Storage); err != nil {
		return
	}

	checker.Log.Debug("proposal closed")

	return
}
