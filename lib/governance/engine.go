package governance

import (
	"strconv"
	"sync"

	"github.com/GianlucaGuarini/go-observable"
	lru "github.com/hashicorp/golang-lru"
	logging "github.com/inconshreveable/log15"

	"boscoin.io/govern/lib/common"
	"boscoin.io/govern/lib/common/observer"
	"boscoin.io/govern/lib/dispatch"
	"boscoin.io/govern/lib/errors"
	"boscoin.io/govern/lib/expiration"
	"boscoin.io/govern/lib/proposal"
	"boscoin.io/govern/lib/storage"
	"boscoin.io/govern/lib/threshold"
	"boscoin.io/govern/lib/voting"
)

const DefaultVoterCacheSize int = 1024

// Engine runs the governance operations over the storage. The state changing
// operations are serialized and each one runs in a single storage
// transaction, so a failed operation leaves nothing behind.
type Engine struct {
	sync.RWMutex

	storage    storage.DBBackend
	dispatcher dispatch.Dispatcher
	observer   *observable.Observable
	voters     *lru.Cache
	hooks      []CommitHook
	log        logging.Logger
}

// CommitHook runs inside the transaction of a successful operation, so its
// writes are committed together with the operation. An error from the hook
// discards the operation.
type CommitHook func(ts storage.DBBackend, env Env, result Result) error

func NewEngine(st storage.DBBackend, dispatcher dispatch.Dispatcher) (*Engine, error) {
	if dispatcher == nil {
		dispatcher = dispatch.NopDispatcher{}
	}

	voters, err := lru.New(DefaultVoterCacheSize)
	if err != nil {
		return nil, err
	}

	return &Engine{
		storage:    st,
		dispatcher: dispatcher,
		observer:   observer.New(),
		voters:     voters,
		log:        log.New(logging.Ctx{"engine": common.NowISO8601()}),
	}, nil
}

// Observer triggers the events of `lib/common/observer` after each committed
// operation.
func (e *Engine) Observer() *observable.Observable {
	return e.observer
}

func (e *Engine) Storage() storage.DBBackend {
	return e.storage
}

func (e *Engine) AddCommitHook(hook CommitHook) {
	e.Lock()
	defer e.Unlock()

	e.hooks = append(e.hooks, hook)
}

// transaction commits the writes of fn, or discards them when fn fails.
func (e *Engine) transaction(fn func(storage.DBBackend) error) (err error) {
	var ts storage.DBBackend
	if ts, err = e.storage.OpenTransaction(); err != nil {
		return
	}

	if err = fn(ts); err != nil {
		if discardErr := ts.Discard(); discardErr != nil {
			e.log.Error("failed to discard transaction", "error", discardErr)
		}
		return
	}

	if err = ts.Commit(); err != nil {
		ts.Discard()
	}

	return
}

// voterWeight returns the weight of the voter; `found` is false for unknown
// address. The voters never change, so the weights are cached.
func (e *Engine) voterWeight(st storage.DBBackend, addr string) (weight uint64, found bool, err error) {
	if cached, ok := e.voters.Get(addr); ok {
		return cached.(uint64), true, nil
	}

	if weight, err = proposal.GetVoterWeight(st, addr); err != nil {
		if errors.StorageRecordDoesNotExist.Is(err) {
			err = nil
		}
		return
	}

	e.voters.Add(addr, weight)
	return weight, true, nil
}

func loadConfig(st storage.DBBackend) (config proposal.Config, err error) {
	if config, err = proposal.GetConfig(st); err != nil {
		if errors.StorageRecordDoesNotExist.Is(err) {
			err = errors.NotInstantiated
		}
	}

	return
}

// Instantiate stores the config and the voters. It can be done only once for
// a storage.
func (e *Engine) Instantiate(voters []proposal.Voter, th threshold.Threshold, maxVotingPeriod expiration.Duration) (config proposal.Config, err error) {
	e.Lock()
	defer e.Unlock()

	if len(voters) < 1 {
		err = errors.NoVoters
		return
	}

	var totalWeight uint64
	seen := map[string]bool{}
	for _, v := range voters {
		if seen[v.Addr] {
			err = errors.DuplicateVoter.Clone().SetData("voter", v.Addr)
			return
		}
		seen[v.Addr] = true

		if totalWeight+v.Weight < totalWeight {
			err = errors.WeightOverflow.Clone().SetData("voter", v.Addr)
			return
		}
		totalWeight += v.Weight
	}

	if err = maxVotingPeriod.Validate(); err != nil {
		return
	}
	if err = th.Validate(totalWeight); err != nil {
		return
	}

	config = proposal.Config{
		Threshold:       th,
		TotalWeight:     totalWeight,
		MaxVotingPeriod: maxVotingPeriod,
	}

	err = e.transaction(func(ts storage.DBBackend) error {
		if exists, err := proposal.ExistsConfig(ts); err != nil {
			return err
		} else if exists {
			return errors.AlreadyInstantiated
		}

		if err := config.Save(ts); err != nil {
			return err
		}
		for _, v := range voters {
			if err := v.Save(ts); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return
	}

	e.log.Debug(
		"instantiated",
		"voters", len(voters),
		"total_weight", totalWeight,
		"threshold", th.Variant(),
		"max_voting_period", maxVotingPeriod,
	)

	return
}

// Propose creates a proposal with the sender's yes vote. Without `expires`,
// the proposal expires after the max voting period; a later expiration is
// cut to it.
func (e *Engine) Propose(env Env, title, description string, payload []byte, expires *expiration.Expiration) (Result, error) {
	checker := &OperationChecker{
		CheckerFuncs: ProposeCheckerFuncs,
		Env:          env,
		Title:        title,
		Description:  description,
		Payload:      payload,
		Expires:      expires,
	}

	return e.run(ActionPropose, checker)
}

func (e *Engine) Vote(env Env, proposalID uint64, vote voting.Vote) (Result, error) {
	checker := &OperationChecker{
		CheckerFuncs: VoteCheckerFuncs,
		Env:          env,
		ProposalID:   proposalID,
		Vote:         vote,
	}

	return e.run(ActionVote, checker)
}

// Execute marks the passed proposal executed and dispatches its payload.
func (e *Engine) Execute(env Env, proposalID uint64) (Result, error) {
	checker := &OperationChecker{
		CheckerFuncs: ExecuteCheckerFuncs,
		Env:          env,
		ProposalID:   proposalID,
	}

	return e.run(ActionExecute, checker)
}

// Close rejects the expired proposal which did not pass.
func (e *Engine) Close(env Env, proposalID uint64) (Result, error) {
	checker := &OperationChecker{
		CheckerFuncs: CloseCheckerFuncs,
		Env:          env,
		ProposalID:   proposalID,
	}

	return e.run(ActionClose, checker)
}

func (e *Engine) run(action string, checker *OperationChecker) (result Result, err error) {
	e.Lock()
	defer e.Unlock()

	checker.Engine = e
	checker.Action = action
	checker.Log = e.log.New(logging.Ctx{
		"action": action,
		"sender": checker.Env.Sender,
		"height": checker.Env.Block.Height,
	})

	err = e.transaction(func(ts storage.DBBackend) error {
		checker.Storage = ts
		if err := common.RunChecker(checker, checker.deferFunc); err != nil {
			return err
		}

		r := checker.Result()
		for _, hook := range e.hooks {
			if err := hook(ts, checker.Env, r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		checker.Log.Debug("operation failed", "error", err)
		return
	}

	result = checker.Result()
	checker.Log.Debug("operation done", "proposal", result.ProposalID, "status", result.Status)

	e.trigger(checker)

	return
}

func (e *Engine) trigger(checker *OperationChecker) {
	p := checker.Proposal
	id := strconv.FormatUint(p.ID, 10)

	events := func(name string) string {
		return observer.Events(observer.NewEvent(name, ""), observer.NewEvent(name, id))
	}

	switch checker.Action {
	case ActionPropose:
		e.observer.Trigger(events(observer.EventProposalCreated), p)
	case ActionVote:
		e.observer.Trigger(events(observer.EventBallotCast), p, checker.Ballot)
	case ActionExecute:
		e.observer.Trigger(events(observer.EventProposalExecuted), p, checker.Message)
	case ActionClose:
		e.observer.Trigger(events(observer.EventProposalClosed), p)
	}

	if checker.PreviousStatus != p.Status {
		e.observer.Trigger(events(observer.EventProposalStatus), p, checker.PreviousStatus)
	}
}
