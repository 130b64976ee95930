package governance

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/govern/lib/common/observer"
	"boscoin.io/govern/lib/errors"
	"boscoin.io/govern/lib/proposal"
	"boscoin.io/govern/lib/threshold"
	"boscoin.io/govern/lib/voting"
)

func TestLimit(t *testing.T) {
	require.Equal(t, DefaultLimit, Limit(0))
	require.Equal(t, uint64(1), Limit(1))
	require.Equal(t, MaxLimit, Limit(MaxLimit))
	require.Equal(t, MaxLimit, Limit(MaxLimit+1))
	require.Equal(t, MaxLimit, Limit(1000))
}

func proposalIDs(r ProposalListResponse) (ids []uint64) {
	for _, p := range r.Proposals {
		ids = append(ids, p.ID)
	}
	return
}

func TestListProposals(t *testing.T) {
	engine, st := newTestEngine(t, threshold.NewAbsoluteCount(4), nil)
	defer st.Close()

	for i := 0; i < 35; i++ {
		propose(t, engine, "owner")
	}

	r, err := engine.ListProposals(env("owner"), 0, 0)
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, proposalIDs(r))

	r, _ = engine.ListProposals(env("owner"), 0, 100)
	require.Len(t, r.Proposals, int(MaxLimit))
	require.Equal(t, uint64(30), r.Proposals[29].ID)

	r, _ = engine.ListProposals(env("owner"), 30, 100)
	require.Equal(t, []uint64{31, 32, 33, 34, 35}, proposalIDs(r))

	r, _ = engine.ListProposals(env("owner"), 35, 10)
	require.NotNil(t, r.Proposals)
	require.Empty(t, r.Proposals)

	r, _ = engine.ReverseProposals(env("owner"), 0, 0)
	require.Equal(t, []uint64{35, 34, 33, 32, 31, 30, 29, 28, 27, 26}, proposalIDs(r))

	r, _ = engine.ReverseProposals(env("owner"), 3, 10)
	require.Equal(t, []uint64{2, 1}, proposalIDs(r))

	r, _ = engine.ReverseProposals(env("owner"), 0, 1000)
	require.Len(t, r.Proposals, int(MaxLimit))
	require.Equal(t, uint64(6), r.Proposals[29].ID)
}

func TestListUndecodableRecords(t *testing.T) {
	engine, st := newTestEngine(t, threshold.NewAbsoluteCount(16), nil)
	defer st.Close()

	id := propose(t, engine, "owner").ProposalID

	require.NoError(t, st.New(proposal.GetProposalKey(id+1), "not a proposal"))
	_, err := engine.ListProposals(env("owner"), 0, 0)
	require.ErrorIs(t, err, errors.StorageCoreError)
	_, err = engine.ReverseProposals(env("owner"), 0, 0)
	require.ErrorIs(t, err, errors.StorageCoreError)

	require.NoError(t, st.New(proposal.GetBallotKey(id, "voter9"), "not a ballot"))
	_, err = engine.ListBallots(id, "", 0)
	require.ErrorIs(t, err, errors.StorageCoreError)

	require.NoError(t, st.New(proposal.GetVoterKey("voter9"), "not a weight"))
	_, err = engine.ListVoters("", 0)
	require.ErrorIs(t, err, errors.StorageCoreError)
}

// the status in the query is evaluated at the block of the query and not
// stored.
func TestQueryStatusNotStored(t *testing.T) {
	engine, st := newTestEngine(t, threshold.NewAbsoluteCount(4), nil)
	defer st.Close()

	id := propose(t, engine, "owner").ProposalID

	expired := envAt(120, "owner")
	p, err := engine.Proposal(expired, id)
	require.NoError(t, err)
	require.Equal(t, proposal.StatusRejected, p.Status)
	require.Equal(t, threshold.VariantAbsoluteCount, p.Threshold.Variant)
	require.Equal(t, uint64(4), p.Threshold.RequiredWeight)

	r, _ := engine.ListProposals(expired, 0, 0)
	require.Equal(t, proposal.StatusRejected, r.Proposals[0].Status)

	stored, err := proposal.GetProposal(st, id)
	require.NoError(t, err)
	require.Equal(t, proposal.StatusOpen, stored.Status)

	p, _ = engine.Proposal(env("owner"), id)
	require.Equal(t, proposal.StatusOpen, p.Status)

	_, err = engine.Proposal(env("owner"), 99)
	require.ErrorIs(t, err, errors.ProposalNotFound)
}

func TestListBallots(t *testing.T) {
	engine, st := newTestEngine(t, threshold.NewAbsoluteCount(16), nil)
	defer st.Close()

	first := propose(t, engine, "voter3").ProposalID
	second := propose(t, engine, "owner").ProposalID

	for _, voter := range []string{"voter5", "voter1", "voter4"} {
		_, err := engine.Vote(env(voter), first, voting.VoteYes)
		require.NoError(t, err)
	}
	_, err := engine.Vote(env("voter2"), second, voting.VoteVeto)
	require.NoError(t, err)

	r, err := engine.ListBallots(first, "", 0)
	require.NoError(t, err)

	var voters []string
	for _, b := range r.Ballots {
		require.Equal(t, first, b.ProposalID)
		voters = append(voters, b.Voter)
	}
	require.Equal(t, []string{"voter1", "voter3", "voter4", "voter5"}, voters)
	require.Equal(t, voting.VoteYes, r.Ballots[1].Vote)
	require.Equal(t, uint64(3), r.Ballots[1].Weight)

	r, _ = engine.ListBallots(first, "voter3", 1)
	require.Len(t, r.Ballots, 1)
	require.Equal(t, "voter4", r.Ballots[0].Voter)

	r, _ = engine.ListBallots(second, "", 0)
	require.Len(t, r.Ballots, 2)
	require.Equal(t, "owner", r.Ballots[0].Voter)
	require.Equal(t, voting.VoteVeto, r.Ballots[1].Vote)

	r, _ = engine.ListBallots(99, "", 0)
	require.Empty(t, r.Ballots)

	_, err = engine.Ballot(first, "voter2")
	require.ErrorIs(t, err, errors.BallotNotFound)
}

func TestListVoters(t *testing.T) {
	engine, st := newTestEngine(t, threshold.NewAbsoluteCount(4), nil)
	defer st.Close()

	v, err := engine.Voter("voter4")
	require.NoError(t, err)
	require.Equal(t, uint64(4), v.Weight)

	v, err = engine.Voter("noweight")
	require.NoError(t, err)
	require.Equal(t, uint64(0), v.Weight)

	_, err = engine.Voter("nobody")
	require.ErrorIs(t, err, errors.VoterNotFound)

	r, err := engine.ListVoters("", 0)
	require.NoError(t, err)
	require.Equal(
		t,
		[]proposal.Voter{
			{Addr: "noweight", Weight: 0},
			{Addr: "owner", Weight: 1},
			{Addr: "voter1", Weight: 1},
			{Addr: "voter2", Weight: 2},
			{Addr: "voter3", Weight: 3},
			{Addr: "voter4", Weight: 4},
			{Addr: "voter5", Weight: 5},
		},
		r.Voters,
	)

	r, _ = engine.ListVoters("voter2", 2)
	require.Equal(t, []proposal.Voter{{Addr: "voter3", Weight: 3}, {Addr: "voter4", Weight: 4}}, r.Voters)
}

func TestEngineObserver(t *testing.T) {
	engine, st := newTestEngine(t, threshold.NewAbsoluteCount(4), nil)
	defer st.Close()

	var lock sync.Mutex
	var wg sync.WaitGroup
	triggered := map[string][]proposal.Status{}

	record := func(name string) func(...interface{}) {
		return func(args ...interface{}) {
			lock.Lock()
			defer lock.Unlock()

			p := args[0].(*proposal.Proposal)
			triggered[name] = append(triggered[name], p.Status)
			wg.Done()
		}
	}

	ob := engine.Observer()
	created, cast := record(observer.EventProposalCreated), record(observer.EventBallotCast)
	status, executed := record(observer.EventProposalStatus), record(observer.EventProposalExecuted)

	ob.On(observer.EventProposalCreated, created)
	ob.On(observer.EventBallotCast, cast)
	ob.On(observer.NewEvent(observer.EventProposalStatus, "1").String(), status)
	ob.On(observer.EventProposalExecuted, executed)
	defer func() {
		ob.Off(observer.EventProposalCreated, created)
		ob.Off(observer.EventBallotCast, cast)
		ob.Off(observer.NewEvent(observer.EventProposalStatus, "1").String(), status)
		ob.Off(observer.EventProposalExecuted, executed)
	}()

	// created, cast, status, executed and status again
	wg.Add(5)

	id := propose(t, engine, "owner").ProposalID
	_, err := engine.Vote(env("voter4"), id, voting.VoteYes)
	require.NoError(t, err)
	_, err = engine.Execute(env("nobody"), id)
	require.NoError(t, err)

	// the failed operation triggers nothing
	_, err = engine.Vote(env("voter5"), id, voting.VoteYes)
	require.Error(t, err)

	wg.Wait()

	lock.Lock()
	defer lock.Unlock()

	require.Equal(t, []proposal.Status{proposal.StatusOpen}, triggered[observer.EventProposalCreated])
	require.Equal(t, []proposal.Status{proposal.StatusPassed}, triggered[observer.EventBallotCast])
	require.Equal(t, []proposal.Status{proposal.StatusPassed, proposal.StatusExecuted}, triggered[observer.EventProposalStatus])
	require.Equal(t, []proposal.Status{proposal.StatusExecuted}, triggered[observer.EventProposalExecuted])
}
