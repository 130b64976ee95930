package proposal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"boscoin.io/govern/lib/errors"
	"boscoin.io/govern/lib/expiration"
	"boscoin.io/govern/lib/storage"
	"boscoin.io/govern/lib/threshold"
	"boscoin.io/govern/lib/voting"
)

var testBlock = expiration.NewBlockInfo(100, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC))

func testConfig(th threshold.Threshold) Config {
	return Config{
		Threshold:       th,
		TotalWeight:     16,
		MaxVotingPeriod: expiration.HeightDuration(10),
	}
}

func TestConfigSave(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	exists, err := ExistsConfig(st)
	require.NoError(t, err)
	require.False(t, exists)

	config := testConfig(threshold.NewThresholdQuorum(threshold.Percent(50), threshold.Percent(30)))
	require.NoError(t, config.Save(st))
	require.ErrorIs(t, config.Save(st), errors.StorageRecordAlreadyExists)

	fetched, err := GetConfig(st)
	require.NoError(t, err)
	require.Equal(t, config.TotalWeight, fetched.TotalWeight)
	require.Equal(t, config.MaxVotingPeriod, fetched.MaxVotingPeriod)
	require.Equal(t, threshold.VariantThresholdQuorum, fetched.Threshold.Variant())
}

func TestNewProposalStatus(t *testing.T) {
	config := testConfig(threshold.NewAbsoluteCount(4))
	expires := config.MaxVotingPeriod.After(testBlock)

	p := NewProposal(config, testBlock, "owner", 1, "title", "desc", nil, expires)
	require.Equal(t, StatusOpen, p.Status)
	require.Equal(t, voting.Votes{Yes: 1}, p.Votes)
	require.Equal(t, testBlock.Height, p.StartHeight)

	// enough weight passes by itself
	p = NewProposal(config, testBlock, "voter4", 4, "title", "desc", nil, expires)
	require.Equal(t, StatusPassed, p.Status)
}

func TestProposalCurrentStatus(t *testing.T) {
	config := testConfig(threshold.NewAbsoluteCount(4))
	expires := config.MaxVotingPeriod.After(testBlock)

	p := NewProposal(config, testBlock, "owner", 1, "title", "desc", nil, expires)
	require.Equal(t, StatusOpen, p.CurrentStatus(testBlock))

	after := expiration.NewBlockInfo(testBlock.Height+10, testBlock.Time)
	require.Equal(t, StatusRejected, p.CurrentStatus(after))
	require.Equal(t, StatusOpen, p.Status)

	p.UpdateStatus(after)
	require.Equal(t, StatusRejected, p.Status)

	// only the open proposal is evaluated
	p.Status = StatusExecuted
	p.Votes.Add(voting.VoteYes, 10)
	require.Equal(t, StatusExecuted, p.CurrentStatus(testBlock))
}

func TestProposalNewAndGet(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	config := testConfig(threshold.NewAbsoluteCount(4))
	expires := config.MaxVotingPeriod.After(testBlock)

	for i := uint64(1); i <= 3; i++ {
		p := NewProposal(config, testBlock, "owner", 1, "title", "desc", []byte{byte(i)}, expires)
		require.NoError(t, p.New(st))
		require.Equal(t, i, p.ID)
	}

	count, err := GetProposalCount(st)
	require.NoError(t, err)
	require.Equal(t, uint64(3), count)

	p, err := GetProposal(st, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(2), p.ID)
	require.Equal(t, []byte{2}, p.Payload)
	require.True(t, expires.Equal(p.Expires))
	require.Equal(t, uint64(4), p.Threshold.AbsoluteCount.Weight)

	p.Status = StatusPassed
	require.NoError(t, p.Save(st))
	p, _ = GetProposal(st, 2)
	require.Equal(t, StatusPassed, p.Status)

	_, err = GetProposal(st, 4)
	require.ErrorIs(t, err, errors.ProposalNotFound)

	missing := &Proposal{ID: 9}
	require.ErrorIs(t, missing.Save(st), errors.StorageRecordDoesNotExist)
}

func collectProposalIDs(t *testing.T, st storage.DBBackend, cursor uint64, reverse bool, limit uint64) (ids []uint64) {
	iterFunc, closeFunc := GetProposals(st, cursor, reverse, limit)
	defer closeFunc()

	for {
		p, hasNext, err := iterFunc()
		require.NoError(t, err)
		if !hasNext {
			break
		}
		ids = append(ids, p.ID)
	}

	return
}

func TestGetProposals(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	config := testConfig(threshold.NewAbsoluteCount(4))
	expires := config.MaxVotingPeriod.After(testBlock)

	// more than 255, so the id order differs from the little endian order
	for i := 0; i < 260; i++ {
		p := NewProposal(config, testBlock, "owner", 1, "title", "desc", nil, expires)
		require.NoError(t, p.New(st))
	}

	require.Equal(t, []uint64{1, 2, 3}, collectProposalIDs(t, st, 0, false, 3))
	require.Equal(t, []uint64{255, 256, 257}, collectProposalIDs(t, st, 254, false, 3))
	require.Equal(t, []uint64{260, 259}, collectProposalIDs(t, st, 0, true, 2))
	require.Equal(t, []uint64{256, 255}, collectProposalIDs(t, st, 257, true, 2))
	require.Equal(t, []uint64{2, 1}, collectProposalIDs(t, st, 3, true, 10))
	require.Empty(t, collectProposalIDs(t, st, 260, false, 10))
	require.Len(t, collectProposalIDs(t, st, 0, false, 0), 260)
}

func TestGetProposalsUndecodable(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	config := testConfig(threshold.NewAbsoluteCount(4))
	p := NewProposal(config, testBlock, "owner", 1, "title", "desc", nil, config.MaxVotingPeriod.After(testBlock))
	require.NoError(t, p.New(st))
	require.NoError(t, st.New(GetProposalKey(2), "not a proposal"))

	iterFunc, closeFunc := GetProposals(st, 0, false, 10)
	defer closeFunc()

	first, hasNext, err := iterFunc()
	require.NoError(t, err)
	require.True(t, hasNext)
	require.Equal(t, uint64(1), first.ID)

	_, hasNext, err = iterFunc()
	require.ErrorIs(t, err, errors.StorageCoreError)
	require.False(t, hasNext)
}

func TestCastBallot(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	b := NewBallot(1, "voter1", 1, voting.VoteYes)
	require.NoError(t, CastBallot(st, b))

	err := CastBallot(st, NewBallot(1, "voter1", 1, voting.VoteNo))
	require.ErrorIs(t, err, errors.AlreadyVoted)

	fetched, err := GetBallot(st, 1, "voter1")
	require.NoError(t, err)
	require.Equal(t, b, fetched)

	// the same voter on the other proposal
	require.NoError(t, CastBallot(st, NewBallot(2, "voter1", 1, voting.VoteNo)))

	_, err = GetBallot(st, 1, "voter2")
	require.ErrorIs(t, err, errors.BallotNotFound)
}

func TestGetBallots(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	for _, voter := range []string{"voter3", "voter1", "voter2"} {
		require.NoError(t, CastBallot(st, NewBallot(1, voter, 1, voting.VoteYes)))
	}
	require.NoError(t, CastBallot(st, NewBallot(2, "voter0", 1, voting.VoteYes)))
	require.NoError(t, CastBallot(st, NewBallot(256, "voter9", 1, voting.VoteYes)))

	collect := func(proposalID uint64, startAfter string, limit uint64) (voters []string) {
		iterFunc, closeFunc := GetBallots(st, proposalID, startAfter, limit)
		defer closeFunc()
		for {
			b, hasNext, err := iterFunc()
			require.NoError(t, err)
			if !hasNext {
				break
			}
			require.Equal(t, proposalID, b.ProposalID)
			voters = append(voters, b.Voter)
		}
		return
	}

	require.Equal(t, []string{"voter1", "voter2", "voter3"}, collect(1, "", 0))
	require.Equal(t, []string{"voter2"}, collect(1, "voter1", 1))
	require.Equal(t, []string{"voter0"}, collect(2, "", 10))
	require.Equal(t, []string{"voter9"}, collect(256, "", 10))
	require.Empty(t, collect(3, "", 10))
}

func TestVoters(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	voters := []Voter{{"v2", 2}, {"v1", 1}, {"noweight", 0}, {"v3", 3}}
	for _, v := range voters {
		require.NoError(t, v.Save(st))
	}
	require.ErrorIs(t, voters[0].Save(st), errors.StorageRecordAlreadyExists)

	w, err := GetVoterWeight(st, "v3")
	require.NoError(t, err)
	require.Equal(t, uint64(3), w)

	w, err = GetVoterWeight(st, "noweight")
	require.NoError(t, err)
	require.Equal(t, uint64(0), w)

	_, err = GetVoterWeight(st, "nobody")
	require.ErrorIs(t, err, errors.StorageRecordDoesNotExist)

	collect := func(startAfter string, limit uint64) (found []Voter) {
		iterFunc, closeFunc := GetVoters(st, startAfter, limit)
		defer closeFunc()
		for {
			v, hasNext, err := iterFunc()
			require.NoError(t, err)
			if !hasNext {
				break
			}
			found = append(found, v)
		}
		return
	}

	require.Equal(t, []Voter{{"noweight", 0}, {"v1", 1}, {"v2", 2}, {"v3", 3}}, collect("", 0))
	require.Equal(t, []Voter{{"v2", 2}}, collect("v1", 1))

	require.NoError(t, st.New(GetVoterKey("v4"), "not a weight"))
	iterFunc, closeFunc := GetVoters(st, "v3", 10)
	defer closeFunc()
	_, hasNext, err := iterFunc()
	require.ErrorIs(t, err, errors.StorageCoreError)
	require.False(t, hasNext)
}
