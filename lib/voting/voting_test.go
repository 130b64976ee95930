package voting

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v2"

	"boscoin.io/govern/lib/errors"
)

func TestParseVote(t *testing.T) {
	for _, s := range []string{"yes", "NO", " abstain ", "Veto"} {
		v, err := ParseVote(s)
		require.NoError(t, err, s)
		require.True(t, v.IsValid())
	}

	_, err := ParseVote("maybe")
	require.ErrorIs(t, err, errors.InvalidVote)
}

func TestVoteUnmarshal(t *testing.T) {
	var v Vote
	require.NoError(t, json.Unmarshal([]byte(`"veto"`), &v))
	require.Equal(t, VoteVeto, v)
	require.ErrorIs(t, json.Unmarshal([]byte(`"nay"`), &v), errors.InvalidVote)

	require.NoError(t, yaml.Unmarshal([]byte(`abstain`), &v))
	require.Equal(t, VoteAbstain, v)
}

func TestVotesAdd(t *testing.T) {
	votes := NewYesVotes(5)
	require.Equal(t, uint64(5), votes.Total())

	votes.Add(VoteNo, 10)
	votes.Add(VoteYes, 11)
	votes.Add(VoteAbstain, 1)
	votes.Add(VoteVeto, 2)
	votes.Add(VoteNo, 3)

	require.Equal(t, Votes{Yes: 16, No: 13, Abstain: 1, Veto: 2}, votes)
	require.Equal(t, uint64(32), votes.Total())

	votes.Add(Vote("maybe"), 100)
	require.Equal(t, uint64(32), votes.Total())
}
