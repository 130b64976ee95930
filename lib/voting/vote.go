package voting

import (
	"encoding/json"
	"strings"

	"boscoin.io/govern/lib/errors"
)

type Vote string

const (
	VoteYes     Vote = "yes"
	VoteNo      Vote = "no"
	VoteAbstain Vote = "abstain"
	VoteVeto    Vote = "veto"
)

func ParseVote(s string) (Vote, error) {
	v := Vote(strings.ToLower(strings.TrimSpace(s)))
	if !v.IsValid() {
		return "", errors.InvalidVote.Clone().SetData("vote", s)
	}

	return v, nil
}

func (v Vote) IsValid() bool {
	switch v {
	case VoteYes, VoteNo, VoteAbstain, VoteVeto:
		return true
	default:
		return false
	}
}

func (v Vote) String() string {
	return string(v)
}

func (v *Vote) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	parsed, err := ParseVote(s)
	if err != nil {
		return err
	}

	*v = parsed
	return nil
}

func (v *Vote) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	parsed, err := ParseVote(s)
	if err != nil {
		return err
	}

	*v = parsed
	return nil
}
