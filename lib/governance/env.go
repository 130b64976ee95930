package governance

import (
	"strconv"

	"boscoin.io/govern/lib/common"
	"boscoin.io/govern/lib/expiration"
	"boscoin.io/govern/lib/proposal"
)

// Env is the context of an operation given by the host.
type Env struct {
	Block  expiration.BlockInfo `json:"block"`
	Sender string               `json:"sender"`
}

func NewEnv(block expiration.BlockInfo, sender string) Env {
	return Env{Block: block, Sender: sender}
}

const (
	ActionPropose = "propose"
	ActionVote    = "vote"
	ActionExecute = "execute"
	ActionClose   = "close"
)

// Result describes the state change of a successful operation.
type Result struct {
	Action     string          `json:"action" yaml:"action"`
	Sender     string          `json:"sender" yaml:"sender"`
	ProposalID uint64          `json:"proposal_id" yaml:"proposal_id"`
	Status     proposal.Status `json:"status" yaml:"status"`
}

type Attribute struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

func (r Result) Attributes() []Attribute {
	return []Attribute{
		{Key: "action", Value: r.Action},
		{Key: "sender", Value: r.Sender},
		{Key: "proposal_id", Value: strconv.FormatUint(r.ProposalID, 10)},
		{Key: "status", Value: r.Status.String()},
	}
}

func (r Result) String() string {
	return string(common.MustMarshalJSON(r))
}
