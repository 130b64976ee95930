package dispatch

import (
	"github.com/google/uuid"

	"boscoin.io/govern/lib/common"
	"boscoin.io/govern/lib/errors"
	"boscoin.io/govern/lib/storage"
)

// Message carries the payload of an executed proposal. The payload is never
// opened.
type Message struct {
	ID         string `json:"id" yaml:"id" msgpack:"id"`
	ProposalID uint64 `json:"proposal_id" yaml:"proposal_id" msgpack:"proposal_id"`
	Proposer   string `json:"proposer" yaml:"proposer" msgpack:"proposer"`
	Executor   string `json:"executor" yaml:"executor" msgpack:"executor"`
	Height     uint64 `json:"height" yaml:"height" msgpack:"height"`
	Payload    []byte `json:"payload" yaml:"payload" msgpack:"payload"`
}

func NewMessage(proposalID uint64, proposer, executor string, height uint64, payload []byte) (Message, error) {
	id, err := uuid.NewUUID()
	if err != nil {
		return Message{}, errors.DispatchFailed.Clone().SetData("error", err.Error())
	}

	return Message{
		ID:         id.String(),
		ProposalID: proposalID,
		Proposer:   proposer,
		Executor:   executor,
		Height:     height,
		Payload:    payload,
	}, nil
}

func (m Message) String() string {
	return string(common.MustMarshalJSON(m))
}

// Dispatcher hands the message over to the executor of the payloads. `st` is
// the transaction of the execution; when Dispatch fails, the execution is
// rolled back.
type Dispatcher interface {
	Dispatch(st storage.DBBackend, m Message) error
}

type DispatcherFunc func(storage.DBBackend, Message) error

func (f DispatcherFunc) Dispatch(st storage.DBBackend, m Message) error {
	return f(st, m)
}

// NopDispatcher drops the messages.
type NopDispatcher struct{}

func (NopDispatcher) Dispatch(storage.DBBackend, Message) error {
	return nil
}
