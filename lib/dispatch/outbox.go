package dispatch

import (
	"strconv"

	"boscoin.io/govern/lib/common"
	"boscoin.io/govern/lib/errors"
	"boscoin.io/govern/lib/storage"
)

// Outbox model in storage
//  * 'go-<proposal id>': `Message`
const OutboxPrefix string = "go-"

// OutboxDispatcher stores the messages in the same storage, so the message
// is committed together with the execution. The consumer of the payloads
// reads them from the outbox.
type OutboxDispatcher struct{}

func NewOutboxDispatcher() *OutboxDispatcher {
	return &OutboxDispatcher{}
}

func GetOutboxKey(proposalID uint64) string {
	b := common.EncodeUint64ToByteSlice(proposalID)
	return OutboxPrefix + string(b[:])
}

func (d *OutboxDispatcher) Dispatch(st storage.DBBackend, m Message) error {
	if err := st.New(GetOutboxKey(m.ProposalID), m); err != nil {
		return errors.DispatchFailed.Clone().
			SetData("proposal", m.ProposalID).
			SetData("error", err.Error())
	}

	log.Debug("message dispatched", "id", m.ID, "proposal", m.ProposalID)
	return nil
}

func GetMessage(st storage.DBBackend, proposalID uint64) (m Message, err error) {
	err = st.Get(GetOutboxKey(proposalID), &m)
	return
}

// GetMessages iterates the messages by proposal id, after `startAfter` if
// it is not 0.
func GetMessages(st storage.DBBackend, startAfter uint64, limit uint64) (func() (Message, bool, error), func()) {
	var cursor []byte
	if startAfter > 0 {
		cursor = []byte(GetOutboxKey(startAfter))
	}

	option := storage.NewDefaultListOptions(false, cursor, limit)
	iterFunc, closeFunc := st.GetIterator(OutboxPrefix, option)

	return (func() (Message, bool, error) {
			item, hasNext := iterFunc()
			if !hasNext {
				return Message{}, false, nil
			}

			var m Message
			if err := item.Decode(&m); err != nil {
				closeFunc()
				return Message{}, false, errors.StorageCoreError.Clone().
					SetData("key", strconv.Quote(string(item.Key))).
					SetData("error", err.Error())
			}

			return m, true, nil
		}), (func() {
			closeFunc()
		})
}
