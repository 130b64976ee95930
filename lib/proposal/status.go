package proposal

import (
	"encoding/json"

	"boscoin.io/govern/lib/errors"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusOpen     Status = "open"
	StatusRejected Status = "rejected"
	StatusPassed   Status = "passed"
	StatusExecuted Status = "executed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusOpen, StatusRejected, StatusPassed, StatusExecuted:
		return true
	default:
		return false
	}
}

// IsFinal is true when the voting of the proposal is over.
func (s Status) IsFinal() bool {
	switch s {
	case StatusRejected, StatusPassed, StatusExecuted:
		return true
	default:
		return false
	}
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	if !Status(v).IsValid() {
		return errors.New("unknown proposal status").SetData("status", v)
	}

	*s = Status(v)
	return nil
}
