package observer

import (
	"strings"

	"github.com/GianlucaGuarini/go-observable"
)

// Events triggered by the governance engine. Every callback receives the
// proposal as the first argument.
const (
	EventProposalCreated  = "proposal-created"
	EventBallotCast       = "ballot-cast"
	EventProposalStatus   = "proposal-status"
	EventProposalExecuted = "proposal-executed"
	EventProposalClosed   = "proposal-closed"
)

func New() *observable.Observable {
	return observable.New()
}

type Event struct {
	Name string `json:"name"`
	Id   string `json:"id"`
}

func NewEvent(name, id string) Event {
	return Event{Name: name, Id: id}
}

// String returns the key used to register the event on an observable;
// `proposal-created` for every proposal or `ballot-cast-3` for one.
func (e Event) String() string {
	if len(e.Id) < 1 {
		return e.Name
	}
	return e.Name + "-" + e.Id
}

// Events joins the event keys, so they can be registered with one `On()`.
func Events(events ...Event) string {
	keys := make([]string, len(events))
	for i, e := range events {
		keys[i] = e.String()
	}
	return strings.Join(keys, " ")
}
