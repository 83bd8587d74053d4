package notifsvc

import (
	"github.com/trezcool/shule/core"
)

// SentEvent is an event captured by the DummyNotifier.
type SentEvent struct {
	Event   string
	Payload interface{}
}

var SentEvents = make([]SentEvent, 0)

// DummyNotifier records emitted events for inspection in tests.
type DummyNotifier struct{}

var _ core.Notifier = (*DummyNotifier)(nil)

func NewDummyNotifier() *DummyNotifier {
	return &DummyNotifier{}
}

func (n *DummyNotifier) Emit(event string, payload interface{}) {
	SentEvents = append(SentEvents, SentEvent{Event: event, Payload: payload})
}

func ClearSentEvents() {
	SentEvents = make([]SentEvent, 0)
}
