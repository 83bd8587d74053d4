package notifsvc

import (
	"github.com/trezcool/shule/core"
)

// ConsoleNotifier writes emitted events to the application logger.
type ConsoleNotifier struct {
	logger core.Logger
}

var _ core.Notifier = (*ConsoleNotifier)(nil)

func NewConsoleNotifier(logger core.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{logger: logger}
}

func (n *ConsoleNotifier) Emit(event string, payload interface{}) {
	n.logger.Info("event emitted: "+event, payload)
}
