package core

// Notifier is any service that can broadcast an application event to
// interested operators. Emit is fire-and-forget: implementations must not
// block the caller and failures have no effect on the emitting operation.
type Notifier interface {
	Emit(event string, payload interface{})
}
