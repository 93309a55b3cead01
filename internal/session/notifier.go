package session

// Notifier receives user-facing notifications from the controller. The
// presentation layer injects its own implementation; tests inject a
// recording fake.
type Notifier interface {
	Info(message string)
	Error(message string)
}

// NopNotifier discards all notifications
type NopNotifier struct{}

func (NopNotifier) Info(string)  {}
func (NopNotifier) Error(string) {}
