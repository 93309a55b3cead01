package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchStarted   EventType = "SearchStarted"
	EventSearchProgress  EventType = "search-progress"
	EventSearchCompleted EventType = "SearchCompleted"
	EventSearchFailed    EventType = "SearchFailed"
	EventSearchCancelled EventType = "SearchCancelled"
	EventError           EventType = "Error"
	EventConfigLoaded    EventType = "ConfigLoaded"
	EventConfigSaved     EventType = "ConfigSaved"
	EventHistoryUpdated  EventType = "HistoryUpdated"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchStartedEvent is emitted when a session enters the running state
type SearchStartedEvent struct {
	Query     string
	Directory string
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// SearchProgressEvent carries one progress payload from the worker.
// The payload is decoded into SearchProgress once, at the publishing
// boundary, and never re-interpreted downstream.
type SearchProgressEvent struct {
	Progress SearchProgress
}

func (e SearchProgressEvent) Type() EventType { return EventSearchProgress }

// SearchCompletedEvent is emitted when a session finishes with results
type SearchCompletedEvent struct {
	ResultCount int
	Truncated   bool
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchFailedEvent is emitted when the worker call rejects
type SearchFailedEvent struct {
	Message string
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// SearchCancelledEvent is emitted once a cancellation has been acknowledged
// by the worker's terminal progress payload
type SearchCancelledEvent struct{}

func (e SearchCancelledEvent) Type() EventType { return EventSearchCancelled }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	DefaultDir string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// HistoryUpdatedEvent is emitted after the recent query list changes
type HistoryUpdatedEvent struct {
	Entries []RecentQueryEntry
}

func (e HistoryUpdatedEvent) Type() EventType { return EventHistoryUpdated }
