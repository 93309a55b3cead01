package ui

import (
	"time"

	"grepscope/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// tickMsg is sent on a timer for progress redraws
type tickMsg time.Time

// pagerDoneMsg contains the result of a pager command
type pagerDoneMsg struct {
	err error
}

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}
