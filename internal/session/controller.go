package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"grepscope/internal/domain"
	"grepscope/internal/eventbus"
	"grepscope/internal/history"
	"grepscope/internal/worker"
)

// State is the session lifecycle state. It is the single source of truth
// for whether a Submit or Cancel call is currently legal.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateRunning
	StateCancelling
	StateCompleted
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateRunning:
		return "running"
	case StateCancelling:
		return "cancelling"
	case StateCompleted:
		return "completed"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Disposing the progress subscription is delayed slightly after a session
// completes so a trailing terminal payload still updates the status line.
const defaultGraceDelay = 250 * time.Millisecond

// Controller owns exactly one in-flight search session. It validates
// requests, dispatches them to the worker, folds progress events while the
// call is pending, reconciles cancellation races and records successful
// queries in the history cache.
type Controller struct {
	bus      eventbus.EventBus
	worker   worker.Worker
	history  *history.RecentQueryCache
	notifier Notifier

	graceDelay time.Duration

	mu         sync.Mutex
	state      State
	epoch      uint64
	settled    bool
	req        *domain.SearchRequest
	consumer   *progressConsumer
	results    []domain.SearchResult
	truncated  bool
	errMessage string
}

// NewController creates a controller. A nil notifier discards notifications.
func NewController(bus eventbus.EventBus, w worker.Worker, hist *history.RecentQueryCache, notifier Notifier) *Controller {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Controller{
		bus:        bus,
		worker:     w,
		history:    hist,
		notifier:   notifier,
		graceDelay: defaultGraceDelay,
		state:      StateIdle,
	}
}

// Submit validates raw input and, on success, starts a new session. Legal
// only from the idle, completed or errored states; otherwise ErrSessionBusy.
func (c *Controller) Submit(raw RawSearchInput) error {
	c.mu.Lock()
	switch c.state {
	case StateIdle, StateCompleted, StateErrored:
	default:
		c.mu.Unlock()
		return ErrSessionBusy
	}
	c.state = StateValidating
	c.mu.Unlock()

	req, err := BuildRequest(raw)
	if err != nil {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
		c.notifier.Error(err.Error())
		return err
	}

	c.mu.Lock()
	c.epoch++
	epoch := c.epoch
	c.settled = false
	c.req = &req
	c.results = nil
	c.truncated = false
	c.errMessage = ""
	if c.consumer != nil {
		// A previous session's grace window may still be open
		c.consumer.Dispose()
	}
	c.consumer = newProgressConsumer(c.bus, func(domain.SearchProgress) {
		c.completeCancellation(epoch)
	})
	c.state = StateRunning
	c.mu.Unlock()

	c.bus.Publish(domain.SearchStartedEvent{Query: req.Query, Directory: req.Directory})

	go func() {
		results, err := c.worker.Search(context.Background(), req)
		c.finish(epoch, results, err)
	}()

	return nil
}

// Cancel requests cancellation of the running session. The partial result
// buffer is cleared immediately; the session leaves the cancelling state
// only when the worker acknowledges with a cancelled progress payload.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	if c.state != StateRunning {
		c.mu.Unlock()
		return ErrNotRunning
	}
	c.state = StateCancelling
	c.results = nil
	c.truncated = false
	c.mu.Unlock()

	c.worker.CancelSearch()
	return nil
}

// finish handles the worker call settling. A session that was already
// cancelled, or that has been superseded by a newer one, discards the
// outcome: the cancelled transition is terminal and wins any race.
func (c *Controller) finish(epoch uint64, results []domain.SearchResult, err error) {
	c.mu.Lock()
	if epoch != c.epoch || c.settled {
		c.mu.Unlock()
		return
	}
	if c.state == StateCancelling {
		// Cancellation in flight; only the worker's cancelled payload
		// finalizes the session
		c.mu.Unlock()
		return
	}
	c.settled = true
	consumer := c.consumer

	if err != nil {
		c.state = StateErrored
		c.errMessage = err.Error()
		c.mu.Unlock()

		c.scheduleDispose(consumer)
		c.bus.Publish(domain.SearchFailedEvent{Message: err.Error()})
		c.notifier.Error(err.Error())
		return
	}

	c.results = results
	c.truncated = uint64(len(results)) == c.req.MaxResults
	c.state = StateCompleted
	query, ext := c.req.Query, c.req.Extension
	truncated := c.truncated
	c.mu.Unlock()

	c.scheduleDispose(consumer)
	c.history.Record(domain.RecentQueryEntry{Query: query, Extension: ext})
	c.bus.Publish(domain.SearchCompletedEvent{ResultCount: len(results), Truncated: truncated})
	c.notifier.Info(fmt.Sprintf("Found %d matches", len(results)))
}

// completeCancellation is the authoritative end of a cancelled session,
// triggered by the worker's own cancelled progress payload
func (c *Controller) completeCancellation(epoch uint64) {
	c.mu.Lock()
	if epoch != c.epoch || c.settled {
		c.mu.Unlock()
		return
	}
	if c.state != StateRunning && c.state != StateCancelling {
		c.mu.Unlock()
		return
	}
	c.settled = true
	c.state = StateIdle
	c.results = nil
	c.truncated = false
	consumer := c.consumer
	c.mu.Unlock()

	consumer.Dispose()
	c.bus.Publish(domain.SearchCancelledEvent{})
	c.notifier.Info("Search was cancelled")
}

func (c *Controller) scheduleDispose(consumer *progressConsumer) {
	time.AfterFunc(c.graceDelay, consumer.Dispose)
}

// Snapshot is a point-in-time copy of the observable session state
type Snapshot struct {
	State      State
	Progress   domain.SearchProgress
	StatusLine string
	Results    []domain.SearchResult
	Truncated  bool
	ErrMessage string
}

// Percent returns the completion percentage, 0 when the total is unknown
func (s Snapshot) Percent() int {
	if s.Progress.TotalFiles == 0 {
		return 0
	}
	return int(s.Progress.ProcessedFiles * 100 / s.Progress.TotalFiles)
}

// Snapshot returns the current observable state for the presentation layer
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:      c.state,
		Results:    c.results,
		Truncated:  c.truncated,
		ErrMessage: c.errMessage,
	}
	if c.consumer != nil {
		snap.Progress, snap.StatusLine = c.consumer.Snapshot()
	}
	return snap
}

// State returns the current session state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
