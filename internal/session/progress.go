package session

import (
	"fmt"
	"sync"

	"grepscope/internal/domain"
	"grepscope/internal/eventbus"
)

// progressConsumer holds one session's subscription to the worker's
// progress stream and folds incoming payloads into a SearchProgress value
// plus a display status line.
type progressConsumer struct {
	mu          sync.Mutex
	progress    domain.SearchProgress
	statusLine  string
	unsub       func()
	disposeOnce sync.Once
	onCancelled func(domain.SearchProgress)
}

// newProgressConsumer subscribes to the progress stream. onCancelled fires
// once when a payload with status "cancelled" is observed.
func newProgressConsumer(bus eventbus.EventBus, onCancelled func(domain.SearchProgress)) *progressConsumer {
	pc := &progressConsumer{onCancelled: onCancelled}
	pc.unsub = bus.Subscribe(eventbus.EventSearchProgress, func(e eventbus.DomainEvent) {
		if ev, ok := e.(domain.SearchProgressEvent); ok {
			pc.fold(ev.Progress)
		}
	})
	return pc
}

// fold merges one payload into the consumer state and recomputes the
// status line. Numeric fields absent from the payload are zero values.
func (pc *progressConsumer) fold(p domain.SearchProgress) {
	pc.mu.Lock()

	if p.CurrentFile == "" {
		p.CurrentFile = pc.progress.CurrentFile
	}
	pc.progress = p

	switch p.Status {
	case domain.StatusInProgress:
		pc.statusLine = fmt.Sprintf("Searching... Processed %d of %d files, found %d matches",
			p.ProcessedFiles, p.TotalFiles, p.ResultsCount)
	case domain.StatusCompleted:
		pc.statusLine = fmt.Sprintf("Search completed! Processed %d files, found %d matches",
			p.ProcessedFiles, p.ResultsCount)
	case domain.StatusCancelled:
		pc.statusLine = "Search was cancelled"
	case domain.StatusStarted:
		pc.statusLine = "Search started"
	}

	cancelled := p.Status == domain.StatusCancelled
	callback := pc.onCancelled
	snapshot := pc.progress
	pc.mu.Unlock()

	if cancelled && callback != nil {
		callback(snapshot)
	}
}

// Snapshot returns the folded progress and the current status line
func (pc *progressConsumer) Snapshot() (domain.SearchProgress, string) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.progress, pc.statusLine
}

// Percent returns the completion percentage, 0 when the total is unknown
func (pc *progressConsumer) Percent() int {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.progress.TotalFiles == 0 {
		return 0
	}
	return int(pc.progress.ProcessedFiles * 100 / pc.progress.TotalFiles)
}

// Dispose drops the subscription. Safe to call more than once.
func (pc *progressConsumer) Dispose() {
	pc.disposeOnce.Do(pc.unsub)
}
