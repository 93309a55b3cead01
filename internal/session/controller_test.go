package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"grepscope/internal/domain"
	"grepscope/internal/eventbus"
	"grepscope/internal/history"
)

// fakeWorker blocks in Search until released and acknowledges cancellation
// the way the real worker does: with a cancelled progress payload.
type fakeWorker struct {
	mu       sync.Mutex
	bus      eventbus.EventBus
	results  []domain.SearchResult
	err      error
	release  chan struct{}
	calls    int
	cancels  int
	lastReq  domain.SearchRequest
}

func newFakeWorker(bus eventbus.EventBus) *fakeWorker {
	return &fakeWorker{bus: bus, release: make(chan struct{})}
}

func (w *fakeWorker) Search(ctx context.Context, req domain.SearchRequest) ([]domain.SearchResult, error) {
	w.mu.Lock()
	w.calls++
	w.lastReq = req
	release := w.release
	w.mu.Unlock()

	<-release

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.results, w.err
}

func (w *fakeWorker) CancelSearch() {
	w.mu.Lock()
	w.cancels++
	w.mu.Unlock()
	w.bus.Publish(domain.SearchProgressEvent{
		Progress: domain.SearchProgress{Status: domain.StatusCancelled},
	})
}

func (w *fakeWorker) callCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls
}

// recordingNotifier captures controller notifications for assertions
type recordingNotifier struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (n *recordingNotifier) Info(msg string) {
	n.mu.Lock()
	n.infos = append(n.infos, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	n.errors = append(n.errors, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors)
}

func newTestController(t *testing.T) (*Controller, *fakeWorker, *recordingNotifier, *history.RecentQueryCache, eventbus.EventBus) {
	t.Helper()
	bus := eventbus.New()
	w := newFakeWorker(bus)
	store := history.NewFileStore(filepath.Join(t.TempDir(), "recent.json"))
	hist := history.NewRecentQueryCache(store, nil)
	notifier := &recordingNotifier{}
	c := NewController(bus, w, hist, notifier)
	c.graceDelay = 10 * time.Millisecond
	return c, w, notifier, hist, bus
}

func validInput() RawSearchInput {
	return RawSearchInput{Directory: "/tmp", Query: "needle"}
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, msg)
}

func TestSubmitValidationFailureMakesNoWorkerCall(t *testing.T) {
	c, w, notifier, _, _ := newTestController(t)

	err := c.Submit(RawSearchInput{Query: "no directory"})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "directory required", verr.Message)
	require.Equal(t, StateIdle, c.State())
	require.Equal(t, 0, w.callCount())
	require.Equal(t, 1, notifier.errorCount())
}

func TestSubmitCompletesAndRecordsHistory(t *testing.T) {
	c, w, _, hist, _ := newTestController(t)
	w.results = []domain.SearchResult{
		{FilePath: "/tmp/a.txt", LineNum: 3, Content: "needle here"},
		{FilePath: "/tmp/b.txt", LineNum: 7, Content: "another needle"},
	}

	require.NoError(t, c.Submit(RawSearchInput{Directory: "/tmp", Query: "needle", Extension: "txt"}))
	require.Equal(t, StateRunning, c.State())
	close(w.release)

	eventually(t, func() bool { return c.State() == StateCompleted }, "session should complete")

	snap := c.Snapshot()
	require.Len(t, snap.Results, 2)
	require.False(t, snap.Truncated)

	entries := hist.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, domain.RecentQueryEntry{Query: "needle", Extension: "txt"}, entries[0])
}

func TestTruncationInferredFromResultCount(t *testing.T) {
	run := func(t *testing.T, resultCount int) Snapshot {
		c, w, _, _, _ := newTestController(t)
		for i := 0; i < resultCount; i++ {
			w.results = append(w.results, domain.SearchResult{FilePath: "/tmp/f", LineNum: uint64(i + 1)})
		}
		raw := validInput()
		raw.MaxResults = "2"
		require.NoError(t, c.Submit(raw))
		close(w.release)
		eventually(t, func() bool { return c.State() == StateCompleted }, "session should complete")
		return c.Snapshot()
	}

	require.True(t, run(t, 2).Truncated, "result list at the cap is treated as truncated")
	require.False(t, run(t, 1).Truncated, "result list below the cap is not truncated")
}

func TestSecondSubmitWhileRunningIsRejected(t *testing.T) {
	c, w, _, _, _ := newTestController(t)

	require.NoError(t, c.Submit(validInput()))
	err := c.Submit(validInput())
	require.ErrorIs(t, err, ErrSessionBusy)
	require.Equal(t, 1, w.callCount())

	close(w.release)
	eventually(t, func() bool { return c.State() == StateCompleted }, "first session should still complete")
}

func TestWorkerErrorSurfacedVerbatim(t *testing.T) {
	c, w, notifier, hist, _ := newTestController(t)
	w.err = errors.New("scan failed: permission denied")

	require.NoError(t, c.Submit(validInput()))
	close(w.release)

	eventually(t, func() bool { return c.State() == StateErrored }, "session should end errored")
	require.Equal(t, "scan failed: permission denied", c.Snapshot().ErrMessage)
	require.Empty(t, hist.Entries(), "errored sessions never touch the cache")

	eventually(t, func() bool { return notifier.errorCount() == 1 }, "error should be notified")
}

func TestCancelClearsPartialResultsAndWinsRace(t *testing.T) {
	c, w, _, hist, _ := newTestController(t)
	w.results = []domain.SearchResult{{FilePath: "/tmp/late.txt", LineNum: 1}}

	require.NoError(t, c.Submit(validInput()))
	require.NoError(t, c.Cancel())

	// The partial buffer is cleared and Running is left before the worker
	// call settles
	snap := c.Snapshot()
	require.Nil(t, snap.Results)
	require.NotEqual(t, StateRunning, snap.State)

	// The worker acknowledges; the session returns to idle
	eventually(t, func() bool { return c.State() == StateIdle }, "cancelled ack should finish the session")

	// The worker call now resolves with stale data, which must be discarded
	close(w.release)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, StateIdle, c.State())
	require.Nil(t, c.Snapshot().Results)
	require.Empty(t, hist.Entries(), "cancelled sessions never touch the cache")
}

func TestCancelOnlyLegalWhileRunning(t *testing.T) {
	c, _, _, _, _ := newTestController(t)
	require.ErrorIs(t, c.Cancel(), ErrNotRunning)
}

func TestResubmitAfterCompletion(t *testing.T) {
	c, w, _, _, _ := newTestController(t)

	require.NoError(t, c.Submit(validInput()))
	close(w.release)
	eventually(t, func() bool { return c.State() == StateCompleted }, "first session should complete")

	w.mu.Lock()
	w.release = make(chan struct{})
	close(w.release)
	w.mu.Unlock()

	require.NoError(t, c.Submit(validInput()))
	eventually(t, func() bool { return c.State() == StateCompleted }, "second session should complete")
	require.Equal(t, 2, w.callCount())
}

func TestProgressEventsFoldIntoStatusLine(t *testing.T) {
	c, w, _, _, bus := newTestController(t)
	require.NoError(t, c.Submit(validInput()))

	bus.Publish(domain.SearchProgressEvent{Progress: domain.SearchProgress{
		ProcessedFiles: 40,
		TotalFiles:     80,
		ResultsCount:   7,
		Status:         domain.StatusInProgress,
	}})

	eventually(t, func() bool {
		return c.Snapshot().StatusLine == "Searching... Processed 40 of 80 files, found 7 matches"
	}, "in-progress payload should fold into the status line")
	require.Equal(t, 50, c.Snapshot().Percent())

	close(w.release)
}

func TestZeroTotalFilesRendersZeroPercent(t *testing.T) {
	c, w, _, _, bus := newTestController(t)
	require.NoError(t, c.Submit(validInput()))

	bus.Publish(domain.SearchProgressEvent{Progress: domain.SearchProgress{
		ProcessedFiles: 5,
		TotalFiles:     0,
		Status:         domain.StatusInProgress,
	}})

	eventually(t, func() bool { return c.Snapshot().Progress.ProcessedFiles == 5 }, "payload should arrive")
	require.Equal(t, 0, c.Snapshot().Percent())

	close(w.release)
}
