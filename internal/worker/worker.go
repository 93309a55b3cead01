package worker

import (
	"context"

	"grepscope/internal/domain"
)

// Worker is the search engine contract consumed by the session controller.
// Search blocks until the scan finishes, fails, or is cancelled; progress is
// reported out of band on the event bus as SearchProgressEvent payloads.
// The engine is opaque to the controller and could equally live out of
// process behind the same interface.
type Worker interface {
	// Search runs one scan and returns at most req.MaxResults results.
	Search(ctx context.Context, req domain.SearchRequest) ([]domain.SearchResult, error)

	// CancelSearch requests cancellation of the running scan. Best effort:
	// the authoritative end of a cancelled scan is the worker's own
	// progress payload with status "cancelled".
	CancelSearch()
}
