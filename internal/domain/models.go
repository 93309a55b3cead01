package domain

// SearchStatus represents the lifecycle status reported by the search worker
type SearchStatus string

const (
	StatusStarted    SearchStatus = "started"
	StatusInProgress SearchStatus = "in-progress"
	StatusCompleted  SearchStatus = "completed"
	StatusCancelled  SearchStatus = "cancelled"
)

// SearchRequest describes one validated search. Immutable once built; the
// session that built it is its sole owner.
type SearchRequest struct {
	Directory        string
	Query            string
	Extension        string
	CaseSensitive    bool
	UseRegex         bool
	IncludeBinary    bool
	MinFileSize      uint64
	MaxFileSize      uint64
	MaxResults       uint64
	SearchSubdirs    bool
	ExcludePatterns  []string
	AllowedFileTypes []string
}

// SearchProgress is the mutable progress state of one running search.
// It is reset to zero values at the start of every session.
type SearchProgress struct {
	ProcessedFiles uint64
	TotalFiles     uint64
	CurrentFile    string
	ResultsCount   uint64
	Status         SearchStatus
}

// SearchResult is one matching line produced by the worker. Read-only to
// the client side.
type SearchResult struct {
	FilePath      string
	LineNum       uint64
	Content       string
	MatchedText   string
	ContextBefore []string
	ContextAfter  []string
}

// RecentQueryEntry is one remembered (query, extension) pair
type RecentQueryEntry struct {
	Query     string `json:"query"`
	Extension string `json:"extension"`
}
