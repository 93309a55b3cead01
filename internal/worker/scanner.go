package worker

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"grepscope/internal/domain"
	"grepscope/internal/eventbus"
)

const (
	// context lines captured around each match
	contextLines = 2
	// progress payload cadence, in files
	progressEvery = 50
	// bytes sniffed for the binary check
	binarySniffLen = 512
)

// Directories that are never worth scanning
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"__pycache__":  true,
	".cache":       true,
	".gradle":      true,
	".tox":         true,
	"venv":         true,
	".venv":        true,
}

// Scanner is the in-process search worker. It walks the requested
// directory, matches file contents line by line and publishes progress
// payloads on the event bus.
type Scanner struct {
	bus       eventbus.EventBus
	mu        sync.Mutex
	searching bool
	cancel    context.CancelFunc
}

// NewScanner creates a new filesystem scanner
func NewScanner(bus eventbus.EventBus) *Scanner {
	return &Scanner{bus: bus}
}

// Search runs one scan. Only one scan may run at a time.
func (s *Scanner) Search(ctx context.Context, req domain.SearchRequest) ([]domain.SearchResult, error) {
	s.mu.Lock()
	if s.searching {
		s.mu.Unlock()
		return nil, fmt.Errorf("search already in progress")
	}
	s.searching = true
	scanCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.searching = false
		s.cancel = nil
		s.mu.Unlock()
	}()

	m, err := newLineMatcher(req.Query, req.CaseSensitive, req.UseRegex)
	if err != nil {
		return nil, fmt.Errorf("invalid search pattern: %w", err)
	}

	files, err := s.collectFiles(scanCtx, req)
	if err != nil {
		if scanCtx.Err() != nil {
			s.publishCancelled(0, 0, 0)
			return nil, scanCtx.Err()
		}
		return nil, err
	}

	total := uint64(len(files))
	s.publish(domain.SearchProgress{
		TotalFiles: total,
		Status:     domain.StatusStarted,
	})

	var results []domain.SearchResult
	var processed uint64

	for _, path := range files {
		if scanCtx.Err() != nil {
			s.publishCancelled(processed, total, uint64(len(results)))
			return nil, scanCtx.Err()
		}

		matches, err := s.searchFile(path, req, m, req.MaxResults-uint64(len(results)))
		if err != nil {
			// Unreadable files are skipped, not fatal
			log.Printf("Scanner: skipping %s: %v", path, err)
		} else {
			results = append(results, matches...)
		}
		processed++

		if processed%progressEvery == 0 {
			s.publish(domain.SearchProgress{
				ProcessedFiles: processed,
				TotalFiles:     total,
				CurrentFile:    path,
				ResultsCount:   uint64(len(results)),
				Status:         domain.StatusInProgress,
			})
		}

		if uint64(len(results)) >= req.MaxResults {
			break
		}
	}

	if scanCtx.Err() != nil {
		s.publishCancelled(processed, total, uint64(len(results)))
		return nil, scanCtx.Err()
	}

	s.publish(domain.SearchProgress{
		ProcessedFiles: processed,
		TotalFiles:     total,
		ResultsCount:   uint64(len(results)),
		Status:         domain.StatusCompleted,
	})

	return results, nil
}

// CancelSearch cancels any running scan. Safe to call when idle.
func (s *Scanner) CancelSearch() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
}

func (s *Scanner) publish(p domain.SearchProgress) {
	s.bus.Publish(domain.SearchProgressEvent{Progress: p})
}

func (s *Scanner) publishCancelled(processed, total, found uint64) {
	s.publish(domain.SearchProgress{
		ProcessedFiles: processed,
		TotalFiles:     total,
		ResultsCount:   found,
		Status:         domain.StatusCancelled,
	})
}

// collectFiles walks the request directory and returns the files that pass
// every metadata filter. Content filters (binary sniff, matching) run later.
func (s *Scanner) collectFiles(ctx context.Context, req domain.SearchRequest) ([]string, error) {
	var files []string

	root := filepath.Clean(req.Directory)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			log.Printf("Scanner: error walking %s: %v", path, err)
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !req.SearchSubdirs {
				return fs.SkipDir
			}
			if skipDirs[name] || strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			if matchesAny(req.ExcludePatterns, name) {
				return fs.SkipDir
			}
			return nil
		}

		if matchesAny(req.ExcludePatterns, name) {
			return nil
		}
		if !extensionAllowed(req, name) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		size := uint64(info.Size())
		if size < req.MinFileSize || size > req.MaxFileSize {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// extensionAllowed applies the single-extension filter and, when present,
// the allowed-file-types list
func extensionAllowed(req domain.SearchRequest, name string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")

	if req.Extension != "" && !strings.EqualFold(ext, strings.TrimPrefix(req.Extension, ".")) {
		return false
	}

	if len(req.AllowedFileTypes) > 0 {
		for _, allowed := range req.AllowedFileTypes {
			if strings.EqualFold(ext, strings.TrimPrefix(allowed, ".")) {
				return true
			}
		}
		return false
	}

	return true
}

func matchesAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

// searchFile scans one file and returns up to limit matches
func (s *Scanner) searchFile(path string, req domain.SearchRequest, m *lineMatcher, limit uint64) ([]domain.SearchResult, error) {
	if limit == 0 {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if !req.IncludeBinary && looksBinary(data) {
		return nil, nil
	}

	lines := strings.Split(string(data), "\n")
	var results []domain.SearchResult

	for i, line := range lines {
		matched, ok := m.find(line)
		if !ok {
			continue
		}

		results = append(results, domain.SearchResult{
			FilePath:      path,
			LineNum:       uint64(i + 1),
			Content:       line,
			MatchedText:   matched,
			ContextBefore: copyLines(lines, i-contextLines, i),
			ContextAfter:  copyLines(lines, i+1, i+1+contextLines),
		})
		if uint64(len(results)) >= limit {
			break
		}
	}

	return results, nil
}

func copyLines(lines []string, from, to int) []string {
	if from < 0 {
		from = 0
	}
	if to > len(lines) {
		to = len(lines)
	}
	if from >= to {
		return nil
	}
	return append([]string(nil), lines[from:to]...)
}

// looksBinary reports whether the leading bytes contain a NUL
func looksBinary(data []byte) bool {
	n := len(data)
	if n > binarySniffLen {
		n = binarySniffLen
	}
	return bytes.IndexByte(data[:n], 0) >= 0
}

// lineMatcher matches one line against the request's query, either as a
// compiled regular expression or as a literal needle
type lineMatcher struct {
	re      *regexp.Regexp
	needle  string
	folded  string
	caseSen bool
}

func newLineMatcher(query string, caseSensitive, useRegex bool) (*lineMatcher, error) {
	if useRegex {
		pattern := query
		if !caseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		return &lineMatcher{re: re}, nil
	}
	return &lineMatcher{
		needle:  query,
		folded:  strings.ToLower(query),
		caseSen: caseSensitive,
	}, nil
}

// find returns the matched text and whether the line matched
func (m *lineMatcher) find(line string) (string, bool) {
	if m.re != nil {
		loc := m.re.FindStringIndex(line)
		if loc == nil || loc[0] == loc[1] {
			return "", false
		}
		return line[loc[0]:loc[1]], true
	}

	if m.needle == "" {
		return "", false
	}
	if m.caseSen {
		if idx := strings.Index(line, m.needle); idx >= 0 {
			return line[idx : idx+len(m.needle)], true
		}
		return "", false
	}
	if idx := strings.Index(strings.ToLower(line), m.folded); idx >= 0 {
		return line[idx : idx+len(m.needle)], true
	}
	return "", false
}
