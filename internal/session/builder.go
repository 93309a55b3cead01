package session

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"grepscope/internal/domain"
)

// Defaults applied when the corresponding raw field is absent
const (
	DefaultMaxFileSize uint64 = 10 * 1024 * 1024
	DefaultMinFileSize uint64 = 0
	DefaultMaxResults  uint64 = 1000
)

// RawSearchInput is the unvalidated form content handed to Submit.
// Numeric fields arrive as strings and are coerced defensively.
type RawSearchInput struct {
	Directory        string
	Query            string
	Extension        string
	CaseSensitive    bool
	UseRegex         bool
	IncludeBinary    bool
	SearchSubdirs    bool
	MinFileSize      string
	MaxFileSize      string
	MaxResults       string
	ExcludePatterns  []string
	AllowedFileTypes []string
}

// BuildRequest validates raw input and produces an immutable SearchRequest.
// Checks run in a fixed order; the first failure wins.
func BuildRequest(raw RawSearchInput) (domain.SearchRequest, error) {
	var req domain.SearchRequest

	if strings.TrimSpace(raw.Directory) == "" {
		return req, validationErr(CodeDirectoryRequired, "directory required")
	}
	if strings.TrimSpace(raw.Query) == "" {
		return req, validationErr(CodeQueryRequired, "query required")
	}

	maxSize, err := parseCount(raw.MaxFileSize, DefaultMaxFileSize)
	if err != nil {
		return req, validationErr(CodeMaxFileSizeInvalid,
			fmt.Sprintf("max file size must be a non-negative number, got %q", raw.MaxFileSize))
	}
	minSize, err := parseCount(raw.MinFileSize, DefaultMinFileSize)
	if err != nil {
		return req, validationErr(CodeMinFileSizeInvalid,
			fmt.Sprintf("min file size must be a non-negative number, got %q", raw.MinFileSize))
	}
	if minSize > maxSize {
		return req, validationErr(CodeSizeRangeInvalid,
			fmt.Sprintf("min file size %d exceeds max file size %d", minSize, maxSize))
	}

	maxResults, err := parseCount(raw.MaxResults, DefaultMaxResults)
	if err != nil || maxResults == 0 {
		return req, validationErr(CodeMaxResultsInvalid,
			fmt.Sprintf("max results must be a positive number, got %q", raw.MaxResults))
	}

	if raw.UseRegex {
		if _, err := regexp.Compile(raw.Query); err != nil {
			return req, validationErr(CodePatternInvalid,
				fmt.Sprintf("invalid regular expression: %v", err))
		}
	}

	req = domain.SearchRequest{
		Directory:        raw.Directory,
		Query:            raw.Query,
		Extension:        strings.TrimSpace(raw.Extension),
		CaseSensitive:    raw.CaseSensitive,
		UseRegex:         raw.UseRegex,
		IncludeBinary:    raw.IncludeBinary,
		MinFileSize:      minSize,
		MaxFileSize:      maxSize,
		MaxResults:       maxResults,
		SearchSubdirs:    raw.SearchSubdirs,
		ExcludePatterns:  filterBlank(raw.ExcludePatterns),
		AllowedFileTypes: filterBlank(raw.AllowedFileTypes),
	}
	return req, nil
}

// parseCount coerces a raw numeric field. Empty means absent and takes the
// default; anything non-numeric or negative is an error, never a silent
// fallback.
func parseCount(raw string, def uint64) (uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}

// filterBlank drops empty and whitespace-only entries
func filterBlank(items []string) []string {
	var out []string
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
