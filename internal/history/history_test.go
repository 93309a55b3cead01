package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"grepscope/internal/domain"
)

func newTestCache(t *testing.T) (*RecentQueryCache, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recent.json")
	return NewRecentQueryCache(NewFileStore(path), nil), path
}

func TestRecordDeduplicatesByQueryAndExtension(t *testing.T) {
	cache, _ := newTestCache(t)

	cache.Record(domain.RecentQueryEntry{Query: "foo", Extension: "go"})
	cache.Record(domain.RecentQueryEntry{Query: "bar", Extension: "go"})
	cache.Record(domain.RecentQueryEntry{Query: "foo", Extension: "go"})

	entries := cache.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "foo", entries[0].Query, "repeated pair moves to the front")
	require.Equal(t, "bar", entries[1].Query)
}

func TestSameQueryDifferentExtensionAreDistinct(t *testing.T) {
	cache, _ := newTestCache(t)

	cache.Record(domain.RecentQueryEntry{Query: "foo", Extension: "go"})
	cache.Record(domain.RecentQueryEntry{Query: "foo", Extension: "md"})

	require.Len(t, cache.Entries(), 2)
}

func TestRecordEvictsOldestBeyondCap(t *testing.T) {
	cache, _ := newTestCache(t)

	for i := 1; i <= 6; i++ {
		cache.Record(domain.RecentQueryEntry{Query: fmt.Sprintf("query-%d", i)})
	}

	entries := cache.Entries()
	require.Len(t, entries, MaxEntries)
	require.Equal(t, "query-6", entries[0].Query)
	require.Equal(t, "query-2", entries[len(entries)-1].Query)
}

func TestRecordPersistsAfterEveryMutation(t *testing.T) {
	cache, path := newTestCache(t)

	cache.Record(domain.RecentQueryEntry{Query: "persisted", Extension: "txt"})

	reloaded := NewRecentQueryCache(NewFileStore(path), nil)
	entries := reloaded.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, domain.RecentQueryEntry{Query: "persisted", Extension: "txt"}, entries[0])
}

func TestCorruptStoreYieldsEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recent.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	cache := NewRecentQueryCache(NewFileStore(path), nil)
	require.Empty(t, cache.Entries())

	// The cache still works after a corrupt load
	cache.Record(domain.RecentQueryEntry{Query: "recovered"})
	require.Len(t, cache.Entries(), 1)
}

func TestMissingStoreIsEmptyNotError(t *testing.T) {
	cache, _ := newTestCache(t)
	require.Empty(t, cache.Entries())
}
