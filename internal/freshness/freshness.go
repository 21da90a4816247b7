// Package freshness selects the most recently modified continuity documents
// under an age ceiling.
package freshness

import (
	"sort"
	"time"

	"continuum/internal/store"
)

// NoCeiling disables the age filter.
const NoCeiling time.Duration = 0

// Filter returns the documents whose age relative to now is strictly below
// ceiling, freshest first, truncated to limit when limit is positive. Equal
// modification times order by name so results are deterministic.
func Filter(docs []store.Document, now time.Time, ceiling time.Duration, limit int) []store.Document {
	fresh := make([]store.Document, 0, len(docs))
	for _, doc := range docs {
		if ceiling > NoCeiling && doc.Age(now) >= ceiling {
			continue
		}
		fresh = append(fresh, doc)
	}
	sort.SliceStable(fresh, func(i, j int) bool {
		if fresh[i].ModTime.Equal(fresh[j].ModTime) {
			return fresh[i].Name < fresh[j].Name
		}
		return fresh[i].ModTime.After(fresh[j].ModTime)
	})
	if limit > 0 && len(fresh) > limit {
		fresh = fresh[:limit]
	}
	return fresh
}

// Scan lists dir and applies Filter. An absent directory yields no documents.
func Scan(dir string, pattern store.Pattern, now time.Time, ceiling time.Duration, limit int) ([]store.Document, store.LoadResult) {
	docs, result := store.ListDocuments(dir, pattern)
	return Filter(docs, now, ceiling, limit), result
}

// Freshest returns the single freshest document under ceiling.
func Freshest(dir string, pattern store.Pattern, now time.Time, ceiling time.Duration) (store.Document, bool, store.LoadResult) {
	docs, result := Scan(dir, pattern, now, ceiling, 1)
	if len(docs) == 0 {
		return store.Document{}, false, result
	}
	return docs[0], true, result
}

// Stale returns the documents whose age relative to now exceeds maxAge.
func Stale(docs []store.Document, now time.Time, maxAge time.Duration) []store.Document {
	stale := make([]store.Document, 0)
	for _, doc := range docs {
		if doc.Age(now) > maxAge {
			stale = append(stale, doc)
		}
	}
	return stale
}
