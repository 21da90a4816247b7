// Package store persists structured JSON documents and enumerates directories
// of timestamped continuity documents.
//
// Loads are best effort: a missing or corrupt document yields the caller's
// default value together with a LoadResult describing what happened. Saves
// always rewrite the whole document and report failures as faults.ErrStorage.
package store
