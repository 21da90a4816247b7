package store

// LoadStatus describes how a best-effort load resolved.
type LoadStatus int

const (
	// StatusLoaded means the document was read and decoded.
	StatusLoaded LoadStatus = iota
	// StatusMissing means no document existed; the default was used.
	StatusMissing
	// StatusDegraded means the document could not be read or decoded; the
	// default was used and Err holds the cause.
	StatusDegraded
)

func (s LoadStatus) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusMissing:
		return "missing"
	case StatusDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// LoadResult reports the outcome of a best-effort load.
type LoadResult struct {
	Status LoadStatus
	Err    error
	// ReadFailed marks a file that exists but could not be read. The
	// fallback then says nothing about the file's content, so writing it
	// back would discard data.
	ReadFailed bool
}

// Degraded reports whether the load fell back to defaults because of an error.
func (r LoadResult) Degraded() bool {
	return r.Status == StatusDegraded
}
