package repositories

import "errors"

// Sentinel errors every repository implementation maps its storage
// faults onto. Callers branch with errors.Is instead of inspecting
// driver errors.
var (
	// ErrNotFound signals that no row matched the lookup. Lookups never
	// surface a raw database fault for a missing row.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate signals a uniqueness constraint violation (duplicate
	// email, duplicate (user, store) rating pair).
	ErrDuplicate = errors.New("duplicate record")
)
