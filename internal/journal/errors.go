package journal

import "errors"

var (
	// ErrEmptyContent is returned when an entry is created without content.
	ErrEmptyContent = errors.New("journal: entry content is empty")

	// ErrNotFound is returned when an operation targets an unknown entry ID.
	ErrNotFound = errors.New("journal: entry not found")

	// ErrStoreUnavailable is returned when the durable store cannot be
	// reached. The in-memory view is left untouched when it is returned.
	ErrStoreUnavailable = errors.New("journal: durable store unavailable")
)
