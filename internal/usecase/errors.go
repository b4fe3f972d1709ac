package usecase

import "github.com/cockroachdb/errors"

var (
	// ErrAttribution marks an event or lineup name that resolves on neither
	// the nominal team nor its opponent. Fatal: the upstream mapping is
	// broken and every downstream feature would be wrong.
	ErrAttribution = errors.New("player attribution failed")

	// ErrSequencing marks a round committed out of monotonic order, or a
	// read of a round that does not exist yet. A contract violation, never
	// user-recoverable.
	ErrSequencing = errors.New("round sequencing violated")

	// ErrInvalidFeed marks malformed feed input caught before processing.
	ErrInvalidFeed = errors.New("invalid feed record")
)
