package credentials

import "context"

// Store is the persistent key/value store that holds the credential record.
//
// Implementations never fail from the caller's point of view: a read that
// cannot be served reports the value as absent and a write that cannot be
// applied is dropped. Backends log such failures themselves.
type Store interface {
	// Get returns the stored value and whether it was present.
	Get(ctx context.Context, key Key) (string, bool)

	// Set overwrites the stored value.
	Set(ctx context.Context, key Key, value string)

	// Update applies all sets and removals as a single step, so a concurrent
	// reader sees either none or all of the changes.
	Update(ctx context.Context, set map[Key]string, remove ...Key)
}
