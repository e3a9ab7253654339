package registry

import "context"

// Store is the injectable registry backend. Implementations must make each
// compound read-modify-write atomic per username and give TakeAuthID
// remove-and-return semantics, so a replayed auth_id can never be consumed
// twice.
//
// Error contract (matched with errors.Is against internal/common):
//   - CreateUser: ErrAlreadyRegistered when the username is taken.
//   - GetUser, UpdateUser, TakeAuthID: ErrNotFound for unknown keys.
type Store interface {
	// CreateUser inserts a new record, failing if the username exists.
	CreateUser(ctx context.Context, rec *UserRecord) error

	// GetUser returns a copy of the record for the given username.
	GetUser(ctx context.Context, username string) (*UserRecord, error)

	// UpdateUser runs fn against the record under exclusive access and
	// persists the mutated record when fn returns nil. A non-nil error from
	// fn discards all mutations and is returned unchanged.
	UpdateUser(ctx context.Context, username string, fn func(rec *UserRecord) error) error

	// PutAuthID indexes an opaque attempt identifier to a username.
	PutAuthID(ctx context.Context, authID, username string) error

	// TakeAuthID atomically removes the index entry and returns the
	// username it pointed to. Of any number of concurrent calls with the
	// same authID, exactly one succeeds.
	TakeAuthID(ctx context.Context, authID string) (string, error)

	// Close releases backend resources.
	Close() error
}
