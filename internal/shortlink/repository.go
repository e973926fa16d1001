package shortlink

import "context"

// Repository is the storage contract for short link records.
// Implementations must enforce code uniqueness across live records.
type Repository interface {
	// Create inserts a new link and assigns its ID.
	// Returns ErrCodeTaken if the code is already in use.
	Create(ctx context.Context, link *ShortLink) error

	// Update rewrites code, target and policy for the link with the given ID.
	// A rename keeps the ID and returns ErrCodeTaken on collision,
	// ErrNotFound if the ID does not exist.
	Update(ctx context.Context, link *ShortLink) error

	// Delete removes the link and all click rows sharing its code.
	Delete(ctx context.Context, id int64) error

	// FindByCode is an exact-match, case-sensitive lookup.
	// Any string is a valid key; a miss returns ErrNotFound.
	FindByCode(ctx context.Context, code string) (*ShortLink, error)

	// FindByID returns the link with the given ID, or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*ShortLink, error)

	// List returns links matching the options.
	List(ctx context.Context, opts ListOptions) ([]ShortLink, error)

	// Stats returns store-wide totals.
	Stats(ctx context.Context) (Stats, error)
}

// ClickStore is the storage contract for click attribution and logs.
type ClickStore interface {
	// Attribute records the click and bumps the owning link's counters in one
	// transaction. The (code, ip) pair is counted at most once: the return
	// value is false when a click for the pair already exists, including when
	// a concurrent request won the insert race. If the link was deleted after
	// resolution the counter update affects zero rows; that is not an error.
	Attribute(ctx context.Context, click *Click) (newly bool, err error)

	// HasClick reports whether a click exists for the (code, ip) pair.
	HasClick(ctx context.Context, code, ip string) (bool, error)

	// CountClicks counts click rows, for all codes if code is empty.
	CountClicks(ctx context.Context, code string) (int64, error)

	// ListClicks returns click rows, newest first.
	ListClicks(ctx context.Context, filter ClickFilter) ([]Click, error)
}

// Store combines both storage contracts; the postgres and memory
// implementations satisfy it.
type Store interface {
	Repository
	ClickStore
}
