package shortlink

import "context"

// Resolver looks a code up and returns its link, or ErrNotFound.
// Lookups are exact-match and side-effect free.
type Resolver interface {
	Resolve(ctx context.Context, code string) (*ShortLink, error)
}

// StoreResolver resolves codes directly against a Repository.
type StoreResolver struct {
	repo Repository
}

// NewStoreResolver creates a resolver backed by the given repository.
func NewStoreResolver(repo Repository) *StoreResolver {
	return &StoreResolver{repo: repo}
}

func (r *StoreResolver) Resolve(ctx context.Context, code string) (*ShortLink, error) {
	return r.repo.FindByCode(ctx, code)
}

// CacheInvalidator drops cached resolve entries for the given codes.
// Writers call it after update, rename and delete.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, codes ...string)
}

// NoopInvalidator satisfies CacheInvalidator when no cache is configured.
type NoopInvalidator struct{}

func (NoopInvalidator) Invalidate(context.Context, ...string) {}
