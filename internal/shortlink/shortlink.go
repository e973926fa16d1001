package shortlink

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no short link matches the given code or id.
	ErrNotFound = errors.New("short link not found")
	// ErrCodeTaken is returned when creating or renaming to a code that already exists.
	ErrCodeTaken = errors.New("code already exists")
)

// RedirectPolicy selects the HTTP status used for the redirect response.
type RedirectPolicy int

const (
	// PolicyPermanent issues a cacheable 301 redirect.
	PolicyPermanent RedirectPolicy = 301
	// PolicyTemporary issues a non-cacheable 302 redirect.
	PolicyTemporary RedirectPolicy = 302
)

// Valid reports whether the policy is one of the supported redirect types.
func (p RedirectPolicy) Valid() bool {
	return p == PolicyPermanent || p == PolicyTemporary
}

// StatusCode returns the HTTP status code for the policy.
func (p RedirectPolicy) StatusCode() int {
	return int(p)
}

// NormalizePolicy maps unknown values to the temporary policy.
func NormalizePolicy(p RedirectPolicy) RedirectPolicy {
	if !p.Valid() {
		return PolicyTemporary
	}

	return p
}

// ShortLink maps a code to a target URL.
type ShortLink struct {
	ID          int64
	Code        string
	Target      string
	Policy      RedirectPolicy
	Clicks      int64
	LastClickAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Click records a single attributed visit. Clicks reference the code string,
// not the link row: a rename strands them under the old code, a delete removes
// every row sharing the code.
type Click struct {
	ID        int64
	Code      string
	Target    string
	IP        string
	UserAgent string
	Referer   string
	CreatedAt time.Time
}

// Sortable columns for List. Anything else falls back to created_at.
const (
	SortByCode      = "code"
	SortByTarget    = "target"
	SortByClicks    = "clicks"
	SortByCreatedAt = "created_at"
	SortByLastClick = "last_click_at"
)

// ListOptions filters and orders a link listing.
type ListOptions struct {
	Search string
	SortBy string
	Asc    bool
}

// SortColumn returns the whitelisted sort column for the options.
func (o ListOptions) SortColumn() string {
	switch o.SortBy {
	case SortByCode, SortByTarget, SortByClicks, SortByCreatedAt, SortByLastClick:
		return o.SortBy
	default:
		return SortByCreatedAt
	}
}

// ClickFilter selects click log rows.
type ClickFilter struct {
	Code   string // empty matches all codes
	Limit  int
	Offset int
}

// Stats summarizes the whole store.
type Stats struct {
	TotalLinks  int64
	TotalClicks int64
}
