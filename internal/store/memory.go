package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shortenv/shortenv/internal/shortlink"
)

// MemoryStore is an in-memory implementation of shortlink.Store, used in tests
// and as a dependency-free fallback. The single mutex serializes the dedup
// check and insert, giving the same once-per-(code, ip) guarantee the postgres
// unique index provides.
type MemoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	links    map[string]*shortlink.ShortLink // keyed by code
	clicks   []shortlink.Click
	clickSet map[string]struct{} // "code\x00ip"
}

// NewMemoryStore creates a new in-memory link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links:    make(map[string]*shortlink.ShortLink),
		clickSet: make(map[string]struct{}),
	}
}

func clickKey(code, ip string) string {
	return code + "\x00" + ip
}

func (m *MemoryStore) Create(_ context.Context, link *shortlink.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[link.Code]; exists {
		return shortlink.ErrCodeTaken
	}

	m.nextID++
	now := time.Now().UTC()

	link.ID = m.nextID
	link.Policy = shortlink.NormalizePolicy(link.Policy)
	link.CreatedAt = now
	link.UpdatedAt = now

	stored := *link
	m.links[link.Code] = &stored

	return nil
}

func (m *MemoryStore) Update(_ context.Context, link *shortlink.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var current *shortlink.ShortLink

	for _, l := range m.links {
		if l.ID == link.ID {
			current = l

			break
		}
	}

	if current == nil {
		return shortlink.ErrNotFound
	}

	if other, exists := m.links[link.Code]; exists && other.ID != link.ID {
		return shortlink.ErrCodeTaken
	}

	delete(m.links, current.Code)

	current.Code = link.Code
	current.Target = link.Target
	current.Policy = shortlink.NormalizePolicy(link.Policy)
	current.UpdatedAt = time.Now().UTC()
	m.links[current.Code] = current

	link.UpdatedAt = current.UpdatedAt

	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for code, l := range m.links {
		if l.ID != id {
			continue
		}

		delete(m.links, code)

		kept := m.clicks[:0]

		for _, c := range m.clicks {
			if c.Code == code {
				delete(m.clickSet, clickKey(c.Code, c.IP))

				continue
			}

			kept = append(kept, c)
		}

		m.clicks = kept

		return nil
	}

	return shortlink.ErrNotFound
}

func (m *MemoryStore) FindByCode(_ context.Context, code string) (*shortlink.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[code]
	if !ok {
		return nil, shortlink.ErrNotFound
	}

	copied := *link

	return &copied, nil
}

func (m *MemoryStore) FindByID(_ context.Context, id int64) (*shortlink.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.links {
		if l.ID == id {
			copied := *l

			return &copied, nil
		}
	}

	return nil, shortlink.ErrNotFound
}

func (m *MemoryStore) List(_ context.Context, opts shortlink.ListOptions) ([]shortlink.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	search := strings.ToLower(opts.Search)

	var links []shortlink.ShortLink

	for _, l := range m.links {
		if search != "" &&
			!strings.Contains(strings.ToLower(l.Code), search) &&
			!strings.Contains(strings.ToLower(l.Target), search) {
			continue
		}

		links = append(links, *l)
	}

	sort.Slice(links, func(i, j int) bool {
		if opts.Asc {
			return linkLess(links[i], links[j], opts.SortColumn())
		}

		// Swapped arguments, not a negation: equal elements must compare
		// false in both directions for a valid ordering.
		return linkLess(links[j], links[i], opts.SortColumn())
	})

	return links, nil
}

func linkLess(a, b shortlink.ShortLink, column string) bool {
	switch column {
	case shortlink.SortByCode:
		return a.Code < b.Code
	case shortlink.SortByTarget:
		return a.Target < b.Target
	case shortlink.SortByClicks:
		return a.Clicks < b.Clicks
	case shortlink.SortByLastClick:
		at, bt := time.Time{}, time.Time{}
		if a.LastClickAt != nil {
			at = *a.LastClickAt
		}

		if b.LastClickAt != nil {
			bt = *b.LastClickAt
		}

		return at.Before(bt)
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

func (m *MemoryStore) Stats(_ context.Context) (shortlink.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return shortlink.Stats{
		TotalLinks:  int64(len(m.links)),
		TotalClicks: int64(len(m.clicks)),
	}, nil
}

func (m *MemoryStore) Attribute(_ context.Context, click *shortlink.Click) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := clickKey(click.Code, click.IP)
	if _, dup := m.clickSet[key]; dup {
		return false, nil
	}

	m.nextID++
	click.ID = m.nextID
	click.CreatedAt = time.Now().UTC()

	m.clickSet[key] = struct{}{}
	m.clicks = append(m.clicks, *click)

	// Deleted links simply don't get their counters bumped.
	if link, ok := m.links[click.Code]; ok {
		link.Clicks++
		last := click.CreatedAt
		link.LastClickAt = &last
	}

	return true, nil
}

func (m *MemoryStore) HasClick(_ context.Context, code, ip string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.clickSet[clickKey(code, ip)]

	return ok, nil
}

func (m *MemoryStore) CountClicks(_ context.Context, code string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if code == "" {
		return int64(len(m.clicks)), nil
	}

	var count int64

	for _, c := range m.clicks {
		if c.Code == code {
			count++
		}
	}

	return count, nil
}

func (m *MemoryStore) ListClicks(_ context.Context, filter shortlink.ClickFilter) ([]shortlink.Click, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []shortlink.Click

	for _, c := range m.clicks {
		if filter.Code == "" || c.Code == filter.Code {
			matched = append(matched, c)
		}
	}

	// Newest first.
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}

		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	if filter.Offset >= len(matched) {
		return nil, nil
	}

	matched = matched[filter.Offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}

// Compile-time check.
var _ shortlink.Store = (*MemoryStore)(nil)
