package news

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests and offline/dev mode.
type MemoryStore struct {
	mu        sync.RWMutex
	items     map[string]Item
	bookmarks map[string]map[string]bool // userID -> newsID set
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:     map[string]Item{},
		bookmarks: map[string]map[string]bool{},
	}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) Put(_ context.Context, n Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[n.ID] = n
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.items[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	return n, nil
}

func (m *MemoryStore) List(_ context.Context, f Filter) ([]Item, int, error) {
	f = f.normalized()
	m.mu.RLock()
	matched := []Item{}
	for _, n := range m.items {
		if f.Category != "" && n.Category != f.Category {
			continue
		}
		if f.Source != "" && n.Source != f.Source {
			continue
		}
		if f.FeaturedOnly && !n.IsFeatured {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(n.Title), needle) &&
				!strings.Contains(strings.ToLower(n.Description), needle) {
				continue
			}
		}
		matched = append(matched, n)
	}
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].PublishedAt.After(matched[j].PublishedAt) })
	total := len(matched)
	start := (f.Page - 1) * f.PerPage
	if start > total {
		start = total
	}
	end := start + f.PerPage
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *MemoryStore) ListBetween(_ context.Context, from, to time.Time) ([]Item, error) {
	m.mu.RLock()
	out := []Item{}
	for _, n := range m.items {
		if !n.PublishedAt.Before(from) && n.PublishedAt.Before(to) {
			out = append(out, n)
		}
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return out, nil
}

func (m *MemoryStore) Trending(_ context.Context, limit int) ([]Item, error) {
	m.mu.RLock()
	out := make([]Item, 0, len(m.items))
	for _, n := range m.items {
		out = append(out, n)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ViewCount > out[j].ViewCount })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) IncrementViews(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	n.ViewCount++
	m.items[id] = n
	return nil
}

func (m *MemoryStore) AddBookmark(_ context.Context, userID, newsID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[newsID]; !ok {
		return ErrNotFound
	}
	set, ok := m.bookmarks[userID]
	if !ok {
		set = map[string]bool{}
		m.bookmarks[userID] = set
	}
	set[newsID] = true
	return nil
}

func (m *MemoryStore) RemoveBookmark(_ context.Context, userID, newsID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bookmarks[userID], newsID)
	return nil
}

func (m *MemoryStore) Bookmarked(_ context.Context, userID string, newsIDs []string) (map[string]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string]bool{}
	set := m.bookmarks[userID]
	for _, id := range newsIDs {
		if set[id] {
			out[id] = true
		}
	}
	return out, nil
}
