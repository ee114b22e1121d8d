package news

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/comrade-prep/comrade-backend/internal/cache"
)

// Service layers digest computation, trending and bookmark projection over a
// Store. The day boundary uses the same configured zone as quiz gating.
type Service struct {
	store Store
	cache *cache.DigestCache
	loc   *time.Location
	now   func() time.Time
}

func NewService(store Store, digestCache *cache.DigestCache, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, cache: digestCache, loc: loc, now: time.Now}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Location() *time.Location { return s.loc }

// Now reads the service clock.
func (s *Service) Now() time.Time { return s.now() }

// Digest is the viewer-independent daily summary; bookmark flags are
// attached per viewer afterwards so this value is cacheable.
type Digest struct {
	Day             string           `json:"day"`
	News            []Item           `json:"news"`
	TotalCount      int              `json:"total_count"`
	CategoriesCount map[Category]int `json:"categories_count"`
}

// DailyDigest computes (or serves from cache) the digest for date's calendar
// day: items published that day newest-first plus per-category counts.
func (s *Service) DailyDigest(ctx context.Context, date time.Time) (Digest, error) {
	day := date.In(s.loc).Format("2006-01-02")

	var d Digest
	hit, err := s.cache.Get(ctx, day, &d)
	if err != nil {
		log.Printf("digest cache read: %v", err)
	}
	if hit {
		return d, nil
	}

	start := time.Date(date.In(s.loc).Year(), date.In(s.loc).Month(), date.In(s.loc).Day(), 0, 0, 0, 0, s.loc)
	items, err := s.store.ListBetween(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return Digest{}, err
	}

	d = Digest{Day: day, News: items, TotalCount: len(items), CategoriesCount: map[Category]int{}}
	for _, n := range items {
		d.CategoriesCount[n.Category]++
	}

	if err := s.cache.Set(ctx, day, d); err != nil {
		log.Printf("digest cache write: %v", err)
	}
	return d, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]Item, int, error) {
	return s.store.List(ctx, f)
}

// GetByID returns one item and bumps its view counter, mirroring the read
// path of the article screen.
func (s *Service) GetByID(ctx context.Context, id string) (Item, error) {
	n, err := s.store.Get(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if err := s.store.IncrementViews(ctx, id); err != nil {
		return Item{}, err
	}
	n.ViewCount++
	return n, nil
}

func (s *Service) Trending(ctx context.Context, limit int) ([]Item, error) {
	return s.store.Trending(ctx, limit)
}

func (s *Service) Bookmark(ctx context.Context, userID, newsID string) error {
	return s.store.AddBookmark(ctx, userID, newsID)
}

func (s *Service) Unbookmark(ctx context.Context, userID, newsID string) error {
	return s.store.RemoveBookmark(ctx, userID, newsID)
}

// Create validates defaults and stores an authored item.
func (s *Service) Create(ctx context.Context, n Item) (Item, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Category == "" {
		n.Category = CategoryGeneral
	}
	if n.ReadTimeMin < 1 {
		n.ReadTimeMin = 3
	}
	if n.PublishedAt.IsZero() {
		n.PublishedAt = s.now()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	return n, s.store.Put(ctx, n)
}

// View is an Item projected for a viewer; is_bookmarked is only meaningful
// when a viewer identity was present.
type View struct {
	Item
	IsBookmarked bool `json:"is_bookmarked"`
}

// ProjectAll attaches bookmark flags for the viewer. An empty userID yields
// all-false flags, matching anonymous access.
func (s *Service) ProjectAll(ctx context.Context, items []Item, userID string) ([]View, error) {
	views := make([]View, 0, len(items))
	if len(items) == 0 {
		return views, nil
	}
	flags := map[string]bool{}
	if userID != "" {
		ids := make([]string, len(items))
		for i, n := range items {
			ids[i] = n.ID
		}
		var err error
		flags, err = s.store.Bookmarked(ctx, userID, ids)
		if err != nil {
			return nil, err
		}
	}
	for _, n := range items {
		if n.Tags == nil {
			n.Tags = []string{}
		}
		views = append(views, View{Item: n, IsBookmarked: flags[n.ID]})
	}
	return views, nil
}

// Project is ProjectAll for a single item.
func (s *Service) Project(ctx context.Context, n Item, userID string) (View, error) {
	views, err := s.ProjectAll(ctx, []Item{n}, userID)
	if err != nil {
		return View{}, err
	}
	return views[0], nil
}
