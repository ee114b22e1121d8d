package news

import (
	"context"
	"testing"
	"time"
)

func seedItem(t *testing.T, store *MemoryStore, id string, cat Category, published time.Time, views int) Item {
	t.Helper()
	n := Item{
		ID:          id,
		Title:       "headline " + id,
		Description: "summary " + id,
		Content:     "body " + id,
		SourceURL:   "https://example.com/" + id,
		Source:      SourcePIB,
		Category:    cat,
		Tags:        []string{"exam"},
		ReadTimeMin: 3,
		PublishedAt: published,
		CreatedAt:   published,
		ViewCount:   views,
	}
	if err := store.Put(context.Background(), n); err != nil {
		t.Fatalf("put %s: %v", id, err)
	}
	return n
}

func TestDailyDigestFiltersByCalendarDay(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store, nil, time.UTC)
	ctx := context.Background()

	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	seedItem(t, store, "n1", CategoryDefense, day.Add(8*time.Hour), 0)
	seedItem(t, store, "n2", CategoryDefense, day.Add(14*time.Hour), 0)
	seedItem(t, store, "n3", CategoryPolitics, day.Add(20*time.Hour), 0)
	// Outside the day on both sides.
	seedItem(t, store, "prev", CategoryGeneral, day.Add(-time.Hour), 0)
	seedItem(t, store, "next", CategoryGeneral, day.Add(24*time.Hour), 0)

	d, err := svc.DailyDigest(ctx, day.Add(11*time.Hour))
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if d.Day != "2024-05-10" {
		t.Fatalf("day = %q", d.Day)
	}
	if d.TotalCount != 3 || len(d.News) != 3 {
		t.Fatalf("expected 3 items, got total=%d len=%d", d.TotalCount, len(d.News))
	}
	if d.News[0].ID != "n3" || d.News[1].ID != "n2" || d.News[2].ID != "n1" {
		t.Fatalf("expected newest first, got %s,%s,%s", d.News[0].ID, d.News[1].ID, d.News[2].ID)
	}
	if d.CategoriesCount[CategoryDefense] != 2 || d.CategoriesCount[CategoryPolitics] != 1 {
		t.Fatalf("category counts wrong: %v", d.CategoriesCount)
	}
}

func TestDailyDigestUsesConfiguredZone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	store := NewMemoryStore()
	svc := NewService(store, nil, loc)
	ctx := context.Background()

	// 20:00 UTC on May 10 is already May 11 in Kolkata.
	published := time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)
	seedItem(t, store, "late", CategoryDefense, published, 0)

	d, err := svc.DailyDigest(ctx, published)
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if d.Day != "2024-05-11" {
		t.Fatalf("day = %q, want 2024-05-11", d.Day)
	}
	if d.TotalCount != 1 {
		t.Fatalf("expected the item inside the local day, got %d", d.TotalCount)
	}
}

func TestDailyDigestEmptyDay(t *testing.T) {
	svc := NewService(NewMemoryStore(), nil, time.UTC)
	d, err := svc.DailyDigest(context.Background(), time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if d.TotalCount != 0 {
		t.Fatalf("total = %d", d.TotalCount)
	}
	if d.News == nil || len(d.News) != 0 {
		t.Fatalf("expected empty slice, got %#v", d.News)
	}
	if d.CategoriesCount == nil || len(d.CategoriesCount) != 0 {
		t.Fatalf("expected empty counts, got %#v", d.CategoriesCount)
	}
}

func TestGetByIDBumpsViews(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store, nil, time.UTC)
	ctx := context.Background()
	seedItem(t, store, "n1", CategoryDefense, time.Now(), 4)

	n, err := svc.GetByID(ctx, "n1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if n.ViewCount != 5 {
		t.Fatalf("view count = %d, want 5", n.ViewCount)
	}
	stored, _ := store.Get(ctx, "n1")
	if stored.ViewCount != 5 {
		t.Fatalf("stored view count = %d", stored.ViewCount)
	}

	if _, err := svc.GetByID(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBookmarkProjection(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store, nil, time.UTC)
	ctx := context.Background()
	a := seedItem(t, store, "a", CategoryDefense, time.Now(), 0)
	b := seedItem(t, store, "b", CategoryDefense, time.Now(), 0)

	if err := svc.Bookmark(ctx, "user-1", "a"); err != nil {
		t.Fatalf("bookmark: %v", err)
	}

	views, err := svc.ProjectAll(ctx, []Item{a, b}, "user-1")
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if !views[0].IsBookmarked || views[1].IsBookmarked {
		t.Fatalf("flags = %v,%v", views[0].IsBookmarked, views[1].IsBookmarked)
	}

	// Another user and the anonymous viewer see no flags.
	views, _ = svc.ProjectAll(ctx, []Item{a}, "user-2")
	if views[0].IsBookmarked {
		t.Fatalf("bookmark leaked across users")
	}
	views, _ = svc.ProjectAll(ctx, []Item{a}, "")
	if views[0].IsBookmarked {
		t.Fatalf("bookmark shown to anonymous viewer")
	}

	if err := svc.Unbookmark(ctx, "user-1", "a"); err != nil {
		t.Fatalf("unbookmark: %v", err)
	}
	views, _ = svc.ProjectAll(ctx, []Item{a}, "user-1")
	if views[0].IsBookmarked {
		t.Fatalf("flag survived removal")
	}

	if err := svc.Bookmark(ctx, "user-1", "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound bookmarking unknown item, got %v", err)
	}
}

func TestTrendingOrdersByViews(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store, nil, time.UTC)
	seedItem(t, store, "cold", CategoryDefense, time.Now(), 1)
	seedItem(t, store, "hot", CategoryDefense, time.Now(), 100)
	seedItem(t, store, "warm", CategoryDefense, time.Now(), 10)

	out, err := svc.Trending(context.Background(), 2)
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if len(out) != 2 || out[0].ID != "hot" || out[1].ID != "warm" {
		t.Fatalf("unexpected trending order: %+v", out)
	}
}

func TestCreateFillsDefaults(t *testing.T) {
	store := NewMemoryStore()
	fixed := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	svc := NewService(store, nil, time.UTC).WithClock(func() time.Time { return fixed })

	n, err := svc.Create(context.Background(), Item{
		Title:       "Exercise concluded",
		Description: "Joint drill wraps up",
		Content:     "...",
		SourceURL:   "https://example.com/x",
		Source:      SourcePIB,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n.ID == "" {
		t.Fatalf("expected generated id")
	}
	if n.Category != CategoryGeneral {
		t.Fatalf("category = %q", n.Category)
	}
	if !n.PublishedAt.Equal(fixed) || !n.CreatedAt.Equal(fixed) {
		t.Fatalf("timestamps not defaulted: %v %v", n.PublishedAt, n.CreatedAt)
	}
	if _, err := store.Get(context.Background(), n.ID); err != nil {
		t.Fatalf("item not stored: %v", err)
	}
}
