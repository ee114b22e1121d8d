package news

import (
	"context"
	"time"
)

// Store owns news rows and per-user bookmarks.
type Store interface {
	Put(ctx context.Context, n Item) error
	Get(ctx context.Context, id string) (Item, error)
	// List applies the filter newest-first and returns the page plus the
	// total match count for pagination.
	List(ctx context.Context, f Filter) ([]Item, int, error)
	// ListBetween returns items with from <= published_at < to, newest-first.
	ListBetween(ctx context.Context, from, to time.Time) ([]Item, error)
	Trending(ctx context.Context, limit int) ([]Item, error)
	IncrementViews(ctx context.Context, id string) error

	AddBookmark(ctx context.Context, userID, newsID string) error
	RemoveBookmark(ctx context.Context, userID, newsID string) error
	// Bookmarked reports which of the given news ids the user bookmarked.
	Bookmarked(ctx context.Context, userID string, newsIDs []string) (map[string]bool, error)
}
