package news

import (
	"errors"
	"time"
)

type Category string

const (
	CategoryGeneral       Category = "general"
	CategoryDefense       Category = "defense"
	CategoryPolitics      Category = "politics"
	CategoryInternational Category = "international"
	CategoryEconomy       Category = "economy"
	CategoryTechnology    Category = "technology"
	CategorySports        Category = "sports"
	CategoryEditorial     Category = "editorial"
)

type Source string

const (
	SourcePIB            Source = "Press Information Bureau"
	SourceHindu          Source = "The Hindu"
	SourceIndianExpress  Source = "Indian Express"
	SourceTimesOfIndia   Source = "Times of India"
	SourceHindustanTimes Source = "Hindustan Times"
	SourceEconomicTimes  Source = "Economic Times"
)

var ErrNotFound = errors.New("news not found")

type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"image_url,omitempty"`
	SourceURL   string    `json:"source_url"`
	Source      Source    `json:"source"`
	Author      string    `json:"author,omitempty"`
	Category    Category  `json:"category"`
	Tags        []string  `json:"tags"`
	ReadTimeMin int       `json:"read_time"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	IsFeatured  bool      `json:"is_featured"`
	ViewCount   int       `json:"view_count"`
}

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Category     Category
	Source       Source
	Search       string // case-insensitive substring over title+description
	FeaturedOnly bool
	Page         int // 1-based
	PerPage      int
}

func (f Filter) normalized() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 50 {
		f.PerPage = 10
	}
	return f
}
