package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/comrade-prep/comrade-backend/internal/news"
	"github.com/comrade-prep/comrade-backend/internal/rbac"
)

// GET /news/daily?date=YYYY-MM-DD
func DailyNewsHandler(svc *news.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, ok := parseDate(r, svc.Location(), svc.Now)
		if !ok {
			writeDetail(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		d, err := svc.DailyDigest(r.Context(), date)
		if err != nil {
			writeErr(w, err)
			return
		}
		views, err := svc.ProjectAll(r.Context(), d.News, rbac.SubjectFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		counts := d.CategoriesCount
		if counts == nil {
			counts = map[news.Category]int{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"date":             d.Day,
			"news":             views,
			"total_count":      d.TotalCount,
			"categories_count": counts,
		})
	}
}

// GET /news?category=&source=&search=&featured=&page=&per_page=
func ListNewsHandler(svc *news.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := news.Filter{
			Category:     news.Category(q.Get("category")),
			Source:       news.Source(q.Get("source")),
			Search:       q.Get("search"),
			FeaturedOnly: q.Get("featured") == "true",
		}
		serveNewsList(w, r, svc, f)
	}
}

// GET /news/category/{category}?page=&per_page=
//
// Path alias for the category filter; same response shape as the listing.
func NewsByCategoryHandler(svc *news.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := news.Filter{Category: news.Category(chi.URLParam(r, "category"))}
		serveNewsList(w, r, svc, f)
	}
}

func serveNewsList(w http.ResponseWriter, r *http.Request, svc *news.Service, f news.Filter) {
	q := r.URL.Query()
	if raw := q.Get("page"); raw != "" {
		f.Page, _ = strconv.Atoi(raw)
	}
	if raw := q.Get("per_page"); raw != "" {
		f.PerPage, _ = strconv.Atoi(raw)
	}
	items, total, err := svc.List(r.Context(), f)
	if err != nil {
		writeErr(w, err)
		return
	}
	views, err := svc.ProjectAll(r.Context(), items, rbac.SubjectFromContext(r.Context()))
	if err != nil {
		writeErr(w, err)
		return
	}
	page, perPage := f.Page, f.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 50 {
		perPage = 10
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"news":     views,
		"total":    total,
		"page":     page,
		"per_page": perPage,
		"has_next": page*perPage < total,
		"has_prev": page > 1,
	})
}

// GET /news/trending?limit=N
func TrendingNewsHandler(svc *news.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 10
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > 50 {
				writeDetail(w, http.StatusBadRequest, "limit must be between 1 and 50")
				return
			}
			limit = n
		}
		items, err := svc.Trending(r.Context(), limit)
		if err != nil {
			writeErr(w, err)
			return
		}
		views, err := svc.ProjectAll(r.Context(), items, rbac.SubjectFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"news": views, "total": len(views)})
	}
}

// GET /news/{newsID}
func GetNewsHandler(svc *news.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.GetByID(r.Context(), chi.URLParam(r, "newsID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		view, err := svc.Project(r.Context(), n, rbac.SubjectFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// POST /news/{newsID}/bookmark
func BookmarkHandler(svc *news.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := rbac.SubjectFromContext(r.Context())
		if err := svc.Bookmark(r.Context(), userID, chi.URLParam(r, "newsID")); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "bookmarked"})
	}
}

// DELETE /news/{newsID}/bookmark
func UnbookmarkHandler(svc *news.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := rbac.SubjectFromContext(r.Context())
		if err := svc.Unbookmark(r.Context(), userID, chi.URLParam(r, "newsID")); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "bookmark removed"})
	}
}

type createNewsRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	ImageURL    string   `json:"image_url"`
	SourceURL   string   `json:"source_url"`
	Source      string   `json:"source"`
	Author      string   `json:"author"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	ReadTimeMin int      `json:"read_time"`
	PublishedAt string   `json:"published_at"` // RFC 3339, optional
	IsFeatured  bool     `json:"is_featured"`
}

// POST /news (admin)
func CreateNewsHandler(svc *news.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createNewsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad json")
			return
		}
		if req.Title == "" || req.Description == "" || req.Content == "" {
			writeDetail(w, http.StatusBadRequest, "title, description and content required")
			return
		}
		n := news.Item{
			Title:       req.Title,
			Description: req.Description,
			Content:     req.Content,
			ImageURL:    req.ImageURL,
			SourceURL:   req.SourceURL,
			Source:      news.Source(req.Source),
			Author:      req.Author,
			Category:    news.Category(req.Category),
			Tags:        req.Tags,
			ReadTimeMin: req.ReadTimeMin,
			IsFeatured:  req.IsFeatured,
		}
		if req.PublishedAt != "" {
			t, err := time.Parse(time.RFC3339, req.PublishedAt)
			if err != nil {
				writeDetail(w, http.StatusBadRequest, "published_at must be RFC 3339")
				return
			}
			n.PublishedAt = t
		}
		created, err := svc.Create(r.Context(), n)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}
