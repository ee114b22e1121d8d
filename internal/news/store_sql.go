package news

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLStore implements Store over database/sql (sqlite or postgres).
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

var _ Store = (*SQLStore)(nil)

const newsColumns = `id,title,description,content,image_url,source_url,source,author,category,tags_json,read_time_min,published_at,created_at,is_featured,view_count`

func (s *SQLStore) Put(ctx context.Context, n Item) error {
	tags, err := json.Marshal(n.Tags)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO news
		(`+newsColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (id) DO UPDATE SET
		  title=EXCLUDED.title, description=EXCLUDED.description, content=EXCLUDED.content,
		  image_url=EXCLUDED.image_url, category=EXCLUDED.category, tags_json=EXCLUDED.tags_json,
		  read_time_min=EXCLUDED.read_time_min, is_featured=EXCLUDED.is_featured`,
		n.ID, n.Title, n.Description, n.Content, n.ImageURL, n.SourceURL, string(n.Source),
		n.Author, string(n.Category), string(tags), n.ReadTimeMin,
		n.PublishedAt.Unix(), n.CreatedAt.Unix(), n.IsFeatured, n.ViewCount)
	return err
}

func (s *SQLStore) Get(ctx context.Context, id string) (Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+newsColumns+` FROM news WHERE id=$1`, id)
	n, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	return n, err
}

func (s *SQLStore) List(ctx context.Context, f Filter) ([]Item, int, error) {
	f = f.normalized()

	where := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Category != "" {
		where = append(where, "category = "+arg(string(f.Category)))
	}
	if f.Source != "" {
		where = append(where, "source = "+arg(string(f.Source)))
	}
	if f.FeaturedOnly {
		where = append(where, "is_featured = TRUE")
	}
	if f.Search != "" {
		needle := "%" + strings.ToLower(f.Search) + "%"
		where = append(where, "(LOWER(title) LIKE "+arg(needle)+" OR LOWER(description) LIKE "+arg(needle)+")")
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM news`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + newsColumns + ` FROM news` + cond +
		` ORDER BY published_at DESC LIMIT ` + arg(f.PerPage) + ` OFFSET ` + arg((f.Page-1)*f.PerPage)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := scanItems(rows)
	return out, total, err
}

func (s *SQLStore) ListBetween(ctx context.Context, from, to time.Time) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+newsColumns+` FROM news
		WHERE published_at >= $1 AND published_at < $2 ORDER BY published_at DESC`,
		from.Unix(), to.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (s *SQLStore) Trending(ctx context.Context, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+newsColumns+` FROM news
		ORDER BY view_count DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

func (s *SQLStore) IncrementViews(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE news SET view_count = view_count + 1 WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) AddBookmark(ctx context.Context, userID, newsID string) error {
	if _, err := s.Get(ctx, newsID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO bookmarks (user_id,news_id,created_at)
		VALUES ($1,$2,$3) ON CONFLICT (user_id,news_id) DO NOTHING`,
		userID, newsID, time.Now().Unix())
	return err
}

func (s *SQLStore) RemoveBookmark(ctx context.Context, userID, newsID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE user_id=$1 AND news_id=$2`, userID, newsID)
	return err
}

func (s *SQLStore) Bookmarked(ctx context.Context, userID string, newsIDs []string) (map[string]bool, error) {
	out := map[string]bool{}
	if len(newsIDs) == 0 {
		return out, nil
	}
	args := []any{userID}
	ph := make([]string, 0, len(newsIDs))
	for _, id := range newsIDs {
		args = append(args, id)
		ph = append(ph, fmt.Sprintf("$%d", len(args)))
	}
	rows, err := s.db.QueryContext(ctx, `SELECT news_id FROM bookmarks
		WHERE user_id=$1 AND news_id IN (`+strings.Join(ph, ",")+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanItem(row rowScanner) (Item, error) {
	var n Item
	var imageURL, author sql.NullString
	var source, category, tagsJSON string
	var publishedAt, createdAt int64
	if err := row.Scan(&n.ID, &n.Title, &n.Description, &n.Content, &imageURL, &n.SourceURL,
		&source, &author, &category, &tagsJSON, &n.ReadTimeMin,
		&publishedAt, &createdAt, &n.IsFeatured, &n.ViewCount); err != nil {
		return Item{}, err
	}
	n.ImageURL = imageURL.String
	n.Author = author.String
	n.Source = Source(source)
	n.Category = Category(category)
	n.PublishedAt = time.Unix(publishedAt, 0).UTC()
	n.CreatedAt = time.Unix(createdAt, 0).UTC()
	if err := json.Unmarshal([]byte(tagsJSON), &n.Tags); err != nil {
		return Item{}, err
	}
	return n, nil
}

func scanItems(rows *sql.Rows) ([]Item, error) {
	out := []Item{}
	for rows.Next() {
		n, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
