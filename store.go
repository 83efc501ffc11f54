package corpus

import (
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/garethredfern/redfern-dev-sub002/content"
)

// Store wraps a SQLite database and persists the parsed article index.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately, and tune
	// performance: synchronous=NORMAL is safe with WAL and avoids an fsync
	// per transaction; larger cache and mmap reduce disk I/O.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    tags TEXT NOT NULL,
    pub_date TEXT NOT NULL,
    pub_date_raw TEXT NOT NULL,
    date_layout TEXT NOT NULL,
    series TEXT NOT NULL,
    series_key TEXT NOT NULL,
    series_order INTEGER NOT NULL DEFAULT 0,
    permalink TEXT NOT NULL,
    draft INTEGER NOT NULL DEFAULT 0,
    body TEXT NOT NULL,
    file_path TEXT NOT NULL,
    checksum BLOB NOT NULL,
    last_modified TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_articles_series_key ON articles(series_key);
CREATE INDEX IF NOT EXISTS idx_articles_file_path ON articles(file_path);
`)
	return err
}

const articleColumns = `slug, title, description, tags, pub_date, pub_date_raw, date_layout,
	series, series_key, series_order, permalink, draft, body, file_path, checksum, last_modified`

func scanArticle(scan func(dest ...any) error) (content.Article, error) {
	var a content.Article
	var tags, pubDate, lastModified string
	var draft int
	err := scan(&a.Slug, &a.Title, &a.Description, &tags, &pubDate, &a.PubDateRaw, &a.DateLayout,
		&a.Series, &a.SeriesKey, &a.SeriesOrder, &a.Permalink, &draft, &a.Body, &a.FilePath,
		&a.Checksum, &lastModified)
	if err != nil {
		return content.Article{}, err
	}
	a.Tags = ParseTags(tags)
	a.Draft = draft == 1
	if pubDate != "" {
		if t, err := time.Parse(time.RFC3339, pubDate); err == nil {
			a.PubDate = t
		}
	}
	if lastModified != "" {
		if t, err := time.Parse(time.RFC3339, lastModified); err == nil {
			a.LastModified = t
		}
	}
	return a, nil
}

// ListArticles returns all non-draft articles ordered by publication date
// descending. If tag is non-empty, results are filtered to that tag.
func (s *Store) ListArticles(tag string) ([]content.Article, error) {
	var rows *sql.Rows
	var err error
	if tag == "" {
		rows, err = s.db.Query(`SELECT ` + articleColumns + ` FROM articles WHERE draft = 0 ORDER BY pub_date DESC, slug ASC`)
	} else {
		normalized := content.Slugify(tag)
		rows, err = s.db.Query(`SELECT `+articleColumns+` FROM articles WHERE draft = 0 AND instr(tags, ',' || ? || ',') > 0 ORDER BY pub_date DESC, slug ASC`, normalized)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectArticles(rows)
}

// ListAllArticles returns every article, drafts included, ordered by
// publication date descending.
func (s *Store) ListAllArticles() ([]content.Article, error) {
	rows, err := s.db.Query(`SELECT ` + articleColumns + ` FROM articles ORDER BY pub_date DESC, slug ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectArticles(rows)
}

// ListSeriesArticles returns the non-draft articles of one series ordered by
// series position, slug as a tiebreaker when positions collide.
func (s *Store) ListSeriesArticles(seriesKey string) ([]content.Article, error) {
	rows, err := s.db.Query(`SELECT `+articleColumns+` FROM articles WHERE draft = 0 AND series_key = ? ORDER BY series_order ASC, slug ASC`, seriesKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectArticles(rows)
}

func collectArticles(rows *sql.Rows) ([]content.Article, error) {
	var articles []content.Article
	for rows.Next() {
		a, err := scanArticle(rows.Scan)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// ListTags returns a sorted, deduplicated slice of all tags from non-draft
// articles.
func (s *Store) ListTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM articles WHERE draft = 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTags(tags) {
			set[t] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var result []string
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// GetArticle returns a single non-draft article by slug.
func (s *Store) GetArticle(slug string) (content.Article, error) {
	row := s.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE slug = ? AND draft = 0`, slug)
	return scanArticle(row.Scan)
}

// GetArticleAny returns an article by slug regardless of draft status.
func (s *Store) GetArticleAny(slug string) (content.Article, error) {
	row := s.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE slug = ?`, slug)
	return scanArticle(row.Scan)
}

// SaveArticle upserts an article row keyed by slug.
func (s *Store) SaveArticle(a content.Article) error {
	pubDate := ""
	if !a.PubDate.IsZero() {
		pubDate = a.PubDate.UTC().Format(time.RFC3339)
	}
	lastModified := ""
	if !a.LastModified.IsZero() {
		lastModified = a.LastModified.UTC().Format(time.RFC3339)
	}
	draft := 0
	if a.Draft {
		draft = 1
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO articles (`+articleColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Slug, a.Title, a.Description, joinTags(a.Tags), pubDate, a.PubDateRaw, a.DateLayout,
		a.Series, a.SeriesKey, a.SeriesOrder, a.Permalink, draft, a.Body, a.FilePath,
		a.Checksum, lastModified)
	return err
}

// DeleteArticle removes an article by slug.
func (s *Store) DeleteArticle(slug string) error {
	_, err := s.db.Exec(`DELETE FROM articles WHERE slug = ?`, slug)
	return err
}

// DeleteByPath removes the article sourced from the given file path. Used by
// the syncer when a file disappears from the corpus.
func (s *Store) DeleteByPath(path string) error {
	_, err := s.db.Exec(`DELETE FROM articles WHERE file_path = ?`, path)
	return err
}

// Checksums returns file path -> content checksum for every stored article,
// so the syncer can skip unchanged files.
func (s *Store) Checksums() (map[string][]byte, error) {
	rows, err := s.db.Query(`SELECT file_path, checksum FROM articles`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make(map[string][]byte)
	for rows.Next() {
		var path string
		var sum []byte
		if err := rows.Scan(&path, &sum); err != nil {
			return nil, err
		}
		sums[path] = sum
	}
	return sums, rows.Err()
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ","
	}
	normalized := make([]string, len(tags))
	for i, t := range tags {
		normalized[i] = content.Slugify(t)
	}
	return "," + strings.Join(normalized, ",") + ","
}
