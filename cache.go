package corpus

import (
	"database/sql"
	"sync"
	"time"

	"github.com/garethredfern/redfern-dev-sub002/content"
)

// ErrNotFound is returned when a requested article or series does not exist.
var ErrNotFound = sql.ErrNoRows

// IndexCache is an in-memory view of the article index with TTL: published
// articles, the tag set, and series grouped in reading order.
type IndexCache struct {
	mu      sync.RWMutex
	posts   []content.Article
	tags    []string
	series  []Series
	byKey   map[string]int // series key -> index into series
	fetched time.Time
	ttl     time.Duration
	store   *Store
	titles  map[string]string // series key -> canonical title, from config
}

// NewIndexCache creates an IndexCache backed by the given Store. titles maps
// series keys to canonical display titles and may be nil.
func NewIndexCache(s *Store, ttl time.Duration, titles map[string]string) *IndexCache {
	return &IndexCache{store: s, ttl: ttl, titles: titles}
}

func (c *IndexCache) valid() bool {
	return !c.fetched.IsZero() && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *IndexCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.tags = nil
	c.series = nil
	c.byKey = nil
	c.fetched = time.Time{}
	c.mu.Unlock()
}

func (c *IndexCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListArticles("")
	if err != nil {
		return err
	}
	tags, err := c.store.ListTags()
	if err != nil {
		return err
	}
	c.posts = posts
	c.tags = tags
	c.series, c.byKey = content.GroupSeries(posts, c.titles)
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns the cached index after ensuring it is fresh. It tries
// a read lock first; only takes a write lock if a reload is needed.
func (c *IndexCache) ensureLoaded() ([]content.Article, []string, []Series, map[string]int, error) {
	c.mu.RLock()
	if c.valid() {
		posts, tags, series, byKey := c.posts, c.tags, c.series, c.byKey
		c.mu.RUnlock()
		return posts, tags, series, byKey, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, nil, nil, err
	}
	return c.posts, c.tags, c.series, c.byKey, nil
}

// ListArticles returns published articles, optionally filtered by tag.
func (c *IndexCache) ListArticles(tag string) ([]content.Article, error) {
	posts, _, _, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return posts, nil
	}
	normalized := content.Slugify(tag)
	var filtered []content.Article
	for _, p := range posts {
		for _, t := range p.Tags {
			if t == normalized {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// ListTags returns all unique tags from published articles.
func (c *IndexCache) ListTags() ([]string, error) {
	_, tags, _, _, err := c.ensureLoaded()
	return tags, err
}

// ListSeries returns every series, sorted by key.
func (c *IndexCache) ListSeries() ([]Series, error) {
	_, _, series, _, err := c.ensureLoaded()
	return series, err
}

// GetSeries returns one series by its normalized key.
func (c *IndexCache) GetSeries(key string) (Series, error) {
	_, _, series, byKey, err := c.ensureLoaded()
	if err != nil {
		return Series{}, err
	}
	i, ok := byKey[content.Slugify(key)]
	if !ok {
		return Series{}, ErrNotFound
	}
	return series[i], nil
}

// GetArticle returns a single published article by slug.
func (c *IndexCache) GetArticle(slug string) (content.Article, error) {
	posts, _, _, _, err := c.ensureLoaded()
	if err != nil {
		return content.Article{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return content.Article{}, ErrNotFound
}

// Navigate returns the series reading chain around the article with the given
// slug: the series it belongs to and the previous/next entries by series
// position. Articles outside any series get an empty Navigation.
func (c *IndexCache) Navigate(slug string) (Navigation, error) {
	a, err := c.GetArticle(slug)
	if err != nil {
		return Navigation{}, err
	}
	if !a.InSeries() {
		return Navigation{}, nil
	}
	series, err := c.GetSeries(a.SeriesKey)
	if err != nil {
		if err == ErrNotFound {
			return Navigation{}, nil
		}
		return Navigation{}, err
	}
	nav := Navigation{Series: &series}
	for i := range series.Articles {
		if series.Articles[i].Slug != slug {
			continue
		}
		if i > 0 {
			nav.Prev = &series.Articles[i-1]
		}
		if i < len(series.Articles)-1 {
			nav.Next = &series.Articles[i+1]
		}
		break
	}
	return nav, nil
}

