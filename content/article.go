// Package content models the markdown article corpus: front-matter metadata,
// file discovery, and the naming rules that tie articles into series.
package content

import (
	"path/filepath"
	"strings"
	"time"
)

// Article is the parsed representation of one markdown file in the corpus.
// The body is carried verbatim; nothing in this module renders it.
type Article struct {
	Slug        string
	Title       string
	Description string
	Tags        []string

	// PubDate is the parsed publication time. PubDateRaw preserves the exact
	// front-matter value and DateLayout records which layout matched, because
	// the corpus mixes full datetimes and bare dates across entries.
	PubDate    time.Time
	PubDateRaw string
	DateLayout string

	// Series is the raw front-matter value ("Laravel Vue SPA" and
	// "laravel-vue-spa" both occur). SeriesKey is the normalized grouping key.
	Series      string
	SeriesKey   string
	SeriesOrder int // position within the series, 0 = unset

	Permalink string // explicit slug override from front matter, "" if none
	Draft     bool

	Body         string
	FilePath     string
	Checksum     []byte
	LastModified time.Time
}

// InSeries reports whether the article declares a series membership.
func (a Article) InSeries() bool {
	return a.SeriesKey != ""
}

// Link returns the site-relative URL path for the article.
func (a Article) Link() string {
	return "/blog/" + a.Slug
}

// Slugify converts a title or series name to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// ResolveSlug picks the article slug: an explicit permalink wins, then a slug
// field, then the slugified title, then the filename stem.
func ResolveSlug(meta Meta, path string) string {
	if s := cleanSlug(meta.Permalink); s != "" {
		return s
	}
	if s := cleanSlug(meta.Link); s != "" {
		return s
	}
	if s := cleanSlug(meta.Slug); s != "" {
		return s
	}
	if s := Slugify(meta.Title); s != "" {
		return s
	}
	base := filepath.Base(path)
	return Slugify(strings.TrimSuffix(base, filepath.Ext(base)))
}

// cleanSlug strips the path decoration permalinks carry ("/blog/foo/" -> "foo").
func cleanSlug(s string) string {
	s = strings.Trim(strings.TrimSpace(s), "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	return Slugify(s)
}
