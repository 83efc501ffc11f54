package content

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"time"

	fm "github.com/adrg/frontmatter"
)

// Date layouts observed across the corpus. Entries written at different times
// use either a full ISO-8601 datetime or a bare date; both must parse, and the
// matched layout is recorded so the linter can flag the drift.
const (
	LayoutDateTime     = time.RFC3339
	LayoutDateTimeBare = "2006-01-02T15:04:05"
	LayoutDate         = "2006-01-02"
)

var dateLayouts = []string{LayoutDateTime, LayoutDateTimeBare, LayoutDate}

// Meta is the front-matter envelope. Field aliases cover the naming drift in
// the corpus: pubDate vs published vs date, permalink vs link, seriesOrder vs
// series_order. Unknown keys collect into Custom.
type Meta struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Slug        string   `yaml:"slug"`
	Tags        []string `yaml:"tags"`

	PubDate   string `yaml:"pubDate"`
	Published string `yaml:"published"`
	Date      string `yaml:"date"`

	Series         string `yaml:"series"`
	SeriesOrder    int    `yaml:"seriesOrder"`
	SeriesOrderAlt int    `yaml:"series_order"`

	Permalink string `yaml:"permalink"`
	Link      string `yaml:"link"`
	Draft     bool   `yaml:"draft"`

	Custom map[string]any `yaml:",inline"`
}

// ParseMeta extracts the front-matter block and markdown body from source.
func ParseMeta(source []byte) (Meta, []byte, error) {
	var meta Meta
	body, err := fm.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, body, nil
}

// DateValue returns the first populated date field and the key it came from.
func (m Meta) DateValue() (value, field string) {
	switch {
	case m.PubDate != "":
		return m.PubDate, "pubDate"
	case m.Published != "":
		return m.Published, "published"
	case m.Date != "":
		return m.Date, "date"
	}
	return "", ""
}

// OrderValue returns the series position, honoring both field spellings.
func (m Meta) OrderValue() int {
	if m.SeriesOrder != 0 {
		return m.SeriesOrder
	}
	return m.SeriesOrderAlt
}

// ParseDate tries each known corpus layout in order and reports which matched.
func ParseDate(raw string) (time.Time, string, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, layout, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unrecognized date %q", raw)
}

// BuildArticle assembles an Article from a file's path, raw bytes, and mtime.
// A missing or malformed date leaves PubDate zero rather than failing the
// whole file; the raw value is kept for the linter.
func BuildArticle(path string, source []byte, modified time.Time) (*Article, error) {
	meta, body, err := ParseMeta(source)
	if err != nil {
		return nil, err
	}

	a := &Article{
		Slug:         ResolveSlug(meta, path),
		Title:        meta.Title,
		Description:  meta.Description,
		Tags:         normalizeTags(meta.Tags),
		Series:       meta.Series,
		SeriesKey:    Slugify(meta.Series),
		SeriesOrder:  meta.OrderValue(),
		Permalink:    meta.Permalink,
		Draft:        meta.Draft,
		Body:         string(body),
		FilePath:     path,
		LastModified: modified,
	}
	if a.Permalink == "" {
		a.Permalink = meta.Link
	}

	if raw, _ := meta.DateValue(); raw != "" {
		a.PubDateRaw = raw
		if t, layout, err := ParseDate(raw); err == nil {
			a.PubDate = t
			a.DateLayout = layout
		}
	}

	sum := sha256.Sum256(source)
	a.Checksum = sum[:]
	return a, nil
}

func normalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		tag := Slugify(t)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
