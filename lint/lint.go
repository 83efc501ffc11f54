// Package lint checks the article corpus against the conventions the external
// renderer relies on: unique and contiguous series ordering, consistent series
// naming, parseable front matter, and prose "Next up" links that point at the
// real next entry. Nothing here mutates the corpus; findings are reported and
// the author decides.
package lint

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/garethredfern/redfern-dev-sub002/content"
)

// Severity classifies a finding. Errors break navigation or parsing; warnings
// are drift an author may choose to live with.
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
)

// Finding is one lint result tied to a rule and, where possible, a file.
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path,omitempty"`
	Message  string   `json:"message"`
}

// Options tunes corpus-wide rules.
type Options struct {
	// SeriesTitles maps declared series keys to display titles. When set,
	// series found in front matter but not declared here are flagged.
	SeriesTitles map[string]string
}

// Report holds all findings from one lint run.
type Report struct {
	Findings []Finding `json:"findings"`
}

// Errors reports how many findings are errors.
func (r Report) Errors() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == Error {
			n++
		}
	}
	return n
}

// Warnings reports how many findings are warnings.
func (r Report) Warnings() int {
	return len(r.Findings) - r.Errors()
}

func (r *Report) add(rule string, sev Severity, path, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Rule:     rule,
		Severity: sev,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Run lints loader results: per-file field checks plus the cross-article
// series, slug, and date-format rules.
func Run(results []content.LoadResult, opts Options) Report {
	var r Report

	var articles []content.Article
	for _, res := range results {
		if res.Err != nil {
			r.add("frontmatter", Error, res.Path, "front matter does not parse: %v", res.Err)
			continue
		}
		articles = append(articles, *res.Article)
	}

	for _, a := range articles {
		checkFields(&r, a)
	}
	checkSlugs(&r, articles)
	checkSeries(&r, articles, opts)
	checkDateFormats(&r, articles)
	checkNextReferences(&r, articles)

	sort.SliceStable(r.Findings, func(i, j int) bool {
		if r.Findings[i].Path != r.Findings[j].Path {
			return r.Findings[i].Path < r.Findings[j].Path
		}
		return r.Findings[i].Rule < r.Findings[j].Rule
	})
	return r
}

func checkFields(r *Report, a content.Article) {
	err := validation.ValidateStruct(&a,
		validation.Field(&a.Title, validation.Required),
		validation.Field(&a.SeriesOrder, validation.Min(0)),
	)
	if err != nil {
		if errs, ok := err.(validation.Errors); ok {
			for field, ferr := range errs {
				r.add("fields", Error, a.FilePath, "%s: %v", field, ferr)
			}
		} else {
			r.add("fields", Error, a.FilePath, "%v", err)
		}
	}

	if a.Description == "" {
		r.add("description", Warning, a.FilePath, "missing description")
	}
	switch {
	case a.PubDateRaw == "":
		r.add("date", Warning, a.FilePath, "missing publication date")
	case a.DateLayout == "":
		r.add("date", Error, a.FilePath, "publication date %q does not parse", a.PubDateRaw)
	}
	if a.InSeries() && a.SeriesOrder == 0 {
		r.add("series-order", Warning, a.FilePath, "series %q entry has no seriesOrder", a.Series)
	}
}

func checkSlugs(r *Report, articles []content.Article) {
	bySlug := make(map[string][]string)
	for _, a := range articles {
		bySlug[a.Slug] = append(bySlug[a.Slug], a.FilePath)
	}
	for slug, paths := range bySlug {
		if len(paths) > 1 {
			sort.Strings(paths)
			r.add("slug-duplicate", Error, paths[0],
				"slug %q resolved by %d files: %s", slug, len(paths), strings.Join(paths, ", "))
		}
	}
}

type seriesGroup struct {
	spellings map[string]struct{}
	entries   []content.Article
	firstPath string
}

func checkSeries(r *Report, articles []content.Article, opts Options) {
	groups := make(map[string]*seriesGroup)
	for _, a := range articles {
		if !a.InSeries() {
			continue
		}
		g, ok := groups[a.SeriesKey]
		if !ok {
			g = &seriesGroup{spellings: make(map[string]struct{}), firstPath: a.FilePath}
			groups[a.SeriesKey] = g
		}
		g.spellings[a.Series] = struct{}{}
		g.entries = append(g.entries, a)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		g := groups[key]

		if len(g.spellings) > 1 {
			var spellings []string
			for s := range g.spellings {
				spellings = append(spellings, fmt.Sprintf("%q", s))
			}
			sort.Strings(spellings)
			r.add("series-name-drift", Warning, "",
				"series %q is spelled %d ways: %s", key, len(spellings), strings.Join(spellings, ", "))
		}

		if opts.SeriesTitles != nil {
			if _, declared := opts.SeriesTitles[key]; !declared {
				r.add("series-undeclared", Warning, g.firstPath,
					"series %q is not declared in the series registry", key)
			}
		}

		checkSeriesOrdering(r, key, g.entries)
	}
}

// checkSeriesOrdering enforces the intended invariant: within a series,
// seriesOrder values are unique and form a contiguous 1..n run.
func checkSeriesOrdering(r *Report, key string, entries []content.Article) {
	byOrder := make(map[int][]string)
	var orders []int
	for _, a := range entries {
		if a.SeriesOrder == 0 {
			continue // already reported per-file
		}
		if _, seen := byOrder[a.SeriesOrder]; !seen {
			orders = append(orders, a.SeriesOrder)
		}
		byOrder[a.SeriesOrder] = append(byOrder[a.SeriesOrder], a.Slug)
	}

	for _, order := range orders {
		slugs := byOrder[order]
		if len(slugs) > 1 {
			sort.Strings(slugs)
			r.add("series-order-duplicate", Error, "",
				"series %q has %d articles at position %d: %s", key, len(slugs), order, strings.Join(slugs, ", "))
		}
	}

	sort.Ints(orders)
	for i, order := range orders {
		if order != i+1 {
			r.add("series-order-gap", Warning, "",
				"series %q ordering is not contiguous: positions %v", key, orders)
			break
		}
	}
}

func checkDateFormats(r *Report, articles []content.Article) {
	layouts := make(map[string][]string)
	for _, a := range articles {
		if a.DateLayout == "" {
			continue
		}
		layouts[a.DateLayout] = append(layouts[a.DateLayout], a.FilePath)
	}
	if len(layouts) > 1 {
		var names []string
		for layout := range layouts {
			names = append(names, fmt.Sprintf("%q", layout))
		}
		sort.Strings(names)
		r.add("date-format-mix", Warning, "",
			"corpus mixes %d date layouts: %s", len(names), strings.Join(names, ", "))
	}
}

// nextUpRef matches prose like "Next up: [Vue Auth](/blog/vue-authentication)".
var nextUpRef = regexp.MustCompile(`(?i)next up:?\s*\[[^\]]*\]\(/blog/([a-z0-9-]+)/?\)`)

// checkNextReferences verifies that a "Next up" link in an article body points
// at the entry with the next-higher seriesOrder in the same series.
func checkNextReferences(r *Report, articles []content.Article) {
	next := make(map[string]string) // slug -> expected next slug
	bySeries := make(map[string][]content.Article)
	for _, a := range articles {
		if a.InSeries() {
			bySeries[a.SeriesKey] = append(bySeries[a.SeriesKey], a)
		}
	}
	for _, entries := range bySeries {
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].SeriesOrder != entries[j].SeriesOrder {
				return entries[i].SeriesOrder < entries[j].SeriesOrder
			}
			return entries[i].Slug < entries[j].Slug
		})
		for i := 0; i < len(entries)-1; i++ {
			next[entries[i].Slug] = entries[i+1].Slug
		}
	}

	for _, a := range articles {
		m := nextUpRef.FindStringSubmatch(a.Body)
		if m == nil {
			continue
		}
		linked := m[1]
		expected, ok := next[a.Slug]
		if !ok {
			r.add("next-reference", Warning, a.FilePath,
				"has a next-up link to %q but no following series entry", linked)
			continue
		}
		if linked != expected {
			r.add("next-reference", Error, a.FilePath,
				"next-up link points at %q, expected %q", linked, expected)
		}
	}
}
