package corpus

import (
	"net/url"
	"path"
	"strings"

	"github.com/garethredfern/redfern-dev-sub002/content"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FilterRelated finds articles that share at least one tag with current.
func FilterRelated(current content.Article, articles []content.Article) []content.Article {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		if t != "" {
			tagSet[t] = struct{}{}
		}
	}
	var related []content.Article
	for _, a := range articles {
		if a.Slug == current.Slug {
			continue
		}
		for _, t := range a.Tags {
			if _, ok := tagSet[t]; ok {
				related = append(related, a)
				break
			}
		}
	}
	return related
}

// JoinTags joins tags with ", ".
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
