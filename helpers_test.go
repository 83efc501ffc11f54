package corpus

import (
	"reflect"
	"testing"

	"github.com/garethredfern/redfern-dev-sub002/content"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		segments []string
		want     string
	}{
		{"root", "https://example.com", nil, "https://example.com/"},
		{"single segment", "https://example.com", []string{"series"}, "https://example.com/series/"},
		{"nested", "https://example.com", []string{"blog", "my-post"}, "https://example.com/blog/my-post/"},
		{"base with trailing slash", "https://example.com/", []string{"blog"}, "https://example.com/blog/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildURL(tt.base, tt.segments...); got != tt.want {
				t.Errorf("BuildURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilterEmpty(t *testing.T) {
	got := FilterEmpty([]string{"a", "", "  ", "b"})
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("FilterEmpty() = %v", got)
	}
}

func TestFilterRelated(t *testing.T) {
	current := content.Article{Slug: "a", Tags: []string{"vue", "laravel"}}
	articles := []content.Article{
		{Slug: "a", Tags: []string{"vue"}},
		{Slug: "b", Tags: []string{"vue"}},
		{Slug: "c", Tags: []string{"netlify"}},
		{Slug: "d", Tags: []string{"laravel", "php"}},
	}
	related := FilterRelated(current, articles)
	if len(related) != 2 {
		t.Fatalf("got %d related, want 2", len(related))
	}
	if related[0].Slug != "b" || related[1].Slug != "d" {
		t.Errorf("related = %v", related)
	}
}
