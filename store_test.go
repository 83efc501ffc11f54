package corpus

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/garethredfern/redfern-dev-sub002/content"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testArticle(slug string) content.Article {
	return content.Article{
		Slug:        slug,
		Title:       "Title " + slug,
		Description: "Description for " + slug,
		Tags:        []string{"laravel", "vue"},
		PubDate:     time.Date(2020, 11, 16, 8, 0, 0, 0, time.UTC),
		PubDateRaw:  "2020-11-16T08:00:00Z",
		DateLayout:  content.LayoutDateTime,
		Body:        "Some markdown body.",
		FilePath:    "laravel/" + slug + ".md",
		Checksum:    []byte{0x01, 0x02},
	}
}

func TestSaveAndGetArticle(t *testing.T) {
	s := setupTestStore(t)

	a := testArticle("setting-up-sanctum")
	a.Series = "Laravel Vue SPA"
	a.SeriesKey = "laravel-vue-spa"
	a.SeriesOrder = 2

	if err := s.SaveArticle(a); err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}

	got, err := s.GetArticle("setting-up-sanctum")
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if got.Title != a.Title {
		t.Errorf("Title = %q, want %q", got.Title, a.Title)
	}
	if got.Series != "Laravel Vue SPA" || got.SeriesKey != "laravel-vue-spa" {
		t.Errorf("series round trip = %q/%q", got.Series, got.SeriesKey)
	}
	if got.SeriesOrder != 2 {
		t.Errorf("SeriesOrder = %d, want 2", got.SeriesOrder)
	}
	if !got.PubDate.Equal(a.PubDate) {
		t.Errorf("PubDate = %v, want %v", got.PubDate, a.PubDate)
	}
	if got.PubDateRaw != a.PubDateRaw {
		t.Errorf("PubDateRaw = %q, want %q", got.PubDateRaw, a.PubDateRaw)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "laravel" || got.Tags[1] != "vue" {
		t.Errorf("Tags = %v, want [laravel vue]", got.Tags)
	}
	if got.Link() != "/blog/setting-up-sanctum" {
		t.Errorf("Link = %q", got.Link())
	}
}

func TestSaveArticleUpsert(t *testing.T) {
	s := setupTestStore(t)

	a := testArticle("upsert-me")
	if err := s.SaveArticle(a); err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}

	a.Title = "Updated Title"
	a.Tags = []string{"svelte"}
	if err := s.SaveArticle(a); err != nil {
		t.Fatalf("SaveArticle update failed: %v", err)
	}

	got, err := s.GetArticle("upsert-me")
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if got.Title != "Updated Title" {
		t.Errorf("Title = %q, want updated", got.Title)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "svelte" {
		t.Errorf("Tags = %v, want [svelte]", got.Tags)
	}
}

func TestGetArticleNotFound(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.GetArticle("nonexistent"); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestGetArticleDraft(t *testing.T) {
	s := setupTestStore(t)

	a := testArticle("draft-post")
	a.Draft = true
	if err := s.SaveArticle(a); err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}

	if _, err := s.GetArticle("draft-post"); err != sql.ErrNoRows {
		t.Errorf("GetArticle should skip drafts, got %v", err)
	}
	got, err := s.GetArticleAny("draft-post")
	if err != nil {
		t.Fatalf("GetArticleAny failed: %v", err)
	}
	if !got.Draft {
		t.Error("Draft should be true")
	}
}

func TestListArticlesOrderAndDraftFilter(t *testing.T) {
	s := setupTestStore(t)

	for i, spec := range []struct {
		slug  string
		day   int
		draft bool
	}{
		{"oldest", 1, false},
		{"middle", 2, false},
		{"newest", 3, false},
		{"hidden", 4, true},
	} {
		a := testArticle(spec.slug)
		a.PubDate = time.Date(2021, 1, spec.day, 0, 0, 0, 0, time.UTC)
		a.Draft = spec.draft
		a.FilePath = a.FilePath + string(rune('a'+i))
		if err := s.SaveArticle(a); err != nil {
			t.Fatalf("SaveArticle failed: %v", err)
		}
	}

	got, err := s.ListArticles("")
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListArticles count = %d, want 3 (drafts excluded)", len(got))
	}
	if got[0].Slug != "newest" {
		t.Errorf("first article = %s, want newest", got[0].Slug)
	}
}

func TestListArticlesByTag(t *testing.T) {
	s := setupTestStore(t)

	a := testArticle("laravel-post")
	b := testArticle("svelte-post")
	b.Tags = []string{"svelte"}
	for _, art := range []content.Article{a, b} {
		if err := s.SaveArticle(art); err != nil {
			t.Fatalf("SaveArticle failed: %v", err)
		}
	}

	got, err := s.ListArticles("Laravel")
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(got) != 1 || got[0].Slug != "laravel-post" {
		t.Errorf("ListArticles(Laravel) = %v, want [laravel-post]", got)
	}

	got, err = s.ListArticles("elixir")
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListArticles(elixir) = %d results, want 0", len(got))
	}
}

func TestListSeriesArticles(t *testing.T) {
	s := setupTestStore(t)

	for _, spec := range []struct {
		slug  string
		order int
	}{
		{"part-three", 3},
		{"part-one", 1},
		{"part-two", 2},
	} {
		a := testArticle(spec.slug)
		a.Series = "laravel-vue-spa"
		a.SeriesKey = "laravel-vue-spa"
		a.SeriesOrder = spec.order
		if err := s.SaveArticle(a); err != nil {
			t.Fatalf("SaveArticle failed: %v", err)
		}
	}
	other := testArticle("unrelated")
	if err := s.SaveArticle(other); err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}

	got, err := s.ListSeriesArticles("laravel-vue-spa")
	if err != nil {
		t.Fatalf("ListSeriesArticles failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("count = %d, want 3", len(got))
	}
	for i, want := range []string{"part-one", "part-two", "part-three"} {
		if got[i].Slug != want {
			t.Errorf("position %d = %s, want %s", i, got[i].Slug, want)
		}
	}
}

func TestListTags(t *testing.T) {
	s := setupTestStore(t)

	a := testArticle("a")
	a.Tags = []string{"Go", "Web"}
	b := testArticle("b")
	b.Tags = []string{"go", "api"}
	c := testArticle("c")
	c.Tags = []string{"rust"}
	c.Draft = true
	for _, art := range []content.Article{a, b, c} {
		if err := s.SaveArticle(art); err != nil {
			t.Fatalf("SaveArticle failed: %v", err)
		}
	}

	got, err := s.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	want := []string{"api", "go", "web"}
	if len(got) != len(want) {
		t.Fatalf("ListTags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListTags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDeleteByPath(t *testing.T) {
	s := setupTestStore(t)

	a := testArticle("vanishing")
	if err := s.SaveArticle(a); err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}
	if err := s.DeleteByPath(a.FilePath); err != nil {
		t.Fatalf("DeleteByPath failed: %v", err)
	}
	if _, err := s.GetArticleAny("vanishing"); err != sql.ErrNoRows {
		t.Errorf("article should be gone, got %v", err)
	}
}

func TestChecksums(t *testing.T) {
	s := setupTestStore(t)

	a := testArticle("sum-check")
	a.Checksum = []byte{0xAA, 0xBB}
	if err := s.SaveArticle(a); err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}

	sums, err := s.Checksums()
	if err != nil {
		t.Fatalf("Checksums failed: %v", err)
	}
	got, ok := sums[a.FilePath]
	if !ok {
		t.Fatalf("Checksums missing %s", a.FilePath)
	}
	if len(got) != 2 || got[0] != 0xAA || got[1] != 0xBB {
		t.Errorf("checksum = %v", got)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{",", nil},
		{",go,", []string{"go"}},
		{",go,web,", []string{"go", "web"}},
		{",go, web ,rust,", []string{"go", "web", "rust"}},
	}
	for _, tt := range tests {
		got := ParseTags(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseTags(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}
