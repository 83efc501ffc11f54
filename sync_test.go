package corpus

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/garethredfern/redfern-dev-sub002/content"
)

func syncFixture() fstest.MapFS {
	return fstest.MapFS{
		"laravel/part-one.md": &fstest.MapFile{Data: []byte(`---
title: "Part One"
series: "laravel-vue-spa"
seriesOrder: 1
pubDate: "2020-11-01T08:00:00Z"
---
Body one.
`)},
		"svg/viewbox.md": &fstest.MapFile{Data: []byte(`---
title: "SVG Viewbox"
published: 2019-06-02
---
Viewbox body.
`)},
	}
}

func newTestSyncer(t *testing.T, fsys fstest.MapFS) (*Syncer, *Store, *IndexCache) {
	t.Helper()
	store := setupTestStore(t)
	cache := NewIndexCache(store, time.Minute, nil)
	loader := content.NewLoader(fsys, content.LoaderConfig{Recursive: true})
	return NewSyncer(loader, store, cache, time.Hour), store, cache
}

func TestSyncInitialImport(t *testing.T) {
	syncer, store, _ := newTestSyncer(t, syncFixture())

	stats, err := syncer.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if stats.Scanned != 2 || stats.Updated != 2 || stats.Skipped != 0 {
		t.Errorf("stats = %+v, want 2 scanned, 2 updated", stats)
	}

	a, err := store.GetArticle("part-one")
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if a.SeriesKey != "laravel-vue-spa" || a.SeriesOrder != 1 {
		t.Errorf("article = %+v", a)
	}
}

func TestSyncSkipsUnchanged(t *testing.T) {
	syncer, _, _ := newTestSyncer(t, syncFixture())

	if _, err := syncer.Sync(context.Background()); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	stats, err := syncer.Sync(context.Background())
	if err != nil {
		t.Fatalf("second Sync failed: %v", err)
	}
	if stats.Updated != 0 || stats.Skipped != 2 {
		t.Errorf("stats = %+v, want everything skipped", stats)
	}
}

func TestSyncPicksUpEdits(t *testing.T) {
	fsys := syncFixture()
	syncer, store, _ := newTestSyncer(t, fsys)

	if _, err := syncer.Sync(context.Background()); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	fsys["svg/viewbox.md"] = &fstest.MapFile{Data: []byte(`---
title: "SVG Viewbox, Revisited"
published: 2019-06-02
---
Viewbox body, expanded.
`)}

	stats, err := syncer.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if stats.Updated != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 1 updated, 1 skipped", stats)
	}

	a, err := store.GetArticle("svg-viewbox-revisited")
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if a.Title != "SVG Viewbox, Revisited" {
		t.Errorf("Title = %q", a.Title)
	}
}

func TestSyncRemovesVanishedFiles(t *testing.T) {
	fsys := syncFixture()
	syncer, store, _ := newTestSyncer(t, fsys)

	if _, err := syncer.Sync(context.Background()); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	delete(fsys, "svg/viewbox.md")

	stats, err := syncer.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if stats.Removed != 1 {
		t.Errorf("stats = %+v, want 1 removed", stats)
	}
	if _, err := store.GetArticleAny("svg-viewbox"); err != ErrNotFound {
		t.Errorf("removed article should be gone, got %v", err)
	}
}

func TestSyncKeepsPreviousVersionOfBrokenFile(t *testing.T) {
	fsys := syncFixture()
	syncer, store, _ := newTestSyncer(t, fsys)

	if _, err := syncer.Sync(context.Background()); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	fsys["svg/viewbox.md"] = &fstest.MapFile{Data: []byte("---\ntitle: [broken\n---\nBody.\n")}

	stats, err := syncer.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if stats.Failed != 1 {
		t.Errorf("stats = %+v, want 1 failed", stats)
	}
	// The last good version stays in the store.
	if _, err := store.GetArticle("svg-viewbox"); err != nil {
		t.Errorf("previous version should survive a broken edit, got %v", err)
	}
}

func TestSyncInvalidatesCache(t *testing.T) {
	fsys := syncFixture()
	syncer, _, cache := newTestSyncer(t, fsys)

	if _, err := syncer.Sync(context.Background()); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	posts, err := cache.ListArticles("")
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("cache sees %d articles, want 2", len(posts))
	}

	fsys["go/defer.md"] = &fstest.MapFile{Data: []byte("---\ntitle: \"Defer in Go\"\npublished: 2021-02-01\n---\nDefer.\n")}

	if _, err := syncer.Sync(context.Background()); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	posts, err = cache.ListArticles("")
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(posts) != 3 {
		t.Errorf("cache should refresh after sync, got %d articles", len(posts))
	}
}

func TestSyncStartStop(t *testing.T) {
	syncer, store, _ := newTestSyncer(t, syncFixture())

	syncer.Start()
	// The startup pass runs asynchronously; poll briefly for its result.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if articles, err := store.ListAllArticles(); err == nil && len(articles) == 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	syncer.Stop()

	articles, err := store.ListAllArticles()
	if err != nil {
		t.Fatalf("ListAllArticles failed: %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("startup pass should import 2 articles, got %d", len(articles))
	}
}
