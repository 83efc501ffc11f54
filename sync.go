package corpus

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/garethredfern/redfern-dev-sub002/content"
)

// SyncStats summarizes one reconciliation pass over the content directory.
type SyncStats struct {
	Scanned int // markdown files visited
	Updated int // new or changed articles written to the store
	Skipped int // unchanged files (checksum match)
	Removed int // store rows whose source file disappeared
	Failed  int // files whose front matter did not parse
}

// Syncer reconciles the markdown corpus on disk with the article store.
// Articles mutate only by hand-editing files, so the syncer is the single
// writer: a one-shot Sync pass plus an optional periodic rescan.
type Syncer struct {
	loader *content.Loader
	store  *Store
	cache  *IndexCache

	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewSyncer creates a Syncer. cache may be nil; when set it is invalidated
// after any pass that changed the store.
func NewSyncer(loader *content.Loader, store *Store, cache *IndexCache, interval time.Duration) *Syncer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Syncer{
		loader:   loader,
		store:    store,
		cache:    cache,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Sync runs one reconciliation pass: parse every markdown file, upsert the
// changed ones, drop rows whose files vanished. A file with broken front
// matter is reported and skipped; its previous version, if any, stays in the
// store rather than silently disappearing.
func (s *Syncer) Sync(ctx context.Context) (SyncStats, error) {
	var stats SyncStats

	results, err := s.loader.LoadAll(ctx, ".")
	if err != nil {
		return stats, err
	}
	stored, err := s.store.Checksums()
	if err != nil {
		return stats, err
	}

	seen := make(map[string]struct{}, len(results))
	for _, res := range results {
		stats.Scanned++
		seen[res.Path] = struct{}{}
		if res.Err != nil {
			stats.Failed++
			slog.Warn("skipping unparseable article", "path", res.Path, "error", res.Err)
			continue
		}
		if prev, ok := stored[res.Path]; ok {
			if bytes.Equal(prev, res.Article.Checksum) {
				stats.Skipped++
				continue
			}
			// An edit can change the slug; drop the old row for this path so
			// the upsert does not leave a stale duplicate behind.
			if err := s.store.DeleteByPath(res.Path); err != nil {
				return stats, err
			}
		}
		if err := s.store.SaveArticle(*res.Article); err != nil {
			return stats, err
		}
		stats.Updated++
	}

	for path := range stored {
		if _, ok := seen[path]; ok {
			continue
		}
		if err := s.store.DeleteByPath(path); err != nil {
			return stats, err
		}
		stats.Removed++
	}

	if s.cache != nil && stats.Updated+stats.Removed > 0 {
		s.cache.Invalidate()
	}
	return stats, nil
}

// Start launches the periodic rescan worker. It runs one pass immediately,
// then on every interval tick until Stop is called.
func (s *Syncer) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.runPass()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.runPass()
			}
		}
	}()
}

// Stop cancels the rescan worker and waits for an in-flight pass to finish.
func (s *Syncer) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Syncer) runPass() {
	start := time.Now()
	stats, err := s.Sync(s.ctx)
	if err != nil {
		if s.ctx.Err() != nil {
			return
		}
		slog.Error("corpus sync failed", "error", err)
		return
	}
	slog.Info("corpus sync complete",
		"scanned", stats.Scanned,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"removed", stats.Removed,
		"failed", stats.Failed,
		"elapsed", time.Since(start).String(),
	)
}
