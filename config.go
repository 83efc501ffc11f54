package corpus

import "time"

// SiteConfig holds all configuration for a corpus instance.
type SiteConfig struct {
	Name        string // Site name (default "Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD

	Addr         string // Listen address (default ":3000")
	ContentDir   string // Markdown corpus root (default "content")
	DatabasePath string // SQLite path (default "data/corpus.db")
	RegistryPath string // Optional series registry YAML (default "corpus.yaml")

	APIKey string // Optional key guarding POST /api/sync

	IndexCacheTTL time.Duration // Index cache TTL (default 5min)
	SyncInterval  time.Duration // Content rescan interval (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/corpus.db"
	}
	if c.RegistryPath == "" {
		c.RegistryPath = "corpus.yaml"
	}
	if c.IndexCacheTTL == 0 {
		c.IndexCacheTTL = 5 * time.Minute
	}
	if c.SyncInterval == 0 {
		c.SyncInterval = 5 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
