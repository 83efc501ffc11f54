// Package corpus turns a directory of markdown tutorials into a queryable
// service: front-matter metadata, tag and series indexes, reading-order
// navigation, corpus health checks, plus RSS and sitemap output. Built with
// Go, Echo, and templ.
//
// The markdown files stay the source of truth. A background syncer mirrors
// them into SQLite, and every read goes through a TTL cache on top of the
// store.
package corpus

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/garethredfern/redfern-dev-sub002/content"
	"github.com/garethredfern/redfern-dev-sub002/views"
)

// App is the central corpus application. It wires together the loader,
// store, cache, syncer, handlers, and middleware.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Cache    *IndexCache
	Registry map[string]string

	loader       *content.Loader
	syncer       *Syncer
	customRoutes []func(*App)
	staticDir    string
}

// New creates a corpus App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// init opens the store, loads the series registry, and wires the loader,
// cache, syncer, middleware, and routes. Split out of Start so tests can
// drive the routes through Echo.ServeHTTP without binding a listener.
func (a *App) init() error {
	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("corpus: init store: %w", err)
	}
	a.Store = store

	registry, err := LoadRegistry(a.Config.RegistryPath)
	if err != nil {
		return fmt.Errorf("corpus: load series registry: %w", err)
	}
	a.Registry = registry

	a.Cache = NewIndexCache(a.Store, a.Config.IndexCacheTTL, a.Registry)
	a.loader = content.NewLoader(os.DirFS(a.Config.ContentDir), content.LoaderConfig{Recursive: true})
	a.syncer = NewSyncer(a.loader, a.Store, a.Cache, a.Config.SyncInterval)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app, runs the first content sync, launches the
// periodic rescan, and starts the HTTP server.
func (a *App) Start() error {
	if err := a.init(); err != nil {
		return err
	}

	if _, err := a.syncer.Sync(context.Background()); err != nil {
		return fmt.Errorf("corpus: initial sync: %w", err)
	}
	a.syncer.Start()
	defer a.syncer.Stop()

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Static assets
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Feeds
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// HTML pages
	e.GET("/", a.handleHome)
	e.GET("/series/", a.handleSeriesIndex)
	e.GET("/series/:key/", a.handleSeriesDetail)
	e.GET("/lint/", a.handleLintPage)

	// JSON API
	api := e.Group("/api")
	api.GET("/articles", a.handleAPIArticles)
	api.GET("/articles/:slug", a.handleAPIArticle)
	api.GET("/series", a.handleAPISeries)
	api.GET("/series/:key", a.handleAPISeriesDetail)
	api.GET("/tags", a.handleAPITags)
	api.GET("/lint", a.handleAPILint)
	api.POST("/sync", a.handleAPISync, a.requireAPIKey)
}

func (a *App) viewConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.syncer != nil {
		a.syncer.Stop()
	}
	if a.Store != nil {
		a.Store.Close()
	}
	return nil
}
