// Command corpusd serves a markdown tutorial corpus over HTTP: metadata
// pages, a JSON API, RSS, and a sitemap.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	corpus "github.com/garethredfern/redfern-dev-sub002"
)

type options struct {
	SiteName    string `long:"site-name" env:"SITE_NAME" default:"Blog" description:"Site name"`
	SiteURL     string `long:"site-url" env:"SITE_URL" default:"http://localhost:3000" description:"Canonical site URL"`
	Description string `long:"description" env:"SITE_DESCRIPTION" description:"Site description for feeds and meta tags"`
	Author      string `long:"author" env:"SITE_AUTHOR" description:"Author name for structured data"`

	Addr         string `long:"addr" env:"ADDR" default:":3000" description:"HTTP listen address"`
	ContentDir   string `long:"content-dir" env:"CONTENT_DIR" default:"content" description:"Markdown corpus root"`
	DatabasePath string `long:"database" env:"DATABASE_PATH" default:"data/corpus.db" description:"SQLite database path"`
	RegistryPath string `long:"registry" env:"REGISTRY_PATH" default:"corpus.yaml" description:"Series registry file"`
	StaticDir    string `long:"static-dir" env:"STATIC_DIR" default:"public" description:"Static assets directory"`

	APIKey       string        `long:"api-key" env:"API_KEY" description:"Key guarding POST /api/sync (optional)"`
	CacheTTL     time.Duration `long:"cache-ttl" env:"CACHE_TTL" default:"5m" description:"Index cache TTL"`
	SyncInterval time.Duration `long:"sync-interval" env:"SYNC_INTERVAL" default:"5m" description:"Content rescan interval"`
}

func main() {
	// A missing .env is fine; the environment may be set some other way.
	_ = godotenv.Load()

	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}

	app := corpus.New(corpus.SiteConfig{
		Name:          opts.SiteName,
		URL:           opts.SiteURL,
		Description:   opts.Description,
		Author:        opts.Author,
		Addr:          opts.Addr,
		ContentDir:    opts.ContentDir,
		DatabasePath:  opts.DatabasePath,
		RegistryPath:  opts.RegistryPath,
		APIKey:        opts.APIKey,
		IndexCacheTTL: opts.CacheTTL,
		SyncInterval:  opts.SyncInterval,
	}, corpus.WithStaticDir(opts.StaticDir))

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Echo.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := app.Start(); err != nil {
		log.Fatalf("corpusd: %v", err)
	}
	if err := app.Close(); err != nil {
		log.Printf("close: %v", err)
	}
}
