// Package views renders the metadata pages of the corpus service: the article
// index, series reading orders, and the lint report. Article bodies are never
// rendered here; pages show front-matter metadata only.
package views

// SiteConfig holds site-wide settings passed into every page.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}
