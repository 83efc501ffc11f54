package views

import (
	"bytes"
	"context"
	"html"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/garethredfern/redfern-dev-sub002/content"
	"github.com/garethredfern/redfern-dev-sub002/lint"
)

// page wraps a body renderer in the shared HTML shell as a templ component.
func page(cfg SiteConfig, title string, body func(buf *bytes.Buffer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		buf.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"/>")
		buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>")
		buf.WriteString("<title>" + html.EscapeString(title) + " | " + html.EscapeString(cfg.Name) + "</title>")
		if cfg.Description != "" {
			buf.WriteString("<meta name=\"description\" content=\"" + html.EscapeString(cfg.Description) + "\"/>")
		}
		buf.WriteString("<script type=\"application/ld+json\">" + WebsiteJsonLD(cfg) + "</script>")
		buf.WriteString("</head><body><header><h1><a href=\"/\">" + html.EscapeString(cfg.Name) + "</a></h1>")
		buf.WriteString("<nav><a href=\"/\">Articles</a> <a href=\"/series/\">Series</a> <a href=\"/lint/\">Health</a></nav></header><main>")
		body(&buf)
		buf.WriteString("</main></body></html>")
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func writeArticleItem(buf *bytes.Buffer, a content.Article) {
	buf.WriteString("<li><a href=\"" + html.EscapeString(a.Link()) + "\">" + html.EscapeString(a.Title) + "</a>")
	buf.WriteString(" <time>" + html.EscapeString(FormatDate(a.PubDate, a.PubDateRaw)) + "</time>")
	if a.Description != "" {
		buf.WriteString("<p>" + html.EscapeString(a.Description) + "</p>")
	}
	if len(a.Tags) > 0 {
		buf.WriteString("<ul class=\"tags\">")
		for _, t := range a.Tags {
			buf.WriteString("<li><a href=\"/?tag=" + PathEscape(t) + "\">" + html.EscapeString(t) + "</a></li>")
		}
		buf.WriteString("</ul>")
	}
	buf.WriteString("</li>")
}

// Overview lists the published articles, newest first, with tag filtering.
func Overview(cfg SiteConfig, articles []content.Article, activeTag string, tags []string) templ.Component {
	return page(cfg, "Articles", func(buf *bytes.Buffer) {
		if activeTag != "" {
			buf.WriteString("<p>Filtered by tag <strong>" + html.EscapeString(activeTag) + "</strong> · <a href=\"/\">clear</a></p>")
		}
		if len(tags) > 0 {
			buf.WriteString("<ul class=\"tags\">")
			for _, t := range tags {
				buf.WriteString("<li><a href=\"/?tag=" + PathEscape(t) + "\">" + html.EscapeString(t) + "</a></li>")
			}
			buf.WriteString("</ul>")
		}
		buf.WriteString("<ul class=\"articles\">")
		for _, a := range articles {
			writeArticleItem(buf, a)
		}
		buf.WriteString("</ul>")
	})
}

// SeriesIndex lists every series with its size and reading-order preview.
func SeriesIndex(cfg SiteConfig, series []content.Series) templ.Component {
	return page(cfg, "Series", func(buf *bytes.Buffer) {
		buf.WriteString("<ul class=\"series\">")
		for _, s := range series {
			buf.WriteString("<li><a href=\"/series/" + PathEscape(s.Key) + "/\">" + html.EscapeString(s.Title) + "</a>")
			buf.WriteString(" <span>" + strconv.Itoa(s.Len()) + " articles</span></li>")
		}
		buf.WriteString("</ul>")
	})
}

// SeriesDetail shows one series in reading order with the "Next up" chain.
func SeriesDetail(cfg SiteConfig, s content.Series) templ.Component {
	return page(cfg, s.Title, func(buf *bytes.Buffer) {
		buf.WriteString("<h2>" + html.EscapeString(s.Title) + "</h2>")
		buf.WriteString("<ol class=\"reading-order\">")
		for i, a := range s.Articles {
			buf.WriteString("<li><a href=\"" + html.EscapeString(a.Link()) + "\">" + html.EscapeString(a.Title) + "</a>")
			if i < len(s.Articles)-1 {
				buf.WriteString(" <span class=\"next\">Next up: " + html.EscapeString(s.Articles[i+1].Title) + "</span>")
			}
			buf.WriteString("</li>")
		}
		buf.WriteString("</ol>")
	})
}

// LintReport renders corpus health findings grouped by severity.
func LintReport(cfg SiteConfig, report lint.Report) templ.Component {
	return page(cfg, "Corpus health", func(buf *bytes.Buffer) {
		buf.WriteString("<h2>Corpus health</h2>")
		buf.WriteString("<p>" + strconv.Itoa(report.Errors()) + " errors, " + strconv.Itoa(report.Warnings()) + " warnings</p>")
		if len(report.Findings) == 0 {
			buf.WriteString("<p>No findings.</p>")
			return
		}
		buf.WriteString("<table><thead><tr><th>Severity</th><th>Rule</th><th>File</th><th>Message</th></tr></thead><tbody>")
		for _, f := range report.Findings {
			buf.WriteString("<tr class=\"" + html.EscapeString(string(f.Severity)) + "\">")
			buf.WriteString("<td>" + html.EscapeString(string(f.Severity)) + "</td>")
			buf.WriteString("<td>" + html.EscapeString(f.Rule) + "</td>")
			buf.WriteString("<td>" + html.EscapeString(f.Path) + "</td>")
			buf.WriteString("<td>" + html.EscapeString(f.Message) + "</td>")
			buf.WriteString("</tr>")
		}
		buf.WriteString("</tbody></table>")
	})
}

// NotFound is the styled 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	return page(cfg, "Not found", func(buf *bytes.Buffer) {
		buf.WriteString("<h2>404</h2><p>That page does not exist. <a href=\"/\">Back to the articles.</a></p>")
	})
}

// ServerError is the styled 500 page.
func ServerError(cfg SiteConfig) templ.Component {
	return page(cfg, "Something went wrong", func(buf *bytes.Buffer) {
		buf.WriteString("<h2>500</h2><p>Something went wrong. <a href=\"/\">Back to the articles.</a></p>")
	})
}
