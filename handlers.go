package corpus

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/garethredfern/redfern-dev-sub002/content"
	"github.com/garethredfern/redfern-dev-sub002/lint"
	"github.com/garethredfern/redfern-dev-sub002/views"
)

type articleRef struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Link  string `json:"link"`
}

type articleJSON struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	PubDate     string   `json:"pubDate,omitempty"`
	Series      string   `json:"series,omitempty"`
	SeriesOrder int      `json:"seriesOrder,omitempty"`
	Link        string   `json:"link"`
}

type articleDetailJSON struct {
	articleJSON
	SeriesTitle string       `json:"seriesTitle,omitempty"`
	Prev        *articleRef  `json:"prev,omitempty"`
	Next        *articleRef  `json:"next,omitempty"`
	Related     []articleRef `json:"related,omitempty"`
}

type seriesJSON struct {
	Key       string       `json:"key"`
	Title     string       `json:"title"`
	Spellings []string     `json:"spellings,omitempty"`
	Articles  []articleRef `json:"articles"`
}

func toArticleJSON(a content.Article) articleJSON {
	pubDate := a.PubDateRaw
	if !a.PubDate.IsZero() {
		pubDate = a.PubDate.Format(time.RFC3339)
	}
	return articleJSON{
		Slug:        a.Slug,
		Title:       a.Title,
		Description: a.Description,
		Tags:        a.Tags,
		PubDate:     pubDate,
		Series:      a.SeriesKey,
		SeriesOrder: a.SeriesOrder,
		Link:        a.Link(),
	}
}

func toArticleRef(a content.Article) articleRef {
	return articleRef{Slug: a.Slug, Title: a.Title, Link: a.Link()}
}

func toSeriesJSON(s Series) seriesJSON {
	refs := make([]articleRef, 0, len(s.Articles))
	for _, a := range s.Articles {
		refs = append(refs, toArticleRef(a))
	}
	return seriesJSON{Key: s.Key, Title: s.Title, Spellings: s.Spellings, Articles: refs}
}

// --- HTML pages ---

func (a *App) handleHome(c echo.Context) error {
	tag := c.QueryParam("tag")
	articles, err := a.Cache.ListArticles(tag)
	if err != nil {
		return err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	return Render(c, views.Overview(a.viewConfig(), articles, tag, tags))
}

func (a *App) handleSeriesIndex(c echo.Context) error {
	series, err := a.Cache.ListSeries()
	if err != nil {
		return err
	}
	return Render(c, views.SeriesIndex(a.viewConfig(), series))
}

func (a *App) handleSeriesDetail(c echo.Context) error {
	series, err := a.Cache.GetSeries(c.Param("key"))
	if err != nil {
		if err == ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return err
	}
	return Render(c, views.SeriesDetail(a.viewConfig(), series))
}

func (a *App) handleLintPage(c echo.Context) error {
	report, err := a.runLint(c)
	if err != nil {
		return err
	}
	return Render(c, views.LintReport(a.viewConfig(), report))
}

// --- JSON API ---

func (a *App) handleAPIArticles(c echo.Context) error {
	var articles []content.Article
	if key := c.QueryParam("series"); key != "" {
		series, err := a.Cache.GetSeries(key)
		if err != nil {
			if err == ErrNotFound {
				return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown series %q", key))
			}
			return err
		}
		articles = series.Articles
	} else {
		var err error
		articles, err = a.Cache.ListArticles(c.QueryParam("tag"))
		if err != nil {
			return err
		}
	}
	out := make([]articleJSON, 0, len(articles))
	for _, art := range articles {
		out = append(out, toArticleJSON(art))
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handleAPIArticle(c echo.Context) error {
	slug := c.Param("slug")
	art, err := a.Cache.GetArticle(slug)
	if err != nil {
		if err == ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return err
	}
	nav, err := a.Cache.Navigate(slug)
	if err != nil {
		return err
	}
	all, err := a.Cache.ListArticles("")
	if err != nil {
		return err
	}

	detail := articleDetailJSON{articleJSON: toArticleJSON(art)}
	if nav.Series != nil {
		detail.SeriesTitle = nav.Series.Title
	}
	if nav.Prev != nil {
		ref := toArticleRef(*nav.Prev)
		detail.Prev = &ref
	}
	if nav.Next != nil {
		ref := toArticleRef(*nav.Next)
		detail.Next = &ref
	}
	for _, rel := range FilterRelated(art, all) {
		detail.Related = append(detail.Related, toArticleRef(rel))
	}
	return c.JSON(http.StatusOK, detail)
}

func (a *App) handleAPISeries(c echo.Context) error {
	series, err := a.Cache.ListSeries()
	if err != nil {
		return err
	}
	out := make([]seriesJSON, 0, len(series))
	for _, s := range series {
		out = append(out, toSeriesJSON(s))
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handleAPISeriesDetail(c echo.Context) error {
	series, err := a.Cache.GetSeries(c.Param("key"))
	if err != nil {
		if err == ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return err
	}
	return c.JSON(http.StatusOK, toSeriesJSON(series))
}

func (a *App) handleAPITags(c echo.Context) error {
	tags, err := a.Cache.ListTags()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

func (a *App) handleAPILint(c echo.Context) error {
	report, err := a.runLint(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

func (a *App) handleAPISync(c echo.Context) error {
	stats, err := a.syncer.Sync(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// runLint parses the corpus fresh from disk so findings reflect the files as
// they are now, not the last synced snapshot.
func (a *App) runLint(c echo.Context) (lint.Report, error) {
	results, err := a.loader.LoadAll(c.Request().Context(), ".")
	if err != nil {
		return lint.Report{}, err
	}
	return lint.Run(results, lint.Options{SeriesTitles: a.Registry}), nil
}

// --- misc ---

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

// handleRobots generates robots.txt dynamically using the site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) handleFeed(c echo.Context) error {
	articles, err := a.Cache.ListArticles("")
	if err != nil {
		return err
	}
	return a.renderRSS(c, articles)
}

func (a *App) handleSitemap(c echo.Context) error {
	articles, err := a.Cache.ListArticles("")
	if err != nil {
		return err
	}
	return a.renderSitemap(c, articles)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.viewConfig()))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.viewConfig()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
