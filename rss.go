package corpus

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/garethredfern/redfern-dev-sub002/content"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

func (a *App) renderRSS(c echo.Context, articles []content.Article) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(articles))
	for _, art := range articles {
		pubDate := ""
		if !art.PubDate.IsZero() {
			pubDate = art.PubDate.Format(time.RFC1123Z)
		}
		articleURL := BuildURL(base, "blog", art.Slug)
		items = append(items, rssItem{
			Title:       art.Title,
			Link:        articleURL,
			Description: art.Description,
			PubDate:     pubDate,
			GUID:        articleURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
