package feed

import (
	"strings"
	"testing"
	"time"

	"horse.fit/newsdesk/internal/news"
)

func testOptions() Options {
	return Options{
		SiteURL:     "https://news.example.com/",
		Title:       "Example Tech News",
		Description: "Coverage & analysis",
	}
}

func TestRSS_ChannelMetadata(t *testing.T) {
	t.Parallel()

	xml := RSS(nil, testOptions())

	for _, want := range []string{
		`<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">`,
		"<title>Example Tech News</title>",
		"<link>https://news.example.com</link>",
		"<description>Coverage &amp; analysis</description>",
		`href="https://news.example.com/rss.xml"`,
		"<ttl>15</ttl>",
	} {
		if !strings.Contains(xml, want) {
			t.Fatalf("feed missing %q:\n%s", want, xml)
		}
	}
}

func TestRSS_ItemRendering(t *testing.T) {
	t.Parallel()

	image := "https://cdn.example.com/a.jpg"
	published := time.Date(2026, 5, 2, 8, 30, 0, 0, time.UTC)
	items := []news.Article{{
		Title:       `AI & "Friends" <Live>`,
		Slug:        "ai-and-friends-live",
		Summary:     "A summary",
		Category:    "AI",
		Tags:        []string{"AI", "Events"},
		ImageURL:    &image,
		PublishedAt: published,
	}}

	xml := RSS(items, testOptions())

	for _, want := range []string{
		"<title>AI &amp; &quot;Friends&quot; &lt;Live&gt;</title>",
		"<link>https://news.example.com/article/ai-and-friends-live</link>",
		`<guid isPermaLink="true">https://news.example.com/article/ai-and-friends-live</guid>`,
		"<description>A summary</description>",
		"<pubDate>Sat, 02 May 2026 08:30:00 +0000</pubDate>",
		"<category>AI</category>",
		"<category>Events</category>",
		`<enclosure url="https://cdn.example.com/a.jpg" type="image/jpeg" />`,
		`<media:content url="https://cdn.example.com/a.jpg" medium="image" type="image/jpeg" />`,
	} {
		if !strings.Contains(xml, want) {
			t.Fatalf("feed missing %q:\n%s", want, xml)
		}
	}
}

func TestRSS_DescriptionFallsBackToContent(t *testing.T) {
	t.Parallel()

	xml := RSS([]news.Article{{Title: "T", Slug: "t", Content: "body text"}}, testOptions())
	if !strings.Contains(xml, "<description>body text</description>") {
		t.Fatalf("expected content fallback:\n%s", xml)
	}
}

func TestRSS_CapsItemCount(t *testing.T) {
	t.Parallel()

	items := make([]news.Article, 150)
	for i := range items {
		items[i] = news.Article{Title: "T", Slug: "t", PublishedAt: time.Now()}
	}

	xml := RSS(items, testOptions())
	if got := strings.Count(xml, "<item>"); got != 100 {
		t.Fatalf("expected 100 items, got %d", got)
	}
}

func TestSitemap(t *testing.T) {
	t.Parallel()

	xml := Sitemap([]news.Article{{Slug: "first"}, {Slug: "second"}}, "https://news.example.com/")

	for _, want := range []string{
		`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`,
		"<url><loc>https://news.example.com/</loc><changefreq>hourly</changefreq></url>",
		"<url><loc>https://news.example.com/article/first</loc><changefreq>daily</changefreq></url>",
		"<url><loc>https://news.example.com/article/second</loc><changefreq>daily</changefreq></url>",
	} {
		if !strings.Contains(xml, want) {
			t.Fatalf("sitemap missing %q:\n%s", want, xml)
		}
	}
}
