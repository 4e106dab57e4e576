// Package feed renders the public RSS feed and sitemap. The XML is built
// by hand because the shape is fixed and small; an encoder would only add
// namespace plumbing.
package feed

import (
	"fmt"
	"strings"
	"time"

	"horse.fit/newsdesk/internal/globaltime"
	"horse.fit/newsdesk/internal/news"
)

// maxFeedItems caps the feed so aggregators never pull the whole
// collection.
const maxFeedItems = 100

// Options describes the channel-level feed metadata.
type Options struct {
	SiteURL     string
	FeedURL     string
	Title       string
	Description string
}

// RSS renders an RSS 2.0 document with the media extension for article
// images. Items keep their incoming order, so callers sort first.
func RSS(items []news.Article, opts Options) string {
	siteURL := strings.TrimRight(opts.SiteURL, "/")
	feedURL := opts.FeedURL
	if feedURL == "" {
		feedURL = siteURL + "/rss.xml"
	}

	now := globaltime.UTC().Format(time.RFC1123Z)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">` + "\n")
	b.WriteString("  <channel>\n")
	fmt.Fprintf(&b, "    <title>%s</title>\n", escapeXML(opts.Title))
	fmt.Fprintf(&b, "    <link>%s</link>\n", escapeXML(siteURL))
	fmt.Fprintf(&b, "    <description>%s</description>\n", escapeXML(opts.Description))
	fmt.Fprintf(&b, "    <lastBuildDate>%s</lastBuildDate>\n", now)
	b.WriteString("    <ttl>15</ttl>\n")
	b.WriteString("    <language>en</language>\n")
	fmt.Fprintf(&b, `    <atom:link href="%s" rel="self" type="application/rss+xml" xmlns:atom="http://www.w3.org/2005/Atom" />`+"\n", escapeXML(feedURL))

	if len(items) > maxFeedItems {
		items = items[:maxFeedItems]
	}
	for _, item := range items {
		writeItem(&b, item, siteURL)
	}

	b.WriteString("  </channel>\n")
	b.WriteString("</rss>\n")
	return b.String()
}

func writeItem(b *strings.Builder, item news.Article, siteURL string) {
	link := siteURL + "/article/" + item.Slug

	b.WriteString("    <item>\n")
	fmt.Fprintf(b, "      <title>%s</title>\n", escapeXML(item.Title))
	fmt.Fprintf(b, "      <link>%s</link>\n", escapeXML(link))
	fmt.Fprintf(b, `      <guid isPermaLink="true">%s</guid>`+"\n", escapeXML(link))

	description := item.Summary
	if description == "" {
		description = item.Content
	}
	fmt.Fprintf(b, "      <description>%s</description>\n", escapeXML(description))
	fmt.Fprintf(b, "      <pubDate>%s</pubDate>\n", pubDate(item).Format(time.RFC1123Z))

	if item.Category != "" {
		fmt.Fprintf(b, "      <category>%s</category>\n", escapeXML(item.Category))
	}
	for _, tag := range item.Tags {
		if tag == "" {
			continue
		}
		fmt.Fprintf(b, "      <category>%s</category>\n", escapeXML(tag))
	}

	if item.ImageURL != nil && *item.ImageURL != "" {
		imageURL := escapeXML(*item.ImageURL)
		fmt.Fprintf(b, `      <enclosure url="%s" type="image/jpeg" />`+"\n", imageURL)
		fmt.Fprintf(b, `      <media:content url="%s" medium="image" type="image/jpeg" />`+"\n", imageURL)
	}

	b.WriteString("    </item>\n")
}

// pubDate prefers publishedAt, then createdAt, then the current time.
func pubDate(item news.Article) time.Time {
	if !item.PublishedAt.IsZero() {
		return item.PublishedAt.UTC()
	}
	if !item.CreatedAt.IsZero() {
		return item.CreatedAt.UTC()
	}
	return globaltime.UTC()
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeXML(value string) string {
	return xmlEscaper.Replace(value)
}
