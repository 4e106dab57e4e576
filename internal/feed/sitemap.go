package feed

import (
	"fmt"
	"strings"

	"horse.fit/newsdesk/internal/news"
)

// Sitemap renders an XML sitemap with the site root followed by one URL
// per active article.
func Sitemap(items []news.Article, siteURL string) string {
	base := strings.TrimRight(siteURL, "/")

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	fmt.Fprintf(&b, "<url><loc>%s/</loc><changefreq>hourly</changefreq></url>", escapeXML(base))
	for _, item := range items {
		fmt.Fprintf(&b, "<url><loc>%s/article/%s</loc><changefreq>daily</changefreq></url>", escapeXML(base), escapeXML(item.Slug))
	}
	b.WriteString("</urlset>")
	return b.String()
}
