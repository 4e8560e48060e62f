package site

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gerunddev/inkwell/internal/config"
	"github.com/gerunddev/inkwell/internal/post"
)

type sitemapEntry struct {
	Location string
	LastMod  time.Time
}

// buildSitemap lists the aggregate pages and every post page. Aggregate pages
// carry the build time as lastmod, posts their own date.
func buildSitemap(baseURL string, pages []string, posts []*post.Post, generatedAt time.Time) string {
	entries := make([]sitemapEntry, 0, len(pages)+len(posts))
	seen := map[string]struct{}{}
	add := func(route string, lastMod time.Time) {
		location := absoluteURL(baseURL, route)
		if _, ok := seen[location]; ok {
			return
		}
		seen[location] = struct{}{}
		entries = append(entries, sitemapEntry{Location: location, LastMod: lastMod})
	}

	for _, page := range pages {
		add(page, generatedAt)
	}
	for _, p := range posts {
		add(p.URL, firstNonZeroTime(p.Date, generatedAt))
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Location < entries[j].Location
	})

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, entry := range entries {
		b.WriteString("  <url>\n")
		b.WriteString(fmt.Sprintf("    <loc>%s</loc>\n", escapeXML(entry.Location)))
		if !entry.LastMod.IsZero() {
			b.WriteString(fmt.Sprintf("    <lastmod>%s</lastmod>\n", entry.LastMod.Format(config.DateLayout)))
		}
		b.WriteString("  </url>\n")
	}
	b.WriteString("</urlset>\n")
	return b.String()
}

