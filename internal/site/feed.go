package site

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gerunddev/inkwell/internal/post"
)

const maxFeedItems = 50

const defaultFeedDescription = "Latest updates"

// buildRSSFeed renders an RSS 2.0 document for posts, which must already be
// sorted newest first. GUIDs are name-based UUIDs of the item link so they stay
// stable across builds.
func buildRSSFeed(siteName, baseURL, language string, posts []*post.Post, generatedAt time.Time) string {
	base := baseURLWithFallback(baseURL)
	if len(posts) > maxFeedItems {
		posts = posts[:maxFeedItems]
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0">` + "\n")
	b.WriteString("  <channel>\n")
	b.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(siteName)))
	b.WriteString(fmt.Sprintf("    <link>%s</link>\n", escapeXML(base+"/")))
	b.WriteString(fmt.Sprintf("    <description>%s</description>\n", escapeXML(defaultFeedDescription)))
	if language != "" {
		b.WriteString(fmt.Sprintf("    <language>%s</language>\n", escapeXML(language)))
	}
	b.WriteString(fmt.Sprintf("    <lastBuildDate>%s</lastBuildDate>\n", generatedAt.UTC().Format(time.RFC1123Z)))
	for _, p := range posts {
		link := absoluteURL(baseURL, p.URL)
		pub := firstNonZeroTime(p.Date, generatedAt)
		b.WriteString("    <item>\n")
		b.WriteString(fmt.Sprintf("      <title>%s</title>\n", escapeXML(p.Title)))
		b.WriteString(fmt.Sprintf("      <link>%s</link>\n", escapeXML(link)))
		b.WriteString(fmt.Sprintf("      <guid isPermaLink=\"false\">urn:uuid:%s</guid>\n", feedGUID(link)))
		b.WriteString(fmt.Sprintf("      <pubDate>%s</pubDate>\n", pub.UTC().Format(time.RFC1123Z)))
		if p.Description != "" {
			b.WriteString(fmt.Sprintf("      <description>%s</description>\n", escapeXML(p.Description)))
		}
		for _, tag := range p.Tags {
			b.WriteString(fmt.Sprintf("      <category>%s</category>\n", escapeXML(tag)))
		}
		b.WriteString("    </item>\n")
	}
	b.WriteString("  </channel>\n")
	b.WriteString("</rss>\n")
	return b.String()
}

func feedGUID(link string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String()
}

func baseURLWithFallback(base string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return "http://localhost"
	}
	return trimmed
}

func absoluteURL(base, route string) string {
	targetBase := baseURLWithFallback(base)
	normalized := strings.TrimSpace(route)
	if normalized == "" {
		return targetBase + "/"
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	return targetBase + normalized
}

func firstNonZeroTime(instants ...time.Time) time.Time {
	for _, ts := range instants {
		if !ts.IsZero() {
			return ts
		}
	}
	return time.Time{}
}

func escapeXML(s string) string {
	return html.EscapeString(s)
}
