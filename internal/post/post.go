// Package post holds the Post record and the rules that turn a Markdown
// source file into one: front matter decoding, the ordered defaults for each
// field, output naming, and the date sort and tag grouping used by the
// aggregate pages.
package post

import (
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Post is one rendered source file.
type Post struct {
	Title       string
	Date        time.Time
	Description string
	Tags        []string
	// URL is the output file name, relative to the output directory.
	URL string
	// Source is the path of the Markdown file.
	Source string
	// Body is the rendered HTML body without the page layout.
	Body []byte
}

// OutputName derives the page file name from a source path: the base name
// with its extension replaced by .html.
func OutputName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".html"
}

// BaseName is the source file name without directory or extension.
func BaseName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SortByDate orders posts newest first. Equal dates fall back to title and
// then URL so the order is stable across builds.
func SortByDate(posts []*Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.URL < b.URL
	})
}

// TagGroup is one section of the tag page.
type TagGroup struct {
	Tag   string
	Posts []*Post
}

// GroupByTag groups posts under each of their tags. Groups appear in the order
// their tag is first seen while walking posts, and each group keeps the order
// of posts. A post with N tags lands in N groups.
func GroupByTag(posts []*Post) []TagGroup {
	index := map[string]int{}
	var groups []TagGroup

	for _, p := range posts {
		for _, tag := range p.Tags {
			i, ok := index[tag]
			if !ok {
				i = len(groups)
				index[tag] = i
				groups = append(groups, TagGroup{Tag: tag})
			}
			groups[i].Posts = append(groups[i].Posts, p)
		}
	}

	return groups
}
