package post

import (
	"strings"
	"time"
)

// Fallbacks are the values a field takes when front matter does not supply it.
type Fallbacks struct {
	// Heading is the first heading of the rendered body.
	Heading string
	// BaseName is the source file name without extension.
	BaseName string
	// DefaultDate is used when there is no date key at all.
	DefaultDate time.Time
	// Now is used when a date is present but cannot be parsed.
	Now         time.Time
	Description string
}

// Resolution is a resolved Post plus what had to be substituted on the way.
type Resolution struct {
	Post
	// InvalidDate is the raw date value that failed to parse, if any.
	InvalidDate string
	DateInvalid bool
}

// Resolve applies each field's ordered defaults:
//
//	title:       front matter > first heading > file base name
//	date:        front matter > DefaultDate when absent, Now when unparseable
//	description: front matter > Fallbacks.Description
//	tags:        front matter, or none
func Resolve(meta Meta, fb Fallbacks) Resolution {
	var r Resolution

	title, _ := meta.First("title")
	r.Title = firstNonEmpty(title, fb.Heading, fb.BaseName)

	description, _ := meta.First("description")
	r.Description = firstNonEmpty(description, fb.Description)

	r.Tags = splitTags(meta["tags"])

	raw, present := meta.First("date")
	if !present {
		r.Date = fb.DefaultDate
	} else if t, ok := ParseDate(raw); ok {
		r.Date = t
	} else {
		r.Date = fb.Now
		r.InvalidDate = raw
		r.DateInvalid = true
	}

	return r
}

var dateLayouts = []string{
	dateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDate accepts a plain date, RFC 3339, or a date with wall-clock time.
// Values without a zone are read in local time.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return ""
}

// splitTags accepts list values and comma separated strings alike.
// Order is kept; blanks and repeats are dropped.
func splitTags(values []string) []string {
	var tags []string
	seen := map[string]struct{}{}
	for _, value := range values {
		for _, tag := range strings.Split(value, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}
