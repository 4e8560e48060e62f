package post

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// Meta is decoded front matter. Keys are lower case and every value is a list,
// so single values and lists are read the same way.
type Meta map[string][]string

// First returns the first value for key and whether the key was present.
func (m Meta) First(key string) (string, bool) {
	values, ok := m[key]
	if !ok {
		return "", false
	}
	if len(values) == 0 {
		return "", true
	}
	return values[0], true
}

var delimitedFormats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
	frontmatter.NewFormat(";;;", ";;;", json.Unmarshal),
}

// SplitFrontMatter separates metadata from the Markdown body.
//
// Delimited blocks (--- YAML, +++ TOML, ;;; JSON) are tried first. Without one,
// a MultiMarkdown block of "Key: value" lines ending at the first blank line is
// accepted. A source with neither comes back unchanged with empty Meta.
func SplitFrontMatter(src []byte) (Meta, []byte, error) {
	if !hasDelimiter(src) {
		meta, rest := splitMultiMarkdown(src)
		return meta, rest, nil
	}

	raw := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(src), &raw, delimitedFormats...)
	if err != nil {
		return Meta{}, src, fmt.Errorf("parse front matter: %w", err)
	}

	return normalize(raw), body, nil
}

// hasDelimiter reports whether src opens with a delimited front matter block.
func hasDelimiter(src []byte) bool {
	line := src
	if i := bytes.IndexByte(src, '\n'); i >= 0 {
		line = src[:i]
	}
	first := strings.TrimSpace(string(line))
	for _, f := range delimitedFormats {
		if first == f.Start {
			return true
		}
	}
	return false
}

func normalize(raw map[string]any) Meta {
	meta := make(Meta, len(raw))
	for key, value := range raw {
		meta[strings.ToLower(strings.TrimSpace(key))] = flatten(value)
	}
	return meta
}

func flatten(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case time.Time:
		return []string{formatTime(v)}
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, flatten(item)...)
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

// formatTime keeps date-only timestamps in the plain date layout.
func formatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(dateLayout)
	}
	return t.Format(time.RFC3339)
}

var (
	reMetaLine = regexp.MustCompile(`^[ ]{0,3}([A-Za-z0-9_-]+):\s*(.*)$`)
	reMetaMore = regexp.MustCompile(`^[ ]{4,}(.*)$`)
)

// splitMultiMarkdown reads "Key: value" lines from the top of src.
// Lines indented four or more spaces add values to the previous key.
func splitMultiMarkdown(src []byte) (Meta, []byte) {
	meta := Meta{}
	key := ""
	offset := 0

	for offset < len(src) {
		end := bytes.IndexByte(src[offset:], '\n')
		next := len(src)
		if end >= 0 {
			next = offset + end + 1
		}
		line := strings.TrimRight(string(src[offset:next]), "\r\n")

		if strings.TrimSpace(line) == "" {
			// The blank line closing the block belongs to the metadata.
			if len(meta) > 0 {
				offset = next
			}
			break
		}

		if m := reMetaLine.FindStringSubmatch(line); m != nil {
			key = strings.ToLower(m[1])
			meta[key] = append(meta[key], strings.TrimSpace(m[2]))
		} else if m := reMetaMore.FindStringSubmatch(line); m != nil && key != "" {
			meta[key] = append(meta[key], strings.TrimSpace(m[1]))
		} else {
			break
		}
		offset = next
	}

	if len(meta) == 0 {
		return Meta{}, src
	}
	return meta, src[offset:]
}
