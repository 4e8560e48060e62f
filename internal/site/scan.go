package site

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Excluder matches source paths, relative to the source directory, against
// glob patterns such as "drafts/**" or "*.draft.md".
type Excluder struct {
	globs []glob.Glob
}

// NewExcluder compiles patterns. Matching uses '/' as the separator on every
// platform.
func NewExcluder(patterns []string) (*Excluder, error) {
	e := &Excluder{}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		e.globs = append(e.globs, g)
	}
	return e, nil
}

// Match reports whether rel is excluded.
func (e *Excluder) Match(rel string) bool {
	if e == nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, g := range e.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// ScanError is a path below the source directory that could not be read.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// ScanDirectory walks dir recursively for files with the given extension,
// skipping hidden directories and anything matched by exclude. Results are
// sorted so builds are reproducible.
//
// Entries below dir that cannot be read are returned in skipped and the walk
// carries on. Only a failure to read dir itself is returned as err.
func ScanDirectory(dir string, ext string, exclude *Excluder) (files []string, skipped []*ScanError, err error) {
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			skipped = append(skipped, &ScanError{Path: path, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}

		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if rel != "." && exclude.Match(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.EqualFold(filepath.Ext(path), ext) {
			return nil
		}
		if exclude.Match(rel) {
			return nil
		}

		files = append(files, path)
		return nil
	})

	if err != nil {
		return nil, nil, err
	}

	sort.Strings(files)
	return files, skipped, nil
}
