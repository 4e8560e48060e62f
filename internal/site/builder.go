// Package site turns a directory of Markdown posts into a static site: one
// page per post plus the index, tag, feed and sitemap pages.
package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gerunddev/inkwell/internal/config"
	"github.com/gerunddev/inkwell/internal/logger"
	"github.com/gerunddev/inkwell/internal/markdown"
	"github.com/gerunddev/inkwell/internal/post"
	"github.com/gerunddev/inkwell/internal/state"
)

const (
	sourceExt = ".md"

	indexPage   = "index.html"
	tagsPage    = "tags.html"
	feedPage    = "feed.xml"
	sitemapPage = "sitemap.xml"

	indexTitle = "首页"
	tagsTitle  = "标签汇总"
)

// Builder renders the configured source directory into the output directory.
type Builder struct {
	config  *config.Config
	engine  *markdown.Engine
	layout  *Layout
	exclude *Excluder
	log     *logger.Logger

	// Now is the build clock. Posts with an unparseable date get its value.
	Now func() time.Time
	// Progress, if set, is called after each source file is handled.
	Progress func(done, total int, file string)
}

// NewBuilder prepares a Builder. The layout file, if configured, is read here.
func NewBuilder(cfg *config.Config, log *logger.Logger) (*Builder, error) {
	if log == nil {
		log = logger.Discard()
	}

	var source string
	if cfg.LayoutFile != "" {
		var err error
		source, err = LoadLayoutFile(cfg.LayoutFile)
		if err != nil {
			return nil, err
		}
	}

	layout, err := NewLayout(LayoutOptions{
		Source:     source,
		SiteName:   cfg.SiteName,
		Language:   cfg.Language,
		Stylesheet: cfg.Stylesheet,
		Script:     cfg.Script,
	})
	if err != nil {
		return nil, err
	}

	exclude, err := NewExcluder(cfg.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	engine := markdown.NewEngine(markdown.Options{
		Extensions:     cfg.Extensions,
		Highlight:      cfg.Highlight,
		HighlightStyle: cfg.HighlightStyle,
		SafeMode:       cfg.SafeMode,
		Sanitize:       cfg.Sanitize,
	})

	return &Builder{
		config:  cfg,
		engine:  engine,
		layout:  layout,
		exclude: exclude,
		log:     log,
		Now:     time.Now,
	}, nil
}

// Result represents the outcome of a build
type Result struct {
	BuildID string
	// Posts in index order, newest first.
	Posts []*post.Post
	// Written lists every file name created in the output directory.
	Written    []string
	Collisions []string
	Pruned     []string
	Errors     []error
	StartTime  time.Time
	EndTime    time.Time
}

// Duration is the wall time of the build
func (r *Result) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// String returns a human-readable summary of the build result
func (r *Result) String() string {
	return fmt.Sprintf(
		"Build complete: %d posts, %d pages written, %d errors (took %v)",
		len(r.Posts),
		len(r.Written),
		len(r.Errors),
		r.Duration().Round(time.Millisecond),
	)
}

// Sources lists the Markdown files the next build would read. Unreadable
// subdirectories are logged and left out.
func (b *Builder) Sources() ([]string, error) {
	files, _, err := b.scan()
	return files, err
}

// scan walks the source directory, logging every entry it had to skip.
func (b *Builder) scan() ([]string, []error, error) {
	files, skipped, err := ScanDirectory(b.config.SourceDir, sourceExt, b.exclude)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", b.config.SourceDir, err)
	}

	var errs []error
	for _, s := range skipped {
		b.log.FileError(s.Path, s.Err)
		errs = append(errs, s)
	}
	return files, errs, nil
}

// reserved reports whether name is a page the build generates itself.
func reserved(name string) bool {
	return name == indexPage || name == tagsPage
}

// Build performs a full rebuild. Per-file problems are collected in
// Result.Errors; only failures to write output abort the build.
func (b *Builder) Build() (*Result, error) {
	ctx := context.Background()
	out := b.config.OutputDir

	result := &Result{StartTime: b.Now()}
	b.log.BuildStarted(b.config.SourceDir, out)

	if err := os.MkdirAll(out, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	sources, skipped, err := b.scan()
	if err != nil {
		return nil, err
	}
	result.Errors = append(result.Errors, skipped...)

	manifestPath := state.Path(out)
	previous, err := state.Load(manifestPath)
	if err != nil {
		b.log.ManifestError("load", err)
		previous = &state.Manifest{Sources: map[string]*state.Entry{}}
	}
	manifest := state.NewManifest(result.StartTime)
	result.BuildID = manifest.BuildID

	var posts []*post.Post
	owners := map[string]int{} // output name -> index in posts
	written := map[string]struct{}{}

	for i, src := range sources {
		b.log.Processing(src)

		p, err := b.readPost(src)
		if err != nil {
			b.log.FileError(src, err)
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", src, err))
			b.progress(i+1, len(sources), src)
			continue
		}

		// index.html and tags.html belong to the generated pages.
		if reserved(p.URL) {
			b.log.Collision(p.URL, src, "generated "+p.URL)
			result.Collisions = append(result.Collisions, p.URL)
			if err := manifest.Record(src, "", p.Title); err != nil {
				b.log.ManifestError("record", err)
			}
			b.progress(i+1, len(sources), src)
			continue
		}

		page := b.layout.Render(p.Title, b.navFor(src), p.Body)
		if err := writePage(out, p.URL, page); err != nil {
			return nil, err
		}
		b.log.PostWritten(src, p.URL)

		if idx, ok := owners[p.URL]; ok {
			b.log.Collision(p.URL, posts[idx].Source, src)
			result.Collisions = append(result.Collisions, p.URL)
			posts[idx] = p
		} else {
			owners[p.URL] = len(posts)
			posts = append(posts, p)
			written[p.URL] = struct{}{}
			result.Written = append(result.Written, p.URL)
		}

		if err := manifest.Record(src, p.URL, p.Title); err != nil {
			b.log.ManifestError("record", err)
		}
		b.progress(i+1, len(sources), src)
	}

	post.SortByDate(posts)
	result.Posts = posts

	pages, err := b.writeAggregates(ctx, posts, result.StartTime)
	if err != nil {
		return nil, err
	}
	for _, name := range pages {
		written[name] = struct{}{}
	}
	result.Written = append(result.Written, pages...)
	manifest.Pages = pages

	result.Pruned = b.prune(previous, written)

	if err := manifest.Save(manifestPath); err != nil {
		b.log.ManifestError("save", err)
	}

	result.EndTime = b.Now()
	b.log.BuildCompleted(len(posts), len(result.Errors), result.Duration())
	return result, nil
}

// Collect resolves every source in memory, in index order, without writing
// anything. Unreadable files are reported in the returned error slice and
// sources that would overwrite a generated page are left out.
func (b *Builder) Collect() ([]*post.Post, []error, error) {
	sources, errs, err := b.scan()
	if err != nil {
		return nil, nil, err
	}

	var posts []*post.Post
	owners := map[string]int{}
	for _, src := range sources {
		p, err := b.readPost(src)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", src, err))
			continue
		}
		if reserved(p.URL) {
			continue
		}
		if idx, ok := owners[p.URL]; ok {
			posts[idx] = p
			continue
		}
		owners[p.URL] = len(posts)
		posts = append(posts, p)
	}

	post.SortByDate(posts)
	return posts, errs, nil
}

// Render produces the full page for one source file without writing it.
func (b *Builder) Render(path string) (*post.Post, []byte, error) {
	p, err := b.readPost(path)
	if err != nil {
		return nil, nil, err
	}
	return p, b.layout.Render(p.Title, b.navFor(path), p.Body), nil
}

// readPost reads, converts and resolves one source file.
func (b *Builder) readPost(src string) (*post.Post, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, err
	}

	meta, body, err := post.SplitFrontMatter(data)
	if err != nil {
		b.log.FrontMatterError(src, err)
	}

	doc, err := b.engine.Convert(body)
	if err != nil {
		return nil, err
	}

	r := post.Resolve(meta, post.Fallbacks{
		Heading:     doc.FirstHeading,
		BaseName:    post.BaseName(src),
		DefaultDate: b.config.DefaultTime(),
		Now:         b.Now(),
		Description: b.config.DefaultDescription,
	})
	if r.DateInvalid {
		b.log.DateFallback(src, r.InvalidDate, r.Date)
	}

	p := r.Post
	p.URL = post.OutputName(src)
	p.Source = src
	p.Body = doc.HTML
	return &p, nil
}

func (b *Builder) navFor(src string) Nav {
	if b.config.AboutPage != "" && filepath.Base(src) == filepath.Base(b.config.AboutPage) {
		return NavAbout
	}
	return NavHome
}

func (b *Builder) progress(done, total int, file string) {
	if b.Progress != nil {
		b.Progress(done, total, file)
	}
}

// writeAggregates writes the index, tag, feed and sitemap pages and returns
// the names written.
func (b *Builder) writeAggregates(ctx context.Context, posts []*post.Post, now time.Time) ([]string, error) {
	out := b.config.OutputDir
	var pages []string

	list, err := renderComponent(ctx, IndexList(posts))
	if err != nil {
		return nil, fmt.Errorf("failed to render index: %w", err)
	}
	if err := writePage(out, indexPage, b.layout.Render(indexTitle, NavHome, list)); err != nil {
		return nil, err
	}
	b.log.PageWritten(indexPage, len(posts))
	pages = append(pages, indexPage)

	groups := post.GroupByTag(posts)
	sections, err := renderComponent(ctx, TagSections(groups))
	if err != nil {
		return nil, fmt.Errorf("failed to render tags: %w", err)
	}
	if err := writePage(out, tagsPage, b.layout.Render(tagsTitle, NavTags, sections)); err != nil {
		return nil, err
	}
	b.log.PageWritten(tagsPage, len(groups))
	pages = append(pages, tagsPage)

	if b.config.BaseURL == "" {
		if b.config.Feed || b.config.Sitemap {
			b.log.Skipped(feedPage+", "+sitemapPage, "base_url not set")
		}
		return pages, nil
	}

	if b.config.Feed {
		feed := buildRSSFeed(b.config.SiteName, b.config.BaseURL, b.config.Language, posts, now)
		if err := writePage(out, feedPage, []byte(feed)); err != nil {
			return nil, err
		}
		b.log.PageWritten(feedPage, min(len(posts), maxFeedItems))
		pages = append(pages, feedPage)
	}

	if b.config.Sitemap {
		sitemap := buildSitemap(b.config.BaseURL, []string{indexPage, tagsPage}, posts, now)
		if err := writePage(out, sitemapPage, []byte(sitemap)); err != nil {
			return nil, err
		}
		b.log.PageWritten(sitemapPage, len(posts)+2)
		pages = append(pages, sitemapPage)
	}

	return pages, nil
}

// prune removes pages the previous build wrote that this one did not.
func (b *Builder) prune(previous *state.Manifest, written map[string]struct{}) []string {
	var pruned []string
	for _, name := range previous.Outputs() {
		if _, ok := written[name]; ok {
			continue
		}
		// Manifest entries are bare file names; anything else is not ours.
		if name != filepath.Base(name) {
			continue
		}
		err := os.Remove(filepath.Join(b.config.OutputDir, name))
		if err != nil {
			if !os.IsNotExist(err) {
				b.log.FileError(name, err)
			}
			continue
		}
		b.log.Pruned(name)
		pruned = append(pruned, name)
	}
	return pruned
}

func writePage(dir, name string, content []byte) error {
	if err := os.WriteFile(filepath.Join(dir, name), content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
