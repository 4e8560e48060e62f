package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ManifestName is the manifest file written inside the output directory.
const ManifestName = ".inkwell-manifest.json"

// Entry records one source file as of the last build
type Entry struct {
	MTime  int64  `json:"mtime"`
	Hash   string `json:"hash"`
	Output string `json:"output"`
	Title  string `json:"title"`
}

// Manifest describes the last build
type Manifest struct {
	BuildID   string            `json:"build_id"`
	BuildTime time.Time         `json:"build_time"`
	Sources   map[string]*Entry `json:"sources"`
	// Pages are generated files that are not tied to one source.
	Pages []string `json:"pages,omitempty"`
}

// NewManifest creates an empty manifest with a fresh build id
func NewManifest(buildTime time.Time) *Manifest {
	return &Manifest{
		BuildID:   uuid.NewString(),
		BuildTime: buildTime,
		Sources:   make(map[string]*Entry),
	}
}

// Path returns the manifest location for an output directory
func Path(outputDir string) string {
	return filepath.Join(outputDir, ManifestName)
}

// Load reads a manifest. A missing file yields an empty manifest with no
// build id, meaning nothing has been built yet.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{Sources: make(map[string]*Entry)}, nil
		}
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if m.Sources == nil {
		m.Sources = make(map[string]*Entry)
	}

	return &m, nil
}

// Save writes the manifest
func (m *Manifest) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// Built reports whether the manifest comes from a completed build
func (m *Manifest) Built() bool {
	return m.BuildID != ""
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// HasChanged checks if a source differs from the last build.
// Uses hybrid mtime + hash approach
func (m *Manifest) HasChanged(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	entry, exists := m.Sources[path]
	if !exists {
		return true, nil
	}

	// Fast path: check mtime first
	if info.ModTime().Unix() == entry.MTime {
		return false, nil
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}

	return hash != entry.Hash, nil
}

// Record stores the current mtime and hash of a built source
func (m *Manifest) Record(path, output, title string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return err
	}

	m.Sources[path] = &Entry{
		MTime:  info.ModTime().Unix(),
		Hash:   hash,
		Output: output,
		Title:  title,
	}

	return nil
}

// Outputs returns every page name the manifest accounts for, sorted
func (m *Manifest) Outputs() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, e := range m.Sources {
		add(e.Output)
	}
	for _, p := range m.Pages {
		add(p)
	}
	sort.Strings(out)
	return out
}

// Changes lists how the current sources differ from the last build
type Changes struct {
	New     []string
	Changed []string
	Removed []string
}

// Empty reports whether nothing changed
func (c Changes) Empty() bool {
	return len(c.New) == 0 && len(c.Changed) == 0 && len(c.Removed) == 0
}

// Diff compares sources found now against the manifest
func (m *Manifest) Diff(sources []string) (Changes, error) {
	var c Changes
	current := make(map[string]struct{}, len(sources))

	for _, src := range sources {
		current[src] = struct{}{}
		if _, ok := m.Sources[src]; !ok {
			c.New = append(c.New, src)
			continue
		}
		changed, err := m.HasChanged(src)
		if err != nil {
			return Changes{}, err
		}
		if changed {
			c.Changed = append(c.Changed, src)
		}
	}

	for src := range m.Sources {
		if _, ok := current[src]; !ok {
			c.Removed = append(c.Removed, src)
		}
	}

	sort.Strings(c.New)
	sort.Strings(c.Changed)
	sort.Strings(c.Removed)
	return c, nil
}
