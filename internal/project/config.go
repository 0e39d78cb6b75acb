package project

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrLayout marks a project that cannot be processed at all:
// no manifest or unusable source directories.
var ErrLayout = errors.New("invalid project layout")

const noManifestMessage = "no " + ManifestName + " found\nrun 'bindoc init' or pass the project root explicitly"

// Manifest is a decoded bindoc.toml together with its location.
type Manifest struct {
	Path    string
	Root    string
	Config  Config
	Digest  Digest
	Unknown []string // ключи, которые toml не смог разложить по Config
}

// Config mirrors the sections of bindoc.toml.
type Config struct {
	Project     ProjectConfig     `toml:"project"`
	Model       ModelConfig       `toml:"model"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Export      ExportConfig      `toml:"export"`
}

type ProjectConfig struct {
	Name       string   `toml:"name"`
	Sources    []string `toml:"sources"`
	Extensions []string `toml:"extensions"`
	Exclude    []string `toml:"exclude"`
}

type ModelConfig struct {
	RootType          string `toml:"root_type"`
	Registration      string `toml:"registration"`
	CheckRegistration bool   `toml:"check_registration"`
}

type DiagnosticsConfig struct {
	Max              int  `toml:"max"`
	WarningsAsErrors bool `toml:"warnings_as_errors"`
}

type ExportConfig struct {
	Formats   []string `toml:"formats"`
	Output    string   `toml:"output"`
	ShowNames bool     `toml:"show_names"`
	Grouping  string   `toml:"grouping"`
}

// DefaultConfig returns the values used for keys absent from the manifest.
func DefaultConfig() Config {
	return Config{
		Project: ProjectConfig{
			Sources:    []string{"."},
			Extensions: []string{".cpp", ".cc", ".cxx", ".h", ".hpp", ".hh", ".inl"},
		},
		Model: ModelConfig{
			RootType: "Object",
		},
		Diagnostics: DiagnosticsConfig{
			Max: 100,
		},
		Export: ExportConfig{
			Formats:   []string{"completion", "markdown"},
			Output:    "doc",
			ShowNames: true,
			Grouping:  "inline",
		},
	}
}

// Load finds bindoc.toml starting at startDir and decodes it over DefaultConfig.
func Load(startDir string) (*Manifest, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLayout, noManifestMessage)
	}
	return LoadFile(manifestPath)
}

// LoadFile decodes the manifest at path.
func LoadFile(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLayout, path, err)
	}
	cfg := DefaultConfig()
	meta, err := toml.Decode(string(content), &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return nil, fmt.Errorf("%s: missing [project]", path)
	}
	if meta.IsDefined("model", "root_type") && strings.TrimSpace(cfg.Model.RootType) == "" {
		return nil, fmt.Errorf("%s: [model].root_type must not be empty", path)
	}
	if cfg.Diagnostics.Max < 0 {
		return nil, fmt.Errorf("%s: [diagnostics].max must be >= 0", path)
	}
	if len(cfg.Project.Sources) == 0 {
		return nil, fmt.Errorf("%w: %s: [project].sources is empty", ErrLayout, path)
	}
	for i, ext := range cfg.Project.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Project.Extensions[i] = ext
	}
	for _, pattern := range cfg.Project.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("%s: bad exclude pattern %q: %w", path, pattern, err)
		}
	}

	m := &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
		Digest: sha256.Sum256(content),
	}
	for _, key := range meta.Undecoded() {
		m.Unknown = append(m.Unknown, key.String())
	}
	if strings.TrimSpace(m.Config.Project.Name) == "" {
		m.Config.Project.Name = filepath.Base(m.Root)
	}
	return m, nil
}

// SourceDirs resolves [project].sources against the project root and
// verifies each one is an existing directory.
func (m *Manifest) SourceDirs() ([]string, error) {
	dirs := make([]string, 0, len(m.Config.Project.Sources))
	seen := make(map[string]struct{}, len(m.Config.Project.Sources))
	for _, rel := range m.Config.Project.Sources {
		dir := filepath.Clean(filepath.Join(m.Root, filepath.FromSlash(rel)))
		if filepath.IsAbs(rel) {
			dir = filepath.Clean(rel)
		}
		if _, dup := seen[dir]; dup {
			continue
		}
		seen[dir] = struct{}{}
		info, err := os.Stat(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s: source directory does not exist: %s", ErrLayout, m.Path, dir)
			}
			return nil, fmt.Errorf("%s: failed to stat source directory: %w", m.Path, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s: source path is not a directory: %s", ErrLayout, m.Path, dir)
		}
		dirs = append(dirs, dir)
	}
	return dirs, nil
}

// OutputDir resolves [export].output against the project root.
func (m *Manifest) OutputDir() string {
	out := m.Config.Export.Output
	if out == "" {
		out = "doc"
	}
	if filepath.IsAbs(out) {
		return filepath.Clean(out)
	}
	return filepath.Join(m.Root, filepath.FromSlash(out))
}

// Excluded reports whether a path relative to the project root matches
// an exclude pattern. Patterns are matched against the full slash path
// and against the base name.
func (m *Manifest) Excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	base := filepath.Base(rel)
	for _, pattern := range m.Config.Project.Exclude {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		// "dir/" исключает поддерево
		if strings.HasSuffix(pattern, "/") && strings.HasPrefix(rel+"/", pattern) {
			return true
		}
	}
	return false
}

// HasExtension reports whether path carries one of the configured extensions.
func (m *Manifest) HasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range m.Config.Project.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}
