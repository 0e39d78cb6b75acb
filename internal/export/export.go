package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownFormat is returned for a format name no writer is registered for.
var ErrUnknownFormat = errors.New("unknown export format")

// Writer renders a Model in one output format.
type Writer interface {
	// Name is the format name used by --format and [export].formats.
	Name() string
	// Ext is the file extension including the dot.
	Ext() string
	Write(w io.Writer, m *Model) error
}

var writers = map[string]Writer{}

func register(w Writer) {
	writers[w.Name()] = w
}

func init() {
	register(completionWriter{})
	register(xmlWriter{})
	register(markdownWriter{})
	register(wikiWriter{})
	register(yamlWriter{})
	register(msgpackWriter{})
}

// Names returns the registered format names, sorted.
func Names() []string {
	names := make([]string, 0, len(writers))
	for name := range writers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the writer for name.
func Lookup(name string) (Writer, bool) {
	w, ok := writers[strings.ToLower(strings.TrimSpace(name))]
	return w, ok
}

// ParseFormats resolves a list of names; each entry may itself be a
// comma separated list. Duplicates are dropped, order is kept.
func ParseFormats(values []string) ([]Writer, error) {
	var out []Writer
	seen := make(map[string]bool)
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" || seen[name] {
				continue
			}
			w, ok := writers[name]
			if !ok {
				return nil, fmt.Errorf("%w %q (expected: %s)", ErrUnknownFormat, name, strings.Join(Names(), "|"))
			}
			seen[name] = true
			out = append(out, w)
		}
	}
	return out, nil
}

// FileName returns the output file name for project in format w.
func FileName(project string, w Writer) string {
	base := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, strings.TrimSpace(project))
	if base == "" {
		base = "api"
	}
	return base + w.Ext()
}

// WriteFiles writes m into dir once per writer and returns the paths.
// Each file is written to a temporary name first and renamed into place.
func WriteFiles(dir string, m *Model, formats []Writer) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", dir, err)
	}
	paths := make([]string, 0, len(formats))
	for _, w := range formats {
		path := filepath.Join(dir, FileName(m.Project, w))
		if err := writeFile(path, m, w); err != nil {
			return paths, fmt.Errorf("%s: %w", w.Name(), err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, m *Model, w Writer) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".bindoc-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	buf := bufio.NewWriter(tmp)
	if err = w.Write(buf, m); err != nil {
		return err
	}
	if err = buf.Flush(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
