package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Template returns a starter manifest for a project called name.
func Template(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "bindings"
	}
	return fmt.Sprintf(`# bindoc project manifest
[project]
name = %q
sources = ["src"]
extensions = [".cpp", ".h", ".hpp"]
exclude = []

[model]
root_type = "Object"
# регулярка с группой (?P<name>...) для поиска регистраций классов
registration = ""
check_registration = false

[diagnostics]
max = 100
warnings_as_errors = false

[export]
formats = ["completion", "markdown"]
output = "doc"
show_names = true
grouping = "inline"
`, name)
}

// WriteTemplate creates dir when needed and writes bindoc.toml into it.
// An existing manifest is kept unless force is set.
func WriteTemplate(dir, name string, force bool) (string, error) {
	if st, err := os.Stat(dir); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	} else if !st.IsDir() {
		return "", fmt.Errorf("%q is not a directory", dir)
	}
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("project already initialized: %s exists", path)
	}
	if err := os.WriteFile(path, []byte(Template(name)), 0o600); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}
