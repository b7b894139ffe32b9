package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir is an output directory
type Dir struct {
	path string
}

// NewDir resolves path, expanding a leading ~/, and creates the directory if
// it doesn't exist.
func NewDir(path string) (*Dir, error) {
	if path == "" {
		path = "."
	}

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Dir{path: path}, nil
}

// Path returns the location of name inside the directory. Absolute names are
// returned unchanged.
func (d *Dir) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.path, name)
}

// String returns the directory path
func (d *Dir) String() string {
	return d.path
}

// create opens name for writing, truncating any previous file
func (d *Dir) create(name string) (*os.File, string, error) {
	path := d.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, "", fmt.Errorf("creating directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("creating %s: %w", path, err)
	}
	return f, path, nil
}

// writeFile creates name and runs write against it, closing the file
// afterwards. The first error wins.
func (d *Dir) writeFile(name string, write func(f *os.File) error) (string, error) {
	f, path, err := d.create(name)
	if err != nil {
		return "", err
	}
	if err := write(f); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}
