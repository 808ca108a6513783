package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Dir writes artifacts into a local directory, creating it on first use.
type Dir struct {
	Root      string
	URLPrefix string
}

// NewDir returns a Dir sink rooted at root whose URLs start with urlPrefix.
func NewDir(root, urlPrefix string) *Dir {
	return &Dir{Root: root, URLPrefix: strings.TrimSuffix(urlPrefix, "/")}
}

// Put writes data to Root/name.
func (d *Dir) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.Root, 0o755); err != nil {
		return "", eris.Wrapf(err, "storage: create %s", d.Root)
	}

	path := filepath.Join(d.Root, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", eris.Wrapf(err, "storage: write %s", path)
	}
	return d.URLPrefix + "/" + name, nil
}
