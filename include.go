package asciidoc

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// FSResolver resolves include targets against a directory of an fs.FS.
// Targets must stay inside the filesystem; URLs are rejected.
type FSResolver struct {
	fsys fs.FS
	dir  string
}

var _ interfaces.IncludeResolver = (*FSResolver)(nil)

// NewFSResolver returns a resolver reading targets relative to dir.
func NewFSResolver(fsys fs.FS, dir string) *FSResolver {
	if dir == "" {
		dir = "."
	}
	return &FSResolver{fsys: fsys, dir: dir}
}

// ResolveInclude reads target and returns its lines.
func (r *FSResolver) ResolveInclude(ctx context.Context, target string, _ map[string]string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.Contains(target, "://") {
		return nil, fmt.Errorf("include %q: remote targets are not supported", target)
	}
	name := target
	if !path.IsAbs(name) {
		name = path.Join(r.dir, name)
	}
	name = strings.TrimPrefix(path.Clean(name), "/")
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("include %q: path escapes the filesystem root", target)
	}
	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}
