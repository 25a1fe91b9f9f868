package server

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

// DefaultMaxSessions caps live sessions per server.
const DefaultMaxSessions = 64

// SourcePolicy limits the dataset locations clients may name.
//
// Local datasets are relative paths under DataDir; absolute paths, parent
// references and symlinks leaving the directory are refused. file:// is
// never served. Remote schemes are refused unless Remote is set.
type SourcePolicy struct {
	// DataDir roots local dataset paths. Empty disables local datasets.
	DataDir string
	// Remote allows http(s) and mongodb sources.
	Remote bool
}

// Resolve checks uri against the policy and returns the location to load.
func (p SourcePolicy) Resolve(uri string) (string, error) {
	if err := errs.ValidateSourceURI(uri); err != nil {
		return "", err
	}

	if scheme, _, ok := strings.Cut(uri, "://"); ok {
		if scheme == "file" {
			return "", errs.New(errs.ErrCodeForbidden, "file:// sources are not served")
		}
		if !p.Remote {
			return "", errs.New(errs.ErrCodeForbidden, "remote dataset sources are disabled")
		}
		return uri, nil
	}

	if p.DataDir == "" {
		return "", errs.New(errs.ErrCodeForbidden, "local dataset sources are disabled")
	}
	name := filepath.FromSlash(uri)
	if !filepath.IsLocal(name) {
		return "", errs.New(errs.ErrCodeForbidden, "dataset %q is outside the data directory", uri)
	}

	root, err := os.OpenRoot(p.DataDir)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInternal, err, "open data directory")
	}
	defer root.Close()
	f, err := root.Open(name)
	switch {
	case err == nil:
		f.Close()
	case errors.Is(err, fs.ErrNotExist):
		return "", errs.New(errs.ErrCodeFileNotFound, "dataset %q not found", uri)
	default:
		return "", errs.New(errs.ErrCodeForbidden, "dataset %q is outside the data directory", uri)
	}
	return filepath.Join(p.DataDir, name), nil
}
