package source

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/cache"
	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

const httpTimeout = 30 * time.Second

// Fetcher resolves dataset locations.
type Fetcher struct {
	HTTP   *http.Client
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewFetcher returns a fetcher with a default HTTP client. A nil cache
// disables response caching.
func NewFetcher(c cache.Cache, logger *log.Logger) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{
		HTTP:   &http.Client{Timeout: httpTimeout},
		Cache:  c,
		Keyer:  cache.NewDefaultKeyer(),
		Logger: logger,
	}
}

// Open loads the dataset at uri with an uncached fetcher.
func Open(ctx context.Context, uri string) (graph.Dataset, error) {
	return NewFetcher(nil, nil).Open(ctx, uri)
}

// Open loads the dataset at uri.
func (f *Fetcher) Open(ctx context.Context, uri string) (graph.Dataset, error) {
	if err := errs.ValidateSourceURI(uri); err != nil {
		return graph.Dataset{}, err
	}

	scheme, _, ok := strings.Cut(uri, "://")
	if !ok {
		return graph.ReadDatasetFile(uri)
	}
	switch scheme {
	case "file":
		u, err := url.Parse(uri)
		if err != nil {
			return graph.Dataset{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "malformed file location")
		}
		return graph.ReadDatasetFile(u.Path)
	case "http", "https":
		return f.openHTTP(ctx, uri)
	case "mongodb", "mongodb+srv":
		return openMongo(ctx, uri)
	}
	return graph.Dataset{}, errs.New(errs.ErrCodeUnsupported, "unsupported dataset scheme %q", scheme)
}
