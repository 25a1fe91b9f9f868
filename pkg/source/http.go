package source

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/forcegraph/pkg/cache"
	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability"
)

func (f *Fetcher) openHTTP(ctx context.Context, uri string) (graph.Dataset, error) {
	if err := errs.ValidateURL(uri); err != nil {
		return graph.Dataset{}, err
	}
	key := f.Keyer.HTTPKey(uri)
	if data, hit, err := f.Cache.Get(ctx, key); err == nil && hit {
		f.Logger.Debug("dataset cache hit", "url", uri)
		return graph.UnmarshalDataset(data)
	}

	data, err := f.get(ctx, uri)
	if err != nil {
		return graph.Dataset{}, err
	}
	ds, err := graph.UnmarshalDataset(data)
	if err != nil {
		return graph.Dataset{}, err
	}
	if err := f.Cache.Set(ctx, key, data, cache.TTLHTTP); err != nil {
		f.Logger.Warn("cache dataset", "url", uri, "err", err)
	}
	return ds, nil
}

func (f *Fetcher) get(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "malformed url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()

	resp, err := f.HTTP.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errs.Wrap(errs.ErrCodeTimeout, err, "fetch %s", uri)
		}
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "fetch %s", uri)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.New(errs.ErrCodeNetwork, "fetch %s: status %d", uri, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "read %s", uri)
	}
	return data, nil
}
