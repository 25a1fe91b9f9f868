// Package cache stores fetched datasets, settled layouts and rendered frames.
//
// Three backends share the [Cache] interface: [FileCache] for the CLI,
// [RedisCache] for the frame server, and [NullCache] when caching is off.
// Keys are built by a [Keyer] so that every backend lays out entries the
// same way.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Entry lifetimes.
const (
	TTLHTTP     = time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey keys a raw HTTP response body by URL.
	HTTPKey(url string) string
	// LayoutKey keys settled node positions by dataset hash and the
	// options that drive the simulation.
	LayoutKey(datasetHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys a rendered frame by layout hash and format.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a settled layout.
type LayoutKeyOpts struct {
	Ticks     int    `json:"ticks"`
	Recluster bool   `json:"recluster"`
	Config    string `json:"config"`
}

// ArtifactKeyOpts holds every option that changes a rendered frame.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Config string `json:"config"`
}

// DefaultKeyer is the standard key layout: "<kind>:<hash>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) HTTPKey(url string) string { return "http:" + url }

func (DefaultKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", datasetHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(fmt.Sprintf("artifact:%s", opts.Format), layoutHash, opts)
}

// KeyType returns the kind segment of a key ("http", "layout", ...),
// skipping any scope prefix added by [ScopedKeyer]. It is used to label
// cache metrics.
func KeyType(key string) string {
	for _, kind := range []string{"http", "layout", "artifact"} {
		if strings.HasPrefix(key, kind+":") || strings.Contains(key, ":"+kind+":") {
			return kind
		}
	}
	return "other"
}
