package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug line on Logger. It implements all
// four hook interfaces.
type LogHooks struct {
	Logger *log.Logger
}

// InstallLogHooks registers a LogHooks for every event category.
func InstallLogHooks(l *log.Logger) *LogHooks {
	h := &LogHooks{Logger: l.WithPrefix("hooks")}
	SetPipelineHooks(h)
	SetSimulationHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
	return h
}

func (h *LogHooks) OnLoadStart(_ context.Context, uri string) {
	h.Logger.Debug("load start", "source", uri)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, uri string, nodes, links int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("load failed", "source", uri, "error", err)
		return
	}
	h.Logger.Debug("load done", "source", uri, "nodes", nodes, "links", links, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("render done", "formats", formats, "duration", d, "error", err)
}

func (h *LogHooks) OnRebind(nodes, links int) {
	h.Logger.Debug("rebind", "nodes", nodes, "links", links)
}

func (h *LogHooks) OnRecluster(clusters int, d time.Duration, err error) {
	h.Logger.Debug("recluster", "clusters", clusters, "duration", d, "error", err)
}

func (h *LogHooks) OnSettle(ticks int) {
	h.Logger.Debug("settled", "ticks", ticks)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}
