package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/forcegraph/pkg/app"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/render/nodelink"
)

// Render draws the current state of a in every format. Formats are
// rendered concurrently; the view is only read.
func Render(ctx context.Context, a *app.App, formats []string) (map[string][]byte, error) {
	var mu sync.Mutex
	out := make(map[string][]byte, len(formats))

	g, ctx := errgroup.WithContext(ctx)
	for _, format := range formats {
		g.Go(func() error {
			data, err := RenderFormat(ctx, a, format)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			out[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// RenderFormat draws the current state of a in one format.
func RenderFormat(ctx context.Context, a *app.App, format string) ([]byte, error) {
	w, h := a.Config.Canvas.Width, a.Config.Canvas.Height
	alpha, selected := a.Sim.Alpha(), a.Selected()

	switch format {
	case FormatPNG:
		var buf bytes.Buffer
		if err := render.EncodePNG(&buf, a.Renderer, w, h, alpha, selected); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatSVG:
		return render.EncodeSVG(a.Renderer, w, h, alpha, selected), nil
	case FormatDOT:
		return []byte(dot(a)), nil
	case FormatNeato:
		return nodelink.RenderSVG(ctx, dot(a))
	case FormatJSON:
		var buf bytes.Buffer
		if err := graph.WriteGraph(a.Graph, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, ValidateFormat(format)
}

func dot(a *app.App) string {
	return nodelink.ToDOT(a.VisibleNodes(), a.VisibleLinks(), nodelink.Options{
		Colors: a.Renderer.Color,
		Height: float64(a.Config.Canvas.Height),
	})
}
