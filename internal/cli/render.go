package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/internal/presentation/tui"
	loamAdapter "github.com/aretw0/arbor/pkg/adapters/loam"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/renderer/middleware"
)

// RenderOptions holds the flags shared by render and inspect.
type RenderOptions struct {
	Dir         string
	View        string
	ContextFile string
	Set         []string
	// Refresh runs this many Update passes after the initial render.
	Refresh int
	Stats   bool
	Format  string
	Logger  *slog.Logger
}

func (o RenderOptions) context() (map[string]any, error) {
	vars := map[string]any{}
	if o.ContextFile != "" {
		fromFile, err := LoadContextFile(o.ContextFile)
		if err != nil {
			return nil, err
		}
		maps.Copy(vars, fromFile)
	}
	fromFlags, err := ParseContext(o.Set)
	if err != nil {
		return nil, err
	}
	maps.Copy(vars, fromFlags)
	return vars, nil
}

func (o RenderOptions) mount(ctx context.Context) (*arbor.Engine, *arbor.Root, error) {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lib, err := loamAdapter.LoadLibrary(ctx, o.Dir)
	if err != nil {
		return nil, nil, err
	}
	vars, err := o.context()
	if err != nil {
		return nil, nil, err
	}
	eng, err := arbor.New(
		arbor.WithLibrary(lib),
		arbor.WithLogger(logger),
		arbor.WithMiddleware(middleware.Logging(logger)),
		arbor.WithLifecycleHooks(observability.LoggingHooks(logger)),
	)
	if err != nil {
		return nil, nil, err
	}
	root, err := eng.Render(ctx, o.View, vars)
	if err != nil {
		return nil, nil, fmt.Errorf("render '%s': %w", o.View, err)
	}
	for i := 0; i < o.Refresh; i++ {
		if err := root.Refresh(ctx); err != nil {
			return nil, nil, fmt.Errorf("refresh %d of '%s': %w", i+1, o.View, err)
		}
	}
	return eng, root, nil
}

// Render writes the HTML of a view to w, followed by the renderer stats when requested.
func Render(ctx context.Context, w io.Writer, opts RenderOptions) error {
	eng, root, err := opts.mount(ctx)
	if err != nil {
		return err
	}
	html, err := root.HTML()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, html)
	if opts.Stats {
		fmt.Fprintln(w)
		tui.PrintStats(w, Profile(w), eng.Stats())
	}
	return root.Destroy(ctx)
}

// Inspect writes the view tree of a view to w as markdown, mermaid or json.
// Markdown is rendered with glamour, colored only on a terminal.
func Inspect(ctx context.Context, w io.Writer, opts RenderOptions) error {
	_, root, err := opts.mount(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = root.Destroy(ctx) }()

	info := root.Inspect()
	switch opts.Format {
	case "mermaid":
		_, err = io.WriteString(w, graph.GenerateMermaid(info, nil))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "", "markdown":
		render, err := tui.NewRenderer(IsTerminal(w))
		if err != nil {
			return err
		}
		out, err := render(graph.GenerateOutline(info))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	}
	return fmt.Errorf("unknown format %q (markdown, mermaid, json)", opts.Format)
}

// ListViews writes the blueprint names found in dir.
func ListViews(ctx context.Context, w io.Writer, dir string) error {
	lib, err := loamAdapter.LoadLibrary(ctx, dir)
	if err != nil {
		return err
	}
	for _, name := range lib.Names() {
		fmt.Fprintln(w, name)
	}
	return nil
}
