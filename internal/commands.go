package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/starford/folio/internal/mcpserver"
	"github.com/starford/folio/internal/portfolio"
	"github.com/starford/folio/internal/render"
)

// ErrWriteupUnavailable is returned by Show when the write-up could not be loaded.
var ErrWriteupUnavailable = errors.New("write-up unavailable")

// RunMCP serves the MCP tools on stdin/stdout until the client disconnects.
func RunMCP(_ context.Context, opts ...Option) error {
	app := newApplication(opts)

	c, err := setup(app)
	if err != nil {
		return err
	}
	defer c.close()

	svc := portfolio.NewService(c.catalog, c.loader,
		portfolio.WithPreferences(c.prefs),
		portfolio.WithLogger(c.logger))

	c.logger.Info("MCP server starting", slog.String("version", app.version))
	if err := mcpserver.New(svc, app.version).ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// ListOptions selects the projects printed by List.
type ListOptions struct {
	Query string
	Tags  []string
}

// List prints the filtered catalog to w.
func List(ctx context.Context, w io.Writer, lo ListOptions, opts ...Option) error {
	c, err := setup(newApplication(opts))
	if err != nil {
		return err
	}
	defer c.close()

	svc := portfolio.NewService(c.catalog, c.loader, portfolio.WithLogger(c.logger))
	return render.ProjectList(w, svc.ListProjects(ctx, lo.Query, lo.Tags))
}

// Show loads one project's write-up and prints it rendered for the terminal,
// styled after the saved theme preference.
func Show(ctx context.Context, w io.Writer, id string, width int, opts ...Option) error {
	c, err := setup(newApplication(opts))
	if err != nil {
		return err
	}
	defer c.close()

	svc := portfolio.NewService(c.catalog, c.loader,
		portfolio.WithPreferences(c.prefs),
		portfolio.WithLogger(c.logger))

	res, err := svc.Writeup(ctx, id)
	if err != nil {
		return err
	}

	style := render.StyleAuto
	if dark, err := svc.DarkMode(ctx); err == nil {
		style = render.StyleFor(dark)
	}
	r, err := render.New(style, width)
	if err != nil {
		return err
	}

	text := res.Text
	if res.Failed {
		text = res.Error
	}
	out, err := r.Render(text, res.Failed)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, out); err != nil {
		return err
	}
	if res.Failed {
		return fmt.Errorf("%s: %w", id, ErrWriteupUnavailable)
	}
	return nil
}
