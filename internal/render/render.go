// Package render turns loaded write-ups into terminal output.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Styles accepted by New.
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
)

// DefaultWidth is the word-wrap width used when none is given.
const DefaultWidth = 80

// Renderer renders Markdown for a terminal.
type Renderer struct {
	tr *glamour.TermRenderer
}

// New creates a Renderer wrapping at width columns in the given style.
func New(style string, width int) (*Renderer, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	var styleOpt glamour.TermRendererOption
	switch style {
	case "", StyleAuto:
		styleOpt = glamour.WithAutoStyle()
	case StyleDark, StyleLight:
		styleOpt = glamour.WithStandardStyle(style)
	default:
		return nil, fmt.Errorf("render: unknown style %q", style)
	}

	tr, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return &Renderer{tr: tr}, nil
}

// StyleFor maps the dark-mode preference onto a style.
func StyleFor(dark bool) string {
	if dark {
		return StyleDark
	}
	return StyleLight
}

// Render renders text as Markdown. A failed write-up is shown as its
// message only, without Markdown processing.
func (r *Renderer) Render(text string, failed bool) (string, error) {
	if failed {
		return strings.TrimSpace(text) + "\n", nil
	}
	out, err := r.tr.Render(text)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return out, nil
}
