package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/folio/internal/portfolio"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	metaStyle  = lipgloss.NewStyle().Faint(true)
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// ProjectList writes one block per project: title and id, then date, kind and tags.
func ProjectList(w io.Writer, items []portfolio.ProjectItem) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, metaStyle.Render("No projects match."))
		return err
	}
	for _, it := range items {
		meta := it.Date + " · " + it.WriteupKind
		if len(it.Tags) > 0 {
			meta += " · " + strings.Join(it.Tags, ", ")
		}
		if _, err := fmt.Fprintf(w, "%s  %s\n  %s\n",
			titleStyle.Render(it.Title),
			idStyle.Render(it.ID),
			metaStyle.Render(meta),
		); err != nil {
			return err
		}
	}
	return nil
}
