package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/yaml.v3"

	"github.com/starford/folio/internal/models"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

// Document is a parsed catalog file.
type Document struct {
	Profile models.Profile
	Store   *Store
}

type fileYAML struct {
	Profile  models.Profile `yaml:"profile"`
	Projects []projectYAML  `yaml:"projects"`
}

type projectYAML struct {
	ID        string        `yaml:"id"`
	Title     string        `yaml:"title"`
	Date      string        `yaml:"date"`
	Tags      []string      `yaml:"tags"`
	Summary   string        `yaml:"summary"`
	Links     models.Links  `yaml:"links"`
	Paper     *models.Paper `yaml:"paper"`
	Repo      string        `yaml:"repo"`
	SummaryMd string        `yaml:"summary_md"`
}

// Validate checks the record's fields and the write-up union.
func (p *projectYAML) Validate() error {
	if err := validation.ValidateStruct(p,
		validation.Field(&p.ID, validation.Required),
		validation.Field(&p.Title, validation.Required),
	); err != nil {
		return err
	}
	if err := validation.ValidateStruct(&p.Links,
		validation.Field(&p.Links.Code, is.URL),
		validation.Field(&p.Links.Demo, is.URL),
	); err != nil {
		return fmt.Errorf("links: %w", err)
	}

	hasRemote := strings.TrimSpace(p.Repo) != ""
	switch {
	case p.Paper != nil && hasRemote:
		return fmt.Errorf("both paper and repo are set")
	case p.Paper == nil && !hasRemote:
		return fmt.Errorf("one of paper or repo is required")
	case p.Paper != nil && p.SummaryMd != "":
		return fmt.Errorf("summary_md requires repo")
	}
	if hasRemote {
		if _, ok := models.NormalizeRepo(p.Repo); !ok {
			return fmt.Errorf("repo %q is not of the form owner/name", p.Repo)
		}
	}
	return nil
}

func (p *projectYAML) toModel() models.Project {
	out := models.Project{
		ID:      p.ID,
		Title:   p.Title,
		Date:    p.Date,
		Tags:    p.Tags,
		Summary: p.Summary,
		Links:   p.Links,
	}
	if p.Paper != nil {
		paper := *p.Paper
		out.Writeup = &paper
	} else {
		repo, _ := models.NormalizeRepo(p.Repo)
		out.Writeup = &models.RemoteDoc{Repo: repo, Path: p.SummaryMd}
	}
	return out
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Document, error) {
	var f fileYAML
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}

	projects := make([]models.Project, 0, len(f.Projects))
	for i := range f.Projects {
		p := &f.Projects[i]
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: project #%d (%s): %w", i, p.ID, err)
		}
		projects = append(projects, p.toModel())
	}

	store, err := New(projects)
	if err != nil {
		return nil, err
	}
	return &Document{Profile: f.Profile, Store: store}, nil
}

// Load reads the catalog at path, or the embedded default catalog when path is empty.
func Load(path string) (*Document, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}
