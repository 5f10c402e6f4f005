// Package testutil provides shared test helpers for catalogs, loaders and preference stores.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/loader"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/theme"
)

// CatalogYAML is a small catalog covering both write-up forms and an undated entry.
const CatalogYAML = `
profile:
  name: Test Owner
  role: Engineer
  blurb: Builds things.
  links:
    github: https://github.com/test-owner
projects:
  - id: alpha
    title: Alpha Solver
    date: "2025-05-01"
    tags: [Go, Numerics]
    summary: An ODE solver.
    links:
      code: https://github.com/test-owner/alpha
    repo: test-owner/alpha
  - id: beta
    title: Beta Notes
    date: "2025-01-10"
    tags: [Numerics]
    summary: Notes on stiff systems.
    paper:
      abstract: Stiff systems need implicit methods.
      findings: Backward Euler is stable.
  - id: gamma
    title: Gamma Tool
    date: sometime
    tags: [Go]
    summary: A formatter.
    repo: test-owner/gamma
    summary_md: docs/summary.md
`

// TestCatalog parses CatalogYAML into a Holder.
func TestCatalog(t *testing.T) *catalog.Holder {
	t.Helper()
	doc, err := catalog.Parse([]byte(CatalogYAML))
	if err != nil {
		t.Fatalf("parse test catalog: %v", err)
	}
	return catalog.NewHolder(doc)
}

// TestTheme opens a temporary preference database that is automatically cleaned up.
func TestTheme(t *testing.T) *theme.Store {
	t.Helper()
	dbFile, err := os.CreateTemp("", "folio-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	s, err := theme.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// StubLoader serves fixed documents keyed by repository. Repositories
// without an entry fail as exhausted.
type StubLoader struct {
	mu    sync.Mutex
	docs  map[string]string
	calls int
}

// NewStubLoader returns a StubLoader serving docs (repo -> text).
func NewStubLoader(docs map[string]string) *StubLoader {
	return &StubLoader{docs: docs}
}

// Load implements loader.DocumentLoader.
func (s *StubLoader) Load(ctx context.Context, ref models.RemoteDoc) (*loader.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	text, ok := s.docs[ref.Repo]
	if !ok {
		return nil, &loader.ExhaustedError{
			Repo: ref.Repo,
			Path: ref.DocumentPath(),
			Attempts: []loader.Attempt{{
				Branch: "main",
				Err:    fmt.Errorf("%w: HTTP 404", loader.ErrNotFound).Error(),
			}},
		}
	}
	return &loader.Document{
		Repo:   ref.Repo,
		Path:   ref.DocumentPath(),
		Branch: "main",
		URL:    "https://raw.example.test/" + ref.Repo + "/main/" + ref.DocumentPath(),
		Text:   text,
	}, nil
}

// Calls reports how many loads were attempted.
func (s *StubLoader) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
