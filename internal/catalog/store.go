// Package catalog holds the immutable project catalog and answers filtered views of it.
package catalog

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/starford/folio/internal/models"
)

const dateLayout = "2006-01-02"

type entry struct {
	project models.Project
	date    time.Time
	dated   bool // false when the date did not parse; such entries sort last
	search  []string
}

// Store is a read-only, ordered set of projects. It is safe for concurrent use
// because nothing mutates it after New returns.
type Store struct {
	entries []entry
	byID    map[string]int
	tags    []string
}

// New builds a Store from projects, preserving their order. It fails on
// duplicate or empty IDs and on records without exactly one write-up.
func New(projects []models.Project) (*Store, error) {
	s := &Store{
		entries: make([]entry, 0, len(projects)),
		byID:    make(map[string]int, len(projects)),
	}
	universe := make(map[string]struct{})

	for i, p := range projects {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog: project #%d has no id", i)
		}
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate project id %q", p.ID)
		}
		if models.WriteupKind(p.Writeup) == "" {
			return nil, fmt.Errorf("catalog: project %q has no write-up", p.ID)
		}

		p.Tags = normalizeTags(p.Tags)
		for _, t := range p.Tags {
			universe[t] = struct{}{}
		}

		e := entry{project: p}
		if d, err := time.Parse(dateLayout, strings.TrimSpace(p.Date)); err == nil {
			e.date, e.dated = d, true
		}
		e.search = append([]string{strings.ToLower(p.Title), strings.ToLower(p.Summary)}, p.Tags...)

		s.byID[p.ID] = len(s.entries)
		s.entries = append(s.entries, e)
	}

	s.tags = make([]string, 0, len(universe))
	for t := range universe {
		s.tags = append(s.tags, t)
	}
	slices.Sort(s.tags)
	return s, nil
}

// Len returns the number of projects.
func (s *Store) Len() int { return len(s.entries) }

// Projects returns every project in catalog order.
func (s *Store) Projects() []models.Project {
	out := make([]models.Project, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.project
	}
	return out
}

// Get looks up a project by ID.
func (s *Store) Get(id string) (models.Project, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Project{}, false
	}
	return s.entries[i].project, true
}

// TagUniverse returns every tag used in the catalog, lowercased, once each,
// in lexicographic order.
func (s *Store) TagUniverse() []string {
	return slices.Clone(s.tags)
}

// Filter returns the projects matching query and carrying every tag in
// selected, most recent first. Projects with equal dates keep catalog order.
func (s *Store) Filter(query string, selected []string) []models.Project {
	q := strings.ToLower(strings.TrimSpace(query))
	want := normalizeTags(selected)

	matched := make([]entry, 0, len(s.entries))
	for _, e := range s.entries {
		if !matchesQuery(e, q) || !hasAllTags(e.project.Tags, want) {
			continue
		}
		matched = append(matched, e)
	}

	slices.SortStableFunc(matched, compareRecency)

	out := make([]models.Project, len(matched))
	for i, e := range matched {
		out[i] = e.project
	}
	return out
}

func matchesQuery(e entry, q string) bool {
	if q == "" {
		return true
	}
	for _, field := range e.search {
		if strings.Contains(field, q) {
			return true
		}
	}
	return false
}

func hasAllTags(have, want []string) bool {
	for _, w := range want {
		if !slices.Contains(have, w) {
			return false
		}
	}
	return true
}

// compareRecency orders dated entries newest first and undated entries last.
func compareRecency(a, b entry) int {
	switch {
	case a.dated && b.dated:
		return b.date.Compare(a.date)
	case a.dated:
		return -1
	case b.dated:
		return 1
	default:
		return 0
	}
}

// normalizeTags lowercases and trims tags, dropping blanks and duplicates.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
