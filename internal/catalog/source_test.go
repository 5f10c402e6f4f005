package catalog

import (
	"strings"
	"testing"

	"github.com/starford/folio/internal/models"
)

func TestLoad_EmbeddedDefault(t *testing.T) {
	doc, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Profile.Name == "" {
		t.Error("embedded profile has no name")
	}
	p, ok := doc.Store.Get("orbital-ode-visualizer")
	if !ok {
		t.Fatal("embedded catalog missing orbital-ode-visualizer")
	}
	remote, ok := p.Writeup.(*models.RemoteDoc)
	if !ok {
		t.Fatalf("writeup = %T, want *models.RemoteDoc", p.Writeup)
	}
	if remote.Repo != "christian-ruiz/Format-Pair-Automation-Tool" {
		t.Errorf("repo not normalized: %q", remote.Repo)
	}
	if remote.DocumentPath() != "docs/paper.md" {
		t.Errorf("path = %q", remote.DocumentPath())
	}
}

func TestParse_PaperAndDefaultPath(t *testing.T) {
	doc, err := Parse([]byte(`
projects:
  - id: inline
    title: Inline
    date: "2025-01-01"
    paper:
      abstract: short
  - id: remote
    title: Remote
    date: "2025-01-02"
    repo: owner/name
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, _ := doc.Store.Get("inline")
	if paper, ok := p.Writeup.(*models.Paper); !ok || paper.Abstract != "short" {
		t.Errorf("inline writeup = %#v", p.Writeup)
	}
	r, _ := doc.Store.Get("remote")
	if remote, ok := r.Writeup.(*models.RemoteDoc); !ok || remote.DocumentPath() != models.DefaultDocumentPath {
		t.Errorf("remote writeup = %#v", r.Writeup)
	}
}

func TestParse_RejectsBothWriteups(t *testing.T) {
	_, err := Parse([]byte(`
projects:
  - id: both
    title: Both
    date: "2025-01-01"
    repo: owner/name
    paper:
      abstract: x
`))
	if err == nil || !strings.Contains(err.Error(), "both paper and repo") {
		t.Fatalf("err = %v, want both-writeups error", err)
	}
}

func TestParse_RejectsNoWriteup(t *testing.T) {
	_, err := Parse([]byte(`
projects:
  - id: none
    title: None
    date: "2025-01-01"
`))
	if err == nil {
		t.Fatal("record without write-up should fail")
	}
}

func TestParse_RejectsBadRepoAndLinks(t *testing.T) {
	if _, err := Parse([]byte(`
projects:
  - id: a
    title: A
    date: "2025-01-01"
    repo: just-a-name
`)); err == nil {
		t.Error("repo without owner should fail")
	}
	if _, err := Parse([]byte(`
projects:
  - id: a
    title: A
    date: "2025-01-01"
    repo: owner/name
    links:
      demo: "not a url"
`)); err == nil {
		t.Error("invalid demo link should fail")
	}
}

func TestParse_DuplicateIDs(t *testing.T) {
	_, err := Parse([]byte(`
projects:
  - {id: a, title: A, date: "2025-01-01", repo: o/a}
  - {id: a, title: B, date: "2025-01-02", repo: o/b}
`))
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("err = %v, want duplicate id error", err)
	}
}

func TestParse_UndatedProjectSortsLast(t *testing.T) {
	doc, err := Parse([]byte(`
projects:
  - id: older
    title: Older
    date: "2023-06-01"
    repo: owner/older
  - id: undated
    title: Undated
    repo: owner/undated
  - id: newer
    title: Newer
    date: "2024-01-01"
    repo: owner/newer
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var got []string
	for _, p := range doc.Store.Filter("", nil) {
		got = append(got, p.ID)
	}
	want := []string{"newer", "older", "undated"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", got, want)
	}
}
