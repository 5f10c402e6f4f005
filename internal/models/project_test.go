package models

import (
	"strings"
	"testing"
)

func TestNormalizeRepo(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"christian-ruiz/orbital", "christian-ruiz/orbital", true},
		{"https://github.com/christian-ruiz/Format-Pair-Automation-Tool", "christian-ruiz/Format-Pair-Automation-Tool", true},
		{"https://github.com/owner/name.git", "owner/name", true},
		{"  http://github.com/owner/name/  ", "owner/name", true},
		{"owner", "", false},
		{"owner/name/extra", "", false},
		{"https://github.com", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := NormalizeRepo(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("NormalizeRepo(%q) = %q, %v; want %q, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestRemoteDoc_DefaultPath(t *testing.T) {
	r := &RemoteDoc{Repo: "a/b"}
	if r.DocumentPath() != DefaultDocumentPath {
		t.Errorf("path = %q, want %q", r.DocumentPath(), DefaultDocumentPath)
	}
	r.Path = "/docs/paper.md"
	if r.DocumentPath() != "docs/paper.md" {
		t.Errorf("path = %q", r.DocumentPath())
	}
}

func TestWriteupKind(t *testing.T) {
	if WriteupKind(nil) != "" {
		t.Error("nil writeup should have empty kind")
	}
	if WriteupKind(&Paper{}) != KindPaper {
		t.Error("paper kind")
	}
	if WriteupKind(&RemoteDoc{}) != KindRemote {
		t.Error("remote kind")
	}
}

func TestPaper_MarkdownSkipsEmptySections(t *testing.T) {
	p := &Paper{Abstract: "We model orbits.", Findings: "odeint is stable."}
	md := p.Markdown("Orbits")
	if !strings.HasPrefix(md, "# Orbits\n") {
		t.Errorf("missing title heading: %q", md)
	}
	if !strings.Contains(md, "## Abstract\n\nWe model orbits.") {
		t.Errorf("missing abstract: %q", md)
	}
	if strings.Contains(md, "## Methods") {
		t.Errorf("empty section rendered: %q", md)
	}
}
