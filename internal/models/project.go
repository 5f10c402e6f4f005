// Package models defines the domain types for folio.
package models

import "strings"

// DefaultDocumentPath is used when a remote write-up does not name a document.
const DefaultDocumentPath = "README.md"

// Project is one portfolio entry.
type Project struct {
	ID      string
	Title   string
	Date    string // YYYY-MM-DD, sort order only
	Tags    []string
	Summary string
	Links   Links
	Writeup Writeup
}

// Links holds optional outbound URLs for a project.
type Links struct {
	Code string `json:"code,omitempty" yaml:"code"`
	Demo string `json:"demo,omitempty" yaml:"demo"`
}

// Writeup is either a *Paper or a *RemoteDoc. The unexported method keeps
// other types from satisfying it.
type Writeup interface {
	writeupKind() string
}

// Writeup kinds.
const (
	KindPaper  = "paper"
	KindRemote = "remote"
)

// Paper is an inline structured write-up.
type Paper struct {
	Abstract    string `json:"abstract" yaml:"abstract"`
	Data        string `json:"data" yaml:"data"`
	Methods     string `json:"methods" yaml:"methods"`
	Approach    string `json:"approach" yaml:"approach"`
	Findings    string `json:"findings" yaml:"findings"`
	Conclusions string `json:"conclusions" yaml:"conclusions"`
}

func (*Paper) writeupKind() string { return KindPaper }

// Markdown composes the paper's sections into a single Markdown document.
// Empty sections are skipped.
func (p *Paper) Markdown(title string) string {
	var b strings.Builder
	if title != "" {
		b.WriteString("# ")
		b.WriteString(title)
		b.WriteString("\n")
	}
	sections := []struct{ heading, text string }{
		{"Abstract", p.Abstract},
		{"Data", p.Data},
		{"Methods", p.Methods},
		{"Approach", p.Approach},
		{"Findings", p.Findings},
		{"Conclusions", p.Conclusions},
	}
	for _, s := range sections {
		text := strings.TrimSpace(s.text)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## ")
		b.WriteString(s.heading)
		b.WriteString("\n\n")
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}

// RemoteDoc points at a Markdown document inside a hosted repository.
type RemoteDoc struct {
	Repo string `json:"repo"` // owner/name
	Path string `json:"path"`
}

func (*RemoteDoc) writeupKind() string { return KindRemote }

// DocumentPath returns Path, or DefaultDocumentPath when unset.
func (r *RemoteDoc) DocumentPath() string {
	p := strings.TrimLeft(strings.TrimSpace(r.Path), "/")
	if p == "" {
		return DefaultDocumentPath
	}
	return p
}

// WriteupKind reports the active case of w, or "" for nil.
func WriteupKind(w Writeup) string {
	if w == nil {
		return ""
	}
	return w.writeupKind()
}

// NormalizeRepo reduces a repository reference to "owner/name". It accepts
// bare identifiers as well as full https URLs with an optional .git suffix.
// ok is false when the result is not of the form owner/name.
func NormalizeRepo(ref string) (string, bool) {
	s := strings.TrimSpace(ref)
	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(strings.ToLower(s), prefix) {
			s = s[len(prefix):]
			if i := strings.Index(s, "/"); i >= 0 {
				s = s[i+1:]
			} else {
				s = ""
			}
			break
		}
	}
	s = strings.Trim(s, "/")
	s = strings.TrimSuffix(s, ".git")
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}
	return parts[0] + "/" + parts[1], true
}
