// Package markdown prepares fetched Markdown write-ups for display: it
// strips YAML frontmatter, derives a title and resolves relative links
// against the document's source URL.
package markdown

import (
	"net/url"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// linkRe matches inline links and images: [text](target "title").
var linkRe = regexp.MustCompile(`(!?\[[^\]]*\]\()([^)\s]+)(\s+"[^"]*")?\)`)

// Document is a prepared write-up.
type Document struct {
	Frontmatter map[string]any
	Body        string
	Title       string
}

// Parse splits frontmatter from body and derives the title.
func Parse(text string) Document {
	fm, body := splitFrontmatter(text)
	return Document{
		Frontmatter: fm,
		Body:        body,
		Title:       deriveTitle(fm, body),
	}
}

// Prepare parses text and resolves its relative link targets against docURL.
func Prepare(text, docURL string) Document {
	d := Parse(text)
	d.Body = ResolveLinks(d.Body, docURL)
	return d
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. Without valid frontmatter the entire text is body.
func splitFrontmatter(text string) (map[string]any, string) {
	const delim = "---"
	trimmed := strings.TrimLeft(text, "\n\r")

	if !strings.HasPrefix(trimmed, delim+"\n") && !strings.HasPrefix(trimmed, delim+"\r\n") {
		return nil, text
	}

	rest := trimmed[len(delim):]
	idx := strings.Index(rest, "\n"+delim)
	if idx < 0 {
		return nil, text
	}

	yamlBlock := rest[:idx]
	body := strings.TrimLeft(rest[idx+1+len(delim):], "\n\r")

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(yamlBlock), &fm); err != nil || fm == nil {
		return nil, text
	}
	return fm, body
}

// deriveTitle returns the frontmatter "title" if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(fm map[string]any, body string) string {
	if s, ok := fm["title"].(string); ok && s != "" {
		return s
	}
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if !inFence && strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

// ResolveLinks rewrites relative link and image targets in body to absolute
// URLs relative to docURL. Absolute URLs, fragments and root-relative paths
// are left alone, as is everything when docURL does not parse.
func ResolveLinks(body, docURL string) string {
	base, err := url.Parse(docURL)
	if err != nil || !base.IsAbs() {
		return body
	}
	return linkRe.ReplaceAllStringFunc(body, func(m string) string {
		parts := linkRe.FindStringSubmatch(m)
		target := parts[2]
		if !isRelative(target) {
			return m
		}
		ref, err := url.Parse(target)
		if err != nil {
			return m
		}
		return parts[1] + base.ResolveReference(ref).String() + parts[3] + ")"
	})
}

func isRelative(target string) bool {
	if strings.HasPrefix(target, "#") || strings.HasPrefix(target, "/") {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
