// Package loader resolves and retrieves remote project write-ups.
//
// A write-up lives at {repo}/{branch}/{path} on a raw-content host. The
// branch is unknown up front, so the loader tries a fixed list of candidate
// branches in order, one request at a time, and returns the first document
// that loads. Session layers a single-slot state machine on top so that a
// late result for a superseded selection is never published.
package loader

import (
	"context"
	"errors"
	"log/slog"

	"github.com/starford/folio/internal/markdown"
	"github.com/starford/folio/internal/models"
)

// DefaultBranches is the candidate branch order.
var DefaultBranches = []string{"main", "master"}

// Document is a successfully loaded write-up.
type Document struct {
	Repo   string `json:"repo"`
	Path   string `json:"path"`
	Branch string `json:"branch"`
	URL    string `json:"url"`
	Title  string `json:"title,omitempty"`
	Text   string `json:"text"`
}

// newDocument strips frontmatter from the fetched text and resolves its
// relative links against url.
func newDocument(repo, path, branch, url, text string) *Document {
	md := markdown.Prepare(text, url)
	return &Document{Repo: repo, Path: path, Branch: branch, URL: url, Title: md.Title, Text: md.Body}
}

// Loader fetches remote write-ups with branch fallback.
type Loader struct {
	fetcher  Fetcher
	branches []string
	cache    Cache
	logger   *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithBranches overrides the candidate branches. Empty lists are ignored.
func WithBranches(branches ...string) Option {
	return func(l *Loader) {
		if len(branches) > 0 {
			l.branches = append([]string(nil), branches...)
		}
	}
}

// WithCache enables caching of fetched documents.
func WithCache(c Cache) Option {
	return func(l *Loader) { l.cache = c }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// New creates a Loader backed by fetcher.
func New(fetcher Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher:  fetcher,
		branches: append([]string(nil), DefaultBranches...),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Branches returns the candidate branches in priority order.
func (l *Loader) Branches() []string {
	return append([]string(nil), l.branches...)
}

// Load tries each candidate branch in order and returns the first document
// that loads. Network and not-found failures both advance to the next
// branch; when none succeeds the error is an *ExhaustedError. Cancelling
// ctx stops the sequence and returns ctx.Err().
func (l *Loader) Load(ctx context.Context, ref models.RemoteDoc) (*Document, error) {
	repo, path := ref.Repo, ref.DocumentPath()
	attempts := make([]Attempt, 0, len(l.branches))

	for _, branch := range l.branches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		url := l.fetcher.URL(repo, branch, path)
		key := CacheKey{Repo: repo, Path: path, Branch: branch}

		if text, ok := l.cached(ctx, key); ok {
			l.logger.Debug("loader: cache hit", slog.String("key", key.String()))
			return newDocument(repo, path, branch, url, text), nil
		}

		text, err := l.fetcher.Fetch(ctx, repo, branch, path)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			l.logger.Debug("loader: candidate failed",
				slog.String("url", url),
				slog.String("kind", failureKind(err)),
				slog.String("error", err.Error()))
			attempts = append(attempts, Attempt{Branch: branch, URL: url, Err: err.Error()})
			continue
		}

		if l.cache != nil {
			if err := l.cache.Set(ctx, key, text); err != nil {
				l.logger.Warn("loader: cache set failed", slog.String("key", key.String()), slog.String("error", err.Error()))
			}
		}
		l.logger.Debug("loader: loaded", slog.String("url", url), slog.Int("bytes", len(text)))
		return newDocument(repo, path, branch, url, text), nil
	}

	return nil, &ExhaustedError{Repo: repo, Path: path, Attempts: attempts}
}

func (l *Loader) cached(ctx context.Context, key CacheKey) (string, bool) {
	if l.cache == nil {
		return "", false
	}
	text, ok, err := l.cache.Get(ctx, key)
	if err != nil {
		l.logger.Warn("loader: cache get failed", slog.String("key", key.String()), slog.String("error", err.Error()))
		return "", false
	}
	return text, ok
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNetwork):
		return "network"
	default:
		return "unknown"
	}
}
