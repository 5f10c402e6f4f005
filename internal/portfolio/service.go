// Package portfolio coordinates the catalog, the write-up loader and the
// theme preference for the API and MCP front ends.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/loader"
	"github.com/starford/folio/internal/models"
)

// ProjectItem is a project as shown in a list.
type ProjectItem struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Date        string       `json:"date"`
	Tags        []string     `json:"tags"`
	Summary     string       `json:"summary"`
	Links       models.Links `json:"links"`
	WriteupKind string       `json:"writeup_kind"`
}

// ProjectDetail is a project with its write-up descriptor. Exactly one of
// Paper and Remote is set.
type ProjectDetail struct {
	ProjectItem
	Paper  *models.Paper     `json:"paper,omitempty"`
	Remote *models.RemoteDoc `json:"remote,omitempty"`
}

// WriteupResult is the loaded write-up handed to a renderer: either Text or,
// when Failed, the fixed Error message.
type WriteupResult struct {
	ProjectID string `json:"project_id"`
	Kind      string `json:"kind"`
	Title     string `json:"title,omitempty"`
	Text      string `json:"text"`
	Failed    bool   `json:"failed"`
	Error     string `json:"error,omitempty"`
	Branch    string `json:"branch,omitempty"`
	URL       string `json:"url,omitempty"`
}

// PreferenceStore persists the dark-mode flag.
type PreferenceStore interface {
	DarkMode(ctx context.Context) (bool, error)
	SetDarkMode(ctx context.Context, on bool) error
	Toggle(ctx context.Context) (bool, error)
}

// ThemePublisher is notified after the preference changes.
type ThemePublisher interface {
	PublishTheme(dark bool)
}

// Service is the application facade.
type Service struct {
	catalog *catalog.Holder
	loader  loader.DocumentLoader
	session *loader.Session
	prefs   PreferenceStore
	themeCh ThemePublisher
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithSession enables the open/close selection operations.
func WithSession(s *loader.Session) Option {
	return func(svc *Service) { svc.session = s }
}

// WithPreferences enables the theme operations.
func WithPreferences(p PreferenceStore) Option {
	return func(svc *Service) { svc.prefs = p }
}

// WithThemePublisher registers a theme change observer.
func WithThemePublisher(p ThemePublisher) Option {
	return func(svc *Service) { svc.themeCh = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(svc *Service) { svc.logger = l }
}

// NewService creates a Service over the catalog and loader.
func NewService(h *catalog.Holder, l loader.DocumentLoader, opts ...Option) *Service {
	svc := &Service{catalog: h, loader: l, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// ErrUnavailable is returned by operations whose backing component is not configured.
var ErrUnavailable = errors.New("portfolio: feature not configured")

// Profile returns the portfolio owner's profile.
func (s *Service) Profile(_ context.Context) models.Profile {
	return s.catalog.Profile()
}

// ListProjects filters the catalog; see catalog.Store.Filter.
func (s *Service) ListProjects(_ context.Context, query string, tags []string) []ProjectItem {
	projects := s.catalog.Store().Filter(query, tags)
	items := make([]ProjectItem, len(projects))
	for i, p := range projects {
		items[i] = toItem(p)
	}
	return items
}

// Tags returns the catalog's tag universe.
func (s *Service) Tags(_ context.Context) []string {
	return s.catalog.Store().TagUniverse()
}

// GetProject returns one project or apperr.ErrNotFound.
func (s *Service) GetProject(_ context.Context, id string) (*ProjectDetail, error) {
	p, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	d := &ProjectDetail{ProjectItem: toItem(p)}
	switch w := p.Writeup.(type) {
	case *models.Paper:
		paper := *w
		d.Paper = &paper
	case *models.RemoteDoc:
		d.Remote = &models.RemoteDoc{Repo: w.Repo, Path: w.DocumentPath()}
	}
	return d, nil
}

// Writeup loads a project's write-up synchronously. An exhausted remote
// load is reported as a failed result, not an error.
func (s *Service) Writeup(ctx context.Context, id string) (*WriteupResult, error) {
	p, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	res := &WriteupResult{ProjectID: p.ID, Kind: models.WriteupKind(p.Writeup)}

	switch w := p.Writeup.(type) {
	case *models.Paper:
		res.Title, res.Text = p.Title, w.Markdown(p.Title)
	case *models.RemoteDoc:
		doc, err := s.loader.Load(ctx, *w)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.logger.Info("write-up unavailable",
				slog.String("project_id", p.ID),
				slog.String("error", err.Error()))
			res.Failed = true
			res.Error = loader.FailureMessage
			return res, nil
		}
		res.Title, res.Text, res.Branch, res.URL = doc.Title, doc.Text, doc.Branch, doc.URL
	}
	return res, nil
}

// OpenProject makes id the session's selection.
func (s *Service) OpenProject(_ context.Context, id string) (loader.State, error) {
	if s.session == nil {
		return loader.State{}, ErrUnavailable
	}
	p, err := s.lookup(id)
	if err != nil {
		return loader.State{}, err
	}
	return s.session.Open(p), nil
}

// CloseProject clears the session's selection.
func (s *Service) CloseProject(_ context.Context) (loader.State, error) {
	if s.session == nil {
		return loader.State{}, ErrUnavailable
	}
	return s.session.Close(), nil
}

// SessionState returns the session snapshot.
func (s *Service) SessionState(_ context.Context) (loader.State, error) {
	if s.session == nil {
		return loader.State{}, ErrUnavailable
	}
	return s.session.State(), nil
}

// DarkMode reads the theme preference.
func (s *Service) DarkMode(ctx context.Context) (bool, error) {
	if s.prefs == nil {
		return false, ErrUnavailable
	}
	return s.prefs.DarkMode(ctx)
}

// SetDarkMode writes the theme preference.
func (s *Service) SetDarkMode(ctx context.Context, on bool) error {
	if s.prefs == nil {
		return ErrUnavailable
	}
	if err := s.prefs.SetDarkMode(ctx, on); err != nil {
		return err
	}
	s.notifyTheme(on)
	return nil
}

// ToggleDarkMode flips the theme preference.
func (s *Service) ToggleDarkMode(ctx context.Context) (bool, error) {
	if s.prefs == nil {
		return false, ErrUnavailable
	}
	on, err := s.prefs.Toggle(ctx)
	if err != nil {
		return false, err
	}
	s.notifyTheme(on)
	return on, nil
}

func (s *Service) lookup(id string) (models.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Project{}, fmt.Errorf("%w: id is required", apperr.ErrBadRequest)
	}
	p, ok := s.catalog.Store().Get(id)
	if !ok {
		return models.Project{}, apperr.ErrNotFound
	}
	return p, nil
}

func (s *Service) notifyTheme(on bool) {
	if s.themeCh != nil {
		s.themeCh.PublishTheme(on)
	}
}

func toItem(p models.Project) ProjectItem {
	return ProjectItem{
		ID:          p.ID,
		Title:       p.Title,
		Date:        p.Date,
		Tags:        nonNilSlice(p.Tags),
		Summary:     p.Summary,
		Links:       p.Links,
		WriteupKind: models.WriteupKind(p.Writeup),
	}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
