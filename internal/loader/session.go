package loader

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/starford/folio/internal/models"
)

// Status is the phase of a Session.
type Status string

// Session statuses.
const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// State is a snapshot of the open selection's write-up.
type State struct {
	Status     Status `json:"status"`
	ProjectID  string `json:"project_id,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Text       string `json:"text"`
	Error      string `json:"error"`
	Branch     string `json:"branch,omitempty"`
	Generation uint64 `json:"generation"`
}

// Listener receives every state a Session publishes, in publication order.
// It may call State but must not call Open, Close or OnChange.
type Listener func(State)

// DocumentLoader is the part of Loader a Session needs.
type DocumentLoader interface {
	Load(ctx context.Context, ref models.RemoteDoc) (*Document, error)
}

// Session tracks the write-up of the currently open project.
//
// Each Open or Close starts a new generation. A fetch sequence publishes its
// result only if its generation is still current, so a slow response for a
// superseded project can never overwrite the newer selection's state.
// Superseded fetches are also cancelled, but the generation check alone is
// what guarantees correctness.
type Session struct {
	loader DocumentLoader
	logger *slog.Logger

	// state is written under mu and read without it.
	state atomic.Pointer[State]

	mu        sync.Mutex
	gen       uint64
	cancel    context.CancelFunc
	listeners []Listener

	notifyMu sync.Mutex
	wg       sync.WaitGroup
}

// NewSession creates an idle Session.
func NewSession(l DocumentLoader, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{loader: l, logger: logger}
	s.state.Store(&State{Status: StatusIdle})
	return s
}

// OnChange registers a listener.
func (s *Session) OnChange(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// State returns the current snapshot.
func (s *Session) State() State {
	return *s.state.Load()
}

// Open makes p the current selection and returns the state it entered.
// Inline papers become ready immediately; remote write-ups go pending and
// load in the background.
func (s *Session) Open(p models.Project) State {
	switch w := p.Writeup.(type) {
	case *models.Paper:
		return s.begin(State{
			Status:    StatusReady,
			ProjectID: p.ID,
			Kind:      models.KindPaper,
			Text:      w.Markdown(p.Title),
		}, nil)
	case *models.RemoteDoc:
		return s.begin(State{
			Status:    StatusPending,
			ProjectID: p.ID,
			Kind:      models.KindRemote,
		}, w)
	default:
		return s.begin(State{
			Status:    StatusFailed,
			ProjectID: p.ID,
			Error:     FailureMessage,
		}, nil)
	}
}

// Close clears the selection and returns the idle state.
func (s *Session) Close() State {
	return s.begin(State{Status: StatusIdle}, nil)
}

// Shutdown cancels any in-flight load and waits for it to return.
func (s *Session) Shutdown() {
	s.mu.Lock()
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// begin starts a new generation with initial as its first state. When ref is
// non-nil a fetch sequence is started for it.
func (s *Session) begin(initial State, ref *models.RemoteDoc) State {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	gen := s.gen
	initial.Generation = gen
	s.state.Store(&initial)

	var ctx context.Context
	if ref != nil {
		ctx, s.cancel = context.WithCancel(context.Background())
		s.wg.Add(1)
	}
	s.notifyMu.Lock()
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(initial)
	}
	s.notifyMu.Unlock()

	if ref != nil {
		go s.run(ctx, gen, initial.ProjectID, *ref)
	}
	return initial
}

func (s *Session) run(ctx context.Context, gen uint64, projectID string, ref models.RemoteDoc) {
	defer s.wg.Done()

	doc, err := s.loader.Load(ctx, ref)

	next := State{
		ProjectID:  projectID,
		Kind:       models.KindRemote,
		Generation: gen,
	}
	switch {
	case err == nil:
		next.Status = StatusReady
		next.Text = doc.Text
		next.Branch = doc.Branch
	case errors.Is(err, context.Canceled):
		// Only superseded loads are cancelled; publish would drop it anyway.
		s.logger.Debug("session: load cancelled", slog.String("project_id", projectID))
		return
	default:
		s.logger.Info("session: write-up unavailable",
			slog.String("project_id", projectID),
			slog.String("error", err.Error()))
		next.Status = StatusFailed
		next.Error = FailureMessage
	}
	s.publish(next)
}

// publish installs next if its generation is still current.
func (s *Session) publish(next State) bool {
	s.mu.Lock()
	if next.Generation != s.gen {
		current := s.gen
		s.mu.Unlock()
		s.logger.Debug("session: dropped stale result",
			slog.String("project_id", next.ProjectID),
			slog.Uint64("generation", next.Generation),
			slog.Uint64("current", current))
		return false
	}
	s.state.Store(&next)
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.notifyMu.Lock()
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	s.notifyMu.Unlock()
	return true
}
