package loader

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/starford/folio/internal/models"
)

// gatedLoader blocks each Load for repo until release(repo) is called and
// ignores cancellation, modelling a network call that cannot be aborted.
type gatedLoader struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	results map[string]error
	texts   map[string]string
	started chan string
}

func newGatedLoader() *gatedLoader {
	return &gatedLoader{
		gates:   map[string]chan struct{}{},
		results: map[string]error{},
		texts:   map[string]string{},
		started: make(chan string, 16),
	}
}

func (g *gatedLoader) gate(repo string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[repo]
	if !ok {
		ch = make(chan struct{})
		g.gates[repo] = ch
	}
	return ch
}

func (g *gatedLoader) succeed(repo, text string) {
	g.mu.Lock()
	g.texts[repo] = text
	g.mu.Unlock()
}

func (g *gatedLoader) fail(repo string) {
	g.mu.Lock()
	g.results[repo] = &ExhaustedError{Repo: repo}
	g.mu.Unlock()
}

func (g *gatedLoader) release(repo string) { close(g.gate(repo)) }

func (g *gatedLoader) Load(_ context.Context, ref models.RemoteDoc) (*Document, error) {
	g.started <- ref.Repo
	<-g.gate(ref.Repo)
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.results[ref.Repo]; err != nil {
		return nil, err
	}
	return &Document{Repo: ref.Repo, Branch: "master", Text: g.texts[ref.Repo]}, nil
}

func remoteProject(id string) models.Project {
	return models.Project{ID: id, Title: id, Writeup: &models.RemoteDoc{Repo: "o/" + id}}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// recorder collects published states.
type recorder struct {
	ch chan State
}

func newRecorder(s *Session) *recorder {
	r := &recorder{ch: make(chan State, 32)}
	s.OnChange(func(st State) {
		r.ch <- st
	})
	return r
}

func (r *recorder) next(t *testing.T) State {
	t.Helper()
	select {
	case st := <-r.ch:
		return st
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for state")
		return State{}
	}
}

func TestSession_InitiallyIdle(t *testing.T) {
	s := NewSession(newGatedLoader(), testLogger())
	if st := s.State(); st.Status != StatusIdle || st.Text != "" || st.Error != "" {
		t.Errorf("initial state = %+v", st)
	}
}

func TestSession_PendingThenReady(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := newGatedLoader()
	s := NewSession(g, testLogger())
	defer s.Shutdown()
	rec := newRecorder(s)

	st := s.Open(remoteProject("a"))
	if st.Status != StatusPending || st.ProjectID != "a" {
		t.Fatalf("Open state = %+v", st)
	}
	if got := rec.next(t); got.Status != StatusPending {
		t.Fatalf("first published = %+v", got)
	}

	<-g.started
	g.succeed("o/a", "# A")
	g.release("o/a")

	got := rec.next(t)
	if got.Status != StatusReady || got.Text != "# A" || got.Error != "" || got.Branch != "master" {
		t.Errorf("ready state = %+v", got)
	}
	if s.State() != got {
		t.Errorf("State() = %+v, want %+v", s.State(), got)
	}
}

func TestSession_Exhausted(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := newGatedLoader()
	s := NewSession(g, testLogger())
	defer s.Shutdown()
	rec := newRecorder(s)

	s.Open(remoteProject("a"))
	rec.next(t)
	<-g.started
	g.fail("o/a")
	g.release("o/a")

	got := rec.next(t)
	if got.Status != StatusFailed {
		t.Fatalf("status = %s, want failed", got.Status)
	}
	if got.Error != FailureMessage || got.Text != "" {
		t.Errorf("failed state = %+v", got)
	}
}

func TestSession_StaleResultSuppressed(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := newGatedLoader()
	s := NewSession(g, testLogger())
	defer s.Shutdown()
	rec := newRecorder(s)

	s.Open(remoteProject("slow"))
	rec.next(t)
	<-g.started

	s.Open(remoteProject("fast"))
	rec.next(t)
	<-g.started
	g.succeed("o/fast", "fast doc")
	g.release("o/fast")

	ready := rec.next(t)
	if ready.ProjectID != "fast" || ready.Status != StatusReady {
		t.Fatalf("ready = %+v", ready)
	}

	// The slow request resolves late; its result must be dropped.
	g.succeed("o/slow", "slow doc")
	g.release("o/slow")
	s.wg.Wait()

	st := s.State()
	if st.ProjectID != "fast" || st.Text != "fast doc" {
		t.Errorf("state after stale completion = %+v", st)
	}
	select {
	case extra := <-rec.ch:
		t.Errorf("stale result was published: %+v", extra)
	default:
	}
}

func TestSession_StaleFailureSuppressed(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := newGatedLoader()
	s := NewSession(g, testLogger())
	defer s.Shutdown()
	rec := newRecorder(s)

	s.Open(remoteProject("slow"))
	rec.next(t)
	<-g.started

	s.Open(remoteProject("fast"))
	rec.next(t)
	<-g.started
	g.succeed("o/fast", "fast doc")
	g.release("o/fast")
	rec.next(t)

	g.fail("o/slow")
	g.release("o/slow")
	s.wg.Wait()

	if st := s.State(); st.Status != StatusReady || st.ProjectID != "fast" {
		t.Errorf("state = %+v, want fast ready", st)
	}
}

func TestSession_CloseResetsToIdle(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := newGatedLoader()
	s := NewSession(g, testLogger())
	defer s.Shutdown()
	rec := newRecorder(s)

	s.Open(remoteProject("a"))
	rec.next(t)
	<-g.started
	g.succeed("o/a", "doc")
	g.release("o/a")
	rec.next(t)

	st := s.Close()
	if st.Status != StatusIdle || st.Text != "" || st.Error != "" || st.ProjectID != "" {
		t.Errorf("Close state = %+v", st)
	}
	if got := rec.next(t); got.Status != StatusIdle {
		t.Errorf("published = %+v, want idle", got)
	}
}

func TestSession_CloseWhilePendingDropsResult(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := newGatedLoader()
	s := NewSession(g, testLogger())
	defer s.Shutdown()

	s.Open(remoteProject("a"))
	<-g.started
	s.Close()

	g.succeed("o/a", "late")
	g.release("o/a")
	s.wg.Wait()

	if st := s.State(); st.Status != StatusIdle || st.Text != "" {
		t.Errorf("state = %+v, want idle", st)
	}
}

func TestSession_InlinePaperReadyImmediately(t *testing.T) {
	s := NewSession(newGatedLoader(), testLogger())
	p := models.Project{ID: "p", Title: "Paper", Writeup: &models.Paper{Abstract: "abs"}}

	st := s.Open(p)
	if st.Status != StatusReady || st.Kind != models.KindPaper {
		t.Fatalf("state = %+v", st)
	}
	if st.Text == "" {
		t.Error("inline paper should produce text")
	}
}

func TestSession_GenerationIncreases(t *testing.T) {
	s := NewSession(newGatedLoader(), testLogger())
	p := models.Project{ID: "p", Writeup: &models.Paper{}}
	a := s.Open(p)
	b := s.Close()
	c := s.Open(p)
	if !(a.Generation < b.Generation && b.Generation < c.Generation) {
		t.Errorf("generations not increasing: %d %d %d", a.Generation, b.Generation, c.Generation)
	}
}

func TestSession_ListenerMayReadState(t *testing.T) {
	s := NewSession(newGatedLoader(), testLogger())
	defer s.Shutdown()

	entered := make(chan struct{})
	proceed := make(chan struct{})
	seen := make(chan State, 4)
	var first sync.Once
	s.OnChange(func(State) {
		first.Do(func() {
			close(entered)
			<-proceed
		})
		seen <- s.State()
	})

	paper := func(id string) models.Project {
		return models.Project{ID: id, Title: id, Writeup: &models.Paper{Abstract: id}}
	}
	go s.Open(paper("a"))
	<-entered

	opened := make(chan struct{})
	go func() {
		s.Open(paper("b"))
		close(opened)
	}()
	// Give the second Open time to queue behind the running listener.
	time.Sleep(50 * time.Millisecond)
	close(proceed)

	select {
	case <-opened:
	case <-time.After(2 * time.Second):
		t.Fatal("listener calling State blocked a concurrent Open")
	}
	if got := s.State(); got.ProjectID != "b" || got.Status != StatusReady {
		t.Errorf("final state = %+v", got)
	}
	for range 2 {
		select {
		case <-seen:
		case <-time.After(2 * time.Second):
			t.Fatal("listener did not finish")
		}
	}
}
