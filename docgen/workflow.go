package docgen

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/reposcribe/backend"
	"github.com/jrsteele09/reposcribe/internal/errors"
	"github.com/jrsteele09/reposcribe/repositories"
	"github.com/rs/zerolog/log"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Generator sends the documentation request.
type Generator interface {
	GenerateDoc(ctx context.Context, req backend.GenerateRequest) (*backend.GeneratedDoc, error)
}

// TokenSource yields the bearer token at request time.
type TokenSource interface {
	Get() (string, error)
}

// Sleeper waits d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func contextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type Option func(*Workflow)

func WithPhaseDelay(d time.Duration) Option {
	return func(w *Workflow) { w.phaseDelay = d }
}

func WithContainsAPI(containsAPI bool) Option {
	return func(w *Workflow) { w.containsAPI = containsAPI }
}

func WithSleeper(s Sleeper) Option {
	return func(w *Workflow) { w.sleep = s }
}

// Workflow generates documentation for a single repository. At most one run
// is in flight at a time; the workflow is the single writer of its snapshot.
type Workflow struct {
	repo        repositories.Repository
	generator   Generator
	tokens      TokenSource
	phaseDelay  time.Duration
	containsAPI bool
	sleep       Sleeper

	mu          sync.Mutex
	snapshot    Snapshot
	subscribers []func(Snapshot)
	done        chan struct{}
}

func NewWorkflow(repo repositories.Repository, generator Generator, tokens TokenSource, opts ...Option) *Workflow {
	w := &Workflow{
		repo:        repo,
		generator:   generator,
		tokens:      tokens,
		phaseDelay:  2 * time.Second,
		containsAPI: true,
		sleep:       contextSleep,
		snapshot:    Snapshot{State: StateIdle, Repository: repo},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workflow) Repository() repositories.Repository {
	return w.repo
}

func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot.clone()
}

// Subscribe registers fn for one call per state change and returns a function
// that removes it.
func (w *Workflow) Subscribe(fn func(Snapshot)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.subscribers = append(w.subscribers, fn)
	idx := len(w.subscribers) - 1
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.subscribers[idx] = nil
	}
}

// Done is closed when the current run reaches Completed or Failed. Before the
// first run it is already closed.
func (w *Workflow) Done() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return w.done
}

// Start runs the workflow in the background. The run is detached from ctx
// cancellation so an abandoned view cannot cut the request short.
func (w *Workflow) Start(ctx context.Context) error {
	done, err := w.begin("[Workflow Start]", false)
	if err != nil {
		return err
	}
	go w.run(context.WithoutCancel(ctx), done)
	return nil
}

// Run runs the workflow and waits for it to finish.
func (w *Workflow) Run(ctx context.Context) error {
	done, err := w.begin("[Workflow Run]", false)
	if err != nil {
		return err
	}
	w.run(ctx, done)

	snap := w.Snapshot()
	if snap.State == StateFailed {
		return fmt.Errorf("[Workflow Run] %w: %s", errors.ErrGenerationFailed, snap.Error)
	}
	return nil
}

// Regenerate discards any result, returns to Idle and starts a fresh run.
func (w *Workflow) Regenerate(ctx context.Context) error {
	done, err := w.begin("[Workflow Regenerate]", true)
	if err != nil {
		return err
	}
	go w.run(context.WithoutCancel(ctx), done)
	return nil
}

// begin claims the workflow for one run. The in-flight check and the move to
// Phase1 happen in one critical section, so only one caller can win.
func (w *Workflow) begin(op string, reset bool) (chan struct{}, error) {
	w.mu.Lock()
	if w.snapshot.State.Running() {
		w.mu.Unlock()
		return nil, errors.Wrapf(errors.ErrInFlight, op)
	}
	done := make(chan struct{})
	w.done = done

	var published []Snapshot
	if reset {
		w.snapshot.State = StateIdle
		w.snapshot.Result = nil
		w.snapshot.Error = ""
		published = append(published, w.snapshot.clone())
	}
	w.snapshot.State = StatePhase1
	w.snapshot.Result = nil
	w.snapshot.Error = ""
	published = append(published, w.snapshot.clone())
	subs := w.activeSubscribers()
	w.mu.Unlock()

	for _, snap := range published {
		w.notify(subs, snap)
	}
	return done, nil
}

func (w *Workflow) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for i := range Phases {
		if i > 0 {
			w.transition(func(s *Snapshot) { s.State = StatePhase1 + State(i) })
		}
		if err := w.sleep(ctx, w.phaseDelay); err != nil {
			w.fail(err)
			return
		}
	}

	w.transition(func(s *Snapshot) { s.State = StateRequesting })

	token, err := w.tokens.Get()
	if err != nil || token == "" {
		w.fail(fmt.Errorf("%w: %w", errors.ErrUnauthorized, errors.ErrTokenNotFound))
		return
	}

	repo := w.Repository()
	generated, err := w.generator.GenerateDoc(ctx, backend.GenerateRequest{
		AccessToken: token,
		RepoLink:    repo.URL,
		ContainsAPI: w.containsAPI,
	})
	if err != nil {
		w.fail(err)
		return
	}

	doc := &Documentation{
		ID:          generated.ID,
		Repository:  repo,
		Content:     generated.Content,
		GeneratedAt: generated.GeneratedAt.Time,
		Status:      StatusCompleted,
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = NowTimeFunc()
	}

	w.transition(func(s *Snapshot) {
		s.State = StateCompleted
		s.Result = doc
	})
}

func (w *Workflow) fail(err error) {
	log.Err(err).Str("repository", w.Repository().FullName).Msg("documentation generation failed")
	w.transition(func(s *Snapshot) {
		s.State = StateFailed
		s.Result = nil
		s.Error = FailureMessage(err)
	})
}

func (w *Workflow) transition(mutate func(*Snapshot)) {
	w.mu.Lock()
	mutate(&w.snapshot)
	next := w.snapshot.clone()
	subs := w.activeSubscribers()
	w.mu.Unlock()

	w.notify(subs, next)
}

// activeSubscribers must be called with w.mu held.
func (w *Workflow) activeSubscribers() []func(Snapshot) {
	subs := make([]func(Snapshot), 0, len(w.subscribers))
	for _, fn := range w.subscribers {
		if fn != nil {
			subs = append(subs, fn)
		}
	}
	return subs
}

func (w *Workflow) notify(subs []func(Snapshot), next Snapshot) {
	log.Debug().Stringer("state", next.State).Str("repository", next.Repository.FullName).Msg("workflow state change")
	for _, fn := range subs {
		fn(next.clone())
	}
}

// FailureMessage turns a generation error into the text shown to the user.
func FailureMessage(err error) string {
	var statusErr *backend.StatusError
	switch {
	case errors.Is(err, errors.ErrUnauthorized):
		return "Failed to generate documentation: you are not signed in"
	case errors.As(err, &statusErr) && statusErr.Message != "":
		return "Failed to generate documentation: " + statusErr.Message
	case errors.Is(err, context.DeadlineExceeded):
		return "Failed to generate documentation: the request timed out"
	default:
		return "Failed to generate documentation"
	}
}
