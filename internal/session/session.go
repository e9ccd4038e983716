// Package session owns the interactive state of one exploration session: the
// loaded document, its path index, the current filter text with its revision
// counter, and the newest evaluation outcome. It coordinates the debounced
// background evaluation and exposes the read-only display contract consumed
// by the prompt loop.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/jex/internal/completion"
	"github.com/oakwood-commons/jex/internal/pathindex"
	"github.com/oakwood-commons/jex/internal/query"
	"github.com/oakwood-commons/jex/pkg/logger"
)

// State is the session lifecycle state.
type State int

const (
	StateIdle State = iota // no filter text yet
	StateEditing
	StateEvaluating
	StateDisplaying
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StateEvaluating:
		return "evaluating"
	case StateDisplaying:
		return "displaying"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// evaluator is the session's view of the query adapter. Narrowed to an
// interface so tests can observe dispatches.
type evaluator interface {
	Evaluate(ctx context.Context, doc interface{}, filter string, revision uint64) query.Outcome
}

// Options configures a session. Zero values fall back to the package
// defaults used by the CLI.
type Options struct {
	Debounce        time.Duration // edit coalescing window; 0 evaluates synchronously on dispatch
	MaxDepth        int
	MaxEntries      int
	SuggestionLimit int
	Logger          *logr.Logger
}

// Display is the snapshot returned to the renderer each frame. Outcome is
// authoritative for the current revision (Pending when no outcome for it has
// arrived yet); LastSuccess retains the most recent successful result so the
// result pane never blanks while the user is mid-edit.
type Display struct {
	Outcome        query.Outcome
	LastSuccess    *query.Outcome
	Text           string
	Revision       uint64
	State          State
	IndexTruncated bool
}

type evalRequest struct {
	text     string
	revision uint64
}

// Session is the incremental controller for one document.
type Session struct {
	mu sync.Mutex

	doc    interface{}
	index  *pathindex.Index
	engine *completion.Engine
	eval   evaluator
	log    *logr.Logger

	debounce time.Duration
	timer    *time.Timer

	state    State
	text     string
	revision uint64

	applied     query.Outcome
	lastSuccess *query.Outcome

	ctx    context.Context
	cancel context.CancelFunc
	reqCh  chan evalRequest
	wg     sync.WaitGroup
}

// New builds the path index for the document, wires the completion engine
// and evaluator, and starts the background evaluation worker. The document
// is owned by the session and must not be mutated afterwards.
func New(doc interface{}, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	index := pathindex.Build(doc, pathindex.Options{
		MaxDepth:   opts.MaxDepth,
		MaxEntries: opts.MaxEntries,
	})
	if index.Truncated() {
		log.Info("path index truncated by depth or entry limit",
			"indexed", index.Len(),
			"max_depth", opts.MaxDepth,
			"max_entries", opts.MaxEntries,
		)
	}

	s := &Session{
		doc:      doc,
		index:    index,
		engine:   completion.NewEngine(completion.NewPathProvider(index), opts.SuggestionLimit),
		eval:     query.NewEvaluator(log),
		log:      log,
		debounce: opts.Debounce,
		state:    StateIdle,
		reqCh:    make(chan evalRequest, 1),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.wg.Add(1)
	go s.evalLoop()
	return s
}

// evalLoop is the single background worker. One evaluation runs at a time,
// which also serializes access to the process-wide stream redirection inside
// the query adapter.
func (s *Session) evalLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case req := <-s.reqCh:
			out := s.eval.Evaluate(s.ctx, s.doc, req.text, req.revision)
			s.applyOutcome(out)
		}
	}
}

// OnKeystroke replaces the filter text after an edit. Each change bumps the
// revision and re-arms the debounce window; when the window elapses without
// further edits, the latest text is dispatched for evaluation. Edits that do
// not change the text are ignored.
func (s *Session) OnKeystroke(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return
	}
	if text == s.text && s.revision > 0 {
		return
	}

	s.text = text
	s.revision++

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if text == "" {
		s.state = StateIdle
		return
	}
	s.state = StateEditing

	rev := s.revision
	if s.debounce <= 0 {
		s.dispatchLocked(text, rev)
		return
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.debounceFired(text, rev)
	})
}

// debounceFired dispatches the evaluation scheduled for a revision, unless a
// newer edit superseded it while the timer was pending.
func (s *Session) debounceFired(text string, rev uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed || rev != s.revision {
		return
	}
	s.dispatchLocked(text, rev)
}

// dispatchLocked hands a request to the worker, displacing any not-yet-started
// request for a superseded revision. An evaluation already in flight is left
// to finish; its stale outcome is dropped in applyOutcome.
func (s *Session) dispatchLocked(text string, rev uint64) {
	s.state = StateEvaluating
	req := evalRequest{text: text, revision: rev}
	select {
	case s.reqCh <- req:
	default:
		select {
		case <-s.reqCh:
		default:
		}
		select {
		case s.reqCh <- req:
		default:
		}
	}
}

// applyOutcome records a finished evaluation. Outcomes for revisions older
// than the newest applied one are dropped (last-edit-wins); a successful
// outcome additionally becomes the retained LastSuccess.
func (s *Session) applyOutcome(out query.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return
	}
	if out.Revision < s.applied.Revision {
		return
	}

	s.applied = out
	if out.Status == query.StatusSuccess {
		cp := out
		s.lastSuccess = &cp
	}
	if out.Revision == s.revision && s.state == StateEvaluating {
		s.state = StateDisplaying
	}
}

// CurrentDisplay returns the snapshot the renderer should paint. It never
// blocks: when no outcome exists yet for the current revision it reports
// Pending alongside the retained last success.
func (s *Session) CurrentDisplay() Display {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.applied
	if out.Revision != s.revision {
		out = query.Pending(s.revision)
	}
	return Display{
		Outcome:        out,
		LastSuccess:    s.lastSuccess,
		Text:           s.text,
		Revision:       s.revision,
		State:          s.state,
		IndexTruncated: s.index.Truncated(),
	}
}

// RequestCompletion returns ranked candidates for the token at the cursor in
// the current filter text. An empty slice means no suggestions.
func (s *Session) RequestCompletion(cursor int) []completion.Candidate {
	s.mu.Lock()
	text := s.text
	closed := s.state == StateClosed
	s.mu.Unlock()

	if closed {
		return nil
	}
	return s.engine.Suggest(text, cursor)
}

// Functions exposes the builtin function metadata for help surfaces.
func (s *Session) Functions() []completion.FunctionMetadata {
	return s.engine.Functions()
}

// Text returns the current filter text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Revision returns the current filter revision.
func (s *Session) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// CurrentState returns the session lifecycle state.
func (s *Session) CurrentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Index exposes the read-only path index.
func (s *Session) Index() *pathindex.Index {
	return s.index
}

// Shutdown cancels the debounce timer and any in-flight evaluation, stops
// the worker, and transitions the session to Closed. Safe to call more than
// once.
func (s *Session) Shutdown() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}
