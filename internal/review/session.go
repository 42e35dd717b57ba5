package review

import (
	"context"
	"sync"
)

// Ticket identifies one invocation started by Session.Begin. Outcomes are
// applied through Session.Complete only while the ticket's generation is
// still current.
type Ticket struct {
	Generation uint64 // Session generation the invocation belongs to
	Source     string // Input snapshot taken when the invocation started

	ctx context.Context
}

// Context returns the context the invocation should run under. It is
// canceled when the session is reset or the invocation completes.
func (t Ticket) Context() context.Context {
	if t.ctx == nil {
		return context.Background()
	}
	return t.ctx
}

// Session holds the state of one interactive review session: the input
// buffer, the last result or error, and whether a request is in flight.
// At most one of result and error is non-empty at any time.
type Session struct {
	mu         sync.Mutex
	input      string
	result     string
	err        string
	loading    bool
	generation uint64
	cancel     context.CancelFunc
}

// NewSession creates an idle session with an empty input buffer.
func NewSession() *Session {
	return &Session{}
}

// SetInput replaces the input buffer.
func (s *Session) SetInput(input string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = input
}

// Input returns the input buffer.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Result returns the markdown review from the last successful invocation.
func (s *Session) Result() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Err returns the error message from the last failed invocation, or "".
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Loading reports whether a request is outstanding.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Generation returns the current generation counter.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Status derives the request status from the session fields.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status()
}

func (s *Session) status() Status {
	switch {
	case s.loading:
		return StatusInFlight
	case s.err != "":
		return StatusFailed
	case s.result != "":
		return StatusSucceeded
	default:
		return StatusIdle
	}
}

// CanSubmit reports whether Begin would start an invocation.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.loading && !IsBlank(s.input)
}

// Begin starts an invocation for the current input. It returns false and
// leaves the session untouched when the input is blank or another request is
// in flight. On success the previous result and error are cleared before the
// request is issued.
func (s *Session) Begin(parent context.Context) (Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begin(parent)
}

func (s *Session) begin(parent context.Context) (Ticket, bool) {
	if s.loading || IsBlank(s.input) {
		return Ticket{}, false
	}
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithCancel(parent)
	s.generation++
	s.cancel = cancel
	s.loading = true
	s.result = ""
	s.err = ""

	return Ticket{Generation: s.generation, Source: s.input, ctx: ctx}, true
}

// Retry starts a new invocation from the failed state.
func (s *Session) Retry(parent context.Context) (Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status() != StatusFailed {
		return Ticket{}, false
	}
	return s.begin(parent)
}

// Complete applies the outcome of the invocation identified by t. It reports
// false, changing nothing, when the session has moved on since t was issued.
func (s *Session) Complete(t Ticket, text string, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loading || t.Generation != s.generation {
		return false
	}

	s.loading = false
	s.releaseLocked()

	switch {
	case err != nil:
		s.result = ""
		s.err = ErrorMessage(err)
	case text == "":
		s.result = ""
		s.err = EmptyResponseMessage
	default:
		s.result = text
		s.err = ""
	}
	return true
}

// Reset clears the input, result and error. An outstanding request is
// canceled and its eventual outcome is ignored.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.input = ""
	s.result = ""
	s.err = ""
	if s.loading {
		s.loading = false
		s.releaseLocked()
	}
	s.generation++
}

// Close cancels any outstanding request.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
}

func (s *Session) releaseLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Run performs one blocking invocation through r for the current input and
// applies its outcome. It reports false if Begin refused to start.
func (s *Session) Run(ctx context.Context, r *Reviewer) bool {
	t, ok := s.Begin(ctx)
	if !ok {
		return false
	}
	text, err := r.Review(t.Context(), t.Source)
	s.Complete(t, text, err)
	return true
}
