// Package typewriter reveals the tokens of a streaming markdown session over
// time, producing a display text that only ever shows whole constructs.
package typewriter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/open-cli-collective/mdflow/pkg/md"
)

// DefaultDelay is the time between two reveal ticks.
const DefaultDelay = 80 * time.Millisecond

// ErrStopped is returned by Wait when the scheduler is stopped first.
var ErrStopped = errors.New("typewriter stopped")

// State is the scheduler state.
type State int

const (
	StateIdle     State = iota // nothing to reveal yet, or waiting for the stream to grow
	StateRunning               // a tick is scheduled
	StateComplete              // everything revealed and nothing buffered
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateComplete:
		return "complete"
	default:
		return "idle"
	}
}

// Frame is what the rendering layer consumes after every change.
type Frame struct {
	DisplayText string `json:"displayText"`
	IsComplete  bool   `json:"isComplete"`
	IsTyping    bool   `json:"isTyping"`
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDelay sets the time between ticks.
func WithDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithDisabled starts the scheduler with the typewriter turned off.
func WithDisabled(disabled bool) Option {
	return func(s *Scheduler) { s.disabled = disabled }
}

// WithSchedule replaces the timer backend (AfterFunc by default).
func WithSchedule(fn ScheduleFunc) Option {
	return func(s *Scheduler) {
		if fn != nil {
			s.schedule = fn
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// OnFrame registers a callback invoked after every change to the display.
// Callbacks run with the scheduler lock held and must not call back into it.
func OnFrame(fn func(Frame)) Option {
	return func(s *Scheduler) { s.onFrame = fn }
}

// OnComplete registers a callback fired once per session when everything has
// been revealed. It re-arms when the session is reset or restarted.
func OnComplete(fn func()) Option {
	return func(s *Scheduler) { s.onComplete = fn }
}

// Scheduler reveals one token of a md.Session per tick.
//
// All entry points share one mutex, so tokens appended by Update are visible
// to the next tick and the cursor never passes the end of the token list.
// Every armed timer carries a generation number; cancelling bumps the
// generation, so a timer that fired concurrently with a cancel is ignored.
type Scheduler struct {
	mu         sync.Mutex
	session    *md.Session
	schedule   ScheduleFunc
	delay      time.Duration
	disabled   bool
	logger     *slog.Logger
	onFrame    func(Frame)
	onComplete func()

	state    State
	display  strings.Builder
	cancel   func()
	gen      uint64
	fired    bool
	finished chan struct{}
	closed   bool
	stopped  bool
	halt     chan struct{}
}

// New returns a scheduler revealing session.
func New(session *md.Session, opts ...Option) *Scheduler {
	s := &Scheduler{
		session:  session,
		schedule: AfterFunc,
		delay:    DefaultDelay,
		logger:   slog.Default(),
		finished: make(chan struct{}),
		halt:     make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Update feeds the full current text of the stream. An extension of the
// previous text continues the reveal; anything else cancels the pending tick
// and restarts from an empty display.
func (s *Scheduler) Update(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	res := s.session.Update(text)
	if res.Reset {
		s.logger.Debug("typewriter reset", "len", len(text))
		s.cancelTimer()
		s.rearm()
	}
	s.reopen()
	if s.disabled {
		s.session.Finalize()
		s.showAll()
		return
	}
	s.kick()
	s.emit()
}

// Finish signals that the stream has ended. Constructs still buffered are
// flushed so that no character is lost.
func (s *Scheduler) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	s.session.Finalize()
	if s.disabled {
		s.showAll()
		return
	}
	s.kick()
	s.emit()
}

// SetDisabled turns the typewriter off or back on. Turning it off cancels the
// pending tick and shows the full text at once.
func (s *Scheduler) SetDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.disabled == disabled {
		return
	}

	s.disabled = disabled
	if disabled {
		s.cancelTimer()
		s.session.Finalize()
		s.showAll()
		return
	}
	s.kick()
	s.emit()
}

// Restart replays the reveal from the first token.
func (s *Scheduler) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	s.cancelTimer()
	s.session.Rewind()
	s.rearm()
	if s.disabled {
		s.showAll()
		return
	}
	s.kick()
	s.emit()
}

// Reset cancels the pending tick and clears the session and display.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelTimer()
	s.session.Reset()
	s.rearm()
	s.emit()
}

// Stop cancels the pending tick. The scheduler ignores every later call.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelTimer()
	if !s.stopped {
		s.stopped = true
		close(s.halt)
	}
}

// Frame returns the current frame.
func (s *Scheduler) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame()
}

// State returns the current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Wait blocks until the stream is finalized and every token has been
// revealed, or ctx is done. Finish finalizes the stream; while the typewriter
// is disabled every update does.
func (s *Scheduler) Wait(ctx context.Context) error {
	s.mu.Lock()
	finished := s.finished
	s.mu.Unlock()

	select {
	case <-finished:
		return nil
	case <-s.halt:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// tick reveals the next token, or settles when none is left.
func (s *Scheduler) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || gen != s.gen {
		return
	}

	s.cancel = nil
	if tok, ok := s.session.Next(); ok {
		s.display.WriteString(tok.Content)
		s.arm()
	} else {
		s.settle()
	}
	s.emit()
}

// kick starts ticking when there is something to reveal.
func (s *Scheduler) kick() {
	if s.state == StateRunning {
		return
	}
	if s.session.Remaining() > 0 {
		s.arm()
		return
	}
	s.settle()
}

func (s *Scheduler) arm() {
	s.gen++
	gen := s.gen
	s.state = StateRunning
	s.cancel = s.schedule(s.delay, func() { s.tick(gen) })
}

func (s *Scheduler) cancelTimer() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	if s.state == StateRunning {
		s.state = StateIdle
	}
}

// settle is called when the cursor has caught up with the token list.
func (s *Scheduler) settle() {
	empty := s.session.Text() == "" && !s.session.Finalized()
	if empty || !s.session.Completed() {
		s.state = StateIdle
		return
	}
	s.state = StateComplete
	s.fire()
}

func (s *Scheduler) fire() {
	if s.session.Finalized() && !s.closed {
		s.closed = true
		close(s.finished)
	}
	if s.fired {
		return
	}
	s.fired = true
	s.logger.Debug("typewriter complete", "tokens", len(s.session.Tokens()))
	if s.onComplete != nil {
		s.onComplete()
	}
}

// reopen resets the finished signal once the stream grows past Finish.
func (s *Scheduler) reopen() {
	if s.closed && !s.session.Finalized() {
		s.closed = false
		s.finished = make(chan struct{})
	}
}

// rearm clears the display and the completion signal for a fresh session.
func (s *Scheduler) rearm() {
	s.display.Reset()
	s.state = StateIdle
	s.fired = false
	if s.closed {
		s.closed = false
		s.finished = make(chan struct{})
	}
}

// showAll reveals the full text immediately.
func (s *Scheduler) showAll() {
	s.session.SkipToEnd()
	s.display.Reset()
	s.display.WriteString(s.session.Text())
	s.state = StateComplete
	s.fire()
	s.emit()
}

func (s *Scheduler) frame() Frame {
	return Frame{
		DisplayText: s.display.String(),
		IsComplete:  s.state == StateComplete,
		IsTyping:    s.state == StateRunning,
	}
}

func (s *Scheduler) emit() {
	if s.onFrame != nil {
		s.onFrame(s.frame())
	}
}
