// This file is part of tasplayer.
//
// tasplayer is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// tasplayer is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with tasplayer.  If not, see <https://www.gnu.org/licenses/>.

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jetsetilly/tasplayer/curated"
	"github.com/jetsetilly/tasplayer/device"
	"github.com/jetsetilly/tasplayer/logger"
	"github.com/jetsetilly/tasplayer/movie"
	"github.com/jetsetilly/tasplayer/notifications"
	"github.com/jetsetilly/tasplayer/pump"
	"github.com/jetsetilly/tasplayer/realtime"
)

// State of a Session.
type State int

// List of valid State values in the order they are entered.
const (
	Configured State = iota
	Reset
	Primed
	Streaming
	Exhausted
	Cancelled
	Failed
)

func (s State) String() string {
	switch s {
	case Configured:
		return "configured"
	case Reset:
		return "reset"
	case Primed:
		return "primed"
	case Streaming:
		return "streaming"
	case Exhausted:
		return "exhausted"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Ended returns true for the final states.
func (s State) Ended() bool {
	return s >= Exhausted
}

// Claimer is implemented by links that can be owned by only one session at a
// time. device.Device is a Claimer.
type Claimer interface {
	Claim() error
	Release()
}

// Session is a single replay of a movie.
type Session struct {
	// unique identifier of the session. included in every notice
	ID string

	link   device.Link
	opts   Options
	notify notifications.Notify
	feeder pump.Feeder

	crit    sync.Mutex
	state   State
	started bool
	report  pump.PrimeReport
	err     error

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New creates a session that will replay a movie on the link. The options
// are validated but the movie is not decoded until the session is run. The
// notify argument can be nil.
func New(link device.Link, opts Options, notify notifications.Notify) (*Session, error) {
	if link == nil {
		return nil, curated.Errorf(InvalidOptions, fmt.Errorf("no device link"))
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		ID:     uuid.NewString(),
		link:   link,
		opts:   opts,
		notify: notify,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	s.feeder = pump.NewHostFeeder(link, opts.pumpConfig(), stamp{s})

	return s, nil
}

// SetFeeder replaces the feeder used once the device has been primed. Must
// be called before the session is run.
func (s *Session) SetFeeder(f pump.Feeder) {
	s.feeder = f
}

func (s *Session) String() string {
	return fmt.Sprintf("session %s: %s", s.ID, s.State())
}

// State returns the current state of the session.
func (s *Session) State() State {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.state
}

// Report returns the priming report. It is the zero value until the session
// has been primed.
func (s *Session) Report() pump.PrimeReport {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.report
}

// setState moves the session forward. Attempts to move backwards or to leave
// an ended state are ignored.
func (s *Session) setState(st State) {
	s.crit.Lock()
	defer s.crit.Unlock()
	if st > s.state && !s.state.Ended() {
		s.state = st
		logger.Logf(logger.Allow, "session", "%s", st)
	}
}

// Start runs the session in a new goroutine. The result is collected with
// Wait().
func (s *Session) Start(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	go func() {
		_, _ = s.execute(ctx)
	}()
	return nil
}

// begin marks the session as started. Fails if it has been started before.
func (s *Session) begin() error {
	s.crit.Lock()
	defer s.crit.Unlock()
	if s.started {
		return curated.Errorf(SessionUsed, s.ID)
	}
	s.started = true
	return nil
}

// Wait for the session to end. Returns the final state and the error that
// caused the session to fail, if any.
//
// A session that has never been started returns immediately with the
// Configured state.
func (s *Session) Wait() (State, error) {
	s.crit.Lock()
	started := s.started
	s.crit.Unlock()
	if !started {
		return Configured, nil
	}

	<-s.done
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.state, s.err
}

// Stop the session. Safe to call more than once and from any goroutine.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

// Run the session to completion. Returns the final state of the session. The
// error is nil unless the final state is Failed.
func (s *Session) Run(ctx context.Context) (State, error) {
	if err := s.begin(); err != nil {
		return s.State(), err
	}
	return s.execute(ctx)
}

func (s *Session) execute(ctx context.Context) (State, error) {
	defer close(s.done)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	st, err := s.run(ctx)

	s.crit.Lock()
	if !s.state.Ended() {
		s.state = st
	}
	s.err = err
	s.crit.Unlock()

	status := notifications.Status{}
	if err != nil {
		status.Error = err.Error()
		logger.Logf(logger.Allow, "session", "failed: %v", err)
	} else {
		logger.Logf(logger.Allow, "session", "%s", st)
	}
	stamp{s}.Notify(notifications.NotifyEnded, status)

	return st, err
}

// outcome translates errors from the device or the pump into a final state.
func outcome(ctx context.Context, err error) (State, error) {
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return Cancelled, nil
	}
	return Failed, err
}

func (s *Session) run(ctx context.Context) (State, error) {
	mv, err := movie.Decode(s.opts.Console, s.opts.Movie, s.opts.Players)
	if err != nil {
		return Failed, err
	}
	logger.Logf(logger.Allow, "session", "%s", mv)

	if c, ok := s.link.(Claimer); ok {
		if err := c.Claim(); err != nil {
			return Failed, err
		}
		defer c.Release()
	}

	if s.opts.Power != PowerNone {
		if err := s.link.PowerOff(); err != nil {
			return Failed, err
		}
		s.setState(Reset)
		stamp{s}.Notify(notifications.NotifyReset, notifications.Status{})

		if d := s.opts.Settle(); d > 0 {
			logger.Logf(logger.Allow, "session", "waiting %v after %s", d, s.opts.Power)
			t := time.NewTimer(d)
			select {
			case <-ctx.Done():
				t.Stop()
				return Cancelled, nil
			case <-t.C:
			}
		}
	}

	if ctx.Err() != nil {
		return Cancelled, nil
	}

	if err := s.link.Reset(); err != nil {
		return Failed, err
	}

	id, err := s.link.SetupRun(s.opts.Console, s.opts.Players, s.opts.Setup)
	if err != nil {
		return Failed, err
	}

	for _, t := range s.opts.Transitions {
		if err := s.link.SendTransition(id, t.Frame, t.Mode); err != nil {
			return Failed, err
		}
		if t.Frame >= uint32(mv.Len()) {
			logger.Logf(logger.Allow, "session", "transition at frame %d is beyond the end of the movie", t.Frame)
		}
	}

	plan := pump.Plan{
		Blanks: s.opts.Blanks,
		Blank:  mv.Blank,
		Movie:  mv.Frames,
	}

	if s.opts.Realtime {
		rt := realtime.Enter()
		defer rt.Exit()
	}

	rs, rep, err := pump.Prime(ctx, s.link, id, plan, s.opts.pumpConfig(), stamp{s})
	if err != nil {
		return outcome(ctx, err)
	}
	s.crit.Lock()
	s.report = rep
	s.crit.Unlock()
	s.setState(Primed)

	s.setState(Streaming)
	out, err := s.feeder.Feed(ctx, rs)
	if err != nil {
		return outcome(ctx, err)
	}

	switch out {
	case pump.Exhausted:
		return Exhausted, nil
	case pump.Cancelled:
		return Cancelled, nil
	}
	return Failed, fmt.Errorf("unknown feeder outcome (%s)", out)
}

// stamp adds the session ID and the session state to notices before passing
// them on. Notices from the pump about priming and streaming move the session
// to the matching state.
type stamp struct {
	s *Session
}

// Notify implements the notifications.Notify interface.
func (st stamp) Notify(notice notifications.Notice, status notifications.Status) error {
	switch notice {
	case notifications.NotifyPrimed:
		st.s.setState(Primed)
	case notifications.NotifyStreaming:
		st.s.setState(Streaming)
	}

	if st.s.notify == nil {
		return nil
	}

	status.Session = st.s.ID
	status.State = st.s.State().String()
	if err := st.s.notify.Notify(notice, status); err != nil {
		logger.Log(logger.Allow, "session", err)
	}
	return nil
}
