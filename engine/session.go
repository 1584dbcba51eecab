package engine

import "sync"

// Session is one scheduled playback of a sequence. It ends either by
// completing or by being cancelled, never both.
type Session struct {
	mu        sync.Mutex
	timers    []Timer
	cancelled bool
	completed bool
	done      chan struct{}
	closeOnce sync.Once
}

func newSession() *Session {
	return &Session{done: make(chan struct{})}
}

// Cancel turns every pending trigger into a no-op and suppresses the
// completion callback. It may be called any number of times, including
// from inside a trigger.
func (s *Session) Cancel() {
	s.mu.Lock()
	if s.cancelled || s.completed {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	timers := s.timers
	s.timers = nil
	s.mu.Unlock()

	for _, t := range timers {
		t.Stop()
	}
	s.close()
}

// Done is closed once the session has completed or been cancelled.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

func (s *Session) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

func (s *Session) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.cancelled && !s.completed
}

// track registers a timer created after scheduling, e.g. a release. A
// timer handed to an already finished session is stopped right away.
func (s *Session) track(t Timer) {
	s.mu.Lock()
	if s.cancelled || s.completed {
		s.mu.Unlock()
		t.Stop()
		return
	}
	s.timers = append(s.timers, t)
	s.mu.Unlock()
}

// finish marks the session completed. It reports false if the session was
// cancelled or already completed first.
func (s *Session) finish() bool {
	s.mu.Lock()
	if s.cancelled || s.completed {
		s.mu.Unlock()
		return false
	}
	s.completed = true
	timers := s.timers
	s.timers = nil
	s.mu.Unlock()

	for _, t := range timers {
		t.Stop()
	}
	return true
}

func (s *Session) close() {
	s.closeOnce.Do(func() { close(s.done) })
}
