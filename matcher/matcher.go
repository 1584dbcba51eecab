// Package matcher compares a learner's submitted pitches against a target
// melody, one position at a time.
package matcher

import (
	"strings"
	"time"

	"github.com/jsphweid/eartrainer/model"
	"github.com/jsphweid/eartrainer/pitch"
	"github.com/pkg/errors"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCorrect   Status = "correct"
	StatusIncorrect Status = "incorrect"
	StatusComplete  Status = "complete"
)

// Policy decides what a wrong submission does to the position counter.
// The browser client was inconsistent here: one call site appended the
// wrong note and moved on, another overwrote it in place.
type Policy int

const (
	// Advance keeps the wrong pitch at its position and moves on.
	Advance Policy = iota
	// Replace overwrites the current position until it is played right.
	Replace
)

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "advance":
		return Advance, nil
	case "replace":
		return Replace, nil
	default:
		return Advance, errors.Errorf("unknown mismatch policy %q", s)
	}
}

func (p Policy) String() string {
	if p == Replace {
		return "replace"
	}
	return "advance"
}

// State is a snapshot of one attempt. Played holds the raw submitted
// pitches, invalid ones included.
type State struct {
	Target        model.Sequence
	Played        []string
	FirstTryClean bool
	Complete      bool
	WrongNotes    []model.WrongNote
}

type Result struct {
	Status   Status
	Position int
	Expected string
	Played   string
	Correct  bool
}

type Matcher struct {
	policy Policy
	state  *State
	// next target position to compare against
	cursor int
}

func New(policy Policy) *Matcher {
	return &Matcher{policy: policy}
}

func (m *Matcher) Policy() Policy {
	return m.policy
}

// Reset starts a fresh attempt against target. The previous state is
// dropped, not cleared, so snapshots handed out earlier stay intact.
func (m *Matcher) Reset(target model.Sequence) {
	t := make(model.Sequence, len(target))
	copy(t, target)
	m.state = &State{
		Target:        t,
		Played:        []string{},
		FirstTryClean: true,
		Complete:      len(t) == 0,
		WrongNotes:    []model.WrongNote{},
	}
	m.cursor = 0
}

func (m *Matcher) Submit(p string) Result {
	st := m.state
	if st == nil {
		return Result{Status: StatusPending, Played: p}
	}
	if st.Complete {
		return Result{Status: StatusComplete, Position: m.cursor, Played: p}
	}

	pos := m.cursor
	expected := st.Target[pos].Note
	ok := pitch.Equal(p, expected)
	res := Result{Position: pos, Expected: expected, Played: p, Correct: ok}

	if !ok {
		st.FirstTryClean = false
		st.WrongNotes = append(st.WrongNotes, model.WrongNote{Expected: expected, Played: p, Position: pos})
	}

	switch m.policy {
	case Replace:
		if pos < len(st.Played) {
			st.Played[pos] = p
		} else {
			st.Played = append(st.Played, p)
		}
		if ok {
			m.cursor++
		}
	default:
		st.Played = append(st.Played, p)
		m.cursor++
	}

	if m.cursor == len(st.Target) {
		st.Complete = true
		res.Status = StatusComplete
		return res
	}
	if ok {
		res.Status = StatusCorrect
	} else {
		res.Status = StatusIncorrect
	}
	return res
}

func (m *Matcher) Status() Status {
	if m.state != nil && m.state.Complete {
		return StatusComplete
	}
	return StatusPending
}

// State returns a copy of the current attempt.
func (m *Matcher) State() State {
	if m.state == nil {
		return State{}
	}
	st := *m.state
	st.Target = make(model.Sequence, len(m.state.Target))
	copy(st.Target, m.state.Target)
	st.Played = make([]string, len(m.state.Played))
	copy(st.Played, m.state.Played)
	st.WrongNotes = make([]model.WrongNote, len(m.state.WrongNotes))
	copy(st.WrongNotes, m.state.WrongNotes)
	return st
}

// Success is a complete attempt without a single wrong note.
func (m *Matcher) Success() bool {
	return m.state != nil && m.state.Complete && m.state.FirstTryClean
}

func (m *Matcher) Attempt(melodyID string, at time.Time) model.MelodyAttempt {
	st := m.State()
	return model.MelodyAttempt{
		MelodyID:   melodyID,
		Timestamp:  at,
		IsFirstTry: st.FirstTryClean,
		Success:    st.Complete && st.FirstTryClean,
		WrongNotes: st.WrongNotes,
	}
}
