// Package engine schedules melodies on an instrument. An Engine is owned
// by a single view (the CLI command or the practice loop) and torn down
// with Close when that view goes away.
package engine

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jsphweid/eartrainer/constants"
	"github.com/jsphweid/eartrainer/instrument"
	"github.com/jsphweid/eartrainer/model"
	"github.com/jsphweid/eartrainer/util"
	"github.com/pkg/errors"
)

var (
	ErrSpeedOutOfRange = errors.New("playback speed must be between 0.25 and 2")
	ErrNoLoader        = errors.New("no instrument loader configured")
)

type Option func(*Engine)

func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

type Engine struct {
	mu        sync.Mutex
	loader    instrument.Loader
	inst      instrument.Instrument
	instName  string
	// triggers per pitch that have not been released yet
	sounding  map[string]int
	session   *Session
	speed     float64
	onSongEnd func()

	clock  Clock
	logger *log.Logger
}

func New(loader instrument.Loader, opts ...Option) *Engine {
	e := &Engine{
		loader:   loader,
		sounding: make(map[string]int),
		speed:    constants.DefaultPlaybackSpeed,
		clock:    realClock{},
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetOnSongEnd sets the callback PlaySequence passes on as the completion
// callback of every session it starts.
func (e *Engine) SetOnSongEnd(f func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onSongEnd = f
}

// LoadInstrument swaps in the named instrument. Loading the instrument
// that is already loaded does nothing. A failure is returned as is; the
// engine never retries.
func (e *Engine) LoadInstrument(ctx context.Context, name string) error {
	e.mu.Lock()
	if e.inst != nil && e.instName == name {
		e.mu.Unlock()
		return nil
	}
	loader := e.loader
	e.mu.Unlock()

	if loader == nil {
		return ErrNoLoader
	}

	e.logger.Info("loading instrument", "name", name)
	inst, err := loader.Load(ctx, name)
	if err != nil {
		e.logger.Error("failed to load instrument", "name", name, "err", err)
		return errors.Wrapf(err, "loading instrument %s", name)
	}

	e.mu.Lock()
	old := e.inst
	e.inst = inst
	e.instName = name
	e.sounding = make(map[string]int)
	e.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			e.logger.Warn("failed to close previous instrument", "err", err)
		}
	}
	e.logger.Info("loaded instrument", "name", name)
	return nil
}

// Instrument is the name of the loaded instrument, or "" if none is.
func (e *Engine) Instrument() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.instName
}

func (e *Engine) SetPlaybackSpeed(speed float64) error {
	if math.IsNaN(speed) || speed < constants.MinPlaybackSpeed || speed > constants.MaxPlaybackSpeed {
		return errors.Wrapf(ErrSpeedOutOfRange, "got %v", speed)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speed = speed
	return nil
}

func (e *Engine) PlaybackSpeed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// PlayNote sounds a single pitch, e.g. a key pressed by the learner. With
// d > 0 the note is released after d, otherwise it sounds until StopNote.
func (e *Engine) PlayNote(p string, d time.Duration) {
	e.noteOn(p, constants.DefaultVelocity)
	if d > 0 {
		e.clock.AfterFunc(d, func() { e.release(p) })
	}
}

// StopNote silences p no matter how many triggers of it are sounding.
func (e *Engine) StopNote(p string) {
	e.mu.Lock()
	inst := e.inst
	delete(e.sounding, p)
	e.mu.Unlock()

	if inst == nil {
		return
	}
	if err := inst.Stop(p); err != nil {
		e.logger.Error("failed to stop note", "pitch", p, "err", err)
	}
}

// StopAll cancels the session started by PlaySequence and releases every
// sounding note.
func (e *Engine) StopAll() {
	e.mu.Lock()
	s := e.session
	e.session = nil
	e.mu.Unlock()

	if s != nil {
		s.Cancel()
	}
	e.releaseAll()
}

// Cancel stops a session returned by Schedule or PlaySequence and
// releases the notes it left sounding.
func (e *Engine) Cancel(s *Session) {
	if s == nil {
		return
	}
	wasActive := s.active()
	s.Cancel()

	e.mu.Lock()
	if e.session == s {
		e.session = nil
	}
	e.mu.Unlock()

	if wasActive {
		e.releaseAll()
	}
}

// PlaySequence stops whatever is playing and schedules seq at the engine's
// playback speed.
func (e *Engine) PlaySequence(seq model.Sequence) *Session {
	e.StopAll()

	e.mu.Lock()
	speed := e.speed
	onSongEnd := e.onSongEnd
	e.mu.Unlock()

	e.logger.Debug("playing sequence", "notes", len(seq), "speed", speed)
	s := e.Schedule(seq, speed, onSongEnd)

	e.mu.Lock()
	if s.active() {
		e.session = s
	}
	e.mu.Unlock()
	return s
}

// Schedule triggers every note of seq at StartTime/speed and releases it
// Duration/speed later. Notes sharing a fire time are triggered by the
// same timer, in input order. onComplete runs once at CompletionOffset
// unless the session is cancelled first. Scheduling never fails: a speed
// outside [0.25, 2] is clamped.
func (e *Engine) Schedule(seq model.Sequence, speed float64, onComplete func()) *Session {
	switch {
	case math.IsNaN(speed):
		e.logger.Warn("playback speed is not a number, using default", "default", constants.DefaultPlaybackSpeed)
		speed = constants.DefaultPlaybackSpeed
	case speed < constants.MinPlaybackSpeed || speed > constants.MaxPlaybackSpeed:
		clamped := util.Clamp(speed, constants.MinPlaybackSpeed, constants.MaxPlaybackSpeed)
		e.logger.Warn("playback speed out of range, clamping", "speed", speed, "using", clamped)
		speed = clamped
	}

	s := newSession()
	for _, g := range groupByStart(seq, speed) {
		g := g
		s.track(e.clock.AfterFunc(g.at, func() { e.trigger(s, g.notes, speed) }))
	}
	s.track(e.clock.AfterFunc(CompletionOffset(seq, speed), func() { e.complete(s, onComplete) }))
	return s
}

// Close stops playback and releases the instrument. The engine can load a
// new instrument afterwards.
func (e *Engine) Close() error {
	e.StopAll()

	e.mu.Lock()
	inst := e.inst
	e.inst = nil
	e.instName = ""
	e.mu.Unlock()

	if inst == nil {
		return nil
	}
	return errors.Wrap(inst.Close(), "closing instrument")
}

func (e *Engine) trigger(s *Session, notes []model.Note, speed float64) {
	for _, n := range notes {
		// a trigger may cancel its own session
		if !s.active() {
			return
		}
		e.noteOn(n.Note, n.Velocity)
		p := n.Note
		s.track(e.clock.AfterFunc(n.Length(speed), func() {
			if s.active() {
				e.release(p)
			}
		}))
	}
}

func (e *Engine) complete(s *Session, onComplete func()) {
	if !s.finish() {
		return
	}
	e.mu.Lock()
	if e.session == s {
		e.session = nil
	}
	e.mu.Unlock()

	e.releaseAll()
	if onComplete != nil {
		onComplete()
	}
	s.close()
}

func (e *Engine) noteOn(p string, velocity int) {
	e.mu.Lock()
	inst := e.inst
	if inst != nil {
		e.sounding[p]++
	}
	e.mu.Unlock()

	if inst == nil {
		e.logger.Warn("no instrument loaded", "pitch", p)
		return
	}
	if err := inst.Play(p, uint8(util.Clamp(velocity, 0, 127))); err != nil {
		e.logger.Error("failed to play note", "pitch", p, "err", err)
	}
}

// release ends one trigger of p. The note is only stopped once the last
// trigger of p is released, so a repeated pitch is not cut off by the
// release of the note before it.
func (e *Engine) release(p string) {
	e.mu.Lock()
	inst := e.inst
	n, ok := e.sounding[p]
	if !ok {
		e.mu.Unlock()
		return
	}
	if n > 1 {
		e.sounding[p] = n - 1
		e.mu.Unlock()
		return
	}
	delete(e.sounding, p)
	e.mu.Unlock()

	if inst == nil {
		return
	}
	if err := inst.Stop(p); err != nil {
		e.logger.Error("failed to stop note", "pitch", p, "err", err)
	}
}

func (e *Engine) releaseAll() {
	e.mu.Lock()
	inst := e.inst
	sounding := util.GetKeys(e.sounding)
	e.sounding = make(map[string]int)
	e.mu.Unlock()

	if inst == nil {
		return
	}
	if err := inst.StopAll(); err != nil {
		e.logger.Warn("stop all failed, releasing notes one by one", "err", err)
		for _, p := range sounding {
			if err := inst.Stop(p); err != nil {
				e.logger.Error("failed to stop note", "pitch", p, "err", err)
			}
		}
	}
}

// CompletionOffset is when a session over seq completes: the end of the
// last note in input order, scaled by speed. This is not the end of the
// latest-ending note when the last note in the slice finishes before an
// earlier one; see EndOffset.
func CompletionOffset(seq model.Sequence, speed float64) time.Duration {
	if len(seq) == 0 {
		return 0
	}
	last := seq[len(seq)-1]
	return time.Duration((last.StartTime + last.Duration) / speed * float64(time.Millisecond))
}

// EndOffset is when the latest-ending note of seq stops sounding.
func EndOffset(seq model.Sequence, speed float64) time.Duration {
	var end float64
	for _, n := range seq {
		end = util.Max(end, n.StartTime+n.Duration)
	}
	return time.Duration(end / speed * float64(time.Millisecond))
}

type group struct {
	at    time.Duration
	notes []model.Note
}

func groupByStart(seq model.Sequence, speed float64) []group {
	idx := make(map[time.Duration]int)
	var groups []group
	for _, n := range seq {
		at := n.Start(speed)
		i, ok := idx[at]
		if !ok {
			i = len(groups)
			idx[at] = i
			groups = append(groups, group{at: at})
		}
		groups[i].notes = append(groups[i].notes, n)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].at < groups[j].at
	})
	return groups
}
