package model

import (
	"encoding/json"
	"time"

	"github.com/jsphweid/eartrainer/pitch"
	"github.com/pkg/errors"
)

// Note is one sounding pitch of a melody. Offsets and durations are in
// milliseconds, matching the notes files on disk.
type Note struct {
	Note      string  `json:"note"`
	StartTime float64 `json:"startTime"`
	Duration  float64 `json:"duration"`
	Velocity  int     `json:"velocity"`

	// Extra holds fields the client stored that are not one of the
	// above. They are written back unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

// NewNote validates its input; notes are passed around by value and not
// modified afterwards.
func NewNote(p string, startMs, durationMs float64, velocity int) (Note, error) {
	n := Note{Note: p, StartTime: startMs, Duration: durationMs, Velocity: velocity}
	return n, n.Validate()
}

func (n Note) Validate() error {
	if !pitch.Valid(n.Note) {
		return errors.Errorf("invalid pitch %q", n.Note)
	}
	if n.StartTime < 0 {
		return errors.Errorf("negative start time %v for %s", n.StartTime, n.Note)
	}
	if n.Duration < 0 {
		return errors.Errorf("negative duration %v for %s", n.Duration, n.Note)
	}
	if n.Velocity < 0 || n.Velocity > 127 {
		return errors.Errorf("velocity %d out of range for %s", n.Velocity, n.Note)
	}
	return nil
}

// Start is the note's offset once playback is sped up by speed.
func (n Note) Start(speed float64) time.Duration {
	return msToDuration(n.StartTime / speed)
}

// Length is the note's duration once playback is sped up by speed.
func (n Note) Length(speed float64) time.Duration {
	return msToDuration(n.Duration / speed)
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// Sequence is a melody or a performance, in performance order.
type Sequence = []Note

func Pitches(seq Sequence) []string {
	res := make([]string, 0, len(seq))
	for _, n := range seq {
		res = append(res, n.Note)
	}
	return res
}

func ValidateSequence(seq Sequence) error {
	for i, n := range seq {
		if err := n.Validate(); err != nil {
			return errors.Wrapf(err, "note %d", i)
		}
	}
	return nil
}

// NoteEdit is a partial note. Nil fields leave the stored value alone.
type NoteEdit struct {
	Note      *string  `json:"note,omitempty"`
	StartTime *float64 `json:"startTime,omitempty"`
	Duration  *float64 `json:"duration,omitempty"`
	Velocity  *int     `json:"velocity,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Apply lays e over n. Extra fields of e are added to those of n,
// replacing any of the same name.
func (e NoteEdit) Apply(n Note) Note {
	if len(e.Extra) > 0 {
		merged := make(map[string]json.RawMessage, len(n.Extra)+len(e.Extra))
		for k, v := range n.Extra {
			merged[k] = v
		}
		for k, v := range e.Extra {
			merged[k] = v
		}
		n.Extra = merged
	}
	if e.Note != nil {
		n.Note = *e.Note
	}
	if e.StartTime != nil {
		n.StartTime = *e.StartTime
	}
	if e.Duration != nil {
		n.Duration = *e.Duration
	}
	if e.Velocity != nil {
		n.Velocity = *e.Velocity
	}
	return n
}

type NotesFile struct {
	Notes Sequence `json:"notes"`
}

var noteFields = map[string]bool{"note": true, "startTime": true, "duration": true, "velocity": true}

// extraFields returns the members of the JSON object data that are not
// note fields, or nil if there are none.
func extraFields(data []byte) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for k := range all {
		if noteFields[k] {
			delete(all, k)
		}
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

func withExtra(known any, extra map[string]json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(known)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if !noteFields[k] {
			all[k] = v
		}
	}
	return json.Marshal(all)
}

func (n *Note) UnmarshalJSON(data []byte) error {
	type plain Note
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extraFields(data)
	if err != nil {
		return err
	}
	p.Extra = extra
	*n = Note(p)
	return nil
}

func (n Note) MarshalJSON() ([]byte, error) {
	type plain Note
	return withExtra(plain(n), n.Extra)
}

func (e *NoteEdit) UnmarshalJSON(data []byte) error {
	type plain NoteEdit
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extraFields(data)
	if err != nil {
		return err
	}
	p.Extra = extra
	*e = NoteEdit(p)
	return nil
}

func (e NoteEdit) MarshalJSON() ([]byte, error) {
	type plain NoteEdit
	return withExtra(plain(e), e.Extra)
}
