// Package store keeps melody notes as JSON files, one per melody, under
// unit{unitId}/melody{melodyNumber}_notes.json.
package store

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/jsphweid/eartrainer/catalog"
	"github.com/jsphweid/eartrainer/model"
	"github.com/jsphweid/eartrainer/util"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("notes not found")

type Store struct {
	mu  sync.Mutex
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Path(unitID, melodyNumber int) string {
	return filepath.Join(s.dir, fmt.Sprintf("unit%d", unitID), fmt.Sprintf("melody%d_notes.json", melodyNumber))
}

func (s *Store) Load(unitID, melodyNumber int) (model.Sequence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(unitID, melodyNumber)
}

func (s *Store) load(unitID, melodyNumber int) (model.Sequence, error) {
	var f model.NotesFile
	err := util.ReadJSON(s.Path(unitID, melodyNumber), &f)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(ErrNotFound, "unit %d melody %d", unitID, melodyNumber)
	}
	if err != nil {
		return nil, err
	}
	return f.Notes, nil
}

// Resolve loads the stored notes and falls back to the built-in table
// "melody{melodyNumber}" when nothing has been saved yet.
func (s *Store) Resolve(unitID, melodyNumber int) (model.Sequence, error) {
	seq, err := s.Load(unitID, melodyNumber)
	if !errors.Is(err, ErrNotFound) {
		return seq, err
	}
	if builtin, ok := catalog.Builtin(fmt.Sprintf("melody%d", melodyNumber)); ok {
		return builtin, nil
	}
	return nil, err
}

// Save merges edits into the stored notes by position and writes the
// result back. The write is not atomic: a failure part way through can
// leave the previous file or a truncated one.
func (s *Store) Save(unitID, melodyNumber int, edits []model.NoteEdit) (model.Sequence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load(unitID, melodyNumber)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	merged, err := Merge(existing, edits)
	if err != nil {
		return nil, err
	}
	if err := util.WriteJSON(s.Path(unitID, melodyNumber), model.NotesFile{Notes: merged}); err != nil {
		return nil, err
	}
	return merged, nil
}

// Replace writes seq as is, e.g. after importing a MIDI file.
func (s *Store) Replace(unitID, melodyNumber int, seq model.Sequence) error {
	if err := model.ValidateSequence(seq); err != nil {
		return errors.Wrap(err, "invalid notes")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return util.WriteJSON(s.Path(unitID, melodyNumber), model.NotesFile{Notes: seq})
}

// Merge lays edits over existing: entry i is existing[i] with the fields
// set in edits[i] overwritten. Edits past the end of existing are
// appended. The result has exactly len(edits) entries; stored notes past
// that are dropped.
func Merge(existing model.Sequence, edits []model.NoteEdit) (model.Sequence, error) {
	merged := make(model.Sequence, 0, len(edits))
	for i, edit := range edits {
		var base model.Note
		if i < len(existing) {
			base = existing[i]
		}
		n := edit.Apply(base)
		if err := n.Validate(); err != nil {
			return nil, &InvalidNoteError{Index: i, Err: err}
		}
		merged = append(merged, n)
	}
	return merged, nil
}

type InvalidNoteError struct {
	Index int
	Err   error
}

func (e *InvalidNoteError) Error() string {
	return fmt.Sprintf("note %d: %v", e.Index, e.Err)
}

func (e *InvalidNoteError) Unwrap() error {
	return e.Err
}
