// Package progress records melody attempts and turns them into unit
// scores and stars.
package progress

import (
	"context"
	"sort"
	"sync"

	"github.com/jsphweid/eartrainer/catalog"
	"github.com/jsphweid/eartrainer/model"
)

type Store interface {
	RecordAttempt(ctx context.Context, unitID int, a model.MelodyAttempt) error
	Attempts(ctx context.Context, unitID int) ([]model.MelodyAttempt, error)
}

// Summarize scores a unit: a melody counts once it has been played
// through without a wrong note at least once.
func Summarize(unit model.Unit, attempts []model.MelodyAttempt) model.UnitProgress {
	sorted := make([]model.MelodyAttempt, len(attempts))
	copy(sorted, attempts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	inUnit := make(map[string]bool, len(unit.Melodies))
	for _, m := range unit.Melodies {
		inUnit[m.ID] = true
	}

	completed := []string{}
	seen := make(map[string]bool)
	for _, a := range sorted {
		if a.Success && inUnit[a.MelodyID] && !seen[a.MelodyID] {
			seen[a.MelodyID] = true
			completed = append(completed, a.MelodyID)
		}
	}

	score := len(completed)
	return model.UnitProgress{
		UnitID:            unit.ID,
		CompletedMelodies: completed,
		Score:             score,
		Stars:             catalog.Stars(score, unit.RequiredScore),
		Attempts:          sorted,
	}
}

func Load(ctx context.Context, s Store, unit model.Unit) (model.UnitProgress, error) {
	attempts, err := s.Attempts(ctx, unit.ID)
	if err != nil {
		return model.UnitProgress{}, err
	}
	return Summarize(unit, attempts), nil
}

// Memory keeps attempts for the lifetime of the process.
type Memory struct {
	mu       sync.Mutex
	attempts map[int][]model.MelodyAttempt
}

func NewMemory() *Memory {
	return &Memory{attempts: make(map[int][]model.MelodyAttempt)}
}

func (m *Memory) RecordAttempt(ctx context.Context, unitID int, a model.MelodyAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[unitID] = append(m.attempts[unitID], a)
	return nil
}

func (m *Memory) Attempts(ctx context.Context, unitID int) ([]model.MelodyAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]model.MelodyAttempt, len(m.attempts[unitID]))
	copy(res, m.attempts[unitID])
	return res, nil
}
