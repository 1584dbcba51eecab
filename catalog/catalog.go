// Package catalog holds the fixed course content: units, their melodies
// and a handful of built-in note tables.
package catalog

import (
	"github.com/jsphweid/eartrainer/model"
	"github.com/jsphweid/eartrainer/util"
	"github.com/pkg/errors"
)

const melodiesPerUnit = 10

var defaultRequiredScore = model.RequiredScore{OneStar: 6, TwoStars: 8, ThreeStars: 9}

var units = []model.Unit{
	newUnit(1, "Unit 1", "Basic melodic patterns", 1, "Basic Intervals", "Simple Patterns"),
	newUnit(2, "Unit 2", "Intermediate melodic patterns", 2, "Intermediate Intervals", "Complex Patterns"),
}

func newUnit(id int, title, description string, difficulty int, concepts ...string) model.Unit {
	u := model.Unit{
		ID:            id,
		Title:         title,
		Description:   description,
		RequiredScore: defaultRequiredScore,
	}
	for n := 1; n <= melodiesPerUnit; n++ {
		u.Melodies = append(u.Melodies, model.Melody{
			ID:         model.MelodyID(id, n),
			Number:     n,
			Difficulty: difficulty,
			Concepts:   concepts,
		})
	}
	return u
}

func Units() []model.Unit {
	res := make([]model.Unit, len(units))
	copy(res, units)
	return res
}

func Unit(id int) (model.Unit, bool) {
	for _, u := range units {
		if u.ID == id {
			return u, true
		}
	}
	return model.Unit{}, false
}

func Melody(unitID, number int) (model.Melody, error) {
	u, ok := Unit(unitID)
	if !ok {
		return model.Melody{}, errors.Errorf("no unit %d", unitID)
	}
	for _, m := range u.Melodies {
		if m.Number == number {
			return m, nil
		}
	}
	return model.Melody{}, errors.Errorf("unit %d has no melody %d", unitID, number)
}

// Stars converts a unit score into 0 to 3 stars.
func Stars(score int, required model.RequiredScore) int {
	switch {
	case score >= required.ThreeStars:
		return 3
	case score >= required.TwoStars:
		return 2
	case score >= required.OneStar:
		return 1
	default:
		return 0
	}
}

func Builtin(name string) (model.Sequence, bool) {
	seq, ok := builtins[name]
	if !ok {
		return nil, false
	}
	res := make(model.Sequence, len(seq))
	copy(res, seq)
	return res, true
}

func BuiltinNames() []string {
	return util.GetKeysSorted(builtins)
}
