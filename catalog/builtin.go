package catalog

import "github.com/jsphweid/eartrainer/model"

func n(p string, start, dur float64) model.Note {
	return model.Note{Note: p, StartTime: start, Duration: dur, Velocity: 100}
}

var builtins = map[string]model.Sequence{
	"melody1": {n("C4", 0, 500), n("E4", 600, 500), n("G4", 1200, 500), n("C5", 1800, 1000)},
	"melody2": {n("E4", 0, 500), n("D4", 600, 500), n("C4", 1200, 1000)},
	"melody3": {n("C4", 0, 500), n("D4", 600, 500), n("E4", 1200, 500), n("F4", 1800, 500), n("G4", 2400, 1000)},
	"melody4": {n("G4", 0, 500), n("E4", 600, 500), n("G4", 1200, 500), n("E4", 1800, 500)},
	"melody5": {n("C4", 0, 500), n("G4", 600, 500), n("F4", 1200, 500), n("E4", 1800, 500)},
	"melody6": {n("C4", 0, 500), n("E4", 600, 500), n("D4", 1200, 500), n("F4", 1800, 500)},
	"melody7": {n("G4", 0, 500), n("F4", 600, 500), n("E4", 1200, 500), n("D4", 1800, 500), n("C4", 2400, 1000)},
	"melody8": {n("C4", 0, 500), n("F4", 600, 500), n("E4", 1200, 500), n("G4", 1800, 500), n("C4", 2400, 1000)},

	"twinkle": {
		n("C4", 0, 500), n("C4", 600, 500), n("G4", 1200, 500), n("G4", 1800, 500),
		n("A4", 2400, 500), n("A4", 3000, 500), n("G4", 3600, 800),
		n("F4", 4800, 500), n("F4", 5400, 500), n("E4", 6000, 500), n("E4", 6600, 500),
		n("D4", 7200, 500), n("D4", 7800, 500), n("C4", 8400, 800),
	},
	"mary": {
		n("E4", 0, 500), n("D4", 600, 500), n("C4", 1200, 500), n("D4", 1800, 500),
		n("E4", 2400, 500), n("E4", 3000, 500), n("E4", 3600, 800),
		n("D4", 4800, 500), n("D4", 5400, 500), n("D4", 6000, 800),
		n("E4", 7200, 500), n("G4", 7800, 500), n("G4", 8400, 800),
	},
}
