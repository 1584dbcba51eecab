package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Melody struct {
	ID         string   `json:"id"`
	Number     int      `json:"number"`
	Difficulty int      `json:"difficulty"`
	Concepts   []string `json:"concepts,omitempty"`
}

type RequiredScore struct {
	OneStar    int `json:"oneStar"`
	TwoStars   int `json:"twoStars"`
	ThreeStars int `json:"threeStars"`
}

type Unit struct {
	ID            int           `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Melodies      []Melody      `json:"melodies"`
	RequiredScore RequiredScore `json:"requiredScore"`
}

type WrongNote struct {
	Expected string `json:"expected"`
	Played   string `json:"played"`
	Position int    `json:"position"`
}

type MelodyAttempt struct {
	MelodyID   string      `json:"melodyId"`
	Timestamp  time.Time   `json:"timestamp"`
	IsFirstTry bool        `json:"isFirstTry"`
	Success    bool        `json:"success"`
	WrongNotes []WrongNote `json:"wrongNotes"`
}

type UnitProgress struct {
	UnitID            int             `json:"unitId"`
	CompletedMelodies []string        `json:"completedMelodies"`
	Score             int             `json:"score"`
	Stars             int             `json:"stars"`
	Attempts          []MelodyAttempt `json:"attempts"`
}

// MelodyNumber accepts both 3 and "3"; the browser client sends the
// number it cut out of a melody id as a string.
type MelodyNumber int

func (m *MelodyNumber) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		return errors.Errorf("melodyNumber: %s is not a number", data)
	}
	*m = MelodyNumber(n)
	return nil
}

func MelodyID(unitID, number int) string {
	return "unit" + strconv.Itoa(unitID) + "-melody" + strconv.Itoa(number)
}
