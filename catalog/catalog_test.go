package catalog

import (
	"testing"

	"github.com/jsphweid/eartrainer/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnits(t *testing.T) {
	us := Units()
	require.Len(t, us, 2)
	for _, u := range us {
		assert.Len(t, u.Melodies, 10)
		assert.Equal(t, model.RequiredScore{OneStar: 6, TwoStars: 8, ThreeStars: 9}, u.RequiredScore)
	}
	assert.Equal(t, "unit2-melody10", us[1].Melodies[9].ID)
}

func TestMelody(t *testing.T) {
	m, err := Melody(1, 3)
	require.NoError(t, err)
	assert.Equal(t, "unit1-melody3", m.ID)

	_, err = Melody(1, 11)
	assert.Error(t, err)
	_, err = Melody(9, 1)
	assert.Error(t, err)
}

func TestStars(t *testing.T) {
	req := model.RequiredScore{OneStar: 6, TwoStars: 8, ThreeStars: 9}
	cases := map[int]int{0: 0, 5: 0, 6: 1, 7: 1, 8: 2, 9: 3, 10: 3}
	for score, want := range cases {
		assert.Equal(t, want, Stars(score, req), "score %d", score)
	}
}

func TestBuiltinsAreValid(t *testing.T) {
	names := BuiltinNames()
	assert.Contains(t, names, "twinkle")
	assert.Contains(t, names, "mary")
	for _, name := range names {
		seq, ok := Builtin(name)
		require.True(t, ok)
		assert.NoError(t, model.ValidateSequence(seq), name)
	}
}

func TestBuiltinReturnsCopy(t *testing.T) {
	seq, _ := Builtin("mary")
	seq[0].Note = "B3"

	again, _ := Builtin("mary")
	assert.Equal(t, "E4", again[0].Note)
}
