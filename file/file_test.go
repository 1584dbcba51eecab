package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateMelodyNumMap(t *testing.T) {
	m := CreateMelodyNumMap([]string{"a/01.mid", "a/02.mid", "b/x.midi"})
	assert.Equal(t, map[int]string{1: "a/01.mid", 2: "a/02.mid", 3: "b/x.midi"}, m)
	assert.Empty(t, CreateMelodyNumMap(nil))
}

func TestName(t *testing.T) {
	assert.Equal(t, "twinkle", Name("/tmp/songs/twinkle.mid"))
	assert.Equal(t, "mary", Name("mary.midi"))
}
