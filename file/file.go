package file

import (
	"path/filepath"
	"strings"
)

// CreateMelodyNumMap numbers paths from 1 in the order given.
func CreateMelodyNumMap(paths []string) map[int]string {
	res := make(map[int]string, len(paths))
	for i, v := range paths {
		res[i+1] = v
	}
	return res
}

// Name is the file name without directory or extension.
func Name(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
