package util

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

func GatherAllMidiPaths(path string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if strings.HasSuffix(s, ".mid") || strings.HasSuffix(s, ".midi") {
				if maxNum == 0 || len(res) < maxNum {
					res = append(res, s)
				}
			}
		}
		return nil
	}
	if err := filepath.WalkDir(path, walk); err != nil {
		return nil, errors.Wrapf(err, "walking %s", path)
	}
	sort.Strings(res)
	return res, nil
}

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func GetKeysSorted[A constraints.Ordered, B any](m map[A]B) []A {
	keys := GetKeys(m)
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}

func WriteJSON(filename string, data any) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return errors.Wrapf(err, "creating dir for %s", filename)
	}
	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encoding %s", filename)
	}
	if err := os.WriteFile(filename, buf, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", filename)
	}
	return nil
}

// ReadJSON decodes filename into data. A missing file is returned as an
// error satisfying errors.Is(err, fs.ErrNotExist).
func ReadJSON(filename string, data any) error {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(buf, data); err != nil {
		return errors.Wrapf(err, "decoding %s", filename)
	}
	return nil
}

func Min[A constraints.Ordered](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Ordered](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

func Clamp[A constraints.Ordered](v, lo, hi A) A {
	return Max(lo, Min(v, hi))
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}
