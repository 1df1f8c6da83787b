// Package resolve turns a configured location into an ordered batch of file
// tasks.
//
// A location ending in a path separator names a directory: every entry whose
// name starts with a digit becomes a task, in natural numeric order. Anything
// else names a single file.
package resolve

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// FileTask is one file of a batch. Index is its fixed position in the batch and
// the only key used to address its result.
type FileTask struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
}

// Batch is an ordered sequence of tasks with indices 0..N-1.
type Batch []FileTask

// Paths returns the task paths in index order.
func (b Batch) Paths() []string {
	out := make([]string, len(b))
	for i, t := range b {
		out[i] = t.Path
	}
	return out
}

// Error reports a directory location that could not be enumerated.
type Error struct {
	Location string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Location, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsDirectory reports whether location denotes a directory, i.e. ends with a
// path separator. Both '/' and the OS separator are accepted.
func IsDirectory(location string) bool {
	if location == "" {
		return false
	}
	last := location[len(location)-1]
	return last == '/' || last == os.PathSeparator
}

// Resolve builds the batch for location. An empty directory match yields an
// empty batch and no error.
func Resolve(location string) (Batch, error) {
	if !IsDirectory(location) {
		return Batch{{Index: 0, Path: location}}, nil
	}

	entries, err := os.ReadDir(location)
	if err != nil {
		return nil, &Error{Location: location, Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !startsWithDigit(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}

	sort.SliceStable(names, func(i, j int) bool { return NaturalLess(names[i], names[j]) })

	batch := make(Batch, len(names))
	for i, name := range names {
		batch[i] = FileTask{Index: i, Path: location + name}
	}
	return batch, nil
}

func startsWithDigit(name string) bool {
	return name != "" && isDigit(name[0])
}

// Describe renders a short human summary of b for logs.
func Describe(b Batch) string {
	switch len(b) {
	case 0:
		return "empty batch"
	case 1:
		return "1 file: " + b[0].Path
	default:
		return fmt.Sprintf("%d files: %s .. %s", len(b), b[0].Path, b[len(b)-1].Path)
	}
}

// trimZeros strips leading zeros from a digit run, keeping at least one digit.
func trimZeros(s string) string {
	t := strings.TrimLeft(s, "0")
	if t == "" {
		return "0"
	}
	return t
}
