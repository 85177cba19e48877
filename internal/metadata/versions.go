// Package metadata tracks the metadata_versions stamp carried by result
// files. Curves and tables must only ever mix files produced by the same
// pipeline versions, so the first file's stamp becomes the reference and
// every later file has to match it.
package metadata

import (
	"fmt"
	"sort"

	"github.com/maldi-lab/amrcollect/internal/results"
)

// Versions maps a component name (e.g. "maldi_learn", "sklearn") to the
// version string it had when the result file was written.
type Versions map[string]string

// FromRecord extracts the metadata_versions object of a raw record.
// Returns nil when the record carries none (older files).
func FromRecord(rec results.RawRecord) Versions {
	raw, ok := rec["metadata_versions"].(map[string]any)
	if !ok {
		return nil
	}
	v := make(Versions, len(raw))
	for key, val := range raw {
		v[key] = fmt.Sprintf("%v", val)
	}
	return v
}

// MismatchError reports the first disagreement between two files' stamps.
type MismatchError struct {
	Path      string // file that disagrees
	FirstPath string // file that set the reference
	Key       string
	Want      string
	Got       string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: metadata_versions[%q] = %q, but %s recorded %q",
		e.Path, e.Key, e.Got, e.FirstPath, e.Want)
}

// Tracker compares stamps across a batch of files.
type Tracker struct {
	firstPath string
	reference Versions
}

// Observe records the first non-empty stamp as the reference and checks every
// subsequent one against it. Files without a stamp pass unchecked.
func (t *Tracker) Observe(path string, v Versions) error {
	if len(v) == 0 {
		return nil
	}
	if t.reference == nil {
		t.firstPath = path
		t.reference = v
		return nil
	}

	for _, key := range sortedKeys(t.reference) {
		got, ok := v[key]
		if !ok {
			return &MismatchError{
				Path: path, FirstPath: t.firstPath,
				Key: key, Want: t.reference[key], Got: "<missing>",
			}
		}
		if got != t.reference[key] {
			return &MismatchError{
				Path: path, FirstPath: t.firstPath,
				Key: key, Want: t.reference[key], Got: got,
			}
		}
	}
	for _, key := range sortedKeys(v) {
		if _, ok := t.reference[key]; !ok {
			return &MismatchError{
				Path: path, FirstPath: t.firstPath,
				Key: key, Want: "<missing>", Got: v[key],
			}
		}
	}
	return nil
}

// Reference returns the stamp all files are compared against, or nil when no
// stamped file has been observed yet.
func (t *Tracker) Reference() Versions { return t.reference }

func sortedKeys(v Versions) []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
