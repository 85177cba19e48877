// Package results reads per-experiment result files and turns them into flat
// rows ready for aggregation. Result files are JSON documents, one per
// trained model and evaluation run, whose schema evolved over several
// experiment generations.
package results

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// RawRecord is the parsed content of one result file: a mapping from string
// keys to heterogeneous values. It only lives until rows are built from it.
type RawRecord map[string]any

// ErrEmptyFile marks a result file with no payload, e.g. a run that crashed
// before writing anything. Callers skip these; they are not an error for the
// batch.
var ErrEmptyFile = errors.New("result file has no content")

// ParseError indicates a result file had content that is not valid JSON.
// Unlike an empty file this is fatal for the whole run, since it points at
// data corruption rather than an expected missing-data case.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load reads one result file and returns its parsed record.
//
// Some result files are prefixed with log lines emitted before the JSON
// payload; everything before the first line beginning with '{' is ignored.
// Files ending in .gz are decompressed transparently. Returns ErrEmptyFile
// when nothing remains after prefix skipping.
func Load(path string) (RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening result file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		defer gz.Close() //nolint:errcheck
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading result file %s: %w", path, err)
	}

	payload := skipLogPrefix(data)
	if len(payload) == 0 {
		return nil, ErrEmptyFile
	}

	var rec RawRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return rec, nil
}

// skipLogPrefix returns the suffix of data starting at the first line that
// begins with '{'. If no such line exists the remaining payload is empty.
func skipLogPrefix(data []byte) []byte {
	rest := data
	for len(rest) > 0 {
		if rest[0] == '{' {
			return rest
		}
		nl := bytes.IndexByte(rest, '\n')
		if nl < 0 {
			break
		}
		rest = rest[nl+1:]
	}
	return nil
}
