// Package discovery resolves user-supplied path arguments into the concrete
// list of result files to collect.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Options controls how paths are resolved.
type Options struct {
	// Extension is the result-file extension to match when a directory is
	// scanned, e.g. ".json". Gzipped variants (extension + ".gz") match too.
	Extension string

	// Exclude drops any resolved path containing this substring.
	// Empty means no filtering.
	Exclude string
}

// Resolve turns path arguments into a deterministic, lexicographically sorted
// list of result files.
//
// If exactly one path is given and it is a directory, every file beneath it
// (all subdirectories) whose name matches the extension is collected.
// Otherwise the arguments are taken literally as the file list and each must
// exist; a missing literal path surfaces the underlying fs.ErrNotExist.
func Resolve(paths []string, opts Options) ([]string, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input paths given")
	}

	ext := opts.Extension
	if ext == "" {
		ext = ".json"
	}

	var files []string
	scannedDir := false

	if len(paths) == 1 {
		info, err := os.Stat(paths[0])
		if err != nil {
			return nil, fmt.Errorf("input path: %w", err)
		}
		if info.IsDir() {
			files, err = walkResultFiles(paths[0], ext)
			if err != nil {
				return nil, err
			}
			// A directory with no matching files resolves to an empty
			// list, never to the directory itself.
			scannedDir = true
		}
	}

	// Not the single-directory case: the arguments are the file list.
	if !scannedDir {
		for _, p := range paths {
			if _, err := os.Stat(p); err != nil {
				return nil, fmt.Errorf("input path: %w", err)
			}
			files = append(files, p)
		}
	}

	if opts.Exclude != "" {
		kept := files[:0]
		for _, f := range files {
			if !strings.Contains(f, opts.Exclude) {
				kept = append(kept, f)
			}
		}
		files = kept
	}

	sort.Strings(files)
	return files, nil
}

// walkResultFiles recursively enumerates files under root matching ext or
// ext + ".gz".
func walkResultFiles(root string, ext string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}

		// Skip hidden directories
		if d.IsDir() && path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}

		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ext) || strings.HasSuffix(d.Name(), ext+".gz") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", root, err)
	}

	return files, nil
}
