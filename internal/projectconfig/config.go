// Package projectconfig provides the ProjectConfig struct and loader for
// .amrcollect.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values for project configuration. These are the single source of
// truth — New() references them and no other code should duplicate them.
//
// DefaultSpecies and DefaultModel are stable sentinels: older result files
// omit these keys and downstream plotting relies on exactly these values
// being filled in.
const (
	// DefaultSpecies is used when a result file carries no species key,
	// meaning the run pooled all species.
	DefaultSpecies = "all"

	// DefaultModel is the legacy model name assumed for result files written
	// before the model key existed. Those runs were all logistic regression.
	DefaultModel = "lr"

	// DefaultExtension is the result-file extension searched for when a
	// directory is given instead of an explicit file list.
	DefaultExtension = ".json"

	DefaultWorkers = 4

	DefaultFetchDir = "results/"
)

// KnownModels lists every model name the experiment pipeline produces.
// check uses this to flag typos; collect does not enforce it.
var KnownModels = []string{"lr", "rf", "svm-rbf", "svm-linear", "lightgbm"}

// PathsConfig holds directory defaults for collection and fetching.
type PathsConfig struct {
	Results  string `yaml:"results,omitempty"`
	FetchDir string `yaml:"fetch_dir,omitempty"`
}

// CollectConfig holds default collection parameters.
type CollectConfig struct {
	Extension string `yaml:"extension,omitempty"`
	Exclude   string `yaml:"exclude,omitempty"`
	Parallel  *bool  `yaml:"parallel,omitempty"`
	Workers   int    `yaml:"workers,omitempty"`
}

// FetchConfig holds Azure Blob Storage settings for the fetch command.
type FetchConfig struct {
	Account   string `yaml:"account,omitempty"`
	Container string `yaml:"container,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .amrcollect.yaml.
type ProjectConfig struct {
	Paths   PathsConfig   `yaml:"paths,omitempty"`
	Collect CollectConfig `yaml:"collect,omitempty"`
	Fetch   FetchConfig   `yaml:"fetch,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Paths: PathsConfig{
			Results:  "results/",
			FetchDir: DefaultFetchDir,
		},
		Collect: CollectConfig{
			Extension: DefaultExtension,
			Exclude:   "",
			Parallel:  boolPtr(false),
			Workers:   DefaultWorkers,
		},
	}
}

// Load finds .amrcollect.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading .amrcollect.yaml: %w", err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing .amrcollect.yaml: %w", err)
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .amrcollect.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Propagates real
// I/O errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) ([]byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	for i := 0; i < 10; i++ {
		candidate := filepath.Join(absDir, ".amrcollect.yaml")
		data, err := os.ReadFile(candidate)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			break
		}
		absDir = parent
	}

	return nil, os.ErrNotExist
}

// mergeConfig copies non-zero fields from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Paths.Results != "" {
		dst.Paths.Results = src.Paths.Results
	}
	if src.Paths.FetchDir != "" {
		dst.Paths.FetchDir = src.Paths.FetchDir
	}
	if src.Collect.Extension != "" {
		dst.Collect.Extension = src.Collect.Extension
	}
	if src.Collect.Exclude != "" {
		dst.Collect.Exclude = src.Collect.Exclude
	}
	if src.Collect.Parallel != nil {
		dst.Collect.Parallel = src.Collect.Parallel
	}
	if src.Collect.Workers > 0 {
		dst.Collect.Workers = src.Collect.Workers
	}
	if src.Fetch.Account != "" {
		dst.Fetch.Account = src.Fetch.Account
	}
	if src.Fetch.Container != "" {
		dst.Fetch.Container = src.Fetch.Container
	}
	if src.Fetch.Prefix != "" {
		dst.Fetch.Prefix = src.Fetch.Prefix
	}
}

func boolPtr(b bool) *bool { return &b }
