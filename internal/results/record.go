package results

import (
	"fmt"
	"sort"
	"strings"
)

// Kind discriminates the two result-file shapes that exist in the wild.
type Kind int

const (
	// KindFlatMetrics is the common shape: metric values sit directly at the
	// top level under keys like "auroc" or "test_auprc_calibrated".
	KindFlatMetrics Kind = iota

	// KindFoldMetrics is the older per-fold shape: numeric top-level keys
	// ("0", "1", ...) each hold a nested object with a fixed metric set.
	KindFoldMetrics
)

// metricSubstrings is the ordered list of recognized metric-name fragments.
// Matching by substring tolerates the suffix variants that accumulated over
// time (e.g. "auroc_calibrated") without enumerating them all.
var metricSubstrings = []string{
	"accuracy",
	"auprc",
	"auroc",
	"train_accuracy",
	"train_auprc",
	"train_auroc",
	"test_accuracy",
	"test_auprc",
	"test_auroc",
}

// foldMetricKeys is the fixed metric set of the per-fold shape. The accuracy
// variants are deliberately absent: the runs that produced fold files never
// stored comparable accuracy values.
var foldMetricKeys = []string{
	"test_source_auprc",
	"test_source_auroc",
	"test_target_auprc",
	"test_target_auroc",
}

// Probe decides which shape a record uses. Flat metric keys win; the fold
// shape is only assumed when the substring scan finds nothing.
func Probe(rec RawRecord) Kind {
	if len(flatMetricKeys(rec)) > 0 {
		return KindFlatMetrics
	}
	return KindFoldMetrics
}

// flatMetricKeys returns every top-level key containing one of the
// recognized metric substrings, sorted for determinism.
func flatMetricKeys(rec RawRecord) []string {
	seen := make(map[string]bool)
	for _, sub := range metricSubstrings {
		for key := range rec {
			if strings.Contains(key, sub) {
				seen[key] = true
			}
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// foldIDs returns the purely numeric top-level keys of a fold-shaped record,
// sorted. These are cross-validation fold indices.
func foldIDs(rec RawRecord) []string {
	var ids []string
	for key := range rec {
		if key != "" && isNumeric(key) {
			ids = append(ids, key)
		}
	}
	sort.Strings(ids)
	return ids
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// asFloat converts a JSON-decoded value to float64.
func asFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not numeric", v, v)
	}
}
