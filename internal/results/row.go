package results

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/maldi-lab/amrcollect/internal/projectconfig"
)

// Row is the flat representation of one evaluation run (or one fold of one
// run, for fold-shaped records). Rows sharing the same identity and
// stratification fields are repeated seeds of the same scenario and get
// pooled by the aggregator.
type Row struct {
	Species    string
	Antibiotic string
	Model      string

	// Stratification pairs, present only when both halves appear in the
	// source record. Years are space-joined so they can serve as a plain
	// string grouping key.
	TrainSite  string
	TestSite   string
	TrainYears string
	TestYears  string
	HasSites   bool
	HasYears   bool

	// Fold is the cross-validation fold index for fold-shaped records,
	// empty otherwise.
	Fold string

	Metrics map[string]float64
}

// MissingFieldError indicates a record lacks a required key. Every run must
// be attributable to one antibiotic, so this is fatal for the whole batch.
type MissingFieldError struct {
	Path  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: record has no %q key", e.Path, e.Field)
}

// identity carries the fixed fields decoded from a raw record. Pointers
// distinguish "absent" from "empty".
type identity struct {
	Species    *string  `mapstructure:"species"`
	Antibiotic *string  `mapstructure:"antibiotic"`
	Model      *string  `mapstructure:"model"`
	TrainSite  *string  `mapstructure:"train_site"`
	TestSite   *string  `mapstructure:"test_site"`
	TrainYears []string `mapstructure:"train_years"`
	TestYears  []string `mapstructure:"test_years"`
}

// BuildRows converts one raw record into rows.
//
// Flat-shaped records produce exactly one row; every matched metric value is
// scaled by 100 (the stored scores are probabilities in [0,1], the table
// shows percentages). Fold-shaped records produce one row per fold with the
// fixed fold metric set copied unscaled. A record with neither flat metrics
// nor folds produces no rows.
func BuildRows(path string, rec RawRecord) ([]Row, error) {
	id, err := decodeIdentity(path, rec)
	if err != nil {
		return nil, err
	}

	base := Row{
		Species:    projectconfig.DefaultSpecies,
		Antibiotic: *id.Antibiotic,
		Model:      projectconfig.DefaultModel,
	}
	if id.Species != nil {
		base.Species = *id.Species
	}
	if id.Model != nil {
		base.Model = *id.Model
	}
	if id.TrainSite != nil && id.TestSite != nil {
		base.TrainSite = *id.TrainSite
		base.TestSite = *id.TestSite
		base.HasSites = true
	}
	if id.TrainYears != nil && id.TestYears != nil {
		base.TrainYears = strings.Join(id.TrainYears, " ")
		base.TestYears = strings.Join(id.TestYears, " ")
		base.HasYears = true
	}

	if Probe(rec) == KindFlatMetrics {
		row := base
		row.Metrics = make(map[string]float64)
		for _, key := range flatMetricKeys(rec) {
			v, err := asFloat(rec[key])
			if err != nil {
				return nil, fmt.Errorf("%s: metric %q: %w", path, key, err)
			}
			row.Metrics[key] = v * 100.0
		}
		return []Row{row}, nil
	}

	return buildFoldRows(path, rec, base)
}

// buildFoldRows expands a fold-shaped record into one row per fold.
func buildFoldRows(path string, rec RawRecord, base Row) ([]Row, error) {
	var rows []Row
	for _, fold := range foldIDs(rec) {
		nested, ok := rec[fold].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: fold %q is not an object", path, fold)
		}

		row := base
		row.Fold = fold
		row.Metrics = make(map[string]float64, len(foldMetricKeys))
		for _, key := range foldMetricKeys {
			v, ok := nested[key]
			if !ok {
				return nil, fmt.Errorf("%s: fold %q has no %q key", path, fold, key)
			}
			f, err := asFloat(v)
			if err != nil {
				return nil, fmt.Errorf("%s: fold %q metric %q: %w", path, fold, key, err)
			}
			row.Metrics[key] = f
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeIdentity(path string, rec RawRecord) (*identity, error) {
	var id identity
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &id,
		WeaklyTypedInput: true, // year lists are sometimes stored as numbers
	})
	if err != nil {
		return nil, fmt.Errorf("building record decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(rec)); err != nil {
		return nil, fmt.Errorf("%s: decoding record: %w", path, err)
	}

	if id.Antibiotic == nil || *id.Antibiotic == "" {
		return nil, &MissingFieldError{Path: path, Field: "antibiotic"}
	}
	return &id, nil
}
