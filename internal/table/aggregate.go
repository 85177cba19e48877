// Package table pools rows by identity key and summarises every metric as
// mean and standard deviation over repeated seeds.
package table

import (
	"log/slog"
	"sort"

	"github.com/maldi-lab/amrcollect/internal/results"
	"github.com/maldi-lab/amrcollect/internal/stats"
)

// Key identifies one group of pooled rows. Site and year fields stay empty
// unless the corresponding pair is active for the whole batch.
type Key struct {
	Species    string `json:"species"`
	Antibiotic string `json:"antibiotic"`
	Model      string `json:"model"`
	TrainSite  string `json:"train_site,omitempty"`
	TestSite   string `json:"test_site,omitempty"`
	TrainYears string `json:"train_years,omitempty"`
	TestYears  string `json:"test_years,omitempty"`
}

// Summary is the pooled statistic of one metric within one group.
type Summary struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	N    int     `json:"n"`

	// Values keeps the contributing samples so confidence intervals can be
	// computed on demand.
	Values []float64 `json:"-"`
}

// Aggregated is the grouped mean/std table over an input batch.
type Aggregated struct {
	// HasSites and HasYears report whether the site or year stratification
	// pair was seen anywhere in the batch. Column presence is a global
	// property, not a per-row one: a single run with sites widens the
	// grouping key for everyone.
	HasSites bool
	HasYears bool

	// Metrics is the sorted union of metric names discovered for this batch.
	Metrics []string

	Groups map[Key]map[string]Summary

	rowCount int
}

// Aggregate pools all rows. Two rows with identical keys are repeated trials
// (different random seeds) of the same scenario and are averaged together,
// never treated as independent scenarios.
func Aggregate(rows []results.Row) *Aggregated {
	agg := &Aggregated{
		Groups:   make(map[Key]map[string]Summary),
		rowCount: len(rows),
	}

	// First pass: decide the grouping key shape and the metric column set.
	metricSet := make(map[string]bool)
	for _, r := range rows {
		if r.HasSites {
			agg.HasSites = true
		}
		if r.HasYears {
			agg.HasYears = true
		}
		for m := range r.Metrics {
			metricSet[m] = true
		}
	}
	for m := range metricSet {
		agg.Metrics = append(agg.Metrics, m)
	}
	sort.Strings(agg.Metrics)

	// Second pass: pool values per group and metric.
	pooled := make(map[Key]map[string][]float64)
	for _, r := range rows {
		k := agg.keyFor(r)
		if pooled[k] == nil {
			pooled[k] = make(map[string][]float64)
		}
		for m, v := range r.Metrics {
			pooled[k][m] = append(pooled[k][m], v)
		}
	}

	for k, metrics := range pooled {
		group := make(map[string]Summary, len(metrics))
		for m, values := range metrics {
			group[m] = Summary{
				Mean:   stats.Mean(values),
				Std:    stats.StdDev(values),
				N:      len(values),
				Values: values,
			}
		}
		agg.Groups[k] = group
	}

	return agg
}

func (a *Aggregated) keyFor(r results.Row) Key {
	k := Key{
		Species:    r.Species,
		Antibiotic: r.Antibiotic,
		Model:      r.Model,
	}
	if a.HasSites {
		k.TrainSite = r.TrainSite
		k.TestSite = r.TestSite
		if !r.HasSites {
			slog.Debug("row lacks site columns active for this batch, pooled under empty sites",
				"species", r.Species, "antibiotic", r.Antibiotic, "model", r.Model)
		}
	}
	if a.HasYears {
		k.TrainYears = r.TrainYears
		k.TestYears = r.TestYears
		if !r.HasYears {
			slog.Debug("row lacks year columns active for this batch, pooled under empty years",
				"species", r.Species, "antibiotic", r.Antibiotic, "model", r.Model)
		}
	}
	return k
}

// Keys returns the group keys in a stable presentation order.
func (a *Aggregated) Keys() []Key {
	keys := make([]Key, 0, len(a.Groups))
	for k := range a.Groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].less(keys[j])
	})
	return keys
}

// RowCount is the number of contributing rows (after fold expansion).
func (a *Aggregated) RowCount() int { return a.rowCount }

// HasMetric reports whether the batch discovered the given metric column.
func (a *Aggregated) HasMetric(name string) bool {
	for _, m := range a.Metrics {
		if m == name {
			return true
		}
	}
	return false
}

func (k Key) less(o Key) bool {
	if k.Species != o.Species {
		return k.Species < o.Species
	}
	if k.Antibiotic != o.Antibiotic {
		return k.Antibiotic < o.Antibiotic
	}
	if k.Model != o.Model {
		return k.Model < o.Model
	}
	if k.TrainSite != o.TrainSite {
		return k.TrainSite < o.TrainSite
	}
	if k.TestSite != o.TestSite {
		return k.TestSite < o.TestSite
	}
	if k.TrainYears != o.TrainYears {
		return k.TrainYears < o.TrainYears
	}
	return k.TestYears < o.TestYears
}
