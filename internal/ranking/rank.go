// Package ranking turns an aggregated table into per-model average ranks
// across evaluation scenarios.
package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maldi-lab/amrcollect/internal/table"
)

// UnknownMetricError indicates the requested ranking metric was not among
// the columns discovered for this batch.
type UnknownMetricError struct {
	Metric    string
	Available []string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("unknown ranking metric %q (available: %s)",
		e.Metric, strings.Join(e.Available, ", "))
}

// ModelRank is the final per-model result: its metric mean and rank, each
// averaged independently over all valid scenarios it entered.
type ModelRank struct {
	Model     string  `json:"model"`
	MeanValue float64 `json:"mean_value"`
	MeanRank  float64 `json:"mean_rank"`
	Scenarios int     `json:"scenarios"`
}

// Table is the ranking output for one metric.
type Table struct {
	Metric         string      `json:"metric"`
	Models         []ModelRank `json:"models"`
	ValidScenarios int         `json:"valid_scenarios"`
	TotalScenarios int         `json:"total_scenarios"`
}

// A scenario is one (species, antibiotic) pair; entries are the aggregated
// groups competing inside it.
type scenarioKey struct {
	species    string
	antibiotic string
}

type entry struct {
	model string
	mean  float64
}

// Rank computes per-model average ranks for the chosen metric.
//
// Within each (species, antibiotic) scenario, entries are ranked by
// descending mean with ties receiving the average of their positions (two
// models tied for best both get 1.5). Scenarios with fewer than two distinct
// models carry no comparative signal and are excluded entirely — a sole
// participant must not trivially win every scenario it enters.
func Rank(agg *table.Aggregated, metric string) (*Table, error) {
	if !agg.HasMetric(metric) {
		return nil, &UnknownMetricError{Metric: metric, Available: agg.Metrics}
	}

	// Collect the chosen metric's mean per group, bucketed by scenario.
	// Iterating sorted keys keeps the float accumulation order stable.
	scenarios := make(map[scenarioKey][]entry)
	for _, k := range agg.Keys() {
		s, ok := agg.Groups[k][metric]
		if !ok {
			continue
		}
		sk := scenarioKey{species: k.Species, antibiotic: k.Antibiotic}
		scenarios[sk] = append(scenarios[sk], entry{model: k.Model, mean: s.Mean})
	}

	type accum struct {
		sumValue  float64
		sumRank   float64
		entries   int
		scenarios map[scenarioKey]bool
	}
	perModel := make(map[string]*accum)

	valid := 0
	for sk, entries := range scenarios {
		if countDistinctModels(entries) < 2 {
			continue
		}
		valid++

		ranks := averageRanks(entries)
		for i, e := range entries {
			acc := perModel[e.model]
			if acc == nil {
				acc = &accum{scenarios: make(map[scenarioKey]bool)}
				perModel[e.model] = acc
			}
			acc.sumValue += e.mean
			acc.sumRank += ranks[i]
			acc.entries++
			acc.scenarios[sk] = true
		}
	}

	out := &Table{
		Metric:         metric,
		ValidScenarios: valid,
		TotalScenarios: len(scenarios),
	}
	for model, acc := range perModel {
		out.Models = append(out.Models, ModelRank{
			Model:     model,
			MeanValue: acc.sumValue / float64(acc.entries),
			MeanRank:  acc.sumRank / float64(acc.entries),
			Scenarios: len(acc.scenarios),
		})
	}
	sort.Slice(out.Models, func(i, j int) bool {
		if out.Models[i].MeanRank != out.Models[j].MeanRank {
			return out.Models[i].MeanRank < out.Models[j].MeanRank
		}
		return out.Models[i].Model < out.Models[j].Model
	})

	return out, nil
}

func countDistinctModels(entries []entry) int {
	models := make(map[string]bool, len(entries))
	for _, e := range entries {
		models[e.model] = true
	}
	return len(models)
}

// averageRanks assigns competition ranks by descending mean, resolving ties
// by averaging the tied positions. The returned slice is parallel to entries.
func averageRanks(entries []entry) []float64 {
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return entries[idx[a]].mean > entries[idx[b]].mean
	})

	ranks := make([]float64, len(entries))
	pos := 0
	for pos < len(idx) {
		end := pos
		for end+1 < len(idx) && entries[idx[end+1]].mean == entries[idx[pos]].mean {
			end++
		}
		// positions are 1-based; tied entries share the average position
		avg := float64(pos+1+end+1) / 2.0
		for i := pos; i <= end; i++ {
			ranks[idx[i]] = avg
		}
		pos = end + 1
	}
	return ranks
}
