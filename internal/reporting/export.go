package reporting

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/maldi-lab/amrcollect/internal/ranking"
	"github.com/maldi-lab/amrcollect/internal/table"
)

// WriteSummaryCSV writes the grouped table with one mean and one std column
// per metric. Floats keep full precision here; rounding is a display concern.
func WriteSummaryCSV(w io.Writer, agg *table.Aggregated) error {
	cw := csv.NewWriter(w)

	header := keyColumns(agg)
	for _, m := range agg.Metrics {
		header = append(header, m+"_mean", m+"_std")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv: writing header: %w", err)
	}

	for _, k := range agg.Keys() {
		row := keyCells(agg, k)
		group := agg.Groups[k]
		for _, m := range agg.Metrics {
			s, ok := group[m]
			if !ok {
				row = append(row, "", "")
				continue
			}
			row = append(row,
				fmt.Sprintf("%g", s.Mean),
				fmt.Sprintf("%g", s.Std))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// summaryGroup is one JSON output record.
type summaryGroup struct {
	table.Key
	Metrics map[string]table.Summary `json:"metrics"`
}

// WriteSummaryJSON writes the grouped table as a JSON array, one object per
// group, in presentation order.
func WriteSummaryJSON(w io.Writer, agg *table.Aggregated) error {
	groups := make([]summaryGroup, 0, len(agg.Groups))
	for _, k := range agg.Keys() {
		groups = append(groups, summaryGroup{Key: k, Metrics: agg.Groups[k]})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(groups)
}

// WriteRankJSON writes the rank table as indented JSON.
func WriteRankJSON(w io.Writer, rt *ranking.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rt)
}
