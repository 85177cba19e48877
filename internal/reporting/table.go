// Package reporting renders aggregated and ranked results as text tables,
// CSV, and JSON.
package reporting

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/maldi-lab/amrcollect/internal/ranking"
	"github.com/maldi-lab/amrcollect/internal/stats"
	"github.com/maldi-lab/amrcollect/internal/table"
)

// CIMode selects the optional confidence-interval columns.
type CIMode string

const (
	CINone      CIMode = ""
	CINormal    CIMode = "normal"
	CIBootstrap CIMode = "bootstrap"
)

// Options controls summary-table rendering.
type Options struct {
	CI CIMode

	// BootstrapSeed makes bootstrap intervals reproducible; negative means
	// non-deterministic.
	BootstrapSeed int64
}

// countPrinter formats row/group counts in the footer.
var countPrinter = message.NewPrinter(language.English)

// FormatSummaryTable renders the grouped mean/std table. Floats use two
// decimals, matching the tables the experiment notebooks were built around.
func FormatSummaryTable(agg *table.Aggregated, opts Options) string {
	header := keyColumns(agg)
	for _, m := range agg.Metrics {
		header = append(header, m+" mean", m+" std")
		if opts.CI != CINone {
			header = append(header, m+" ci95")
		}
	}

	rows := make([][]string, 0, len(agg.Groups))
	for _, k := range agg.Keys() {
		row := keyCells(agg, k)
		group := agg.Groups[k]
		for _, m := range agg.Metrics {
			s, ok := group[m]
			if !ok {
				row = append(row, "-", "-")
				if opts.CI != CINone {
					row = append(row, "-")
				}
				continue
			}
			row = append(row, fmt.Sprintf("%.2f", s.Mean), fmt.Sprintf("%.2f", s.Std))
			if opts.CI != CINone {
				lo, hi := confidenceInterval(s, opts)
				row = append(row, fmt.Sprintf("[%.2f, %.2f]", lo, hi))
			}
		}
		rows = append(rows, row)
	}

	var b strings.Builder
	writeAligned(&b, header, rows)
	b.WriteString("\n")
	b.WriteString(countPrinter.Sprintf("%d groups from %d rows\n",
		len(agg.Groups), agg.RowCount()))
	return b.String()
}

// FormatRankTable renders the per-model average-value/average-rank table.
func FormatRankTable(rt *ranking.Table) string {
	header := []string{"model", rt.Metric + " mean", "rank", "scenarios"}
	rows := make([][]string, 0, len(rt.Models))
	for _, m := range rt.Models {
		rows = append(rows, []string{
			m.Model,
			fmt.Sprintf("%.2f", m.MeanValue),
			fmt.Sprintf("%.2f", m.MeanRank),
			fmt.Sprintf("%d", m.Scenarios),
		})
	}

	var b strings.Builder
	writeAligned(&b, header, rows)
	b.WriteString("\n")
	b.WriteString(countPrinter.Sprintf("%d of %d scenarios had at least two competing models\n",
		rt.ValidScenarios, rt.TotalScenarios))
	return b.String()
}

func confidenceInterval(s table.Summary, opts Options) (float64, float64) {
	if opts.CI == CIBootstrap {
		ci := stats.BootstrapCIWithSeed(s.Values, 0.95, opts.BootstrapSeed)
		return ci.Lower, ci.Upper
	}
	return stats.ConfidenceInterval95(s.Values)
}

// keyColumns lists the active grouping columns for this batch.
func keyColumns(agg *table.Aggregated) []string {
	cols := []string{"species", "antibiotic", "model"}
	if agg.HasSites {
		cols = append(cols, "train_site", "test_site")
	}
	if agg.HasYears {
		cols = append(cols, "train_years", "test_years")
	}
	return cols
}

func keyCells(agg *table.Aggregated, k table.Key) []string {
	cells := []string{k.Species, k.Antibiotic, k.Model}
	if agg.HasSites {
		cells = append(cells, k.TrainSite, k.TestSite)
	}
	if agg.HasYears {
		cells = append(cells, k.TrainYears, k.TestYears)
	}
	return cells
}

// writeAligned prints header and rows as space-separated columns, each padded
// to its widest cell.
func writeAligned(b *strings.Builder, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(padRight(cell, widths[i]))
		}
		b.WriteString("\n")
	}

	writeRow(header)
	total := 0
	for _, w := range widths {
		total += w
	}
	b.WriteString(strings.Repeat("-", total+2*(len(widths)-1)))
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
