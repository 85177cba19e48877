package reporting

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maldi-lab/amrcollect/internal/ranking"
	"github.com/maldi-lab/amrcollect/internal/results"
	"github.com/maldi-lab/amrcollect/internal/table"
)

func sampleAgg() *table.Aggregated {
	return table.Aggregate([]results.Row{
		{Species: "E. coli", Antibiotic: "Ciprofloxacin", Model: "lr",
			Metrics: map[string]float64{"auroc": 90, "auprc": 80}},
		{Species: "E. coli", Antibiotic: "Ciprofloxacin", Model: "lr",
			Metrics: map[string]float64{"auroc": 80, "auprc": 70}},
		{Species: "E. coli", Antibiotic: "Ciprofloxacin", Model: "rf",
			Metrics: map[string]float64{"auroc": 95, "auprc": 85}},
	})
}

func TestFormatSummaryTable(t *testing.T) {
	out := FormatSummaryTable(sampleAgg(), Options{})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 4)

	header := lines[0]
	assert.Contains(t, header, "species")
	assert.Contains(t, header, "antibiotic")
	assert.Contains(t, header, "model")
	assert.Contains(t, header, "auprc mean")
	assert.Contains(t, header, "auroc std")
	// no stratification columns in this batch
	assert.NotContains(t, header, "train_site")

	assert.Contains(t, out, "85.00") // lr auroc mean
	assert.Contains(t, out, "5.00")  // lr auroc population std
	assert.Contains(t, out, "95.00") // rf auroc mean
	assert.Contains(t, out, "2 groups from 3 rows")
}

func TestFormatSummaryTable_SiteColumns(t *testing.T) {
	agg := table.Aggregate([]results.Row{
		{Species: "all", Antibiotic: "Ciprofloxacin", Model: "lr",
			TrainSite: "DRIAMS-A", TestSite: "DRIAMS-B", HasSites: true,
			Metrics: map[string]float64{"auroc": 75}},
	})

	out := FormatSummaryTable(agg, Options{})
	assert.Contains(t, out, "train_site")
	assert.Contains(t, out, "DRIAMS-B")
}

func TestFormatSummaryTable_NormalCI(t *testing.T) {
	out := FormatSummaryTable(sampleAgg(), Options{CI: CINormal})
	assert.Contains(t, out, "auroc ci95")
	assert.Contains(t, out, "[")
}

func TestFormatSummaryTable_BootstrapCIDeterministic(t *testing.T) {
	opts := Options{CI: CIBootstrap, BootstrapSeed: 13}
	a := FormatSummaryTable(sampleAgg(), opts)
	b := FormatSummaryTable(sampleAgg(), opts)
	assert.Equal(t, a, b)
}

func TestFormatRankTable(t *testing.T) {
	rt := &ranking.Table{
		Metric: "auroc",
		Models: []ranking.ModelRank{
			{Model: "rf", MeanValue: 95, MeanRank: 1, Scenarios: 1},
			{Model: "lr", MeanValue: 80, MeanRank: 2, Scenarios: 1},
		},
		ValidScenarios: 1,
		TotalScenarios: 2,
	}

	out := FormatRankTable(rt)
	assert.Contains(t, out, "auroc mean")
	assert.Contains(t, out, "rf")
	assert.Contains(t, out, "1.00")
	assert.Contains(t, out, "1 of 2 scenarios")

	// rf (rank 1) must print before lr (rank 2)
	assert.Less(t, strings.Index(out, "rf"), strings.Index(out, "lr"))
}

func TestWriteSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, sampleAgg()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 groups

	assert.Equal(t,
		[]string{"species", "antibiotic", "model", "auprc_mean", "auprc_std", "auroc_mean", "auroc_std"},
		records[0])
	// groups sorted by model: lr first
	assert.Equal(t, "lr", records[1][2])
	assert.Equal(t, "85", records[1][5])
}

func TestWriteSummaryJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryJSON(&buf, sampleAgg()))

	var groups []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &groups))
	require.Len(t, groups, 2)
	assert.Equal(t, "Ciprofloxacin", groups[0]["antibiotic"])

	metrics, ok := groups[0]["metrics"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, metrics, "auroc")
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
}
