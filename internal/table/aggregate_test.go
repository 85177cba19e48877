package table

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maldi-lab/amrcollect/internal/results"
)

func row(species, antibiotic, model string, metrics map[string]float64) results.Row {
	return results.Row{
		Species:    species,
		Antibiotic: antibiotic,
		Model:      model,
		Metrics:    metrics,
	}
}

func TestAggregate_PoolsSeedsIntoOneGroup(t *testing.T) {
	rows := []results.Row{
		row("E. coli", "Ciprofloxacin", "lr", map[string]float64{"auroc": 90}),
		row("E. coli", "Ciprofloxacin", "lr", map[string]float64{"auroc": 80}),
	}

	agg := Aggregate(rows)
	require.Len(t, agg.Groups, 1)

	k := Key{Species: "E. coli", Antibiotic: "Ciprofloxacin", Model: "lr"}
	s := agg.Groups[k]["auroc"]
	assert.InDelta(t, 85.0, s.Mean, 1e-9)
	assert.InDelta(t, 5.0, s.Std, 1e-9) // population std of [90, 80]
	assert.Equal(t, 2, s.N)
}

func TestAggregate_SingleRowStdIsZero(t *testing.T) {
	agg := Aggregate([]results.Row{
		row("all", "Amoxicillin", "rf", map[string]float64{"auprc": 70}),
	})

	k := Key{Species: "all", Antibiotic: "Amoxicillin", Model: "rf"}
	s := agg.Groups[k]["auprc"]
	assert.InDelta(t, 70.0, s.Mean, 1e-9)
	assert.Zero(t, s.Std)
	assert.Equal(t, 1, s.N)
}

func TestAggregate_OrderIndependent(t *testing.T) {
	rows := []results.Row{
		row("E. coli", "Ciprofloxacin", "lr", map[string]float64{"auroc": 70}),
		row("E. coli", "Ciprofloxacin", "lr", map[string]float64{"auroc": 80}),
		row("E. coli", "Ciprofloxacin", "rf", map[string]float64{"auroc": 95}),
		row("S. aureus", "Oxacillin", "lr", map[string]float64{"auroc": 60}),
	}
	reversed := make([]results.Row, len(rows))
	for i, r := range rows {
		reversed[len(rows)-1-i] = r
	}

	a := Aggregate(rows)
	b := Aggregate(reversed)

	require.Equal(t, a.Keys(), b.Keys())
	for _, k := range a.Keys() {
		assert.Equal(t, a.Groups[k]["auroc"].Mean, b.Groups[k]["auroc"].Mean, "key %+v", k)
		assert.Equal(t, a.Groups[k]["auroc"].Std, b.Groups[k]["auroc"].Std, "key %+v", k)
	}
}

func TestAggregate_SiteColumnsAreGlobal(t *testing.T) {
	withSites := results.Row{
		Species:    "E. coli",
		Antibiotic: "Ciprofloxacin",
		Model:      "lr",
		TrainSite:  "DRIAMS-A",
		TestSite:   "DRIAMS-B",
		HasSites:   true,
		Metrics:    map[string]float64{"auroc": 80},
	}
	withoutSites := row("E. coli", "Ciprofloxacin", "lr", map[string]float64{"auroc": 90})

	agg := Aggregate([]results.Row{withSites, withoutSites})
	assert.True(t, agg.HasSites)

	// One run carrying sites widens the key for the whole batch, so these
	// two rows land in different groups.
	assert.Len(t, agg.Groups, 2)
}

func TestAggregate_MixedSitePresenceLoggedAtDebug(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	withSites := results.Row{
		Species:    "E. coli",
		Antibiotic: "Ciprofloxacin",
		Model:      "lr",
		TrainSite:  "DRIAMS-A",
		TestSite:   "DRIAMS-B",
		HasSites:   true,
		Metrics:    map[string]float64{"auroc": 80},
	}
	withoutSites := row("E. coli", "Ciprofloxacin", "lr", map[string]float64{"auroc": 90})

	Aggregate([]results.Row{withSites, withoutSites})
	assert.Contains(t, buf.String(), "pooled under empty sites")
}

func TestAggregate_YearColumnsKeyedByJoinedString(t *testing.T) {
	a := results.Row{
		Species: "all", Antibiotic: "Ciprofloxacin", Model: "lr",
		TrainYears: "2015 2016", TestYears: "2018", HasYears: true,
		Metrics: map[string]float64{"auroc": 80},
	}
	b := a
	b.TrainYears = "2015 2017"

	agg := Aggregate([]results.Row{a, b})
	assert.True(t, agg.HasYears)
	assert.Len(t, agg.Groups, 2)
}

func TestAggregate_MetricSetIsUnionSorted(t *testing.T) {
	rows := []results.Row{
		row("all", "X", "lr", map[string]float64{"auroc": 80, "accuracy": 70}),
		row("all", "Y", "lr", map[string]float64{"auprc": 60}),
	}

	agg := Aggregate(rows)
	assert.Equal(t, []string{"accuracy", "auprc", "auroc"}, agg.Metrics)
	assert.True(t, agg.HasMetric("auprc"))
	assert.False(t, agg.HasMetric("f1"))
}

func TestAggregate_KeysSortedForPresentation(t *testing.T) {
	rows := []results.Row{
		row("S. aureus", "Oxacillin", "rf", map[string]float64{"auroc": 1}),
		row("E. coli", "Ciprofloxacin", "rf", map[string]float64{"auroc": 1}),
		row("E. coli", "Ciprofloxacin", "lr", map[string]float64{"auroc": 1}),
	}

	keys := Aggregate(rows).Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, "E. coli", keys[0].Species)
	assert.Equal(t, "lr", keys[0].Model)
	assert.Equal(t, "rf", keys[1].Model)
	assert.Equal(t, "S. aureus", keys[2].Species)
}

func TestAggregate_Empty(t *testing.T) {
	agg := Aggregate(nil)
	assert.Empty(t, agg.Groups)
	assert.Empty(t, agg.Metrics)
	assert.Zero(t, agg.RowCount())
}
