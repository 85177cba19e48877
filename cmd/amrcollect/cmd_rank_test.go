package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank_EndToEnd(t *testing.T) {
	// Three lr seeds (0.70/0.80/0.90) and one rf run (0.95) in one scenario:
	// two models, so the combination is valid; rf ranks first.
	dir := seedScenarioDir(t)

	out, err := runCommand(t, "rank", "auroc", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "rf")
	assert.Contains(t, out, "lr")
	assert.Contains(t, out, "95.00")
	assert.Contains(t, out, "80.00")
	assert.Contains(t, out, "1 of 1 scenarios")
	assert.Less(t, strings.Index(out, "rf"), strings.Index(out, "lr"))
}

func TestRank_SingletonScenarioExcluded(t *testing.T) {
	dir := t.TempDir()
	writeResultFile(t, dir, "solo.json",
		`{"species": "S. aureus", "antibiotic": "Oxacillin", "model": "lr", "auroc": 0.9}`)

	out, err := runCommand(t, "rank", "auroc", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "0 of 1 scenarios")
}

func TestRank_UnknownMetricFails(t *testing.T) {
	dir := seedScenarioDir(t)

	_, err := runCommand(t, "rank", "f1", dir)
	require.Error(t, err)
	assert.True(t, isDataError(err))
	assert.Contains(t, err.Error(), "f1")
}

func TestRank_JSONFormat(t *testing.T) {
	dir := seedScenarioDir(t)

	out, err := runCommand(t, "rank", "--format", "json", "auroc", dir)
	require.NoError(t, err)

	var rt struct {
		Metric string `json:"metric"`
		Models []struct {
			Model    string  `json:"model"`
			MeanRank float64 `json:"mean_rank"`
		} `json:"models"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rt))
	assert.Equal(t, "auroc", rt.Metric)
	require.Len(t, rt.Models, 2)
	assert.Equal(t, "rf", rt.Models[0].Model)
	assert.InDelta(t, 1.0, rt.Models[0].MeanRank, 1e-9)
}

func TestRank_RequiresMetricAndPath(t *testing.T) {
	_, err := runCommand(t, "rank", "auroc")
	require.Error(t, err)

	_, err = runCommand(t, "rank", "auroc", filepath.Join(t.TempDir(), "gone.json"))
	require.Error(t, err)
}
