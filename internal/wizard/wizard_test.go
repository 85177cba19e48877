package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopkg.in/yaml.v3"

	"github.com/maldi-lab/amrcollect/internal/projectconfig"
)

func TestGenerateConfigYAML_FullSpec(t *testing.T) {
	spec := &ConfigSpec{
		ResultsDir: "runs/",
		Extension:  ".json",
		Exclude:    "calibrated",
		Account:    "driamslab",
		Container:  "amr-results",
		Prefix:     "fig4/",
	}

	out, err := GenerateConfigYAML(spec)
	require.NoError(t, err)

	assert.Contains(t, out, "results: runs/")
	assert.Contains(t, out, `extension: ".json"`)
	assert.Contains(t, out, `exclude: "calibrated"`)
	assert.Contains(t, out, `account: "driamslab"`)
	assert.Contains(t, out, `prefix: "fig4/"`)
}

func TestGenerateConfigYAML_MinimalSpecOmitsOptionalSections(t *testing.T) {
	spec := &ConfigSpec{
		ResultsDir: "results/",
		Extension:  ".json",
	}

	out, err := GenerateConfigYAML(spec)
	require.NoError(t, err)

	assert.NotContains(t, out, "exclude")
	assert.NotContains(t, out, "fetch:")
}

func TestGenerateConfigYAML_RoundTripsThroughLoader(t *testing.T) {
	spec := &ConfigSpec{
		ResultsDir: "runs/",
		Extension:  ".result.json",
		Account:    "driamslab",
		Container:  "amr-results",
	}

	out, err := GenerateConfigYAML(spec)
	require.NoError(t, err)

	var cfg projectconfig.ProjectConfig
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "runs/", cfg.Paths.Results)
	assert.Equal(t, ".result.json", cfg.Collect.Extension)
	assert.Equal(t, "driamslab", cfg.Fetch.Account)
}
