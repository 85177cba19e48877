// Package wizard runs the interactive form behind `amrcollect init -i` and
// renders the resulting .amrcollect.yaml.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ConfigSpec holds all fields collected during the interactive wizard.
type ConfigSpec struct {
	ResultsDir string
	Extension  string
	Exclude    string
	Account    string
	Container  string
	Prefix     string
}

const configTemplate = `# amrcollect project configuration
paths:
  results: {{ .ResultsDir }}
collect:
  extension: "{{ .Extension }}"
{{- if .Exclude }}
  exclude: "{{ .Exclude }}"
{{- end }}
{{- if .Account }}
fetch:
  account: "{{ .Account }}"
  container: "{{ .Container }}"
{{- if .Prefix }}
  prefix: "{{ .Prefix }}"
{{- end }}
{{- end }}
`

// RunConfigWizard runs an interactive huh form to collect project settings.
func RunConfigWizard(in io.Reader, out io.Writer) (*ConfigSpec, error) {
	var (
		resultsDir = "results/"
		extension  = ".json"
		exclude    string
		account    string
		container  string
		prefix     string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Results directory").
				Description("Where collected result files live").
				Placeholder("results/").
				Value(&resultsDir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("results directory is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Result file extension").
				Description("Extension matched when scanning a directory").
				Placeholder(".json").
				Value(&extension).
				Validate(func(s string) error {
					if !strings.HasPrefix(strings.TrimSpace(s), ".") {
						return fmt.Errorf("extension must start with a dot")
					}
					return nil
				}),
			huh.NewInput().
				Title("Exclude substring").
				Description("Paths containing this substring are skipped (optional)").
				Placeholder("calibrated").
				Value(&exclude),
			huh.NewInput().
				Title("Azure storage account").
				Description("Account for `amrcollect fetch` (optional)").
				Value(&account),
			huh.NewInput().
				Title("Azure blob container").
				Description("Container holding uploaded results (optional)").
				Value(&container),
			huh.NewInput().
				Title("Blob prefix").
				Description("Prefix to mirror, e.g. fig4/ (optional)").
				Value(&prefix),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	return &ConfigSpec{
		ResultsDir: strings.TrimSpace(resultsDir),
		Extension:  strings.TrimSpace(extension),
		Exclude:    strings.TrimSpace(exclude),
		Account:    strings.TrimSpace(account),
		Container:  strings.TrimSpace(container),
		Prefix:     strings.TrimSpace(prefix),
	}, nil
}

// GenerateConfigYAML renders an .amrcollect.yaml from the given spec.
func GenerateConfigYAML(spec *ConfigSpec) (string, error) {
	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}
