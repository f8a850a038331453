package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScript(t *testing.T) {
	script, err := ParseScript([]byte(`
name: scrub
steps:
  - set_year: 1991
  - select_country: Japan
  - select_category: Smoking
  - toggle: true
  - tick: 2
assertions:
  - type: year
    year: 1992
`))
	require.NoError(t, err)

	assert.Equal(t, "scrub", script.Name)
	require.Len(t, script.Steps, 5)
	assert.Equal(t, "set_year(1991)", script.Steps[0].String())
	assert.Equal(t, `select_country("Japan")`, script.Steps[1].String())
	assert.Equal(t, `select_category("Smoking")`, script.Steps[2].String())
	assert.Equal(t, "toggle", script.Steps[3].String())
	assert.Equal(t, "tick x2", script.Steps[4].String())
	assert.Equal(t, []Assertion{{Type: AssertYear, Year: 1992}}, script.Assertions)
}

func TestParseScript_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "steps: []\n",
			wantErr: "missing required field: name",
		},
		{
			name:    "unknown field",
			yaml:    "name: x\nassertion: []\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "empty step",
			yaml:    "name: x\nsteps:\n  - {}\n",
			wantErr: "step 1: step has no action",
		},
		{
			name:    "two actions",
			yaml:    "name: x\nsteps:\n  - set_year: 1990\n    toggle: true\n",
			wantErr: "step 1: step has 2 actions",
		},
		{
			name:    "negative tick",
			yaml:    "name: x\nsteps:\n  - tick: -1\n",
			wantErr: "tick count must be positive",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: x\nassertions:\n  - type: colour\n",
			wantErr: `assertion 1: unknown type "colour"`,
		},
		{
			name:    "assertion without type",
			yaml:    "name: x\nassertions:\n  - year: 1990\n",
			wantErr: "assertion 1: missing type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: tmp\nsteps:\n  - toggle: true\n"), 0o644))

	script, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, "tmp", script.Name)

	_, err = LoadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read script file")
}
