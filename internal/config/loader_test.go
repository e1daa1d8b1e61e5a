package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	Reset()

	cfg, err := Load("", nil)

	require.NoError(t, err)
	assert.Equal(t, DefaultTemplateColumns, cfg.TemplateColumns)
	assert.Equal(t, "G", cfg.Defaults["Tax Code"])
	assert.Equal(t, "ea", cfg.Defaults["UOM"])
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, int64(DefaultMaxUploadMB), cfg.Server.MaxUploadMB)
	assert.Equal(t, "input", cfg.InputDir)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, ConfigFileUsed())

	schema := cfg.Schema()
	require.NotNil(t, schema)
	assert.Equal(t, cfg.TemplateColumns, schema.Columns)
	assert.True(t, schema.AllowsTaxCode("g"))
}

func TestLoadJSONFile(t *testing.T) {
	Reset()
	path := writeConfig(t, "simport.json", `{
		"output_dir": "converted",
		"server": {"port": 9090},
		"allowed_tax_codes": ["G", "F"]
	}`)

	cfg, err := Load(path, nil)

	require.NoError(t, err)
	assert.Equal(t, "converted", cfg.OutputDir)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"G", "F"}, cfg.AllowedTaxCodes)
	assert.Equal(t, path, ConfigFileUsed())

	// Keys the file does not mention keep their defaults.
	assert.Equal(t, DefaultTemplateColumns, cfg.TemplateColumns)
}

func TestLoadYAMLFile(t *testing.T) {
	Reset()
	path := writeConfig(t, "simport.yaml", "input_dir: exports\nverbose: true\n")

	cfg, err := Load(path, nil)

	require.NoError(t, err)
	assert.Equal(t, "exports", cfg.InputDir)
	assert.True(t, cfg.Verbose)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	Reset()

	_, err := Load(filepath.Join(t.TempDir(), "nope.json"), nil)

	assert.ErrorContains(t, err, "not found")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	Reset()
	path := writeConfig(t, "simport.json", `{"output_dir": "from-file"}`)
	t.Setenv("SIMPORT_OUTPUT_DIR", "from-env")

	cfg, err := Load(path, nil)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.OutputDir)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	Reset()
	t.Setenv("SIMPORT_OUTPUT_DIR", "from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output-dir", "", "")
	flags.IntP("port", "p", 0, "")
	require.NoError(t, flags.Set("output-dir", "from-flag"))
	require.NoError(t, flags.Set("port", "7070"))

	cfg, err := Load("", flags)

	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.OutputDir)
	assert.Equal(t, 7070, cfg.Server.Port, "--port maps to server.port")
}

func TestLoadUnchangedFlagsAreIgnored(t *testing.T) {
	Reset()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output-dir", "flag-default", "")

	cfg, err := Load("", flags)

	require.NoError(t, err)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
}

func TestLoadRejectsBadTemplate(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{
			"no columns",
			`{"template_columns": [], "defaults": {}, "aliases": {}, "required_nonempty": [], "required_numeric": [], "tax_code_column": ""}`,
			"invalid template configuration",
		},
		{
			"alias for unknown column",
			`{"aliases": {"Nonexistent": ["whatever"]}}`,
			"invalid template configuration",
		},
		{
			"default for unknown column",
			`{"defaults": {"Nonexistent": "x"}}`,
			"invalid template configuration",
		},
		{
			"columns that normalize identically",
			`{"template_columns": [
				"Part Number", "part-number", "Description", "Supplier",
				"Supplier Part Number", "Cost ex Tax", "Sell ex Tax",
				"Tax Code", "UOM", "Barcode", "Manufacturer", "Brand",
				"Location", "Minimum Stock", "Maximum Stock", "Notes"
			]}`,
			"normalize identically",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Reset()
			path := writeConfig(t, "simport.json", tt.json)

			_, err := Load(path, nil)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
