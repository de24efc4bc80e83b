package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/milletmart/catalog-server/internal/fixtures"
)

// execute runs the root command with args. Commands share viper state, so
// these tests do not run in parallel.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)

	assert.True(t, gjson.Valid(out))
	assert.NotEmpty(t, gjson.Get(out, "version").String())
	assert.NotEmpty(t, gjson.Get(out, "go_version").String())

	out, _, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "milletmart-api ")
}

func TestSearchCommand_JSON(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "text", args: []string{"ragi"}, want: []string{"3", "7"}},
		{name: "type and price", args: []string{"--type", "Sorghum", "--price", "0-100"}, want: []string{"9"}},
		{name: "hindi text", args: []string{"बाजरा"}, want: []string{"8", "12"}},
		{name: "malformed price is ignored", args: []string{"--price", "cheap", "--category", "Grains"}, want: []string{"1", "3", "5", "12"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"search", "--format", "json"}, tt.args...)
			out, _, err := execute(t, args...)
			require.NoError(t, err)

			var ids []string
			for _, id := range gjson.Get(out, "#.id").Array() {
				ids = append(ids, id.String())
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSearchCommand_Table(t *testing.T) {
	out, _, err := execute(t, "search", "--type", "Finger Millet", "--lang", "hi")
	require.NoError(t, err)
	assert.Contains(t, out, "दिखाया जा रहा है 2 उत्पाद")
	assert.Contains(t, out, "रागी")

	out, _, err = execute(t, "search", "quinoa")
	require.NoError(t, err)
	assert.Contains(t, out, "No products found")
}

func TestSearchCommand_Errors(t *testing.T) {
	_, _, err := execute(t, "search", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")

	_, _, err = execute(t, "search", "--lang", "fr")
	require.Error(t, err)
}

func TestValidateCommand_Files(t *testing.T) {
	dir := t.TempDir()

	data, err := fixtures.Data(fixtures.KindProducts)
	require.NoError(t, err)
	valid := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(valid, data, 0o600))

	invalid := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`[{"id": 1}]`), 0o600))

	out, _, err := execute(t, "validate", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "valid products fixture")

	_, stderr, err := execute(t, "validate", "--kind", "products", invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 file failed validation")
	assert.Contains(t, stderr, "broken.json")

	_, _, err = execute(t, "validate", invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use --kind")
}

func TestValidateCommand_Sources(t *testing.T) {
	out, _, err := execute(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "catalog is valid: 12 products (0 unlisted), 6 schemes")
}

func TestValidateCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
catalog:
  listing:
    certifications:
      include: ["Organic"]
`), 0o600))

	out, _, err := execute(t, "--config", path, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "catalog is valid")
	assert.NotContains(t, out, "(0 unlisted)")
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "1 file", formatCount(1, "file"))
	assert.Equal(t, "0 files", formatCount(0, "file"))
	assert.Equal(t, "12 products", formatCount(12, "product"))
}
