package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/launchdash/internal/dataset"
	"github.com/roach88/launchdash/internal/testutil"
)

// writeDataset writes the two-site fixture as CSV into a temp dir.
func writeDataset(t *testing.T) string {
	t.Helper()
	return testutil.WriteCSV(t, t.TempDir(), "launches.csv", testutil.TwoSiteRows())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "launchdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestValidateCommandText(t *testing.T) {
	data := writeDataset(t)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--data", data})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "✓ "+data+": 5 rows, 2 sites")
	assert.Contains(t, out, "payload 500 to 9600 kg, slider [0, 10000] step 1000")
}

func TestValidateCommandJSON(t *testing.T) {
	data := writeDataset(t)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--data", data, "--step", "500"})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string         `json:"status"`
		Data   ValidateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 5, resp.Data.Rows)
	assert.Equal(t, []string{"X", "Y"}, resp.Data.Sites)
	assert.Equal(t, dataset.PayloadBounds{Min: 500, Max: 9600}, resp.Data.Bounds)
	assert.Equal(t, 500.0, resp.Data.Slider.Min)
	assert.Equal(t, 10000.0, resp.Data.Slider.Max)
	assert.Equal(t, 500.0, resp.Data.Slider.Step)
}

func TestValidateCommandMissingDataset(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--data", filepath.Join(t.TempDir(), "missing.csv")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E201]")
}

func TestValidateCommandUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launches.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--data", path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dataset.ErrCodeUnsupported, resp.Error.Code)
}

func TestValidateCommandConfigFile(t *testing.T) {
	data := writeDataset(t)
	cfg := writeConfig(t, "dataset: "+data+"\nstep: 2500\n")

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "json", Config: cfg})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Data ValidateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, data, resp.Data.Dataset)
	assert.Equal(t, 2500.0, resp.Data.Slider.Step)
}

func TestValidateCommandFlagOverridesConfig(t *testing.T) {
	data := writeDataset(t)
	cfg := writeConfig(t, "dataset: /nonexistent/launches.csv\n")

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text", Config: cfg})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--data", data})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "5 rows")
}

func TestValidateCommandInvalidConfig(t *testing.T) {
	cfg := writeConfig(t, "step: 0\n")

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text", Config: cfg})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E101]")
}

func TestValidateCommandInvalidStepFlag(t *testing.T) {
	data := writeDataset(t)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--data", data, "--step", "-5"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E101]")
}

func TestValidateCommandSQLite(t *testing.T) {
	path := testutil.WriteSQLite(t, t.TempDir(), "launches.db", testutil.TwoSiteRows())

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--data", path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "5 rows, 2 sites")
}
