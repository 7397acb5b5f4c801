package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	animalsFile = filepath.Join("..", "..", "loader", "testdata", "animals.yaml")
	brokenFile  = filepath.Join("..", "..", "loader", "testdata", "unsatisfiable.yaml")
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestCheck_Golden(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"check_animals_text", []string{"check", animalsFile}},
		{"check_animals_json", []string{"--format", "json", "check", animalsFile}},
		{"check_unsatisfiable_text", []string{"check", brokenFile}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			newGoldie(t).Assert(t, tt.name, []byte(out))
		})
	}
}

func TestCheck_Strict(t *testing.T) {
	out, err := execute(t, "check", "--strict", brokenFile)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "unsatisfiable:  Chimera")
	assert.Contains(t, out, "Error [E003]: 1 unsatisfiable class(es)")

	out, err = execute(t, "check", "--strict", animalsFile)
	require.NoError(t, err)
	assert.Contains(t, out, "unsatisfiable:  none")
}

func TestCheck_StrictJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "check", "--strict", brokenFile)
	require.Error(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeIntegrity, resp.Error.Code)

	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"Chimera"}, details["unsatisfiable"])
}

func TestCheck_PartialMaterialization(t *testing.T) {
	out, err := execute(t, "check", "--max-iterations", "1", animalsFile)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "state:          partial")
}

func TestCheck_LoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		out, err := execute(t, "check", "/nonexistent/ontology.yaml")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, out, "Error [E002]")
	})

	t.Run("undefined entity", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`name: bad
capacity: 4
entities:
  A: 0
axioms:
  - kind: SubClassOf
    subject: A
    object: Missing
`), 0o600))

		out, err := execute(t, "check", path)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, out, "Missing")
	})
}

func TestRoot_InvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "check", animalsFile)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}

func TestBench(t *testing.T) {
	out, err := execute(t, "bench", "--calls", "2000", "--workers", "2", "--max-violation-rate", "1", animalsFile)
	require.NoError(t, err)
	assert.Contains(t, out, "ontology:       animals")
	assert.Contains(t, out, "calls:          2000 (2 workers, subclass)")
	assert.Contains(t, out, "result:         PASS")
}

func TestBench_JSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "bench", "--calls", "1000", "--mix", "mixed", "--max-violation-rate", "1", animalsFile)
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   BenchReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1000, resp.Data.Calls)
	assert.Equal(t, "mixed", resp.Data.Mix)
	assert.Equal(t, uint64(7), resp.Data.Budget)
	assert.True(t, resp.Data.Passed)
}

func TestBench_Regression(t *testing.T) {
	// Any real measurement exceeds twice a baseline of a billionth of a cycle.
	out, err := execute(t, "bench", "--calls", "1000", "--budget", "1000000",
		"--baseline-mean", "0.000000001", animalsFile)
	if err == nil {
		require.Contains(t, out, "mean:           0.00 cycles")
		t.Skip("counter too coarse to measure a query")
	}
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "FAIL regression")
}

func TestBench_InvalidMix(t *testing.T) {
	_, err := execute(t, "bench", "--mix", "random", animalsFile)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "x", assert.AnError)))
}
