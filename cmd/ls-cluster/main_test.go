package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-cluster/internal/scene"
)

const snapshotCSV = `x,y,z,vx,vy,vz,mass,type
0,0,0,1,0,0,1.0,1.0
1,0,0,0,1,0,1.0,2.2
2,0,0,0,0,1,1.0,1.0
0,1,0,0,0,0,0.6,3.0
0,0,1,0,0,0,10,5.0
0,0,0,0,0,0,1,9.9
`

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.csv")
	require.NoError(t, os.WriteFile(path, []byte(snapshotCSV), 0o644))
	return path
}

// execute runs the CLI with a clean viper and no user config file.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSummaryCommand(t *testing.T) {
	data := writeSnapshot(t)

	out, err := execute(t, "summary", "--data", data, "--max-batch", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Main sequence")
	assert.Contains(t, out, "Black hole")
	assert.Contains(t, out, "Total: 6 stars, 1 unrecognized, 4 containers (cap 2)")
	assert.Contains(t, out, `type "9.9"`)
	assert.NotContains(t, out, "Event Log")
}

func TestSummaryCommand_Events(t *testing.T) {
	data := writeSnapshot(t)

	out, err := execute(t, "summary", "--data", data, "--events", "5", "--unrecognized", "0")
	require.NoError(t, err)

	assert.Contains(t, out, "Event Log")
	assert.Contains(t, out, "stars from")
	assert.NotContains(t, out, "Unrecognized type codes")
}

func TestBatchesCommand(t *testing.T) {
	data := writeSnapshot(t)

	out, err := execute(t, "batches", "--data", data, "--max-batch", "2")
	require.NoError(t, err)

	for _, name := range []string{"MainSequence.000", "MainSequence.001", "WhiteDwarf.000", "BlackHole.000"} {
		assert.Contains(t, out, name)
	}
	assert.NotContains(t, out, "NeutronStar.000")
	assert.Contains(t, out, "Total: 4 containers, 5 particles")
}

func TestBatchesCommand_Category(t *testing.T) {
	data := writeSnapshot(t)

	out, err := execute(t, "batches", "--data", data, "--max-batch", "2", "--category", "MainSequence")
	require.NoError(t, err)
	assert.Contains(t, out, "MainSequence.001")
	assert.NotContains(t, out, "WhiteDwarf.000")
	assert.Contains(t, out, "Total: 2 containers, 3 particles")

	_, err = execute(t, "batches", "--data", data, "--category", "RedGiant")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestExportCommand_JSON(t *testing.T) {
	data := writeSnapshot(t)

	out, err := execute(t, "export", "--data", data, "--max-batch", "2")
	require.NoError(t, err)

	var export scene.SceneExport
	require.NoError(t, json.Unmarshal([]byte(out), &export))

	assert.Equal(t, 5, export.Particles)
	assert.Equal(t, data, export.Source)
	require.Len(t, export.Containers, 4)
	assert.Equal(t, "MainSequence.000", export.Containers[0].Name)
	assert.Equal(t, 2, export.Containers[0].Count)
	assert.Equal(t, [][3]float64{{0, 0, 0}, {1, 0, 0}}, export.Containers[0].Positions)
	assert.Equal(t, "MainSequence.001", export.Containers[1].Name)
	assert.Equal(t, scene.DefaultTimeline(), export.Containers[1].Timeline)
}

func TestExportCommand_TOMLFile(t *testing.T) {
	data := writeSnapshot(t)
	outPath := filepath.Join(t.TempDir(), "scene.toml")

	out, err := execute(t, "export", "--data", data, "--format", "toml", "--out", outPath, "--no-positions")
	require.NoError(t, err)
	assert.Empty(t, out)

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var export scene.SceneExport
	require.NoError(t, toml.Unmarshal(raw, &export))
	assert.Equal(t, 5, export.Particles)
	require.Len(t, export.Containers, 3)
	for _, c := range export.Containers {
		assert.Nil(t, c.Positions, c.Name)
	}
}

func TestExportCommand_BadFormat(t *testing.T) {
	data := writeSnapshot(t)

	_, err := execute(t, "export", "--data", data, "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown export format")
}

func TestMissingDataFile(t *testing.T) {
	_, err := execute(t, "summary", "--data", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open cluster data")
}

func TestMaxBatchOutOfRange(t *testing.T) {
	data := writeSnapshot(t)

	_, err := execute(t, "batches", "--data", data, "--max-batch", "2000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_batch_size")
}

func TestConfigFileAndEnv(t *testing.T) {
	data := writeSnapshot(t)
	cfgPath := filepath.Join(t.TempDir(), "cluster.toml")
	content := "data_path = '" + filepath.ToSlash(data) + "'\nmax_batch_size = 1\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	out, err := execute(t, "batches", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "MainSequence.002")
	assert.Contains(t, out, "Total: 5 containers, 5 particles")

	// Flags beat the config file.
	out, err = execute(t, "batches", "--config", cfgPath, "--max-batch", "3")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "MainSequence."))

	t.Setenv("LS_CLUSTER_MAX_BATCH_SIZE", "2")
	out, err = execute(t, "batches", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "MainSequence.001")
	assert.NotContains(t, out, "MainSequence.002")
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, "summary", "--config", filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}
