package batch

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andydunstall/rumour/batch/config"
	"github.com/andydunstall/rumour/pkg/log"
)

func writeInput(t *testing.T, dir string, s string) string {
	path := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(s), 0o600))
	return path
}

func TestBatch_Run(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeInput(t, dir, testInput)
	outputPath := filepath.Join(dir, "out.csv")

	conf := config.Default()
	conf.Seed = 5
	conf.Trace.Path = filepath.Join(dir, "trace.jsonl")
	conf.Metrics.Path = filepath.Join(dir, "metrics.prom")

	b := NewBatch(conf, log.NewNopLogger())
	assert.Equal(t, uint64(5), b.Seed())
	assert.NotEmpty(t, b.ID())

	summary, err := b.Run(context.Background(), inputPath, outputPath)
	require.NoError(t, err)

	assert.Equal(t, b.ID(), summary.BatchID)
	assert.Equal(t, 6, summary.Rows)
	assert.Equal(t, 4, summary.Converged)
	assert.Equal(t, 0, summary.Aborted)
	assert.Equal(t, 2, summary.Invalid)

	f, err := os.Open(outputPath)
	require.NoError(t, err)
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 7)

	assert.Equal(t, outputHeader, records[0])
	statuses := []string{"converged", "invalid", "converged", "invalid", "converged", "converged"}
	inputs := [][]string{
		{"10", "6", "1"},
		{"4", "2", "1"},
		{"1", "1", "1"},
		{"not", "a", "row"},
		{"100", "51", "10"},
		{"64", "40", "8"},
	}
	for i, record := range records[1:] {
		assert.Equal(t, inputs[i], record[:3])
		assert.Equal(t, statuses[i], record[6])
	}
	// Single node converges in the first round with no exchanges.
	assert.Equal(t, []string{"1", "1", "1", "1", "0", "1", "converged", ""}, records[3])

	metrics, err := os.ReadFile(conf.Metrics.Path)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `rumour_simulation_runs_total{outcome="converged"} 4`)

	trace, err := os.ReadFile(conf.Trace.Path)
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(string(trace)))
}

func TestBatch_Reproducible(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeInput(t, dir, testInput)

	run := func(name string, workers int) []byte {
		conf := config.Default()
		conf.Seed = 11
		conf.Workers = workers

		outputPath := filepath.Join(dir, name)
		_, err := NewBatch(conf, log.NewNopLogger()).Run(
			context.Background(), inputPath, outputPath,
		)
		require.NoError(t, err)

		b, err := os.ReadFile(outputPath)
		require.NoError(t, err)
		return b
	}

	assert.Equal(t, run("a.csv", 1), run("b.csv", 4))
}

func TestBatch_MissingInput(t *testing.T) {
	dir := t.TempDir()

	_, err := NewBatch(config.Default(), log.NewNopLogger()).Run(
		context.Background(),
		filepath.Join(dir, "missing.csv"),
		filepath.Join(dir, "out.csv"),
	)
	assert.ErrorContains(t, err, "open input")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBatch_UnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeInput(t, dir, testInput)

	_, err := NewBatch(config.Default(), log.NewNopLogger()).Run(
		context.Background(),
		inputPath,
		filepath.Join(dir, "missing", "out.csv"),
	)
	assert.ErrorContains(t, err, "create output")
}

func TestBatch_MalformedInput(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeInput(t, dir, "10,6\"x,1\n")
	outputPath := filepath.Join(dir, "out.csv")

	_, err := NewBatch(config.Default(), log.NewNopLogger()).Run(
		context.Background(), inputPath, outputPath,
	)
	assert.ErrorContains(t, err, "read input")

	// The temporary output is removed and no output file is created.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "in.csv", entries[0].Name())
}

func TestBatch_CancelledDiscardsTrace(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeInput(t, dir, testInput)

	conf := config.Default()
	conf.Trace.Path = filepath.Join(dir, "trace.jsonl")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBatch(conf, log.NewNopLogger()).Run(
		ctx, inputPath, filepath.Join(dir, "out.csv"),
	)
	assert.ErrorContains(t, err, "run")

	// Neither the output nor a partial trace are left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "in.csv", entries[0].Name())
}
