package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platebench/pkg/dataset"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func knownPlate(size int, seed int64, i int) string {
	return dataset.Generate(size, seed, "")[i]["placa"].(string)
}

func TestSortCommand(t *testing.T) {
	out, err := run(t, "", "--size", "50", "--seed", "1", "sort", "--show", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Merge Sort: 50 records")
	assert.Contains(t, out, "Radix Sort: 50 records")
	assert.Contains(t, out, "passes=7")

	out, err = run(t, "", "--size", "10", "sort", "--algorithm", "radix_sort")
	require.NoError(t, err)
	assert.NotContains(t, out, "Merge Sort")

	_, err = run(t, "", "sort", "--algorithm", "bubble")
	assert.ErrorContains(t, err, "unknown sort algorithm")
}

func TestSearchCommand(t *testing.T) {
	plate := knownPlate(50, 3, 17)
	out, err := run(t, "", "--size", "50", "--seed", "3", "search", strings.ToLower(plate))
	require.NoError(t, err)
	assert.Contains(t, out, "FOUND: ")
	assert.Contains(t, out, "placa="+plate)
	assert.Contains(t, out, "Winner: ")
	assert.NotContains(t, out, "disagree")

	out, err = run(t, "", "--size", "50", "--seed", "3", "search", "ZZZ-99999")
	require.NoError(t, err)
	assert.Contains(t, out, "NOT FOUND")

	out, err = run(t, "", "--size", "50", "--seed", "3", "search", "--direct", plate)
	require.NoError(t, err)
	assert.Contains(t, out, "placa="+plate)

	_, err = run(t, "", "search")
	assert.Error(t, err)
}

func TestBenchmarkAndVerifyCommands(t *testing.T) {
	out, err := run(t, "", "--size", "200", "benchmark", "-n", "2", "--warmup", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "200 records x 2 iterations")
	assert.Contains(t, out, "Winner: ")

	out, err = run(t, "", "--size", "200", "verify")
	require.NoError(t, err)
	assert.Contains(t, out, "OK: merge sort and radix sort agree on 200 records")
}

func TestGenerateThenReadFromDB(t *testing.T) {
	db := filepath.Join(t.TempDir(), "plates.db")

	out, err := run(t, "", "--db", db, "--size", "30", "generate")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 30 records")

	out, err = run(t, "", "--db", db, "--size", "5", "--seed", "9", "generate", "--append")
	require.NoError(t, err)
	assert.Contains(t, out, "(35 total)")

	// size is ignored once the database has rows
	out, err = run(t, "", "--db", db, "--size", "1", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Records:       35")
	assert.Contains(t, out, "Status:")

	_, err = run(t, "", "generate")
	assert.ErrorContains(t, err, "--db")
}

func TestShell(t *testing.T) {
	plate := knownPlate(40, 5, 3)
	input := strings.Join([]string{"help", "stats", "search " + plate, "lookup ZZZ-0", "", "exit", "search never-run"}, "\n")

	out, err := run(t, input, "--size", "40", "--seed", "5", "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "40 records")
	assert.Contains(t, out, "Commands:")
	assert.Contains(t, out, "Unique plates:")
	assert.Contains(t, out, "FOUND: ")
	assert.Contains(t, out, "ZZZ-0: NOT FOUND")
	assert.Contains(t, out, "Bye!")
	assert.Equal(t, 1, strings.Count(out, "Winner: "))
}

func TestMetricsOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.prom")
	_, err := run(t, "", "--size", "20", "--metrics-out", path, "search", "AAA-0000")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "platebench_wins_total")
	assert.Contains(t, text, "platebench_sort_duration_seconds")
	assert.Contains(t, text, `scope="query"`)
}

func TestBadConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0644))
	_, err := run(t, "", "--config", path, "verify")
	assert.ErrorContains(t, err, "invalid config")

	_, err = run(t, "", "--log-level", "loud", "verify")
	assert.ErrorContains(t, err, "invalid config")
}

func TestCustomKeyField(t *testing.T) {
	out, err := run(t, "", "--size", "20", "--key-field", "plate", "sort")
	require.NoError(t, err)
	assert.Contains(t, out, "Merge Sort: 20 records")
	assert.Contains(t, out, "Radix Sort: 20 records")

	plate := dataset.Generate(20, 42, "plate")[4]["plate"].(string)
	out, err = run(t, "", "--size", "20", "--key-field", "plate", "search", plate)
	require.NoError(t, err)
	assert.Contains(t, out, "plate="+plate)

	out, err = run(t, "", "--size", "20", "--key-field", "plate", "verify")
	require.NoError(t, err)
	assert.Contains(t, out, "agree on 20 records")

	db := filepath.Join(t.TempDir(), "plates.db")
	out, err = run(t, "", "--db", db, "--size", "15", "--key-field", "plate", "generate")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 15 records")
	out, err = run(t, "", "--db", db, "--key-field", "plate", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Records:       15")
}
