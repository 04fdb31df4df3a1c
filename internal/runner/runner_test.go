package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiroakinsm/cobol-analyzer-sub001/pkg/analyzer"
)

func writeDoc(t *testing.T, dir, name, program string) string {
	t.Helper()
	doc := fmt.Sprintf(`{
		"type": "program",
		"attributes": {"name": %q},
		"children": [
			{"type": "division", "attributes": {"name": "IDENTIFICATION DIVISION"}, "source_line": 1},
			{"type": "division", "attributes": {"name": "PROCEDURE DIVISION", "end_line": 10}, "source_line": 2, "children": [
				{"type": "paragraph", "attributes": {"name": "MAIN", "end_line": 10}, "source_line": 3, "children": [
					{"type": "statement", "attributes": {"statement_type": "DISPLAY", "operands": ["HELLO"]}, "source_line": 4}
				]}
			]}
		]
	}`, program)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeDoc(t, dir, "a.json", "PROG-A"),
		writeDoc(t, dir, "b.json", "PROG-B"),
		writeDoc(t, dir, "c.json", "PROG-C"),
	}

	var ticks atomic.Int64
	r := New(analyzer.NewEngine(), WithWorkers(2), WithProgress(func() { ticks.Add(1) }))

	results, errs := r.Run(context.Background(), paths)
	require.Nil(t, errs)
	require.Len(t, results, 3)

	// Results follow input order regardless of scheduling.
	for i, want := range []string{"PROG-A", "PROG-B", "PROG-C"} {
		assert.Equal(t, want, results[i].ProgramName, "results[%d]", i)
	}
	assert.Equal(t, int64(3), ticks.Load(), "progress ticks")
}

func TestRunPartialFailure(t *testing.T) {
	dir := t.TempDir()
	good := writeDoc(t, dir, "good.json", "GOOD")
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"type": "division"}`), 0o644))
	missing := filepath.Join(dir, "missing.json")

	r := New(analyzer.NewEngine())
	results, errs := r.Run(context.Background(), []string{good, bad, missing})

	require.Len(t, results, 1)
	assert.Equal(t, "GOOD", results[0].ProgramName)
	require.NotNil(t, errs)
	require.Len(t, errs.Errors, 2)
	// Errors come back sorted by path.
	assert.Equal(t, bad, errs.Errors[0].Path)
}

func TestRunMaxDocSize(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "big.json", "BIG")

	r := New(analyzer.NewEngine(), WithMaxDocSize(10))
	results, errs := r.Run(context.Background(), []string{path})

	assert.Empty(t, results, "no result over the size limit")
	require.NotNil(t, errs)
	assert.True(t, errs.HasErrors(), "oversized document not reported")
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeDoc(t, dir, "a.json", "PROG-A"),
		writeDoc(t, dir, "b.json", "PROG-B"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(analyzer.NewEngine(), WithWorkers(1))
	_, errs := r.Run(ctx, paths)
	require.NotNil(t, errs)
	assert.True(t, errs.HasErrors(), "cancellation not reflected in batch errors")
}

func TestRunEmpty(t *testing.T) {
	r := New(analyzer.NewEngine())
	results, errs := r.Run(context.Background(), nil)
	assert.Nil(t, results)
	assert.Nil(t, errs)
}
