package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goldenCSV = "../../internal/dataprocessing/testdata/golden_sales.csv"

func TestRun_WritesArtifacts(t *testing.T) {
	t.Setenv("SALES_CONFIG_FILE", "")
	t.Setenv("SALES_LOGGING_LEVEL", "error")
	out := t.TempDir()

	var stdout bytes.Buffer
	code := run([]string{"-source", goldenCSV, "-out", out}, &stdout)

	require.Equal(t, 0, code, stdout.String())
	assert.Contains(t, stdout.String(), "Loaded 4 of 4 rows (comma-utf8)")
	for _, name := range []string{"monthly_summary.csv", "monthly_summary.xlsx", "business_snapshot.json", "business_snapshot.md", "sales_clean.csv"} {
		assert.FileExists(t, filepath.Join(out, name))
	}
}

func TestRun_UnreadableSource(t *testing.T) {
	t.Setenv("SALES_CONFIG_FILE", "")
	t.Setenv("SALES_LOGGING_LEVEL", "error")

	var stdout bytes.Buffer
	code := run([]string{"-source", filepath.Join(t.TempDir(), "missing.csv"), "-out", t.TempDir()}, &stdout)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
}

func TestRun_BadFlag(t *testing.T) {
	var stdout bytes.Buffer
	assert.Equal(t, 2, run([]string{"-nope"}, &stdout))
}

func TestRun_Version(t *testing.T) {
	var stdout bytes.Buffer
	code := run([]string{"-version"}, &stdout)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "SalesPulse v")
}
