package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCmd_RunsDoctorOnAddedBenchmarks(t *testing.T) {
	d := &testDriver{values: map[string]map[string]float64{
		"old": {"Existing": 100},
		"new": {"Existing": 100, "BrandNew": 50, "AlsoNew": 70},
	}}
	withMocks(t, d, &testSizer{})

	out, err := executeCommand(newCheckCmd(), "old", "new", "--opt-level", "O")
	require.NoError(t, err)

	require.Len(t, d.checks, 1)
	assert.ElementsMatch(t, []string{"BrandNew", "AlsoNew"}, d.checks[0])
	assert.Contains(t, out, "doctor check")
}

func TestCheckCmd_NothingAdded(t *testing.T) {
	d := &testDriver{values: map[string]map[string]float64{
		"old": {"Existing": 100},
		"new": {"Existing": 100},
	}}
	withMocks(t, d, &testSizer{})

	out, err := executeCommand(newCheckCmd(), "old", "new")
	require.NoError(t, err)
	assert.Empty(t, d.checks, "doctor not invoked without added benchmarks")
	assert.Empty(t, out)
}

func TestCheckCmd_InvalidOptLevel(t *testing.T) {
	withMocks(t, &testDriver{}, &testSizer{})

	_, err := executeCommand(newCheckCmd(), "old", "new", "--opt-level", "O3")
	assert.Error(t, err)
}
