package bench

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResults(t *testing.T) {
	output := `
#   TEST                     SAMPLES   MIN(μs)   MAX(μs)   MEAN(μs)
Running benchmarks for O...
34  ArrayAppend              20        1012      1430      1119.5
35  DictionaryLookup         20        88.25     104       92
PASS
`
	results := ParseResults(output)

	assert.Len(t, results, 2)

	assert.Equal(t, 34, results[0].Num)
	assert.Equal(t, "ArrayAppend", results[0].Name)
	assert.Equal(t, 20, results[0].Samples)
	assert.Equal(t, 1012.0, results[0].Min)
	assert.Contains(t, results[0].Raw, "1430")

	assert.Equal(t, "DictionaryLookup", results[1].Name)
	assert.Equal(t, 88.25, results[1].Min)
}

func TestParseResults_SkipsNoise(t *testing.T) {
	output := `
warning: compile server restarted
34  ArrayAppend  20  1012
totally unrelated log line
`
	results := ParseResults(output)
	assert.Len(t, results, 1)
	assert.Equal(t, "ArrayAppend", results[0].Name)
}

func TestParseResults_Empty(t *testing.T) {
	assert.Empty(t, ParseResults(""))
	assert.Empty(t, ParseResults("no result lines here"))
}

func TestByName_ReplacesDuplicates(t *testing.T) {
	results := []Result{
		{Num: 1, Name: "A", Min: 100},
		{Num: 1, Name: "A", Min: 90},
		{Num: 2, Name: "B", Min: 50},
	}

	m := ByName(results)
	assert.Len(t, m, 2)
	assert.Equal(t, 90.0, m["A"].Min)
}

func TestParseOptLevel(t *testing.T) {
	for _, valid := range []string{"O", "Osize", "Onone"} {
		opt, err := ParseOptLevel(valid)
		assert.NoError(t, err)
		assert.Equal(t, OptLevel(valid), opt)
	}

	_, err := ParseOptLevel("O3")
	assert.Error(t, err)
}

func TestOptLevelNames(t *testing.T) {
	assert.Equal(t, "Benchmark_Osize", OptOsize.BinaryName())
	assert.Equal(t, "*_O.o", OptO.ArtifactPattern())
	assert.Equal(t, "*_Onone.o", OptOnone.ArtifactPattern())
}

func TestArtifactPatternsDoNotOverlap(t *testing.T) {
	// O is a prefix of the other level names; each level's pattern must
	// still match only its own artifacts.
	artifacts := []string{"lib_O.o", "lib_Osize.o", "lib_Onone.o"}
	for _, opt := range AllOptLevels {
		var matched []string
		for _, name := range artifacts {
			ok, err := filepath.Match(opt.ArtifactPattern(), name)
			require.NoError(t, err)
			if ok {
				matched = append(matched, name)
			}
		}
		assert.Equal(t, []string{"lib_" + string(opt) + ".o"}, matched)
	}
}
