package compare

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"benchdelta/internal/bench"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSizer struct {
	sizes map[string]int64
	err   error
}

func (s *mapSizer) SizeOf(path string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	size, ok := s.sizes[path]
	if !ok {
		return 0, fmt.Errorf("no size for %s", path)
	}
	return size, nil
}

func writeArtifacts(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("obj"), 0644))
	}
}

func TestCompareSizes(t *testing.T) {
	oldDir := t.TempDir()
	newDir := t.TempDir()
	writeArtifacts(t, oldDir, "a.o", "b.o", "only_old.o")
	writeArtifacts(t, newDir, "a.o", "b.o")

	sizer := &mapSizer{sizes: map[string]int64{
		filepath.Join(oldDir, "a.o"): 100,
		filepath.Join(newDir, "a.o"): 100,
		filepath.Join(oldDir, "b.o"): 100,
		filepath.Join(newDir, "b.o"): 150,
	}}

	oldLines, newLines, err := CompareSizes(oldDir, newDir, "*.o", sizer)
	require.NoError(t, err)

	// only_old.o has no counterpart and is skipped.
	require.Len(t, oldLines, 2)
	require.Len(t, newLines, 2)

	assert.Equal(t, "1  a.o  1  100  100  100", oldLines[0])
	assert.Equal(t, "1  a.o  1  100  100  100", newLines[0])
	assert.Equal(t, "2  b.o  1  100  100  100", oldLines[1])
	assert.Equal(t, "2  b.o  1  150  150  150", newLines[1])
}

func TestCompareSizes_PatternFilter(t *testing.T) {
	oldDir := t.TempDir()
	newDir := t.TempDir()
	writeArtifacts(t, oldDir, "lib_O.o", "lib_Onone.o")
	writeArtifacts(t, newDir, "lib_O.o", "lib_Onone.o")

	sizer := &mapSizer{sizes: map[string]int64{
		filepath.Join(oldDir, "lib_Onone.o"): 10,
		filepath.Join(newDir, "lib_Onone.o"): 20,
	}}

	oldLines, _, err := CompareSizes(oldDir, newDir, bench.OptOnone.ArtifactPattern(), sizer)
	require.NoError(t, err)
	require.Len(t, oldLines, 1)
	assert.Contains(t, oldLines[0], "lib_Onone.o")
}

func TestCompareSizes_LevelsShareDirectory(t *testing.T) {
	// All three levels' artifacts live side by side in one build
	// directory; the O comparison must not pick up Osize or Onone files.
	oldDir := t.TempDir()
	newDir := t.TempDir()
	writeArtifacts(t, oldDir, "lib_O.o", "lib_Osize.o", "lib_Onone.o")
	writeArtifacts(t, newDir, "lib_O.o", "lib_Osize.o", "lib_Onone.o")

	sizer := &mapSizer{sizes: map[string]int64{
		filepath.Join(oldDir, "lib_O.o"): 100,
		filepath.Join(newDir, "lib_O.o"): 120,
	}}

	oldLines, newLines, err := CompareSizes(oldDir, newDir, bench.OptO.ArtifactPattern(), sizer)
	require.NoError(t, err)
	require.Len(t, oldLines, 1)
	require.Len(t, newLines, 1)
	assert.Equal(t, "1  lib_O.o  1  100  100  100", oldLines[0])
	assert.Equal(t, "1  lib_O.o  1  120  120  120", newLines[0])
}

func TestCompareSizes_SizerFailureIsFatal(t *testing.T) {
	oldDir := t.TempDir()
	newDir := t.TempDir()
	writeArtifacts(t, oldDir, "a.o")
	writeArtifacts(t, newDir, "a.o")

	sizer := &mapSizer{err: fmt.Errorf("size: unexpected header")}
	_, _, err := CompareSizes(oldDir, newDir, "*.o", sizer)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sizing")
}

func TestCompareSizes_EmptyDirs(t *testing.T) {
	oldLines, newLines, err := CompareSizes(t.TempDir(), t.TempDir(), "*.o", &mapSizer{})
	require.NoError(t, err)
	assert.Empty(t, oldLines)
	assert.Empty(t, newLines)
}
