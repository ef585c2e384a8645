package compare

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Sizer answers code-size queries for artifact files.
type Sizer interface {
	SizeOf(path string) (int64, error)
}

// CompareSizes compares compiled artifact sizes between two build
// directories. Artifacts are discovered by globbing pattern in oldDir;
// only files with a same-named counterpart in newDir are compared. Size is
// deterministic, so everything settles in a single pass with no rounds and
// no pending set.
//
// Each artifact contributes one synthetic result line per side, with the
// byte size replicated into the three stat columns the report renderer
// expects.
func CompareSizes(oldDir, newDir, pattern string, sizer Sizer) (oldLines, newLines []string, err error) {
	matches, err := filepath.Glob(filepath.Join(oldDir, pattern))
	if err != nil {
		return nil, nil, fmt.Errorf("globbing artifacts in %s: %w", oldDir, err)
	}
	sort.Strings(matches)

	num := 0
	for _, oldPath := range matches {
		name := filepath.Base(oldPath)
		newPath := filepath.Join(newDir, name)
		if _, statErr := os.Stat(newPath); statErr != nil {
			continue
		}

		oldSize, err := sizer.SizeOf(oldPath)
		if err != nil {
			return nil, nil, fmt.Errorf("sizing %s: %w", oldPath, err)
		}
		newSize, err := sizer.SizeOf(newPath)
		if err != nil {
			return nil, nil, fmt.Errorf("sizing %s: %w", newPath, err)
		}

		num++
		oldLines = append(oldLines, sizeLine(num, name, oldSize))
		newLines = append(newLines, sizeLine(num, name, newSize))
	}

	return oldLines, newLines, nil
}

func sizeLine(num int, name string, size int64) string {
	return fmt.Sprintf("%d  %s  1  %d  %d  %d", num, name, size, size, size)
}
