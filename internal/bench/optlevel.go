package bench

import "fmt"

// OptLevel identifies a compilation mode whose benchmarks are compared
// independently of the other modes.
type OptLevel string

const (
	OptO     OptLevel = "O"
	OptOsize OptLevel = "Osize"
	OptOnone OptLevel = "Onone"
)

// AllOptLevels lists the levels the compare command iterates by default.
var AllOptLevels = []OptLevel{OptO, OptOsize, OptOnone}

// ParseOptLevel validates a user-supplied level name.
func ParseOptLevel(s string) (OptLevel, error) {
	switch OptLevel(s) {
	case OptO, OptOsize, OptOnone:
		return OptLevel(s), nil
	}
	return "", fmt.Errorf("unknown optimization level %q (expected O, Osize or Onone)", s)
}

// BinaryName returns the benchmark binary name for this level.
func (o OptLevel) BinaryName() string {
	return "Benchmark_" + string(o)
}

// ArtifactPattern returns the glob matching this level's compiled object
// files inside a build directory. The level name is matched as an exact
// suffix: O is a prefix of Osize and Onone, so a looser glob would pull
// the other levels' artifacts into this level's comparison.
func (o OptLevel) ArtifactPattern() string {
	return "*_" + string(o) + ".o"
}
