package compare

import "math"

// Tuning knobs for the convergence loop. These are empirical values with no
// deeper derivation; keep them as named constants.
const (
	// MaxSamples caps the per-round sample count.
	MaxSamples = 10
	// StagnationLimit is the number of consecutive non-improving rounds
	// after which remaining pending benchmarks are force-settled.
	StagnationLimit = 4
	// PerfReportFactor widens the round threshold for the report stage, so
	// benchmarks are only re-run when their noise is above reporting
	// significance.
	PerfReportFactor = 2.0
	// SizeReportThreshold is the report-stage threshold for code size.
	// Deliberately a fixed fraction, not derived from the round threshold.
	SizeReportThreshold = 0.01
)

// Within reports whether old and new are inside the symmetric relative
// difference band. A new value of zero is treated as within threshold to
// avoid a divide-by-zero blow-up.
func Within(old, new, threshold float64) bool {
	if new == 0 {
		return true
	}
	return math.Abs(old/new-1) <= threshold
}
