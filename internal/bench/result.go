package bench

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

// Result is one parsed benchmark result line.
type Result struct {
	Num     int     // test number column
	Name    string  // benchmark (or artifact) name
	Samples int     // number of samples taken
	Min     float64 // minimum observed value (µs for timings, bytes for sizes)
	Raw     string  // the full line, passed through verbatim to the report stage
}

// Regex for a result table line.
// 12 BenchmarkName 20 1234 1456 1302.5 ...
// Only the test number, name and min column are consumed; trailing stat
// columns are opaque and kept via Raw.
var resultRegex = regexp.MustCompile(`^\s*(\d+)\s+([\w./:\-\[\],<>]+)\s+(\d+)\s+(\d+(?:\.\d+)?)(?:\s|$)`)

// ParseResults parses driver output into results. Lines that do not match
// the result grammar (headers, log noise) are skipped.
func ParseResults(output string) []Result {
	var results []Result
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		matches := resultRegex.FindStringSubmatch(line)
		if matches == nil {
			continue
		}

		res := Result{
			Name: matches[2],
			Raw:  strings.TrimRight(line, " \t"),
		}
		if num, err := strconv.Atoi(matches[1]); err == nil {
			res.Num = num
		}
		if samples, err := strconv.Atoi(matches[3]); err == nil {
			res.Samples = samples
		}
		if min, err := strconv.ParseFloat(matches[4], 64); err == nil {
			res.Min = min
		}

		results = append(results, res)
	}

	return results
}

// ByName indexes results by benchmark name. Later duplicates replace
// earlier ones, matching the replace-never-accumulate measurement model.
func ByName(results []Result) map[string]Result {
	m := make(map[string]Result, len(results))
	for _, r := range results {
		m[r.Name] = r
	}
	return m
}
