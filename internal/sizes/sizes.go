// Package sizes answers code-size queries by shelling out to the system
// size(1) utility and parsing its fixed-format report.
package sizes

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// execCommand allows mocking the size invocation in tests.
var execCommand = exec.Command

// Tool queries artifact sizes via the size utility.
type Tool struct {
	// Binary overrides the size binary name. Empty means "size".
	Binary string
}

// SizeOf returns the text-segment size of the artifact at path in bytes.
//
// The report format is a hard contract: the first line must be the section
// header starting with "text", the second line carries the numbers. Any
// other shape means the tool contract is broken and the whole run must
// abort, so errors here are fatal to the comparison.
func (t *Tool) SizeOf(path string) (int64, error) {
	binary := t.Binary
	if binary == "" {
		binary = "size"
	}

	out, err := execCommand(binary, path).Output()
	if err != nil {
		return 0, fmt.Errorf("running %s on %s: %w", binary, path, err)
	}

	lines := nonEmptyLines(string(out))
	if len(lines) < 2 {
		return 0, fmt.Errorf("%s report for %s too short: %q", binary, path, string(out))
	}

	header := strings.Fields(lines[0])
	if len(header) == 0 || header[0] != "text" {
		return 0, fmt.Errorf("unexpected %s report header for %s: %q", binary, path, lines[0])
	}

	fields := strings.Fields(lines[1])
	if len(fields) == 0 {
		return 0, fmt.Errorf("malformed %s report row for %s: %q", binary, path, lines[1])
	}
	size, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing text size for %s: %w", path, err)
	}
	return size, nil
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
