// Package hostinfo collects a short hardware-inventory text for report
// footers. Every lookup is best-effort: missing sources simply leave their
// line out, since the footer is informational only.
package hostinfo

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Paths are variables so tests can point them at fixtures.
var (
	cpuinfoPath = "/proc/cpuinfo"
	meminfoPath = "/proc/meminfo"
)

// Collect returns the hardware footer text, one fact per line.
func Collect() string {
	var lines []string

	if host, err := os.Hostname(); err == nil {
		lines = append(lines, "Host: "+host)
	}
	lines = append(lines, fmt.Sprintf("Platform: %s/%s", runtime.GOOS, runtime.GOARCH))

	if model := cpuModel(); model != "" {
		lines = append(lines, fmt.Sprintf("CPU: %s (%d cores)", model, runtime.NumCPU()))
	} else {
		lines = append(lines, fmt.Sprintf("CPU: %d cores", runtime.NumCPU()))
	}

	if mem := totalMemory(); mem != "" {
		lines = append(lines, "Memory: "+mem)
	}

	return strings.Join(lines, "\n") + "\n"
}

func cpuModel() string {
	return procField(cpuinfoPath, "model name")
}

func totalMemory() string {
	raw := procField(meminfoPath, "MemTotal")
	if raw == "" {
		return ""
	}
	fields := strings.Fields(raw)
	if len(fields) >= 2 && fields[1] == "kB" {
		if kb, err := strconv.ParseInt(fields[0], 10, 64); err == nil {
			return fmt.Sprintf("%.1f GiB", float64(kb)/(1024*1024))
		}
	}
	return raw
}

// procField returns the value of the first "key: value" line in a
// /proc-style file.
func procField(path, key string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		parts := strings.SplitN(scanner.Text(), ":", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.TrimSpace(parts[0]) == key {
			return strings.TrimSpace(parts[1])
		}
	}
	return ""
}
