package hostinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withProcFixtures(t *testing.T, cpuinfo, meminfo string) {
	t.Helper()
	dir := t.TempDir()

	origCPU, origMem := cpuinfoPath, meminfoPath
	t.Cleanup(func() { cpuinfoPath, meminfoPath = origCPU, origMem })

	cpuinfoPath = filepath.Join(dir, "cpuinfo")
	meminfoPath = filepath.Join(dir, "meminfo")
	if cpuinfo != "" {
		require.NoError(t, os.WriteFile(cpuinfoPath, []byte(cpuinfo), 0644))
	}
	if meminfo != "" {
		require.NoError(t, os.WriteFile(meminfoPath, []byte(meminfo), 0644))
	}
}

func TestCollect(t *testing.T) {
	withProcFixtures(t,
		"processor\t: 0\nmodel name\t: Imaginary CPU @ 3.60GHz\n",
		"MemTotal:       16384000 kB\nMemFree:        1234 kB\n")

	out := Collect()
	assert.Contains(t, out, "Platform: ")
	assert.Contains(t, out, "Imaginary CPU @ 3.60GHz")
	assert.Contains(t, out, "15.6 GiB")
}

func TestCollect_DegradesWithoutProcFiles(t *testing.T) {
	withProcFixtures(t, "", "")

	out := Collect()
	assert.Contains(t, out, "Platform: ")
	assert.Contains(t, out, "cores")
	assert.NotContains(t, out, "Memory:")
}
