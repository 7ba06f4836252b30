package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// FindLatest returns the most recently modified file in dir whose
// extension is one of exts (case-insensitive).
func FindLatest(dir string, exts ...string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExt(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no %s files found in %s", strings.Join(exts, "/"), dir)
	}
	return latestFile, nil
}

func hasExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// FindLatestImage picks the newest jpg/png photo in dir.
func FindLatestImage(dir string) (string, error) {
	return FindLatest(dir, ".jpg", ".jpeg", ".png")
}

// ResourceReport is a snapshot of memory use for the stats footer.
type ResourceReport struct {
	ProcessRSS    uint64
	SystemUsedPct float64
	SystemTotal   uint64
}

// Resources samples process and system memory.
func Resources() (ResourceReport, error) {
	var r ResourceReport

	vm, err := mem.VirtualMemory()
	if err != nil {
		return r, fmt.Errorf("virtual memory: %w", err)
	}
	r.SystemTotal = vm.Total
	r.SystemUsedPct = vm.UsedPercent

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return r, fmt.Errorf("process: %w", err)
	}
	mi, err := proc.MemoryInfo()
	if err != nil {
		return r, fmt.Errorf("process memory: %w", err)
	}
	r.ProcessRSS = mi.RSS
	return r, nil
}

func (r ResourceReport) String() string {
	return fmt.Sprintf("RSS: %.1f MiB | System memory: %.1f%% of %.1f GiB",
		float64(r.ProcessRSS)/(1<<20), r.SystemUsedPct, float64(r.SystemTotal)/(1<<30))
}
