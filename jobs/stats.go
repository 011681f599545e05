package jobs

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
	"golang.org/x/text/width"
)

// displayWidth measures the terminal cell width of s, counting East Asian
// wide and fullwidth runes as two cells.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}

func pad(s string, cells int) string {
	if gap := cells - displayWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// leaderStats samples CPU and memory of the process-group leader for the
// verbose listing. A job whose leader is already gone renders without stats.
func leaderStats(pgid int) string {
	proc, err := process.NewProcess(int32(pgid))
	if err != nil {
		return ""
	}
	cpu, err := proc.CPUPercent()
	if err != nil {
		return ""
	}
	mem, err := proc.MemoryInfo()
	if err != nil || mem == nil {
		return ""
	}
	return fmt.Sprintf("  %.1f%% %.1fMB", cpu, float64(mem.RSS)/(1024*1024))
}
