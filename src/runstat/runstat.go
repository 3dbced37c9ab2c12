package runstat

import (
	"context"
	"fmt"
	"github.com/jom-io/gorig/utils/logger"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"
	"io"
	"os"
	"runtime"
	"time"
)

// Footprint is the resource usage of the current process at one moment.
type Footprint struct {
	Elapsed    time.Duration `json:"elapsed"`
	RSS        uint64        `json:"rss"`        // resident set size in bytes
	CPUPercent float64       `json:"cpuPercent"` // average since process start
	Goroutines int           `json:"goroutines"`
}

type Meter struct {
	start time.Time
}

func Start() *Meter {
	return &Meter{start: time.Now()}
}

// Take samples the process. Failures to read process stats are logged and
// leave the related fields at zero.
func (m *Meter) Take(ctx context.Context) Footprint {
	fp := Footprint{
		Elapsed:    time.Since(m.start),
		Goroutines: runtime.NumGoroutine(),
	}
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		logger.Warn(ctx, "runstat failed to get process", zap.Error(err))
		return fp
	}
	if mem, err := proc.MemoryInfoWithContext(ctx); err == nil {
		fp.RSS = mem.RSS
	} else {
		logger.Warn(ctx, "runstat failed to get memory info", zap.Error(err))
	}
	if cpu, err := proc.CPUPercentWithContext(ctx); err == nil {
		fp.CPUPercent = cpu
	} else {
		logger.Warn(ctx, "runstat failed to get cpu percent", zap.Error(err))
	}
	return fp
}

func (f Footprint) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "EXECUTED IN: %.3f seconds\nMEMORY: %.2f MB RSS, CPU: %.1f%%, GOROUTINES: %d\n",
		f.Elapsed.Seconds(), float64(f.RSS)/1_000_000, f.CPUPercent, f.Goroutines)
	return err
}
