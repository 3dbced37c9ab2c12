package stats

import (
	"context"
	"fmt"
	"github.com/jom-io/gorig/utils/errors"
	"github.com/jom-io/gorig/utils/logger"
	"github.com/jom-io/logalyzer/src/conf"
	"github.com/jom-io/logalyzer/src/logtool"
	"github.com/jom-io/logalyzer/src/reader"
	"github.com/rs/xid"
	"go.uber.org/zap"
	"time"
)

type Serv struct {
	cfg conf.Config
}

// S returns a service bound to the current process settings.
func S() *Serv {
	return New(conf.Get())
}

func New(cfg conf.Config) *Serv {
	return &Serv{cfg: cfg}
}

// Compute reads every file in opts and aggregates the records. Unknown
// formats and unreadable files are caller errors.
func (s *Serv) Compute(ctx context.Context, opts Options) (*Result, *errors.Error) {
	start := time.Now()
	topN := s.cfg.TopN
	if opts.TopPaths != nil {
		topN = *opts.TopPaths
	}
	if topN < 0 {
		return nil, errors.Verify("top paths must not be negative")
	}
	if opts.Format == "" {
		opts.Format = s.cfg.Format
	}
	parser, e := logtool.ResolveFormat(opts.Format)
	if e != nil {
		return nil, e
	}
	files, err := logtool.ListLogFiles(opts.Paths, opts.Root)
	if err != nil {
		return nil, errors.Verify(err.Error())
	}

	mode := reader.ModeSequential
	if opts.Parallel {
		mode = reader.ModeConcurrent
	}
	tally := &reader.Tally{}
	ropts := reader.Options{
		Strict:      opts.Strict,
		MaxLineSize: s.cfg.MaxLineSize,
		QueueSize:   pick(opts.QueueSize, s.cfg.QueueSize),
		Workers:     pick(opts.Workers, s.cfg.Workers),
		Tally:       tally,
	}

	runID := xid.New().String()
	logger.Info(ctx, "compute stats", zap.String("run", runID), zap.String("format", parser.Name()),
		zap.String("mode", string(mode)), zap.Strings("files", files))

	stats, err := Aggregate(reader.Merge(mode)(ctx, files, parser, ropts), topN)
	if err != nil {
		logger.Warn(ctx, "compute stats aborted", zap.String("run", runID), zap.Error(err))
		return nil, errors.Verify(fmt.Sprintf("read logs failed: %v", err))
	}

	result := &Result{
		RunID:  runID,
		Format: parser.Name(),
		Mode:   mode,
		Files:  files,
		TopN:   topN,
		Stats:  stats,
		Input:  tally.Snapshot(),
		CostMs: time.Since(start).Milliseconds(),
	}
	logger.Info(ctx, "compute stats done", zap.String("run", runID),
		zap.Int64("requests", stats.TotalRequests), zap.Int64("skipped", result.Input.Skipped),
		zap.Int64("failedFiles", result.Input.FailedFiles), zap.Int64("costMs", result.CostMs))
	return result, nil
}

func pick(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
