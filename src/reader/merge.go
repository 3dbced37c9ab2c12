package reader

import (
	"context"
	"errors"
	"github.com/jom-io/gorig/utils/logger"
	"github.com/jom-io/logalyzer/src/format"
	"github.com/jom-io/logalyzer/src/record"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"iter"
)

type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeConcurrent Mode = "concurrent"
)

type MergeFunc func(ctx context.Context, paths []string, parser format.Parser, opts Options) iter.Seq2[record.Record, error]

// Merge returns the strategy for mode. A single path is always read directly.
func Merge(mode Mode) MergeFunc {
	strategy := Sequential
	if mode == ModeConcurrent {
		strategy = Concurrent
	}
	return func(ctx context.Context, paths []string, parser format.Parser, opts Options) iter.Seq2[record.Record, error] {
		if len(paths) == 1 {
			return Records(ctx, paths[0], parser, opts)
		}
		return strategy(ctx, paths, parser, opts)
	}
}

// Sequential yields every record of paths[0], then paths[1] and so on. The
// first file access error ends the whole stream.
func Sequential(ctx context.Context, paths []string, parser format.Parser, opts Options) iter.Seq2[record.Record, error] {
	return func(yield func(record.Record, error) bool) {
		for _, path := range paths {
			for rec, err := range Records(ctx, path, parser, opts) {
				if !yield(rec, err) || err != nil {
					return
				}
			}
		}
	}
}

// Concurrent reads every path in its own goroutine and fans the records into
// one bounded queue. Order is kept within a file only. A file that cannot be
// read is logged and counted; the other files carry on. Breaking out of the
// loop stops the readers before the iterator returns.
func Concurrent(ctx context.Context, paths []string, parser format.Parser, opts Options) iter.Seq2[record.Record, error] {
	opts = opts.withDefaults()
	return func(yield func(record.Record, error) bool) {
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		queue := make(chan record.Record, opts.QueueSize)
		go func() {
			defer close(queue)
			var g errgroup.Group
			if opts.Workers > 0 {
				g.SetLimit(opts.Workers)
			}
			for _, path := range paths {
				g.Go(func() error {
					produce(runCtx, path, parser, opts, queue)
					return nil
				})
			}
			_ = g.Wait()
		}()

		for rec := range queue {
			if !yield(rec, nil) {
				cancel()
				for range queue {
				}
				return
			}
		}
		if err := ctx.Err(); err != nil {
			yield(record.Record{}, err)
		}
	}
}

func produce(ctx context.Context, path string, parser format.Parser, opts Options, queue chan<- record.Record) {
	if ctx.Err() != nil {
		return
	}
	for rec, err := range Records(ctx, path, parser, opts) {
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			logger.Error(ctx, "read log file failed", zap.String("path", path), zap.Error(err))
			return
		}
		select {
		case queue <- rec:
		case <-ctx.Done():
			return
		}
	}
}
