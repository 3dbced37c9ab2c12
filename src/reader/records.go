package reader

import (
	"context"
	"github.com/jom-io/gorig/utils/logger"
	"github.com/jom-io/logalyzer/src/format"
	"github.com/jom-io/logalyzer/src/record"
	"go.uber.org/zap"
	"iter"
)

// Records parses every line of path with parser. Lines that do not parse are
// skipped; with Strict they are also logged. A file access error or context
// cancellation is yielded once and ends the stream.
func Records(ctx context.Context, path string, parser format.Parser, opts Options) iter.Seq2[record.Record, error] {
	opts = opts.withDefaults()
	return func(yield func(record.Record, error) bool) {
		for line, err := range Lines(ctx, path, opts) {
			if err != nil {
				yield(record.Record{}, err)
				return
			}
			rec, err := ParseLine(parser, line)
			if err != nil {
				opts.Tally.AddSkipped()
				if opts.Strict {
					logger.Warn(ctx, "skip unparsable line",
						zap.String("path", path), zap.Int64("line", line.No), zap.Error(err))
				}
				continue
			}
			opts.Tally.AddRecord()
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// ParseLine parses one line. Oversize lines fail with ErrLineTooLong.
func ParseLine(parser format.Parser, line Line) (record.Record, error) {
	if line.Oversize {
		return record.Record{}, &format.ParseError{Format: parser.Name(), Line: truncate(line.Text, 128), Err: ErrLineTooLong}
	}
	return parser.Parse(line.Text)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
