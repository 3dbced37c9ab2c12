package logtool

import (
	"context"
	"fmt"
	"github.com/jom-io/gorig/utils/errors"
	"github.com/jom-io/gorig/utils/logger"
	"github.com/jom-io/logalyzer/src/conf"
	"github.com/jom-io/logalyzer/src/format"
	"github.com/jom-io/logalyzer/src/reader"
	"go.uber.org/zap"
	"iter"
	"slices"
)

// ResolveFormat looks name up in the default registry. An empty name means
// the configured default.
func ResolveFormat(name string) (format.Parser, *errors.Error) {
	if name == "" {
		name = conf.Get().Format
	}
	p, err := format.Default().Resolve(name)
	if err != nil {
		return nil, errors.Verify(err.Error())
	}
	return p, nil
}

func Formats() []FormatInfo {
	def := conf.Get().Format
	names := format.Default().Names()
	result := make([]FormatInfo, 0, len(names))
	for _, name := range names {
		result = append(result, FormatInfo{Name: name, Default: name == def})
	}
	return result
}

// Stream yields every matching record of the files in opts, file by file,
// with its line number. Lines that do not parse are skipped. Paging fields
// are honoured, Size is not. A LastPath that is not among the files is an
// error.
func Stream(ctx context.Context, opts SearchOptions, tally *reader.Tally) (iter.Seq2[MatchedRecord, error], *errors.Error) {
	parser, e := ResolveFormat(opts.Format)
	if e != nil {
		return nil, e
	}
	files, err := ListLogFiles(opts.Paths, opts.RootDir)
	if err != nil {
		return nil, errors.Verify(err.Error())
	}
	if opts.LastPath != "" && !slices.Contains(files, opts.LastPath) {
		return nil, errors.Verify(fmt.Sprintf("lastPath is not one of the searched files: %s", opts.LastPath))
	}
	ropts := reader.Options{
		Strict:      opts.Strict,
		MaxLineSize: conf.Get().MaxLineSize,
		Tally:       tally,
	}
	return func(yield func(MatchedRecord, error) bool) {
		startProcessing := opts.LastPath == ""
		for _, filePath := range files {
			if !startProcessing && filePath == opts.LastPath {
				startProcessing = true
			}
			if !startProcessing {
				continue
			}
			for line, err := range reader.Lines(ctx, filePath, ropts) {
				if err != nil {
					yield(MatchedRecord{}, err)
					return
				}
				if filePath == opts.LastPath && line.No <= opts.LastLine {
					continue
				}
				rec, err := reader.ParseLine(parser, line)
				if err != nil {
					tally.AddSkipped()
					if opts.Strict {
						logger.Warn(ctx, "skip unparsable line",
							zap.String("path", filePath), zap.Int64("line", line.No), zap.Error(err))
					}
					continue
				}
				tally.AddRecord()
				if !opts.match(rec) {
					continue
				}
				if !yield(MatchedRecord{FilePath: filePath, LineNumber: line.No, Record: rec}, nil) {
					return
				}
			}
		}
	}, nil
}

// SearchLogs returns up to opts.Size matching records. The last path and line
// of the page can be passed back to continue after it.
func SearchLogs(ctx context.Context, opts SearchOptions) (*SearchResult, *errors.Error) {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Size > MaxSize {
		return nil, errors.Verify(fmt.Sprintf("size must not exceed %d", MaxSize))
	}
	seq, e := Stream(ctx, opts, nil)
	if e != nil {
		return nil, e
	}

	result := &SearchResult{Records: make([]MatchedRecord, 0)}
	for rec, err := range seq {
		if err != nil {
			return nil, errors.Verify(err.Error())
		}
		if len(result.Records) >= opts.Size {
			result.More = true
			break
		}
		result.Records = append(result.Records, rec)
		result.LastPath, result.LastLine = rec.FilePath, rec.LineNumber
	}
	logger.Info(ctx, "search logs", zap.Strings("paths", opts.Paths), zap.Int("matched", len(result.Records)))
	return result, nil
}
