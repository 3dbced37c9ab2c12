package report

import (
	"encoding/json"
	"fmt"
	"github.com/jom-io/logalyzer/src/format"
	"github.com/jom-io/logalyzer/src/logtool"
	"github.com/jom-io/logalyzer/src/record"
	"github.com/jom-io/logalyzer/src/stats"
	"io"
	"iter"
	"sort"
	"strings"
	"text/tabwriter"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

const timeLayout = "2006-01-02 15:04:05"

var rule = strings.Repeat("=", 16)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", s)
	}
}

// Stats writes the result of a stats run.
func Stats(w io.Writer, result *stats.Result, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatText:
		return statsText(w, result)
	default:
		return fmt.Errorf("unknown output format: %s", f)
	}
}

func statsText(w io.Writer, result *stats.Result) error {
	s := result.Stats
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total Requests: %d\n", s.TotalRequests)
	if s.FirstRequest != nil && s.LastRequest != nil {
		fmt.Fprintf(w, "Time Range: %s -> %s\n", s.FirstRequest.Format(timeLayout), s.LastRequest.Format(timeLayout))
	} else {
		fmt.Fprintln(w, "Time Range: -")
	}
	fmt.Fprintf(w, "Total Megabytes Sent: %.2f MB\n", float64(s.TotalBytes)/1_000_000)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Status Codes:")
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	codes := make([]int, 0, len(s.StatusCodes))
	for code := range s.StatusCodes {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		fmt.Fprintf(tw, "\t%s - %d:\t%d\n", record.ClassOf(code).Label(), code, s.StatusCodes[code])
	}
	tw.Flush()

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "HTTP Methods:")
	tw = tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for _, m := range record.Methods {
		if n, ok := s.Methods[m]; ok {
			fmt.Fprintf(tw, "\tMethod %s:\t%d\n", m, n)
		}
	}
	tw.Flush()

	writePaths(w, "Top Paths:", s.TopPaths)
	writePaths(w, "Top Error Paths:", s.TopErrorPaths)

	fmt.Fprintln(w, rule)
	in := result.Input
	_, err := fmt.Fprintf(w, "Lines: %d  Records: %d  Skipped: %d  Failed files: %d\n",
		in.Lines, in.Records, in.Skipped, in.FailedFiles)
	return err
}

func writePaths(w io.Writer, title string, paths []stats.PathCount) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, title)
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for _, p := range paths {
		fmt.Fprintf(tw, "\tPath - %s:\t%d\n", p.Path, p.Count)
	}
	tw.Flush()
}

// Records writes every record of seq, one per line, and returns how many
// were written. It stops at the first error from seq.
func Records(w io.Writer, seq iter.Seq2[logtool.MatchedRecord, error], f Format) (int, error) {
	var enc *json.Encoder
	var tw *tabwriter.Writer
	switch f {
	case FormatJSON:
		enc = json.NewEncoder(w)
	case FormatText:
		tw = tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		defer tw.Flush()
	default:
		return 0, fmt.Errorf("unknown output format: %s", f)
	}

	n := 0
	for m, err := range seq {
		if err != nil {
			return n, err
		}
		if enc != nil {
			if err := enc.Encode(m); err != nil {
				return n, err
			}
		} else {
			r := m.Record
			size := "-"
			if r.HasSize {
				size = fmt.Sprint(r.Size)
			}
			fmt.Fprintf(tw, "%s:%d\t%s\t%s\t%s\t%s\t%d\t%s\n", m.FilePath, m.LineNumber,
				r.ClientAddress, format.FormatTimestamp(r.Timestamp), r.Method, r.Path, r.Status, size)
		}
		n++
	}
	return n, nil
}
