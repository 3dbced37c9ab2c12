package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/jom-io/logalyzer/src/conf"
	"github.com/jom-io/logalyzer/src/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"os"
	"path/filepath"
	"pgregory.net/rapid"
	"strings"
	"testing"
	"time"
)

var base = time.Date(2025, time.November, 18, 20, 0, 0, 0, time.FixedZone("", 2*3600))

func rec(path string, status int, size int64, hasSize bool, at time.Time) record.Record {
	return record.Record{
		ClientAddress: "127.0.0.1",
		Timestamp:     at,
		Method:        record.MethodGet,
		Path:          path,
		Status:        status,
		Size:          size,
		HasSize:       hasSize,
	}
}

func seqOf(recs ...record.Record) func(func(record.Record, error) bool) {
	return func(yield func(record.Record, error) bool) {
		for _, r := range recs {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func TestAggregateTotals(t *testing.T) {
	s, err := Aggregate(seqOf(
		rec("/a", 200, 100, true, base.Add(time.Minute)),
		rec("/b", 404, 0, false, base),
		rec("/a", 503, 250, true, base.Add(2*time.Minute)),
		rec("/c", 999, 0, true, base.Add(time.Second)),
	), 3)
	require.NoError(t, err)

	first, last := base, base.Add(2*time.Minute)
	assert.Equal(t, GlobalStats{TotalRequests: 4, FirstRequest: &first, LastRequest: &last, TotalBytes: 350}, s.GlobalStats)
	assert.Equal(t, map[int]int64{200: 1, 404: 1, 503: 1, 999: 1}, s.StatusCodes)
	assert.Equal(t, map[record.StatusClass]int64{
		record.Success:     1,
		record.ClientError: 1,
		record.ServerError: 1,
		record.Undefined:   1,
	}, s.StatusClasses)
	assert.Equal(t, map[record.Method]int64{record.MethodGet: 4}, s.Methods)
	assert.Equal(t, []PathCount{{"/a", 2}, {"/b", 1}, {"/c", 1}}, s.TopPaths)
	assert.Equal(t, []PathCount{{"/b", 1}, {"/a", 1}, {"/c", 1}}, s.TopErrorPaths)
}

func TestAggregateEmpty(t *testing.T) {
	s, err := Aggregate(seqOf(), 3)
	require.NoError(t, err)
	assert.Zero(t, s.TotalRequests)
	assert.Nil(t, s.FirstRequest)
	assert.Nil(t, s.LastRequest)
	assert.Empty(t, s.TopPaths)
	assert.NotNil(t, s.TopPaths)
}

func TestAggregateEqualTimestampsKeepFirst(t *testing.T) {
	other := base.In(time.UTC)
	s, err := Aggregate(seqOf(rec("/a", 200, 0, false, base), rec("/b", 200, 0, false, other)), 1)
	require.NoError(t, err)
	_, offset := s.FirstRequest.Zone()
	assert.Equal(t, 2*3600, offset)
	_, offset = s.LastRequest.Zone()
	assert.Equal(t, 2*3600, offset)
}

func TestAggregateStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	seq := func(yield func(record.Record, error) bool) {
		if !yield(rec("/a", 200, 1, true, base), nil) {
			return
		}
		if !yield(record.Record{}, boom) {
			return
		}
		yield(rec("/b", 200, 1, true, base), nil)
	}
	s, err := Aggregate(seq, 3)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(1), s.TotalRequests)
}

func TestTopPaths(t *testing.T) {
	agg := NewAggregator()
	for _, p := range []string{"/x", "/y", "/y", "/z", "/z", "/w", "/v", "/v", "/v"} {
		agg.Add(rec(p, 200, 0, false, base))
	}
	assert.Equal(t, []PathCount{{"/v", 3}}, agg.Result(1).TopPaths)
	assert.Equal(t, []PathCount{{"/v", 3}, {"/y", 2}, {"/z", 2}}, agg.Result(3).TopPaths)
	assert.Equal(t, []PathCount{{"/v", 3}, {"/y", 2}, {"/z", 2}, {"/x", 1}, {"/w", 1}}, agg.Result(10).TopPaths)
	assert.Empty(t, agg.Result(0).TopPaths)
	assert.Empty(t, agg.Result(-1).TopPaths)
}

func TestTopPathsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		paths := rapid.SliceOf(rapid.SampledFrom([]string{"/a", "/b", "/c", "/d", "/e", "/f"})).Draw(t, "paths")
		n := rapid.IntRange(0, 8).Draw(t, "n")

		agg := NewAggregator()
		counts := map[string]int64{}
		var order []string
		for _, p := range paths {
			if _, ok := counts[p]; !ok {
				order = append(order, p)
			}
			counts[p]++
			agg.Add(rec(p, 200, 0, false, base))
		}
		top := agg.Result(n).TopPaths

		if want := min(n, len(order)); len(top) != want {
			t.Fatalf("got %d entries, want %d", len(top), want)
		}
		pos := map[string]int{}
		for i, p := range order {
			pos[p] = i
		}
		for i, pc := range top {
			if counts[pc.Path] != pc.Count {
				t.Fatalf("count of %s is %d, want %d", pc.Path, pc.Count, counts[pc.Path])
			}
			if i == 0 {
				continue
			}
			prev := top[i-1]
			if prev.Count < pc.Count || (prev.Count == pc.Count && pos[prev.Path] > pos[pc.Path]) {
				t.Fatalf("bad order %v", top)
			}
		}
		// nothing left out ranks above the last entry
		if len(top) > 0 {
			last := top[len(top)-1]
			in := map[string]bool{}
			for _, pc := range top {
				in[pc.Path] = true
			}
			for _, p := range order {
				if in[p] {
					continue
				}
				if counts[p] > last.Count || (counts[p] == last.Count && pos[p] < pos[last.Path]) {
					t.Fatalf("%s should rank in %v", p, top)
				}
			}
		}
	})
}

func TestTotalBytesProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sizes := rapid.SliceOf(rapid.Int64Range(-1, 1<<30)).Draw(t, "sizes")
		agg := NewAggregator()
		var want int64
		for _, size := range sizes {
			if size < 0 {
				agg.Add(rec("/", 200, 0, false, base))
				continue
			}
			want += size
			agg.Add(rec("/", 200, size, true, base))
		}
		if got := agg.Result(1).TotalBytes; got != want {
			t.Fatalf("total bytes %d, want %d", got, want)
		}
	})
}

func writeLog(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return p
}

func line(path string, status int, size string) string {
	return fmt.Sprintf(`127.0.0.1 - - [18/Nov/2025:20:11:42 +0200] "GET %s HTTP/1.1" %d %s "-" "-"`, path, status, size)
}

func TestServCompute(t *testing.T) {
	dir := t.TempDir()
	a := writeLog(t, dir, "a.log", line("/x", 200, "100"), "junk", line("/y", 500, "-"))
	b := writeLog(t, dir, "b.log", line("/x", 404, "250"))
	s := New(conf.Default())

	for _, parallel := range []bool{false, true} {
		result, e := s.Compute(context.Background(), Options{Paths: []string{a, b}, Parallel: parallel})
		require.Nil(t, e)
		assert.NotEmpty(t, result.RunID)
		assert.Equal(t, "apache_combined", result.Format)
		assert.Equal(t, 3, result.TopN)
		assert.Equal(t, int64(3), result.Stats.TotalRequests)
		assert.Equal(t, int64(350), result.Stats.TotalBytes)
		assert.Equal(t, []PathCount{{"/x", 2}, {"/y", 1}}, result.Stats.TopPaths)
		assert.Equal(t, int64(1), result.Input.Skipped)
		assert.Equal(t, int64(4), result.Input.Lines)
	}

	one := 1
	result, e := s.Compute(context.Background(), Options{Paths: []string{a, b}, TopPaths: &one})
	require.Nil(t, e)
	assert.Equal(t, []PathCount{{"/x", 2}}, result.Stats.TopPaths)
}

func TestServComputeFailures(t *testing.T) {
	dir := t.TempDir()
	a := writeLog(t, dir, "a.log", line("/x", 200, "100"))
	missing := filepath.Join(dir, "missing.log")
	s := New(conf.Default())

	_, e := s.Compute(context.Background(), Options{Paths: []string{a}, Format: "nonexistent"})
	require.NotNil(t, e)
	assert.Contains(t, e.Error(), "nonexistent")

	_, e = s.Compute(context.Background(), Options{Paths: []string{a, missing}})
	assert.NotNil(t, e)

	result, e := s.Compute(context.Background(), Options{Paths: []string{a, missing}, Parallel: true})
	require.Nil(t, e)
	assert.Equal(t, int64(1), result.Stats.TotalRequests)
	assert.Equal(t, int64(1), result.Input.FailedFiles)

	neg := -1
	_, e = s.Compute(context.Background(), Options{Paths: []string{a}, TopPaths: &neg})
	assert.NotNil(t, e)
}

func TestStatsResultJSON(t *testing.T) {
	s, err := Aggregate(seqOf(rec("/a", 200, 100, true, base)), 1)
	require.NoError(t, err)
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gjson.GetBytes(b, "totalRequests").Int())
	assert.Equal(t, int64(100), gjson.GetBytes(b, "totalBytes").Int())
	assert.True(t, gjson.GetBytes(b, "firstRequest").Exists())
	assert.Equal(t, int64(1), gjson.GetBytes(b, "statusCodes.200").Int())
	assert.Equal(t, "/a", gjson.GetBytes(b, "topPaths.0.path").String())
	assert.False(t, gjson.GetBytes(b, "GlobalStats").Exists())
}
