package logtool

import (
	"context"
	"fmt"
	"github.com/jom-io/logalyzer/src/format"
	"github.com/jom-io/logalyzer/src/reader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func logLine(i int, method, path string, status int) string {
	return fmt.Sprintf(`10.0.0.1 - - [18/Nov/2025:20:11:%02d +0200] "%s %s HTTP/1.1" %d %d "-" "test"`,
		i%60, method, path, status, i)
}

func writeLog(t *testing.T, path string, lines ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func TestListLogFiles(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, filepath.Join(dir, "logs", "b.log"), "x")
	writeLog(t, filepath.Join(dir, "logs", "a.log"), "x")
	writeLog(t, filepath.Join(dir, "logs", "old", "c.log"), "x")
	writeLog(t, filepath.Join(dir, "logs", ".hidden"), "x")
	single := filepath.Join(dir, "single.log")
	writeLog(t, single, "x")
	missing := filepath.Join(dir, "missing.log")

	files, err := ListLogFiles([]string{filepath.Join(dir, "logs"), single, missing}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "logs", "a.log"),
		filepath.Join(dir, "logs", "b.log"),
		filepath.Join(dir, "logs", "old", "c.log"),
		single,
		missing,
	}, files)

	_, err = ListLogFiles(nil, "")
	assert.Error(t, err)
}

func TestListLogFilesRoot(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, filepath.Join(dir, "access.log"), "x")

	files, err := ListLogFiles([]string{"access.log"}, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "access.log")}, files)

	_, err = ListLogFiles([]string{"../etc/passwd"}, dir)
	assert.Error(t, err)
	_, err = ListLogFiles([]string{"/etc/passwd"}, dir)
	assert.Error(t, err)
	_, err = ListLogFiles([]string{"logs/../../etc/passwd"}, dir)
	assert.Error(t, err)

	writeLog(t, filepath.Join(dir, "access..log"), "x")
	writeLog(t, filepath.Join(dir, "v1..2", "app.log"), "x")
	files, err = ListLogFiles([]string{"access..log", "v1..2"}, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "access..log"), filepath.Join(dir, "v1..2", "app.log")}, files)
}

func TestResolveFormat(t *testing.T) {
	p, e := ResolveFormat(format.JSONLines)
	require.Nil(t, e)
	assert.Equal(t, format.JSONLines, p.Name())

	_, e = ResolveFormat("nonexistent")
	require.NotNil(t, e)
	assert.Contains(t, e.Error(), "nonexistent")
}

func TestFormats(t *testing.T) {
	formats := Formats()
	require.Len(t, formats, len(format.Default().Names()))
	defaults := 0
	for _, f := range formats {
		if f.Default {
			defaults++
			assert.Equal(t, format.ApacheCombined, f.Name)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestSearchLogs(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.log")
	b := filepath.Join(dir, "b.log")
	writeLog(t, a, logLine(1, "GET", "/a1", 200), "garbage", logLine(3, "POST", "/a3", 500))
	writeLog(t, b, logLine(1, "GET", "/b1", 404), logLine(2, "GET", "/b2", 200))

	result, e := SearchLogs(context.Background(), SearchOptions{Paths: []string{a, b}, Size: 2})
	require.Nil(t, e)
	require.Len(t, result.Records, 2)
	assert.True(t, result.More)
	assert.Equal(t, "/a1", result.Records[0].Record.Path)
	assert.Equal(t, int64(1), result.Records[0].LineNumber)
	assert.Equal(t, int64(3), result.Records[1].LineNumber)
	assert.Equal(t, a, result.LastPath)
	assert.Equal(t, int64(3), result.LastLine)

	next, e := SearchLogs(context.Background(), SearchOptions{
		Paths: []string{a, b}, Size: 10, LastPath: result.LastPath, LastLine: result.LastLine,
	})
	require.Nil(t, e)
	require.Len(t, next.Records, 2)
	assert.False(t, next.More)
	assert.Equal(t, "/b1", next.Records[0].Record.Path)
	assert.Equal(t, "/b2", next.Records[1].Record.Path)

	_, e = SearchLogs(context.Background(), SearchOptions{
		Paths: []string{a, b}, LastPath: filepath.Join(dir, "rotated.log"), LastLine: 3,
	})
	require.NotNil(t, e)
	assert.Equal(t, "verify", e.Code)
	assert.Contains(t, e.Error(), "rotated.log")
}

func TestSearchLogsFilters(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.log")
	writeLog(t, p,
		logLine(1, "GET", "/a", 200),
		logLine(2, "POST", "/b", 500),
		logLine(3, "GET", "/c", 404),
		logLine(4, "DELETE", "/c/x", 200),
	)

	result, e := SearchLogs(context.Background(), SearchOptions{Paths: []string{p}, ErrorsOnly: true})
	require.Nil(t, e)
	assert.Len(t, result.Records, 2)

	result, e = SearchLogs(context.Background(), SearchOptions{Paths: []string{p}, Methods: []string{"get"}, Keyword: "/c"})
	require.Nil(t, e)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "/c", result.Records[0].Record.Path)
}

func TestSearchLogsFailures(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.log")
	writeLog(t, p, logLine(1, "GET", "/a", 200))

	_, e := SearchLogs(context.Background(), SearchOptions{Paths: []string{p}, Format: "nonexistent"})
	require.NotNil(t, e)
	assert.Contains(t, e.Error(), "not found")

	_, e = SearchLogs(context.Background(), SearchOptions{Paths: []string{filepath.Join(dir, "missing.log")}})
	assert.NotNil(t, e)

	_, e = SearchLogs(context.Background(), SearchOptions{Paths: []string{p}, Size: MaxSize + 1})
	assert.NotNil(t, e)
}

func TestStreamTally(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.log")
	writeLog(t, p, logLine(1, "GET", "/a", 200), "bad", logLine(2, "GET", "/b", 200))

	tally := &reader.Tally{}
	seq, e := Stream(context.Background(), SearchOptions{Paths: []string{p}, Strict: true}, tally)
	require.Nil(t, e)
	n := 0
	for rec, err := range seq {
		require.NoError(t, err)
		assert.NotEmpty(t, rec.ToJsonStr())
		n++
	}
	assert.Equal(t, 2, n)
	snap := tally.Snapshot()
	assert.Equal(t, int64(3), snap.Lines)
	assert.Equal(t, int64(1), snap.Skipped)
}
