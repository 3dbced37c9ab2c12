package stats

import (
	"github.com/jom-io/logalyzer/src/reader"
	"github.com/jom-io/logalyzer/src/record"
	"time"
)

type PathCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// GlobalStats holds the request totals. FirstRequest and LastRequest are nil
// when no record was seen.
type GlobalStats struct {
	TotalRequests int64      `json:"totalRequests"`
	FirstRequest  *time.Time `json:"firstRequest"`
	LastRequest   *time.Time `json:"lastRequest"`
	TotalBytes    int64      `json:"totalBytes"`
}

// StatsResult is the snapshot taken once every record has been added.
type StatsResult struct {
	GlobalStats
	StatusCodes   map[int]int64                `json:"statusCodes"`
	StatusClasses map[record.StatusClass]int64 `json:"statusClasses"`
	Methods       map[record.Method]int64      `json:"methods"`
	TopPaths      []PathCount                  `json:"topPaths"`
	TopErrorPaths []PathCount                  `json:"topErrorPaths"`
}

type Options struct {
	Paths    []string `json:"paths" form:"paths"`
	Format   string   `json:"format" form:"format"`
	Strict   bool     `json:"strict" form:"strict"`
	Parallel bool     `json:"parallel" form:"parallel"`
	TopPaths *int     `json:"topPaths" form:"topPaths"`
	// Workers and QueueSize fall back to the configured values when zero.
	Workers   int `json:"workers" form:"workers"`
	QueueSize int `json:"queueSize" form:"queueSize"`
	// Root restricts Paths to files below it. Set by the HTTP surface.
	Root string `json:"-" form:"-"`
}

type Result struct {
	RunID  string               `json:"runId"`
	Format string               `json:"format"`
	Mode   reader.Mode          `json:"mode"`
	Files  []string             `json:"files"`
	TopN   int                  `json:"topN"`
	Stats  StatsResult          `json:"stats"`
	Input  reader.TallySnapshot `json:"input"`
	CostMs int64                `json:"costMs"`
}
