package reader

import (
	"sync/atomic"
)

const (
	DefaultMaxLineSize = 1024 * 1024 // 1MB max per line
	DefaultQueueSize   = 2000
)

type Options struct {
	// Strict reports every skipped line through the logger. Skipping
	// happens either way.
	Strict      bool
	MaxLineSize int
	// QueueSize bounds the channel shared by concurrent readers.
	QueueSize int
	// Workers caps how many files are open at once, 0 means one per path.
	Workers int
	Tally   *Tally
}

func (o Options) withDefaults() Options {
	if o.MaxLineSize <= 0 {
		o.MaxLineSize = DefaultMaxLineSize
	}
	if o.QueueSize <= 0 {
		o.QueueSize = DefaultQueueSize
	}
	if o.Workers < 0 {
		o.Workers = 0
	}
	return o
}

// Tally counts what happened to the input of a run. A nil Tally ignores
// every update, so callers that do not care can leave it out.
type Tally struct {
	lines   atomic.Int64
	records atomic.Int64
	skipped atomic.Int64
	failed  atomic.Int64
}

type TallySnapshot struct {
	Lines       int64 `json:"lines"`
	Records     int64 `json:"records"`
	Skipped     int64 `json:"skipped"`
	FailedFiles int64 `json:"failedFiles"`
}

func (t *Tally) AddLine() {
	if t != nil {
		t.lines.Add(1)
	}
}

func (t *Tally) AddRecord() {
	if t != nil {
		t.records.Add(1)
	}
}

func (t *Tally) AddSkipped() {
	if t != nil {
		t.skipped.Add(1)
	}
}

func (t *Tally) AddFailed() {
	if t != nil {
		t.failed.Add(1)
	}
}

func (t *Tally) Snapshot() TallySnapshot {
	if t == nil {
		return TallySnapshot{}
	}
	return TallySnapshot{
		Lines:       t.lines.Load(),
		Records:     t.records.Load(),
		Skipped:     t.skipped.Load(),
		FailedFiles: t.failed.Load(),
	}
}
