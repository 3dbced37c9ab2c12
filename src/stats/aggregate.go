package stats

import (
	"github.com/jom-io/logalyzer/src/record"
	"iter"
	"time"
)

// Aggregator folds records into running totals in a single pass. It is not
// safe for concurrent use; merge the streams first.
type Aggregator struct {
	total       int64
	first, last time.Time
	bytes       int64
	statuses    map[int]int64
	classes     map[record.StatusClass]int64
	methods     map[record.Method]int64
	paths       *counter
	errorPaths  *counter
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		statuses:   make(map[int]int64),
		classes:    make(map[record.StatusClass]int64),
		methods:    make(map[record.Method]int64),
		paths:      newCounter(),
		errorPaths: newCounter(),
	}
}

func (a *Aggregator) Add(rec record.Record) {
	if a.total == 0 {
		a.first, a.last = rec.Timestamp, rec.Timestamp
	} else {
		if rec.Timestamp.Before(a.first) {
			a.first = rec.Timestamp
		}
		if rec.Timestamp.After(a.last) {
			a.last = rec.Timestamp
		}
	}
	a.total++
	if rec.HasSize {
		a.bytes += rec.Size
	}
	a.statuses[rec.Status]++
	a.classes[rec.StatusClass()]++
	a.methods[rec.Method]++
	a.paths.add(rec.Path)
	if rec.IsError() {
		a.errorPaths.add(rec.Path)
	}
}

// Result snapshots the totals with the topN busiest paths and error paths.
func (a *Aggregator) Result(topN int) StatsResult {
	s := StatsResult{
		GlobalStats: GlobalStats{
			TotalRequests: a.total,
			TotalBytes:    a.bytes,
		},
		StatusCodes:   make(map[int]int64, len(a.statuses)),
		StatusClasses: make(map[record.StatusClass]int64, len(a.classes)),
		Methods:       make(map[record.Method]int64, len(a.methods)),
		TopPaths:      a.paths.top(topN),
		TopErrorPaths: a.errorPaths.top(topN),
	}
	if a.total > 0 {
		first, last := a.first, a.last
		s.FirstRequest, s.LastRequest = &first, &last
	}
	for k, v := range a.statuses {
		s.StatusCodes[k] = v
	}
	for k, v := range a.classes {
		s.StatusClasses[k] = v
	}
	for k, v := range a.methods {
		s.Methods[k] = v
	}
	return s
}

// Aggregate drains seq. The first error from upstream stops the pass and is
// returned with the totals gathered so far.
func Aggregate(seq iter.Seq2[record.Record, error], topN int) (StatsResult, error) {
	agg := NewAggregator()
	for rec, err := range seq {
		if err != nil {
			return agg.Result(topN), err
		}
		agg.Add(rec)
	}
	return agg.Result(topN), nil
}
