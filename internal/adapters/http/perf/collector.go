// Package perf keeps the most recent request, query and snapshot-save
// timings in memory and summarises them for the admin perf view.
package perf

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is how many entries a collector keeps.
const DefaultRingSize = 10000

// EntryKind says what was timed.
type EntryKind uint8

const (
	KindRequest EntryKind = iota // an /api/ request, labelled by route
	KindQuery                    // a SQL statement or labelled transaction
	KindSave                     // a whole-snapshot save
)

func (k EntryKind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindQuery:
		return "query"
	case KindSave:
		return "save"
	}
	return "unknown"
}

// Entry is one timing.
type Entry struct {
	Kind       EntryKind
	Path       string // route label, statement label or save label
	StatusCode int    // requests only
	Failed     bool   // 5xx response, SQL error or failed save
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring of entries. Once full, each new entry
// replaces the oldest. Aggregation happens in Report.
type Collector struct {
	mu    sync.Mutex
	ring  []Entry
	next  int
	total atomic.Int64
}

// NewCollector creates a collector holding up to size entries.
// A non-positive size uses DefaultRingSize.
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{ring: make([]Entry, size)}
}

// Record stores e. Recording on a nil collector is a no-op so callers can
// run without instrumentation.
func (c *Collector) Record(e Entry) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.ring[c.next] = e
	c.next = (c.next + 1) % len(c.ring)
	c.mu.Unlock()
	c.total.Add(1)
}

// TotalRecorded counts every entry ever recorded, including overwritten ones.
func (c *Collector) TotalRecorded() int64 {
	if c == nil {
		return 0
	}
	return c.total.Load()
}

// Report is the admin perf view over a time window.
type Report struct {
	Since         time.Time `json:"since"`
	TotalRecorded int64     `json:"totalRecorded"`
	Requests      Summary   `json:"requests"`
	Queries       Summary   `json:"queries"`
	Saves         Summary   `json:"saves"`
}

// Summary aggregates one kind of entry.
type Summary struct {
	Count   int        `json:"count"`
	Failed  int        `json:"failed"`
	P50Ms   float64    `json:"p50Ms"`
	P95Ms   float64    `json:"p95Ms"`
	P99Ms   float64    `json:"p99Ms"`
	MaxMs   float64    `json:"maxMs"`
	Slowest []PathStat `json:"slowest"`
}

// PathStat aggregates one route, statement or save label.
type PathStat struct {
	Path    string  `json:"path"`
	Count   int     `json:"count"`
	Failed  int     `json:"failed"`
	AvgMs   float64 `json:"avgMs"`
	MaxMs   float64 `json:"maxMs"`
	TotalMs float64 `json:"totalMs"`
}

type accumulator struct {
	durations []float64
	failed    int
	byPath    map[string]*PathStat
}

func (a *accumulator) add(e Entry) {
	a.durations = append(a.durations, e.DurationMs)
	if e.Failed {
		a.failed++
	}
	s, ok := a.byPath[e.Path]
	if !ok {
		s = &PathStat{Path: e.Path}
		a.byPath[e.Path] = s
	}
	s.Count++
	s.TotalMs += e.DurationMs
	s.MaxMs = math.Max(s.MaxMs, e.DurationMs)
	if e.Failed {
		s.Failed++
	}
}

func (a *accumulator) summary(topN int) Summary {
	sum := Summary{Count: len(a.durations), Failed: a.failed, Slowest: []PathStat{}}
	if len(a.durations) == 0 {
		return sum
	}
	slices.Sort(a.durations)
	sum.P50Ms = percentile(a.durations, 50)
	sum.P95Ms = percentile(a.durations, 95)
	sum.P99Ms = percentile(a.durations, 99)
	sum.MaxMs = a.durations[len(a.durations)-1]

	for _, s := range a.byPath {
		s.AvgMs = s.TotalMs / float64(s.Count)
		sum.Slowest = append(sum.Slowest, *s)
	}
	slices.SortFunc(sum.Slowest, func(x, y PathStat) int {
		if c := cmp.Compare(y.AvgMs, x.AvgMs); c != 0 {
			return c
		}
		return cmp.Compare(x.Path, y.Path)
	})
	if len(sum.Slowest) > topN {
		sum.Slowest = sum.Slowest[:topN]
	}
	return sum
}

// Report summarises entries recorded at or after since, keeping the topN
// slowest labels per kind by average duration.
// PRE: topN > 0
func (c *Collector) Report(since time.Time, topN int) Report {
	c.mu.Lock()
	entries := slices.Clone(c.ring)
	c.mu.Unlock()

	acc := map[EntryKind]*accumulator{
		KindRequest: {byPath: map[string]*PathStat{}},
		KindQuery:   {byPath: map[string]*PathStat{}},
		KindSave:    {byPath: map[string]*PathStat{}},
	}
	for _, e := range entries {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		if a, ok := acc[e.Kind]; ok {
			a.add(e)
		}
	}

	return Report{
		Since:         since,
		TotalRecorded: c.TotalRecorded(),
		Requests:      acc[KindRequest].summary(topN),
		Queries:       acc[KindQuery].summary(topN),
		Saves:         acc[KindSave].summary(topN),
	}
}

// percentile linearly interpolates the p-th percentile of sorted.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
