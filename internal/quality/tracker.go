// Package quality tracks per-table data-quality counters across a pipeline
// run: rows read, duplicates removed, missing values handled, and rows loaded.
//
// The tracker is an explicit instance passed into each stage rather than
// package-level state, so parallel-table tests (and the concurrent extract
// phase) stay isolated. Counters are atomic because extraction runs one
// goroutine per table; everything downstream is sequential.
package quality

import "sync/atomic"

// Table names used throughout the pipeline.
const (
	TableCustomers = "customers"
	TableProducts  = "products"
	TableSales     = "sales"
)

// Counts is an immutable snapshot of one table's counters.
type Counts struct {
	RecordsRead          int64
	DuplicatesRemoved    int64
	MissingValuesHandled int64
	RecordsLoaded        int64
}

type tableCounters struct {
	read       atomic.Int64
	duplicates atomic.Int64
	missing    atomic.Int64
	loaded     atomic.Int64
}

// Tracker accumulates data-quality counters for a fixed set of tables.
type Tracker struct {
	order  []string
	tables map[string]*tableCounters
}

// NewTracker returns a Tracker for the given tables. Snapshot iteration
// preserves the order given here.
func NewTracker(tables ...string) *Tracker {
	t := &Tracker{
		order:  append([]string(nil), tables...),
		tables: make(map[string]*tableCounters, len(tables)),
	}
	for _, name := range tables {
		t.tables[name] = &tableCounters{}
	}
	return t
}

// New returns a Tracker preconfigured for the three pipeline source tables.
func New() *Tracker {
	return NewTracker(TableCustomers, TableProducts, TableSales)
}

func (t *Tracker) counters(table string) *tableCounters {
	c, ok := t.tables[table]
	if !ok {
		// Unknown tables are a programming error; counting them silently
		// would corrupt the report, so panic early.
		panic("quality: unknown table " + table)
	}
	return c
}

// RecordRead adds n to the records_read counter for table.
func (t *Tracker) RecordRead(table string, n int) {
	t.counters(table).read.Add(int64(n))
}

// RecordDuplicates adds n to the duplicates_removed counter for table.
func (t *Tracker) RecordDuplicates(table string, n int) {
	t.counters(table).duplicates.Add(int64(n))
}

// RecordMissing adds n to the missing_values_handled counter for table.
func (t *Tracker) RecordMissing(table string, n int) {
	t.counters(table).missing.Add(int64(n))
}

// RecordLoaded adds n to the records_loaded counter for table.
func (t *Tracker) RecordLoaded(table string, n int) {
	t.counters(table).loaded.Add(int64(n))
}

// Tables returns the table names in snapshot order.
func (t *Tracker) Tables() []string {
	return append([]string(nil), t.order...)
}

// Snapshot returns an immutable copy of all counters.
func (t *Tracker) Snapshot() map[string]Counts {
	out := make(map[string]Counts, len(t.tables))
	for name, c := range t.tables {
		out[name] = Counts{
			RecordsRead:          c.read.Load(),
			DuplicatesRemoved:    c.duplicates.Load(),
			MissingValuesHandled: c.missing.Load(),
			RecordsLoaded:        c.loaded.Load(),
		}
	}
	return out
}
