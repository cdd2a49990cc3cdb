package facilityspread

import "log"

// CensusRecord is one tick's population snapshot: the eight state totals
// plus the eight `newly_*` deltas produced by that tick's Disease step
// (§4.7, §6's Log CSV).
type CensusRecord struct {
	Tick   int64
	Counts [NumStates]int64
	Newly  [NumStates]int64
}

// CensusLogger is the sink a Census flushes rows to — a CSV file, a
// SQLite table, or (in tests) an in-memory slice. Matches the teacher's
// DataLogger shape: Init once, write many, Flush at boundaries, Close once.
type CensusLogger interface {
	Init() error
	WriteTick(rec CensusRecord) error
	Flush() error
	Close() error
}

// Census counts population in each disease state at the end of every tick
// and forwards the record to its logger, flushing at day boundaries (C10).
// A log-write error never fails the run (§7) — it is reported via the
// standard logger and the simulation continues.
type Census struct {
	Logger CensusLogger
}

// NewCensus wraps logger in a Census.
func NewCensus(logger CensusLogger) *Census {
	return &Census{Logger: logger}
}

// Record tallies residents' current states, appends the tick's newly_*
// deltas, writes the row, and flushes at day boundaries.
func (c *Census) Record(tick int64, residents *ResidentTable, delta DiseaseDelta) CensusRecord {
	rec := CensusRecord{Tick: tick, Newly: delta.Newly}
	n := residents.Len()
	for r := 0; r < n; r++ {
		rec.Counts[residents.State(r)]++
	}

	if c.Logger != nil {
		if err := c.Logger.WriteTick(rec); err != nil {
			log.Printf("census: write tick %d: %v", tick, err)
		}
		if IsDayBoundary(int(tick)) {
			if err := c.Logger.Flush(); err != nil {
				log.Printf("census: flush at tick %d: %v", tick, err)
			}
		}
	}
	return rec
}
