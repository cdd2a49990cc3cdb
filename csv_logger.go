package facilityspread

import (
	"bytes"
	"fmt"
)

// censusCSVHeader names the Log CSV's columns (§6): the tick, then the
// eight state totals, then the eight newly_* deltas, in state-code order.
var censusCSVHeader = "tick,s,e,p,i_s,i_a,r,h,d," +
	"newly_s,newly_e,newly_p,newly_i_s,newly_i_a,newly_r,newly_h,newly_d\n"

// CensusCSVLogger is a CensusLogger that appends one CSV row per tick,
// buffering rows in memory and flushing them to disk at day boundaries —
// the teacher's CSVLogger buffer-then-AppendToFile pattern (csv_logger.go),
// generalized from one buffer per genotype-event channel to one buffer for
// the tick-indexed census stream.
type CensusCSVLogger struct {
	path string
	buf  bytes.Buffer
}

// NewCensusCSVLogger creates a logger that will write to path.
func NewCensusCSVLogger(path string) *CensusCSVLogger {
	return &CensusCSVLogger{path: path}
}

// Init creates the log file and writes its header row.
func (l *CensusCSVLogger) Init() error {
	return NewFile(l.path, []byte(censusCSVHeader))
}

// WriteTick buffers one tick's row; the row reaches disk at the next Flush.
func (l *CensusCSVLogger) WriteTick(rec CensusRecord) error {
	fmt.Fprintf(&l.buf, "%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d\n",
		rec.Tick,
		rec.Counts[Susceptible], rec.Counts[Exposed], rec.Counts[Presymp], rec.Counts[InfectedSymp],
		rec.Counts[InfectedAsymp], rec.Counts[Recovered], rec.Counts[Hospitalized], rec.Counts[Dead],
		rec.Newly[Susceptible], rec.Newly[Exposed], rec.Newly[Presymp], rec.Newly[InfectedSymp],
		rec.Newly[InfectedAsymp], rec.Newly[Recovered], rec.Newly[Hospitalized], rec.Newly[Dead],
	)
	return nil
}

// Flush appends the buffered rows to the log file and clears the buffer.
func (l *CensusCSVLogger) Flush() error {
	if l.buf.Len() == 0 {
		return nil
	}
	if err := AppendToFile(l.path, l.buf.Bytes()); err != nil {
		return err
	}
	l.buf.Reset()
	return nil
}

// Close flushes any remaining buffered rows.
func (l *CensusCSVLogger) Close() error {
	return l.Flush()
}
