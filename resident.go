package facilityspread

// Resident column layout. The resident table is a dense (N, NumResidentColumns)
// matrix of int64, stored row-major (one fixed-width row per resident, not
// one array per column). Its accessors read and write a single resident's
// column; there are no bulk gather/scatter mutators.
//
// ColCell..ColEveningAct double as place-column keys: the Schedule table
// names one of these column indices as "the column to consult right now",
// which is the indirection described in §4 — residents carry their own
// personal place assignment per key, and schedules only ever point at a key.
const (
	ColID            = 0
	ColScheduleIdx   = 1
	ColCurrentPlace  = 2
	ColCell          = 3
	ColCafeteria     = 4
	ColMorningAct    = 5
	ColNoonAct       = 6
	ColEveningAct    = 7
	ColState         = 8
	ColNextStateTick = 9

	NumResidentColumns = 10
)

// placeColumnKeys lists every resident column that a schedule row may
// reference as a place-column key.
var placeColumnKeys = []int{ColCell, ColCafeteria, ColMorningAct, ColNoonAct, ColEveningAct}

// ResidentTable is the dense row-major table of every
// resident in the facility. Row i is resident i; columns are fixed by the
// constants above. The table is the engine's own and is mutated in bulk by
// Movement and Disease; readers between ticks see it as an immutable
// snapshot.
type ResidentTable struct {
	rows [][NumResidentColumns]int64
}

// NewResidentTable allocates a table for n residents, all initialized to
// Susceptible with no pending transition.
func NewResidentTable(n int) *ResidentTable {
	rt := &ResidentTable{rows: make([][NumResidentColumns]int64, n)}
	for i := range rt.rows {
		rt.rows[i][ColState] = Susceptible
		rt.rows[i][ColNextStateTick] = NoNextTransition
	}
	return rt
}

// Len returns the number of residents in the table.
func (rt *ResidentTable) Len() int {
	return len(rt.rows)
}

// Get returns resident i's full row. The returned array is a copy.
func (rt *ResidentTable) Get(i int) [NumResidentColumns]int64 {
	return rt.rows[i]
}

// Col returns column col for resident i.
func (rt *ResidentTable) Col(i, col int) int64 {
	return rt.rows[i][col]
}

// SetCol sets column col for resident i.
func (rt *ResidentTable) SetCol(i, col int, v int64) {
	rt.rows[i][col] = v
}

// State returns resident i's current disease state.
func (rt *ResidentTable) State(i int) int {
	return int(rt.rows[i][ColState])
}

// SetState sets resident i's disease state.
func (rt *ResidentTable) SetState(i int, state int) {
	rt.rows[i][ColState] = int64(state)
}

// NextStateTick returns resident i's next scheduled transition tick.
func (rt *ResidentTable) NextStateTick(i int) int64 {
	return rt.rows[i][ColNextStateTick]
}

// SetNextStateTick sets resident i's next scheduled transition tick.
func (rt *ResidentTable) SetNextStateTick(i int, tick int64) {
	rt.rows[i][ColNextStateTick] = tick
}

// CurrentPlace returns the place-table row index resident i currently
// occupies.
func (rt *ResidentTable) CurrentPlace(i int) int {
	return int(rt.rows[i][ColCurrentPlace])
}

// ScheduleIdx returns the internal schedule index assigned to resident i.
func (rt *ResidentTable) ScheduleIdx(i int) int {
	return int(rt.rows[i][ColScheduleIdx])
}

// ResidentBuilder accumulates validated rows before freezing them into a
// ResidentTable; construction resolves external place_id/schedule_id
// references via the supplied lookup maps and rejects unknown ids.
type ResidentBuilder struct {
	placeIDs    map[int]int
	scheduleIDs map[int]int
	rows        [][NumResidentColumns]int64
}

// NewResidentBuilder creates a builder that resolves external ids through
// the given place and schedule id maps (as produced by PlaceTable and
// Schedule compilation).
func NewResidentBuilder(placeIDs, scheduleIDs map[int]int) *ResidentBuilder {
	return &ResidentBuilder{placeIDs: placeIDs, scheduleIDs: scheduleIDs}
}

// ResidentRecord is one parsed row of the residents CSV, in external ids.
type ResidentRecord struct {
	PersonID     int
	ScheduleID   int
	CellID       int
	CafeteriaID  int
	MorningActID int
	NoonActID    int
	EveningActID int
}

// Add resolves rec's external ids and appends a new resident row.
func (b *ResidentBuilder) Add(rec ResidentRecord) error {
	schedIdx, ok := b.scheduleIDs[rec.ScheduleID]
	if !ok {
		return &UnknownRefError{Kind: "schedule_id", ID: rec.ScheduleID}
	}
	cell, ok := b.placeIDs[rec.CellID]
	if !ok {
		return &UnknownRefError{Kind: "place_id", ID: rec.CellID}
	}
	caf, ok := b.placeIDs[rec.CafeteriaID]
	if !ok {
		return &UnknownRefError{Kind: "place_id", ID: rec.CafeteriaID}
	}
	mact, ok := b.placeIDs[rec.MorningActID]
	if !ok {
		return &UnknownRefError{Kind: "place_id", ID: rec.MorningActID}
	}
	nact, ok := b.placeIDs[rec.NoonActID]
	if !ok {
		return &UnknownRefError{Kind: "place_id", ID: rec.NoonActID}
	}
	eact, ok := b.placeIDs[rec.EveningActID]
	if !ok {
		return &UnknownRefError{Kind: "place_id", ID: rec.EveningActID}
	}

	var row [NumResidentColumns]int64
	row[ColID] = int64(rec.PersonID)
	row[ColScheduleIdx] = int64(schedIdx)
	row[ColCurrentPlace] = int64(cell)
	row[ColCell] = int64(cell)
	row[ColCafeteria] = int64(caf)
	row[ColMorningAct] = int64(mact)
	row[ColNoonAct] = int64(nact)
	row[ColEveningAct] = int64(eact)
	row[ColState] = Susceptible
	row[ColNextStateTick] = NoNextTransition
	b.rows = append(b.rows, row)
	return nil
}

// Build freezes the accumulated rows into a ResidentTable.
func (b *ResidentBuilder) Build() *ResidentTable {
	rt := &ResidentTable{rows: make([][NumResidentColumns]int64, len(b.rows))}
	copy(rt.rows, b.rows)
	return rt
}
