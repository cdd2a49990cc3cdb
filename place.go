package facilityspread

// PlaceTable is the dense (P, 3) counters table: (place_id, occupants,
// infectious_occupants). Rows are created once at load; occupants and
// infectious_occupants are reset to 0 at the start of every Movement step
// and rebuilt from the current resident positions.
type PlaceTable struct {
	ids         []int64 // external place_id, stable, indexed by internal row
	occupants   []int64
	infectious  []int64
	externalIdx map[int64]int // external place_id -> internal row index
}

// NewPlaceTable builds a place table from the external ids in order; row i
// corresponds to ids[i].
func NewPlaceTable(ids []int64) *PlaceTable {
	pt := &PlaceTable{
		ids:         make([]int64, len(ids)),
		occupants:   make([]int64, len(ids)),
		infectious:  make([]int64, len(ids)),
		externalIdx: make(map[int64]int, len(ids)),
	}
	copy(pt.ids, ids)
	for i, id := range ids {
		pt.externalIdx[id] = i
	}
	return pt
}

// Len returns the number of places.
func (pt *PlaceTable) Len() int {
	return len(pt.ids)
}

// RowForID resolves an external place_id to its internal row index.
func (pt *PlaceTable) RowForID(id int64) (int, bool) {
	row, ok := pt.externalIdx[id]
	return row, ok
}

// IDMap returns the external place_id -> internal row index map, as
// consumed by ResidentBuilder and the schedule/residents loaders.
func (pt *PlaceTable) IDMap() map[int]int {
	m := make(map[int]int, len(pt.externalIdx))
	for id, row := range pt.externalIdx {
		m[int(id)] = row
	}
	return m
}

// Reset zeroes every counter column, as Movement does at the start of
// every tick before recomputing occupancy.
func (pt *PlaceTable) Reset() {
	for i := range pt.occupants {
		pt.occupants[i] = 0
		pt.infectious[i] = 0
	}
}

// SetOccupancy writes total-occupant counts for the given place rows.
// placeRows and counts must be the same length; places not named keep
// whatever Reset left them at (0).
func (pt *PlaceTable) SetOccupancy(placeRows []int, counts []int64) {
	for i, row := range placeRows {
		pt.occupants[row] = counts[i]
	}
}

// SetInfectious writes infectious-occupant counts for the given place rows.
func (pt *PlaceTable) SetInfectious(placeRows []int, counts []int64) {
	for i, row := range placeRows {
		pt.infectious[row] = counts[i]
	}
}

// Read returns (occupants, infectious_occupants) for place row idx.
func (pt *PlaceTable) Read(idx int) (occupants, infectious int64) {
	return pt.occupants[idx], pt.infectious[idx]
}

// TotalOccupants sums occupants across every place; used by the
// conservation invariant (§8.1): it must equal the resident count.
func (pt *PlaceTable) TotalOccupants() int64 {
	var total int64
	for _, v := range pt.occupants {
		total += v
	}
	return total
}

// TotalInfectious sums infectious_occupants across every place.
func (pt *PlaceTable) TotalInfectious() int64 {
	var total int64
	for _, v := range pt.infectious {
		total += v
	}
	return total
}
