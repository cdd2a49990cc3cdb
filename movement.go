package facilityspread

// MovementStep relocates every resident to the place their schedule
// dictates at tick t, then rebuilds the Place table's occupancy and
// infectious-occupancy counters from the new positions (§4.5, C7).
//
// Complexity is O(N + S + P): one pass over the schedules to pick each
// schedule's current place-column, one pass over residents that gathers
// current_place and tallies both the total and infectious counts, and a
// reset plus scatter over the place counters.
func MovementStep(t int64, residents *ResidentTable, places *PlaceTable, schedules *ScheduleTable) {
	totalCounts, infCounts := gatherCurrentPlaces(t, residents, schedules)

	places.Reset()
	scatterCounts(places, totalCounts, infCounts)
}

// gatherCurrentPlaces relocates every resident in `residents` to the place
// their schedule dictates at tick t and tallies per-place occupancy and
// infectious-occupancy counts. It does not touch the shared Place table,
// so that a sharded runner (§5) can gather each shard's counts
// concurrently and reduce them before the single scatter into the shared
// table.
func gatherCurrentPlaces(t int64, residents *ResidentTable, schedules *ScheduleTable) (total, infectious map[int]int64) {
	tau := TickOfDay(int(t))

	scheduleCol := make([]int, schedules.NumSchedules())
	for s := range scheduleCol {
		scheduleCol[s] = schedules.ColumnAt(s, tau)
	}

	n := residents.Len()
	total = make(map[int]int64, n)
	infectious = make(map[int]int64, n)
	for r := 0; r < n; r++ {
		col := scheduleCol[residents.ScheduleIdx(r)]
		residents.SetCol(r, ColCurrentPlace, residents.Col(r, col))

		place := residents.CurrentPlace(r)
		total[place]++
		if IsInfectious(residents.State(r)) {
			infectious[place]++
		}
	}
	return total, infectious
}

// scatterCounts writes reduced total/infectious counts into places. Callers
// must Reset places first.
func scatterCounts(places *PlaceTable, total, infectious map[int]int64) {
	rows := make([]int, 0, len(total))
	counts := make([]int64, 0, len(total))
	for row, c := range total {
		rows = append(rows, row)
		counts = append(counts, c)
	}
	places.SetOccupancy(rows, counts)

	infRows := make([]int, 0, len(infectious))
	infVals := make([]int64, 0, len(infectious))
	for row, c := range infectious {
		infRows = append(infRows, row)
		infVals = append(infVals, c)
	}
	places.SetInfectious(infRows, infVals)
}
