package facilityspread

import "sort"

// placeTypeColumn maps the schedule CSV's place_type string to the
// resident-table column it names. Only the canonical scalar residents
// layout is supported (§9's layout-variant decision); schedules.csv files
// written against the rejected activities|cafeterias layout will fail here
// with an unrecognized place-type key.
var placeTypeColumn = map[string]int{
	"cell":        ColCell,
	"cafeteria":   ColCafeteria,
	"morning_act": ColMorningAct,
	"noon_act":    ColNoonAct,
	"evening_act": ColEveningAct,
}

// ScheduleRow is one parsed (schedule_id, start_minute, place_type, risk)
// record before compilation.
type ScheduleRow struct {
	ScheduleID int
	Start      int
	PlaceType  string
	Risk       float64
}

// ScheduleTable is the compiled dense schedule array: Places[s*TicksPerDay+tau]
// is the place-column key (a ColCell..ColEveningAct constant) that schedule
// s occupies at tick-of-day tau. Risks runs parallel to Places and is
// parsed but never consulted by the Disease step (§9 open question).
type ScheduleTable struct {
	IDs    map[int]int // external schedule_id -> internal index
	Places []int
	Risks  []float64
}

// NumSchedules returns the number of distinct compiled schedules.
func (st *ScheduleTable) NumSchedules() int {
	return len(st.IDs)
}

// ColumnAt returns the place-column key for internal schedule index s at
// tick-of-day tau.
func (st *ScheduleTable) ColumnAt(s, tau int) int {
	return st.Places[s*TicksPerDay+tau]
}

type compiledRow struct {
	start, end int
	col        int
	risk       float64
}

// CompileSchedules groups rows by schedule_id, validates and expands each
// group into a dense length-TicksPerDay vector, and concatenates them in
// ascending schedule_id order (§4.1). Unknown place_type keys or a schedule
// missing a start=0 row fail with *BadScheduleError.
func CompileSchedules(rows []ScheduleRow) (*ScheduleTable, error) {
	grouped := make(map[int][]ScheduleRow)
	for _, r := range rows {
		grouped[r.ScheduleID] = append(grouped[r.ScheduleID], r)
	}

	ids := make([]int, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	idMap := make(map[int]int, len(ids))
	places := make([]int, 0, len(ids)*TicksPerDay)
	risks := make([]float64, 0, len(ids)*TicksPerDay)

	for internal, sid := range ids {
		idMap[sid] = internal
		group := grouped[sid]
		sort.Slice(group, func(i, j int) bool { return group[i].Start < group[j].Start })

		if group[0].Start != 0 {
			return nil, &BadScheduleError{ScheduleID: sid, Reason: "must start at 0"}
		}

		rows := make([]compiledRow, len(group))
		for i, g := range group {
			if g.Start < 0 || g.Start >= DayMinutes {
				return nil, &BadScheduleError{ScheduleID: sid, Reason: "start minute out of [0, 1440)"}
			}
			col, ok := placeTypeColumn[g.PlaceType]
			if !ok {
				return nil, &BadScheduleError{ScheduleID: sid, Reason: "unrecognized place_type " + g.PlaceType}
			}
			rows[i] = compiledRow{start: g.Start, col: col, risk: g.Risk}
		}
		for i := 0; i < len(rows)-1; i++ {
			rows[i].end = rows[i+1].start
		}
		rows[len(rows)-1].end = DayMinutes

		dayPlaces, dayRisks := expandDay(rows)
		places = append(places, dayPlaces...)
		risks = append(risks, dayRisks...)
	}

	return &ScheduleTable{IDs: idMap, Places: places, Risks: risks}, nil
}

// expandDay walks tick indices 0..TicksPerDay-1, advancing the row pointer
// whenever the tick's minute reaches the current row's end, including
// across the midnight seam (the last row's end is exactly DayMinutes, so
// tick TicksPerDay-1 still lands in it; the first tick of the next day maps
// through TickOfDay back to tau 0 of the same schedule, i.e. its start=0
// row).
func expandDay(rows []compiledRow) (places []int, risks []float64) {
	places = make([]int, TicksPerDay)
	risks = make([]float64, TicksPerDay)
	idx := 0
	for tau := 0; tau < TicksPerDay; tau++ {
		minute := tau * TickDuration
		for minute >= rows[idx].end && idx < len(rows)-1 {
			idx++
		}
		places[tau] = rows[idx].col
		risks[tau] = rows[idx].risk
	}
	return places, risks
}
