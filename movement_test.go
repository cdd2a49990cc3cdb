package facilityspread

import "testing"

func buildTwoPlaceFacility(t *testing.T) (*ResidentTable, *PlaceTable, *ScheduleTable) {
	t.Helper()
	places := NewPlaceTable([]int64{1, 2})
	schedRows := []ScheduleRow{
		{ScheduleID: 1, Start: 0, PlaceType: "cell", Risk: 0},
		{ScheduleID: 1, Start: 720, PlaceType: "cafeteria", Risk: 0},
	}
	schedules, err := CompileSchedules(schedRows)
	if err != nil {
		t.Fatalf("unexpected error compiling schedules: %v", err)
	}

	builder := NewResidentBuilder(places.IDMap(), schedules.IDs)
	for i := 0; i < 3; i++ {
		err := builder.Add(ResidentRecord{
			PersonID: i, ScheduleID: 1,
			CellID: 1, CafeteriaID: 2, MorningActID: 1, NoonActID: 2, EveningActID: 1,
		})
		if err != nil {
			t.Fatalf("unexpected error adding resident: %v", err)
		}
	}
	return builder.Build(), places, schedules
}

func TestMovementStepConservesOccupants(t *testing.T) {
	residents, places, schedules := buildTwoPlaceFacility(t)
	MovementStep(0, residents, places, schedules)
	if got := places.TotalOccupants(); got != int64(residents.Len()) {
		t.Errorf("TotalOccupants() = %d, want %d", got, residents.Len())
	}
}

func TestMovementStepFollowsScheduleAcrossDayBoundary(t *testing.T) {
	residents, places, schedules := buildTwoPlaceFacility(t)

	// tau 0 (00:00): cell (place row 0)
	MovementStep(0, residents, places, schedules)
	if residents.CurrentPlace(0) != 0 {
		t.Errorf("at tick 0, CurrentPlace = %d, want 0 (cell)", residents.CurrentPlace(0))
	}

	// tau 48 (12:00): cafeteria (place row 1)
	MovementStep(48, residents, places, schedules)
	if residents.CurrentPlace(0) != 1 {
		t.Errorf("at tick 48, CurrentPlace = %d, want 1 (cafeteria)", residents.CurrentPlace(0))
	}

	// tick 96 wraps to tau 0 of the next day: back to the cell.
	MovementStep(TicksPerDay, residents, places, schedules)
	if residents.CurrentPlace(0) != 0 {
		t.Errorf("at tick %d (day-wrap), CurrentPlace = %d, want 0 (cell)", TicksPerDay, residents.CurrentPlace(0))
	}
}

func TestMovementStepTalliesInfectious(t *testing.T) {
	residents, places, schedules := buildTwoPlaceFacility(t)
	residents.SetState(0, Presymp)
	MovementStep(0, residents, places, schedules)

	_, inf := places.Read(0)
	if inf != 1 {
		t.Errorf("infectious occupants at place 0 = %d, want 1", inf)
	}
}
