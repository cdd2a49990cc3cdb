package facilityspread

import "testing"

func TestTickOfDay(t *testing.T) {
	cases := []struct {
		tick int
		want int
	}{
		{0, 0},
		{1, 1},
		{95, 95},
		{96, 0},
		{97, 1},
		{96*3 + 5, 5},
	}
	for _, c := range cases {
		if got := TickOfDay(c.tick); got != c.want {
			t.Errorf("TickOfDay(%d) = %d, want %d", c.tick, got, c.want)
		}
	}
}

func TestIsDayBoundary(t *testing.T) {
	if IsDayBoundary(0) {
		t.Error("tick 0 should not be a day boundary")
	}
	if !IsDayBoundary(TicksPerDay - 1) {
		t.Errorf("tick %d should be a day boundary", TicksPerDay-1)
	}
	if !IsDayBoundary(2*TicksPerDay - 1) {
		t.Errorf("tick %d should be a day boundary", 2*TicksPerDay-1)
	}
}
