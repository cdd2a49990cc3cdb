package facilityspread

import "testing"

func TestStateCodeRoundTrip(t *testing.T) {
	for state := 0; state < NumStates; state++ {
		name := StateName(state)
		code, ok := StateCode(name)
		if !ok {
			t.Fatalf("StateCode(%q) not found", name)
		}
		if code != state {
			t.Errorf("StateCode(%q) = %d, want %d", name, code, state)
		}
	}
}

func TestStateCodeUnknown(t *testing.T) {
	if _, ok := StateCode("X"); ok {
		t.Error("StateCode(\"X\") should not resolve")
	}
}

func TestIsInfectious(t *testing.T) {
	infectious := map[int]bool{
		Susceptible: false, Exposed: false, Presymp: true, InfectedSymp: true,
		InfectedAsymp: true, Recovered: false, Hospitalized: false, Dead: false,
	}
	for state, want := range infectious {
		if got := IsInfectious(state); got != want {
			t.Errorf("IsInfectious(%s) = %v, want %v", StateName(state), got, want)
		}
	}
}
