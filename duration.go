package facilityspread

// DwellParams is one (shape k, scale theta) entry of the duration matrix.
// Dwell times are drawn as Gamma(k, theta) days, scaled to ticks (§3).
type DwellParams struct {
	K     float64
	Theta float64
}

// DurationMatrix holds the (8,2) table of gamma dwell-time parameters.
// Entries for Susceptible and Dead are left at the zero value and must
// never be sampled — Sample returns *MissingDurationError for them and
// for any other state that was never populated.
type DurationMatrix struct {
	params [NumStates]DwellParams
	set    [NumStates]bool
}

// NewDurationMatrix builds an empty duration matrix; use Set to populate
// the states that have defined dwell distributions.
func NewDurationMatrix() *DurationMatrix {
	return &DurationMatrix{}
}

// Set stores (k, theta) for the given state, where theta = mean/k so that
// k*theta recovers the configured mean dwell in days.
func (dm *DurationMatrix) Set(state int, k, mean float64) {
	theta := 0.0
	if k != 0 {
		theta = mean / k
	}
	dm.params[state] = DwellParams{K: k, Theta: theta}
	dm.set[state] = true
}

// Get returns the (k, theta) pair for state and whether it has been set.
func (dm *DurationMatrix) Get(state int) (DwellParams, bool) {
	return dm.params[state], dm.set[state]
}

// Sample draws a dwell time in ticks for state, starting from fromTick,
// using sampler. It returns *MissingDurationError if state's duration was
// never configured — attempting to sample an undefined duration is a
// programming error (§4.6), not a per-tick numeric anomaly.
func (dm *DurationMatrix) Sample(sampler *Sampler, state int, fromTick int64) (int64, error) {
	if !dm.set[state] {
		return 0, &MissingDurationError{State: state}
	}
	params := dm.params[state]
	return sampler.DwellTicks(fromTick, params.K, params.Theta), nil
}
