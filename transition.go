package facilityspread

import "math"

// transitionTolerance is how far a row sum may drift from 0 or 1 before
// it's rejected as malformed (§4.4).
const transitionTolerance = 1e-6

// TransitionMatrix is the (8,8) row-stochastic transition matrix, stored
// row-cumulative so that a candidate's next state can be sampled with a
// single "first column whose cumulative value exceeds u" scan (§3). Rows
// for S and D are all-zero by construction, making them absorbing with
// respect to the candidate draw.
type TransitionMatrix struct {
	cumulative [NumStates][NumStates]float64
}

// NewTransitionMatrix builds a cumulative-row transition matrix from a
// dense probability matrix, validating that every row sums to 0 or 1
// within tolerance.
func NewTransitionMatrix(m [NumStates][NumStates]float64) (*TransitionMatrix, error) {
	tm := &TransitionMatrix{}
	for i := 0; i < NumStates; i++ {
		var sum float64
		for j := 0; j < NumStates; j++ {
			sum += m[i][j]
		}
		if math.Abs(sum) > transitionTolerance && math.Abs(sum-1) > transitionTolerance {
			return nil, &BadTransitionMatrixError{State: i, Sum: sum}
		}
		var running float64
		for j := 0; j < NumStates; j++ {
			running += m[i][j]
			tm.cumulative[i][j] = running
		}
	}
	return tm, nil
}

// Sample draws the next state for a resident currently in `state`, given
// uniform draw u in [0, 1). It returns the first column j whose cumulative
// value exceeds u. For the absorbing S and D rows (all-zero cumulative),
// no column exceeds u and Sample returns `state` unchanged — callers must
// exclude S and D from the candidate set (§9) so this path is never hit
// in practice, but it is harmless if it is.
func (tm *TransitionMatrix) Sample(state int, u float64) int {
	row := tm.cumulative[state]
	for j := 0; j < NumStates; j++ {
		if row[j] > u {
			return j
		}
	}
	return state
}

// Row returns the cumulative row for state, for inspection/testing.
func (tm *TransitionMatrix) Row(state int) [NumStates]float64 {
	return tm.cumulative[state]
}
