package facilityspread

// referenceDiseaseStep is an independently-written reimplementation of
// DiseaseStep, used only by the vectorized/naive equivalence test
// (SPEC_FULL §4's supplemented naive reference simulator, property 7 in
// §8). It must draw from the shared Sampler in the exact same order
// DiseaseStep does — batch (a) the S→E uniform draws, then the
// newly-exposed Gamma draws; batch (b) the candidate uniform draws, then
// the post-transition Gamma draws grouped by destination state in
// postTransitionOrder — or the two simulators diverge on any tick with
// more than one destination state among its candidates.
func referenceDiseaseStep(t int64, residents *ResidentTable, places *PlaceTable, stoe float64, trans *TransitionMatrix, dur *DurationMatrix, sampler *Sampler) (DiseaseDelta, error) {
	var delta DiseaseDelta
	n := residents.Len()

	var susceptible []int
	for r := 0; r < n; r++ {
		if residents.State(r) == Susceptible {
			susceptible = append(susceptible, r)
		}
	}

	var exposed []int
	for _, r := range susceptible {
		_, inf := places.Read(residents.CurrentPlace(r))
		p := 0.0
		if inf > 0 {
			p = stoe
		}
		if sampler.Uniform() <= p {
			exposed = append(exposed, r)
		}
	}
	for _, r := range exposed {
		residents.SetState(r, Exposed)
		next, err := dur.Sample(sampler, Exposed, t)
		if err != nil {
			return delta, err
		}
		residents.SetNextStateTick(r, next)
		delta.Newly[Exposed]++
	}

	var candidates []int
	for r := 0; r < n; r++ {
		state := residents.State(r)
		if state != Susceptible && state != Dead && residents.NextStateTick(r) == t {
			candidates = append(candidates, r)
		}
	}

	newStates := make([]int, len(candidates))
	for i, r := range candidates {
		newStates[i] = trans.Sample(residents.State(r), sampler.Uniform())
	}
	for i, r := range candidates {
		residents.SetState(r, newStates[i])
		delta.Newly[newStates[i]]++
		if newStates[i] == Dead || newStates[i] == Susceptible {
			residents.SetNextStateTick(r, NoNextTransition)
		}
	}

	for _, state := range postTransitionOrder {
		for i, r := range candidates {
			if newStates[i] != state {
				continue
			}
			next, err := dur.Sample(sampler, state, t)
			if err != nil {
				return delta, err
			}
			residents.SetNextStateTick(r, next)
		}
	}

	return delta, nil
}
