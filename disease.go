package facilityspread

// DiseaseDelta reports, for one Disease step, how many residents newly
// entered each state — the `newly_*` counters the Census records (§4.7).
type DiseaseDelta struct {
	Newly [NumStates]int64
}

// postTransitionOrder is the exact state order the dwell-time resample
// pass walks after the transition matrix draw: presymptomatic, then
// symptomatic, then asymptomatic, then hospitalized, then recovered. This
// mirrors the original model's per-state np.random.gamma calls and must be
// preserved byte-for-byte so that the PRNG draw sequence — and therefore
// the vectorized/naive equivalence property (§8.7) — stays reproducible.
var postTransitionOrder = []int{Presymp, InfectedSymp, InfectedAsymp, Hospitalized, Recovered}

// DiseaseStep runs after Movement, using the Place counters Movement just
// produced (§4.6, C8). It performs the susceptible-to-exposed hazard draw,
// then advances every resident whose next_state_tick equals t through the
// transition matrix, resampling their dwell time. Newly-exposed residents
// never raise infectious_occupants within the same tick (Exposed is not an
// infectious state), so the two phases never race over the same counters.
func DiseaseStep(t int64, residents *ResidentTable, places *PlaceTable, stoe float64, trans *TransitionMatrix, dur *DurationMatrix, sampler *Sampler) (DiseaseDelta, error) {
	var delta DiseaseDelta
	n := residents.Len()

	// (a) Susceptible -> Exposed.
	var susceptible []int
	for r := 0; r < n; r++ {
		if residents.State(r) == Susceptible {
			susceptible = append(susceptible, r)
		}
	}

	exposed := make([]int, 0, len(susceptible))
	for _, r := range susceptible {
		_, inf := places.Read(residents.CurrentPlace(r))
		p := 0.0
		if inf > 0 {
			p = stoe
		}
		u := sampler.Uniform()
		if u <= p {
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

	// (b) Non-susceptible transitions due at tick t. D is terminal and is
	// explicitly excluded (§9) so the all-zero D row is never sampled.
	var candidates []int
	for r := 0; r < n; r++ {
		state := residents.State(r)
		if state != Susceptible && state != Dead && residents.NextStateTick(r) == t {
			candidates = append(candidates, r)
		}
	}

	newStates := make([]int, len(candidates))
	for i, r := range candidates {
		u := sampler.Uniform()
		newStates[i] = trans.Sample(residents.State(r), u)
	}
	for i, r := range candidates {
		residents.SetState(r, newStates[i])
		delta.Newly[newStates[i]]++
		switch newStates[i] {
		case Dead, Susceptible:
			// Dead is terminal; Susceptible is waning immunity from R — both
			// carry no future transition.
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
