package facilityspread

import "github.com/segmentio/ksuid"

// Runner owns the compiled tables for one simulation instance and drives
// the fixed-step tick loop: Movement, then Disease, then Census, for every
// tick from 1 to stopAt inclusive (§4.7, C9).
type Runner struct {
	RunID      ksuid.KSUID
	Residents  *ResidentTable
	Places     *PlaceTable
	Schedules  *ScheduleTable
	Transition *TransitionMatrix
	Duration   *DurationMatrix
	Stoe       float64
	Sampler    *Sampler
	Census     *Census
}

// NewRunner assembles a Runner from its compiled components and stamps it
// with a fresh run identifier, mirroring the teacher's per-instance ksuid
// tagging of logged records.
func NewRunner(residents *ResidentTable, places *PlaceTable, schedules *ScheduleTable, trans *TransitionMatrix, dur *DurationMatrix, stoe float64, sampler *Sampler, census *Census) *Runner {
	return &Runner{
		RunID:      ksuid.New(),
		Residents:  residents,
		Places:     places,
		Schedules:  schedules,
		Transition: trans,
		Duration:   dur,
		Stoe:       stoe,
		Sampler:    sampler,
		Census:     census,
	}
}

// Run executes ticks [from, stopAt] inclusive. Movement strictly precedes
// Disease within a tick; across ticks the loop is serial (§5). A
// MissingDuration (or other setup-class) error from the Disease step
// aborts the run immediately.
func (r *Runner) Run(from, stopAt int64) error {
	for t := from; t <= stopAt; t++ {
		MovementStep(t, r.Residents, r.Places, r.Schedules)
		delta, err := DiseaseStep(t, r.Residents, r.Places, r.Stoe, r.Transition, r.Duration, r.Sampler)
		if err != nil {
			return wrap(err, "disease step")
		}
		r.Census.Record(t, r.Residents, delta)
	}
	return nil
}
