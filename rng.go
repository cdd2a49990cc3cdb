package facilityspread

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler is the single per-worker PRNG the engine threads through every
// stochastic draw (§5, §9). Reproducibility depends on callers preserving
// the documented draw order: (a) S→E uniform draws, (b) gamma draws for
// newly-exposed durations, (c) candidate uniform draws for transition
// outcomes, (d) gamma draws for post-transition durations.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler seeds a new Sampler from seed.
func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Uniform draws one sample from Uniform[0, 1).
func (s *Sampler) Uniform() float64 {
	return s.rng.Float64()
}

// Gamma draws one sample from a Gamma(k, theta) distribution (shape k,
// scale theta), the continuous counterpart the teacher's randomvariate
// package does not provide (it covers Poisson/Binomial/Multinomial only).
func (s *Sampler) Gamma(k, theta float64) float64 {
	g := distuv.Gamma{Alpha: k, Beta: 1 / theta, Src: s.rng}
	return g.Rand()
}

// DwellTicks samples a dwell time in ticks for a Gamma(k, theta) duration
// given in days, per §3: ticks = Gamma(k, theta) * TicksPerDay. The result
// is floored to an integer tick count and clamped to at least 1 tick in
// the future of `fromTick`, per §4.6 and §9's integer-tick decision.
func (s *Sampler) DwellTicks(fromTick int64, k, theta float64) int64 {
	days := s.Gamma(k, theta)
	next := fromTick + int64(days*TicksPerDay)
	if next <= fromTick {
		next = fromTick + 1
	}
	return next
}
