package facilityspread

import "sync"

// Shard is one worker's disjoint slice of the resident population, each
// with its own per-worker PRNG (§5's "single PRNG per worker" rule).
type Shard struct {
	Residents *ResidentTable
	Sampler   *Sampler
}

// ShardedRunner simulates the flat SPMD decomposition of §5: every Shard
// owns a disjoint set of residents, all shards share the one Place table,
// and per-tick place counts are reduced by element-wise sum across shards
// before Disease runs. This stands in, in-process, for the out-of-scope
// MPI transport — the reduction semantics are the same, the wire is
// goroutines and a mutex instead of a network.
type ShardedRunner struct {
	Shards     []*Shard
	Places     *PlaceTable
	Schedules  *ScheduleTable
	Transition *TransitionMatrix
	Duration   *DurationMatrix
	Stoe       float64
	Census     *Census
}

// NewShardedRunner assembles a ShardedRunner over pre-built shards sharing
// the given place table and compiled parameters.
func NewShardedRunner(shards []*Shard, places *PlaceTable, schedules *ScheduleTable, trans *TransitionMatrix, dur *DurationMatrix, stoe float64, census *Census) *ShardedRunner {
	return &ShardedRunner{
		Shards:     shards,
		Places:     places,
		Schedules:  schedules,
		Transition: trans,
		Duration:   dur,
		Stoe:       stoe,
		Census:     census,
	}
}

// Run executes ticks [from, stopAt] inclusive across every shard,
// reducing Movement's per-shard counts into the shared Place table before
// each shard's Disease step runs concurrently over its own residents.
func (sr *ShardedRunner) Run(from, stopAt int64) error {
	for t := from; t <= stopAt; t++ {
		sr.movementTick(t)

		delta, err := sr.diseaseTick(t)
		if err != nil {
			return wrap(err, "disease step")
		}
		sr.Census.Record(t, sr.mergedView(), delta)
	}
	return nil
}

func (sr *ShardedRunner) movementTick(t int64) {
	var mu sync.Mutex
	var wg sync.WaitGroup
	total := make(map[int]int64)
	infectious := make(map[int]int64)

	for _, shard := range sr.Shards {
		wg.Add(1)
		go func(sh *Shard) {
			defer wg.Done()
			localTotal, localInf := gatherCurrentPlaces(t, sh.Residents, sr.Schedules)
			mu.Lock()
			for k, v := range localTotal {
				total[k] += v
			}
			for k, v := range localInf {
				infectious[k] += v
			}
			mu.Unlock()
		}(shard)
	}
	wg.Wait()

	sr.Places.Reset()
	scatterCounts(sr.Places, total, infectious)
}

func (sr *ShardedRunner) diseaseTick(t int64) (DiseaseDelta, error) {
	var mu sync.Mutex
	var wg sync.WaitGroup
	var merged DiseaseDelta
	var firstErr error

	for _, shard := range sr.Shards {
		wg.Add(1)
		go func(sh *Shard) {
			defer wg.Done()
			delta, err := DiseaseStep(t, sh.Residents, sr.Places, sr.Stoe, sr.Transition, sr.Duration, sh.Sampler)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			for i := 0; i < NumStates; i++ {
				merged.Newly[i] += delta.Newly[i]
			}
		}(shard)
	}
	wg.Wait()
	return merged, firstErr
}

// mergedView concatenates every shard's resident table into one read-only
// table for Census, which needs a single state tally across all workers
// (§5: "reduced across processes by element-wise sum").
func (sr *ShardedRunner) mergedView() *ResidentTable {
	var n int
	for _, s := range sr.Shards {
		n += s.Residents.Len()
	}
	merged := NewResidentTable(0)
	merged.rows = make([][NumResidentColumns]int64, 0, n)
	for _, s := range sr.Shards {
		for i := 0; i < s.Residents.Len(); i++ {
			merged.rows = append(merged.rows, s.Residents.Get(i))
		}
	}
	return merged
}
