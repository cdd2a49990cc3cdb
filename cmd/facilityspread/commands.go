package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	fs "github.com/kentwait/facilityspread"
	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

var parametersPath string
var overrides []string
var workers int

var rootCmd = &cobra.Command{
	Use:   "facilityspread",
	Short: "Discrete-time facility movement and respiratory pathogen transmission engine",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation from a parameters file",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&parametersPath, "parameters", "", "path to the YAML parameters file")
	runCmd.Flags().StringArrayVar(&overrides, "set", nil, "override a parameter as key=value (repeatable)")
	runCmd.Flags().IntVar(&workers, "workers", 1, "number of shards to split the resident population across")
	runCmd.MarkFlagRequired("parameters")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(createCellsCmd)
	rootCmd.AddCommand(createPersonsCmd)
	rootCmd.AddCommand(createSchedulesCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := fs.LoadConfig(parametersPath)
	if err != nil {
		return err
	}
	for _, kv := range overrides {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("malformed override %q, want key=value", kv)
		}
		if err := cfg.ApplyOverride(k, v); err != nil {
			return err
		}
	}

	places, err := loadPlaces(cfg.PlacesFile)
	if err != nil {
		return err
	}
	scheduleRows, err := loadScheduleRows(cfg.ScheduleFile)
	if err != nil {
		return err
	}
	schedules, err := fs.CompileSchedules(scheduleRows)
	if err != nil {
		return err
	}
	residents, err := loadResidents(cfg.ResidentsFile, places, schedules)
	if err != nil {
		return err
	}

	trans, err := cfg.BuildTransitionMatrix()
	if err != nil {
		return err
	}
	dur := cfg.BuildDurationMatrix()

	sampler := fs.NewSampler(cfg.RandomSeed)
	seedInitialExposures(residents, dur, sampler, cfg.InitExposed)

	logger, err := newCensusLogger(cfg)
	if err != nil {
		return err
	}
	if err := logger.Init(); err != nil {
		return err
	}
	defer logger.Close()

	census := fs.NewCensus(logger)

	if workers <= 1 {
		runner := fs.NewRunner(residents, places, schedules, trans, dur, cfg.Stoe, sampler, census)
		fmt.Printf("run %s: %d residents, %d places, stop at tick %d\n",
			runner.RunID, residents.Len(), places.Len(), cfg.Stop.At)
		return runner.Run(1, cfg.Stop.At)
	}

	shards := splitIntoShards(residents, workers, cfg.RandomSeed)
	sr := fs.NewShardedRunner(shards, places, schedules, trans, dur, cfg.Stoe, census)
	fmt.Printf("sharded run: %d shards, %d residents, %d places, stop at tick %d\n",
		len(shards), residents.Len(), places.Len(), cfg.Stop.At)
	return sr.Run(1, cfg.Stop.At)
}

func loadPlaces(path string) (*fs.PlaceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fs.LoadPlacesCSV(f)
}

func loadScheduleRows(path string) ([]fs.ScheduleRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fs.LoadSchedulesCSV(f)
}

func loadResidents(path string, places *fs.PlaceTable, schedules *fs.ScheduleTable) (*fs.ResidentTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fs.LoadResidentsCSV(f, places, schedules)
}

// seedInitialExposures exposes the first n susceptible residents, mirroring
// the original model's init_exposed seeding.
func seedInitialExposures(residents *fs.ResidentTable, dur *fs.DurationMatrix, sampler *fs.Sampler, n int) error {
	exposed := 0
	for r := 0; r < residents.Len() && exposed < n; r++ {
		if residents.State(r) != fs.Susceptible {
			continue
		}
		residents.SetState(r, fs.Exposed)
		next, err := dur.Sample(sampler, fs.Exposed, 0)
		if err != nil {
			return err
		}
		residents.SetNextStateTick(r, next)
		exposed++
	}
	return nil
}

func newCensusLogger(cfg *fs.Config) (fs.CensusLogger, error) {
	switch cfg.LogBackend {
	case "sqlite":
		return fs.NewCensusSQLiteLogger(cfg.LogFile, ksuid.New()), nil
	default:
		return fs.NewCensusCSVLogger(cfg.LogFile), nil
	}
}

// splitIntoShards partitions residents into `workers` contiguous, disjoint
// slices, each given its own Sampler seeded deterministically from the
// run's base seed (§5).
func splitIntoShards(residents *fs.ResidentTable, workers int, baseSeed int64) []*fs.Shard {
	n := residents.Len()
	shards := make([]*fs.Shard, 0, workers)
	perShard := (n + workers - 1) / workers
	rng := rand.New(rand.NewSource(baseSeed))

	for start := 0; start < n; start += perShard {
		end := start + perShard
		if end > n {
			end = n
		}
		shardResidents := fs.NewResidentTable(end - start)
		for i := start; i < end; i++ {
			row := residents.Get(i)
			shardResidents.SetCol(i-start, fs.ColID, row[fs.ColID])
			shardResidents.SetCol(i-start, fs.ColScheduleIdx, row[fs.ColScheduleIdx])
			shardResidents.SetCol(i-start, fs.ColCurrentPlace, row[fs.ColCurrentPlace])
			shardResidents.SetCol(i-start, fs.ColCell, row[fs.ColCell])
			shardResidents.SetCol(i-start, fs.ColCafeteria, row[fs.ColCafeteria])
			shardResidents.SetCol(i-start, fs.ColMorningAct, row[fs.ColMorningAct])
			shardResidents.SetCol(i-start, fs.ColNoonAct, row[fs.ColNoonAct])
			shardResidents.SetCol(i-start, fs.ColEveningAct, row[fs.ColEveningAct])
			shardResidents.SetState(i-start, int(row[fs.ColState]))
			shardResidents.SetNextStateTick(i-start, row[fs.ColNextStateTick])
		}
		shards = append(shards, &fs.Shard{Residents: shardResidents, Sampler: fs.NewSampler(rng.Int63())})
	}
	return shards
}
