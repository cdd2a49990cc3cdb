package facilityspread

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// StopConfig names the tick the Runner halts at (inclusive).
type StopConfig struct {
	At int64 `yaml:"at"`
}

// Config is the decoded parameters file (§6): file paths, the PRNG seed,
// the stop tick, the initial exposed count, the per-tick exposure hazard,
// the log sink, the transition matrix, and the per-state dwell-time
// parameters. Mirrors the teacher's SingleHostConfig/EvoEpiConfig shape —
// tagged struct, Validate(), and a loader (LoadConfig) — but decoded from YAML
// (`gopkg.in/yaml.v3`) rather than TOML, because §6 specifies a YAML wire
// format (see DESIGN.md for why BurntSushi/toml was not kept for this).
type Config struct {
	ScheduleFile  string `yaml:"schedule_file"`
	PlacesFile    string `yaml:"places_file"`
	ResidentsFile string `yaml:"residents_file"`

	// ResidentLayout names which residents/schedules CSV layout variant
	// this parameters file uses. Only "scalar" (cell,cafeteria,morning_act,
	// noon_act,evening_act) is implemented (§9); "list"
	// (activities|cafeterias|outdoors) is rejected with BadConfigError.
	ResidentLayout string `yaml:"resident_layout"`

	RandomSeed  int64      `yaml:"random_seed"`
	Stop        StopConfig `yaml:"stop"`
	InitExposed int        `yaml:"init_exposed"`
	Stoe        float64    `yaml:"stoe"`

	LogFile    string `yaml:"log_file"`
	LogBackend string `yaml:"log_backend"` // "csv" (default) or "sqlite"

	TransitionMatrix map[string]map[string]float64 `yaml:"transition_matrix"`

	ExposedDurationK      float64 `yaml:"exposed_duration_k"`
	ExposedDurationMean   float64 `yaml:"exposed_duration_mean"`
	PresympDurationK      float64 `yaml:"presymptomatic_duration_k"`
	PresympDurationMean   float64 `yaml:"presymptomatic_duration_mean"`
	SymptomaticDurationK  float64 `yaml:"symptomatic_duration_k"`
	SymptomaticDurationM  float64 `yaml:"symptomatic_duration_mean"`
	AsymptomaticDurationK float64 `yaml:"asymptomatic_duration_k"`
	AsymptomaticDurationM float64 `yaml:"asymptomatic_duration_mean"`
	HospitalDurationK     float64 `yaml:"hospital_duration_k"`
	HospitalDurationMean  float64 `yaml:"hospital_duration_mean"`
	RecoveredDurationK    float64 `yaml:"recovered_duration_k"`
	RecoveredDurationMean float64 `yaml:"recovered_duration_mean"`

	validated bool
}

// LoadConfig reads and decodes the YAML parameters file at path, resolves
// any `$this` substitutions against the file's own directory, and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrap(err, "open parameters file")
	}
	defer f.Close()

	c := new(Config)
	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return nil, wrap(err, "decode parameters file")
	}
	c.resolveThis(filepath.Dir(path))
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// resolveThis substitutes `$this` in every file-path field with dir, the
// directory the parameters file itself lives in (§6).
func (c *Config) resolveThis(dir string) {
	c.ScheduleFile = strings.ReplaceAll(c.ScheduleFile, "$this", dir)
	c.PlacesFile = strings.ReplaceAll(c.PlacesFile, "$this", dir)
	c.ResidentsFile = strings.ReplaceAll(c.ResidentsFile, "$this", dir)
	c.LogFile = strings.ReplaceAll(c.LogFile, "$this", dir)
}

// Validate checks required fields are present and rejects the
// unimplemented resident layout variant.
func (c *Config) Validate() error {
	if c.ScheduleFile == "" {
		return &BadConfigError{Field: "schedule_file", Reason: "required"}
	}
	if c.PlacesFile == "" {
		return &BadConfigError{Field: "places_file", Reason: "required"}
	}
	if c.ResidentsFile == "" {
		return &BadConfigError{Field: "residents_file", Reason: "required"}
	}
	if strings.Contains(c.ScheduleFile, "$this") || strings.Contains(c.PlacesFile, "$this") ||
		strings.Contains(c.ResidentsFile, "$this") || strings.Contains(c.LogFile, "$this") {
		return &BadConfigError{Field: "file path", Reason: "unresolved $this substitution"}
	}
	switch c.ResidentLayout {
	case "", "scalar":
	case "list":
		return &BadConfigError{Field: "resident_layout", Reason: `"list" layout (activities|cafeterias|outdoors) is not implemented; use "scalar"`}
	default:
		return &BadConfigError{Field: "resident_layout", Reason: "unrecognized layout " + c.ResidentLayout}
	}
	switch c.LogBackend {
	case "", "csv", "sqlite":
	default:
		return &BadConfigError{Field: "log_backend", Reason: "expected csv or sqlite"}
	}
	if c.Stop.At <= 0 {
		return &BadConfigError{Field: "stop.at", Reason: "must be a positive tick"}
	}
	c.validated = true
	return nil
}

// BuildTransitionMatrix resolves the config's state-code-keyed nested map
// into a dense, validated TransitionMatrix (§4.4).
func (c *Config) BuildTransitionMatrix() (*TransitionMatrix, error) {
	var dense [NumStates][NumStates]float64
	for fromName, row := range c.TransitionMatrix {
		from, ok := StateCode(fromName)
		if !ok {
			return nil, &BadConfigError{Field: "transition_matrix", Reason: "unrecognized state " + fromName}
		}
		for toName, prob := range row {
			to, ok := StateCode(toName)
			if !ok {
				return nil, &BadConfigError{Field: "transition_matrix", Reason: "unrecognized state " + toName}
			}
			dense[from][to] = prob
		}
	}
	return NewTransitionMatrix(dense)
}

// BuildDurationMatrix populates a DurationMatrix from the config's
// per-state (k, mean) fields, for the six states with a defined dwell
// distribution (§4.4): E, P, I_S, I_A, H, R.
func (c *Config) BuildDurationMatrix() *DurationMatrix {
	dm := NewDurationMatrix()
	dm.Set(Exposed, c.ExposedDurationK, c.ExposedDurationMean)
	dm.Set(Presymp, c.PresympDurationK, c.PresympDurationMean)
	dm.Set(InfectedSymp, c.SymptomaticDurationK, c.SymptomaticDurationM)
	dm.Set(InfectedAsymp, c.AsymptomaticDurationK, c.AsymptomaticDurationM)
	dm.Set(Hospitalized, c.HospitalDurationK, c.HospitalDurationMean)
	dm.Set(Recovered, c.RecoveredDurationK, c.RecoveredDurationMean)
	return dm
}

// ApplyOverride applies one `key=value` override on top of the decoded
// config. The CLI passes overrides through the run command's repeatable
// --set flag; its --parameters flag takes only the parameters file path
// and does not accept key=value overrides. Only the scalar fields a CLI override
// plausibly targets are supported; unknown keys are a BadConfigError.
func (c *Config) ApplyOverride(key, value string) error {
	switch key {
	case "random_seed":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "parse override %s", key)
		}
		c.RandomSeed = v
	case "stop.at":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "parse override %s", key)
		}
		c.Stop.At = v
	case "init_exposed":
		v, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(err, "parse override %s", key)
		}
		c.InitExposed = v
	case "stoe":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.Wrapf(err, "parse override %s", key)
		}
		c.Stoe = v
	case "log_file":
		c.LogFile = value
	case "log_backend":
		c.LogBackend = value
	default:
		return &BadConfigError{Field: key, Reason: "unrecognized override key"}
	}
	return nil
}
