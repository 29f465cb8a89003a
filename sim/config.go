package sim

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/seat-sim/sim/trace"
)

// AdvisorConfig selects the advisory backend and bounds how long the
// occupants wait on it.
type AdvisorConfig struct {
	Name        string        `yaml:"name"`         // backend name, see advisory.ValidAdvisorNames
	MaxRetries  int           `yaml:"max_retries"`  // retries after the first attempt
	CallTimeout time.Duration `yaml:"call_timeout"` // per-attempt timeout (0 = none)
	Backoff     time.Duration `yaml:"backoff"`      // initial wait between attempts, doubled each retry
	Workers     int           `yaml:"workers"`      // concurrent advisory calls per batch
}

// Config is everything needed to construct a Library.
type Config struct {
	Rows      int `yaml:"rows"`
	Cols      int `yaml:"cols"`
	Occupants int `yaml:"occupants"`

	// Population split; engineering receives the remainder.
	HumanitiesShare float64 `yaml:"humanities_share"`
	ScienceShare    float64 `yaml:"science_share"`

	LampProbability   float64 `yaml:"lamp_probability"`
	SocketProbability float64 `yaml:"socket_probability"`

	ReservationLimit time.Duration `yaml:"reservation_limit"`
	TickDuration     time.Duration `yaml:"tick_duration"`
	DayStart         TimeOfDay     `yaml:"day_start"`
	DayEnd           TimeOfDay     `yaml:"day_end"`
	HoldClock        HoldClock     `yaml:"hold_clock"`

	Seed       int64            `yaml:"seed"`
	TraceLevel trace.TraceLevel `yaml:"trace_level"` // "none", "decisions" or "full"
	Advisor    AdvisorConfig    `yaml:"advisor"`
}

// DefaultConfig returns the reference library: a 20x20 room, 200 students,
// 15-minute ticks from 07:00 to midnight and a one-hour reservation limit.
func DefaultConfig() Config {
	return Config{
		Rows:              20,
		Cols:              20,
		Occupants:         200,
		HumanitiesShare:   0.3,
		ScienceShare:      0.3,
		LampProbability:   0.5,
		SocketProbability: 0.5,
		ReservationLimit:  time.Hour,
		TickDuration:      15 * time.Minute,
		DayStart:          At(7, 0),
		DayEnd:            At(24, 0),
		HoldClock:         HoldClockUnattended,
		Seed:              1,
		TraceLevel:        trace.TraceLevelNone,
		Advisor: AdvisorConfig{
			Name:        "fallback",
			MaxRetries:  3,
			CallTimeout: 30 * time.Second,
			Backoff:     200 * time.Millisecond,
			Workers:     8,
		},
	}
}

// Validate rejects configurations a Library cannot be built from.
func (c Config) Validate() error {
	var errs []error
	if c.Rows <= 0 || c.Cols <= 0 {
		errs = append(errs, fmt.Errorf("grid must be at least 1x1, got %dx%d", c.Rows, c.Cols))
	}
	if c.Occupants < 0 {
		errs = append(errs, fmt.Errorf("occupants must be >= 0, got %d", c.Occupants))
	}
	for name, v := range map[string]float64{
		"humanities_share":   c.HumanitiesShare,
		"science_share":      c.ScienceShare,
		"lamp_probability":   c.LampProbability,
		"socket_probability": c.SocketProbability,
	} {
		if v < 0 || v > 1 || v != v {
			errs = append(errs, fmt.Errorf("%s must be in [0,1], got %v", name, v))
		}
	}
	if c.HumanitiesShare+c.ScienceShare > 1 {
		errs = append(errs, fmt.Errorf("humanities_share + science_share must be <= 1, got %v", c.HumanitiesShare+c.ScienceShare))
	}
	if c.ReservationLimit < 0 {
		errs = append(errs, fmt.Errorf("reservation_limit must be >= 0, got %v", c.ReservationLimit))
	}
	if c.TickDuration <= 0 {
		errs = append(errs, fmt.Errorf("tick_duration must be > 0, got %v", c.TickDuration))
	}
	if c.DayEnd <= c.DayStart {
		errs = append(errs, fmt.Errorf("day_end %s must be after day_start %s", c.DayEnd, c.DayStart))
	}
	if !IsValidHoldClock(string(c.HoldClock)) {
		errs = append(errs, fmt.Errorf("unknown hold_clock %q; valid: unattended, occupied", c.HoldClock))
	}
	if !trace.IsValidTraceLevel(string(c.TraceLevel)) {
		errs = append(errs, fmt.Errorf("unknown trace_level %q; valid: none, decisions, full", c.TraceLevel))
	}
	if c.Advisor.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("advisor.max_retries must be >= 0, got %d", c.Advisor.MaxRetries))
	}
	if c.Advisor.CallTimeout < 0 || c.Advisor.Backoff < 0 {
		errs = append(errs, errors.New("advisor.call_timeout and advisor.backoff must be >= 0"))
	}
	if c.Advisor.Workers < 1 {
		errs = append(errs, fmt.Errorf("advisor.workers must be >= 1, got %d", c.Advisor.Workers))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a YAML config over DefaultConfig. Unknown keys are
// rejected. The result is not validated.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
