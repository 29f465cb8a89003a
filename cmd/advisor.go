package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/seat-sim/sim"
	"github.com/inference-sim/seat-sim/sim/advisory"
	"github.com/inference-sim/seat-sim/sim/trace"
)

// Environment variables read when building the chat advisor.
const (
	envBaseURL     = "ADVISOR_BASE_URL"
	envAPIKey      = "ADVISOR_API_KEY"
	envModel       = "ADVISOR_MODEL"
	envTemperature = "ADVISOR_TEMPERATURE"
)

// newAdvisor builds the backend named in cfg. Credentials are taken from the
// environment after loading --env-file, if one was given. Variables already
// set in the environment win over the file.
func newAdvisor(cfg sim.Config) (sim.Advisor, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
		logrus.Debugf("loaded advisor environment from %s", envFile)
	}
	opts, err := advisorOptionsFromEnv(cfg)
	if err != nil {
		return nil, err
	}
	return advisory.NewAdvisor(cfg.Advisor.Name, opts)
}

func advisorOptionsFromEnv(cfg sim.Config) (advisory.Options, error) {
	opts := advisory.Options{
		Key:     sim.NewSimulationKey(cfg.Seed),
		BaseURL: os.Getenv(envBaseURL),
		APIKey:  os.Getenv(envAPIKey),
		Model:   os.Getenv(envModel),
		Timeout: cfg.Advisor.CallTimeout,
	}
	if v := os.Getenv(envTemperature); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, fmt.Errorf("%s=%q: %w", envTemperature, v, err)
		}
		opts.Temperature = t
	}
	return opts, nil
}

// printTraceSummary writes the decision trace summary in the same layout as
// the metrics report.
func printTraceSummary(w io.Writer, s *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Decision Trace Summary ===")
	fmt.Fprintf(w, "Leave Decisions      : %d (%d reserved, %d released, rate %.2f)\n",
		s.TotalLeaves, s.ReservedCount, s.ReleasedCount, s.ReserveRate)
	fmt.Fprintf(w, "Fallbacks            : %d leaves, %d schedules\n", s.FallbackLeaves, s.FallbackSchedules)
	fmt.Fprintf(w, "Failed Acquisitions  : %d (resumed %d)\n", s.FailedAcquires, s.ResumedCount)
	fmt.Fprintf(w, "Evictions            : %d (mean hold %.1f min)\n", s.EvictionCount, s.MeanEvictedHold)
	seats := make([]string, 0, len(s.EvictionsBySeat))
	for seat := range s.EvictionsBySeat {
		seats = append(seats, seat)
	}
	sort.Strings(seats)
	for _, seat := range seats {
		fmt.Fprintf(w, "  %-8s %d\n", seat, s.EvictionsBySeat[seat])
	}
}
