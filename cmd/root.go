package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/seat-sim/sim"
	"github.com/inference-sim/seat-sim/sim/advisory"
	"github.com/inference-sim/seat-sim/sim/snapshot"
	"github.com/inference-sim/seat-sim/sim/trace"
)

var (
	configPath   string        // Optional YAML config file
	rows         int           // Grid rows
	cols         int           // Grid columns
	occupants    int           // Population size
	seed         int64         // Seed for grid, roster and heuristic schedules
	limit        string        // Reservation limit, HH:MM or Go duration
	tickDuration time.Duration // Simulated time per tick
	advisorName  string        // Advisory backend
	holdClock    string        // Hold clock scope
	traceLevel   string        // Decision trace verbosity
	outPath      string        // Snapshot stream destination ("-" for stdout)
	logLevel     string        // Log verbosity level
	envFile      string        // Optional .env file with advisor credentials
	summarize    bool          // Print the decision trace summary
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "seat-sim",
	Short: "Tick-driven simulator for library seat occupancy",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd simulates one full day and reports the final metrics
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the library simulation to the end of the day",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := buildConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		lib, err := newLibrary(ctx, cfg)
		if err != nil {
			logrus.Fatalf("Unable to build library: %v", err)
		}

		startTime := time.Now()
		var sink sim.SnapshotSink
		var w *snapshot.Writer
		if outPath != "" {
			w, err = openSnapshotWriter(outPath, cfg)
			if err != nil {
				logrus.Fatalf("Unable to open snapshot output: %v", err)
			}
			sink = w
		}

		runErr := lib.Run(ctx, sink)
		if w != nil {
			if err := w.Close(); err != nil {
				logrus.Errorf("Closing snapshot output: %v", err)
			}
		}
		if runErr != nil {
			logrus.Fatalf("Simulation failed: %v", runErr)
		}

		report := os.Stdout
		if outPath == "-" {
			report = os.Stderr
		}
		m := lib.Metrics()
		m.Print(report, lib.Snapshot())
		if summarize {
			printTraceSummary(report, trace.Summarize(lib.Trace()))
		}
		logrus.Infof("Simulation complete in %v.", time.Since(startTime).Round(time.Millisecond))
	},
}

// interactiveCmd steps the simulation from commands read on stdin
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Step the library simulation interactively",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := buildConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		lib, err := newLibrary(ctx, cfg)
		if err != nil {
			logrus.Fatalf("Unable to build library: %v", err)
		}
		if err := runInteractive(ctx, lib, os.Stdin, os.Stdout); err != nil {
			logrus.Fatalf("Interactive session failed: %v", err)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig starts from the defaults, layers the --config file on top and
// then applies only the flags the user actually set.
func buildConfig(cmd *cobra.Command) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if configPath != "" {
		loaded, err := sim.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("rows") {
		cfg.Rows = rows
	}
	if flags.Changed("cols") {
		cfg.Cols = cols
	}
	if flags.Changed("occupants") {
		cfg.Occupants = occupants
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("limit") {
		d, err := sim.ParseLimit(limit)
		if err != nil {
			return cfg, err
		}
		cfg.ReservationLimit = d
	}
	if flags.Changed("tick") {
		cfg.TickDuration = tickDuration
	}
	if flags.Changed("advisor") {
		cfg.Advisor.Name = advisorName
	}
	if flags.Changed("hold-clock") {
		cfg.HoldClock = sim.HoldClock(holdClock)
	}
	if flags.Changed("trace-level") {
		cfg.TraceLevel = trace.TraceLevel(traceLevel)
	}

	if !advisory.IsValidAdvisor(cfg.Advisor.Name) {
		return cfg, fmt.Errorf("unknown advisor %q; valid: %v", cfg.Advisor.Name, advisory.ValidAdvisorNames())
	}
	return cfg, cfg.Validate()
}

// newLibrary wires the configured advisor behind the resilient policy.
func newLibrary(ctx context.Context, cfg sim.Config) (*sim.Library, error) {
	adv, err := newAdvisor(cfg)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Starting library %dx%d with %d occupants, seed=%d, advisor=%q, limit=%v",
		cfg.Rows, cfg.Cols, cfg.Occupants, cfg.Seed, cfg.Advisor.Name, cfg.ReservationLimit)
	return sim.NewLibrary(ctx, cfg, sim.NewAdvisoryPolicy(adv, cfg.Advisor))
}

func openSnapshotWriter(path string, cfg sim.Config) (*snapshot.Writer, error) {
	h := snapshot.NewHeader(cfg)
	if path == "-" {
		return snapshot.NewWriter(os.Stdout, h, false)
	}
	return snapshot.Create(path, h)
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	registerSimFlags(runCmd)
	registerSimFlags(interactiveCmd)
	runCmd.Flags().StringVar(&outPath, "out", "", "Write per-tick snapshots to this path (.zst compresses, - for stdout)")
	runCmd.Flags().BoolVar(&summarize, "summary", false, "Print the decision trace summary")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(interactiveCmd)
}

// registerSimFlags binds the flags shared by every simulating command.
func registerSimFlags(c *cobra.Command) {
	c.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	c.Flags().IntVar(&rows, "rows", 20, "Seat grid rows")
	c.Flags().IntVar(&cols, "cols", 20, "Seat grid columns")
	c.Flags().IntVar(&occupants, "occupants", 200, "Number of occupants")
	c.Flags().Int64Var(&seed, "seed", 1, "Seed for the grid, roster and heuristic schedules")
	c.Flags().StringVar(&limit, "limit", "01:00", "Reservation limit (HH:MM or duration such as 90m)")
	c.Flags().DurationVar(&tickDuration, "tick", 15*time.Minute, "Simulated time per tick")
	c.Flags().StringVar(&advisorName, "advisor", "fallback", fmt.Sprintf("Advisory backend %v", advisory.ValidAdvisorNames()))
	c.Flags().StringVar(&holdClock, "hold-clock", string(sim.HoldClockUnattended), "Hold clock scope (unattended, occupied)")
	c.Flags().StringVar(&traceLevel, "trace-level", string(trace.TraceLevelNone), "Decision trace level (none, decisions, full)")
	c.Flags().StringVar(&envFile, "env-file", "", "Load advisor credentials from this .env file")
}
