package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inference-sim/seat-sim/sim"
)

const interactiveHelp = `Commands:
  step [n]        advance n ticks (default 1)
  status          print the seat status grid (V/T/R/F) and counters
  seats           alias of status
  amenities       print the amenity grid (B/L/S/N)
  time            print the simulated clock and tick
  set_limit HH:MM change the reservation limit (also accepts 90m)
  help            show this text
  quit            leave the session
`

// runInteractive reads one command per line from in until quit, EOF or
// cancellation. Bad input is reported on out and never ends the session.
func runInteractive(ctx context.Context, lib *sim.Library, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	fmt.Fprintf(out, "library ready at %s, limit %s. Type help for commands.\n",
		lib.Clock(), formatLimit(lib))
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		switch cmd, args := strings.ToLower(fields[0]), fields[1:]; cmd {
		case "step":
			n := 1
			if len(args) > 0 {
				v, err := strconv.Atoi(args[0])
				if err != nil || v <= 0 {
					fmt.Fprintf(out, "step: want a positive tick count, got %q\n", args[0])
					continue
				}
				n = v
			}
			stepTicks(ctx, lib, n, out)
		case "status", "seats":
			fmt.Fprint(out, lib.StatusGrid())
			printCounters(out, lib.Snapshot())
		case "amenities":
			fmt.Fprint(out, lib.AmenityGrid())
		case "time":
			fmt.Fprintf(out, "%s (tick %d)\n", lib.Clock(), lib.TickIndex())
		case "set_limit":
			if len(args) != 1 {
				fmt.Fprintln(out, "set_limit: want HH:MM")
				continue
			}
			d, err := sim.ParseLimit(args[0])
			if err == nil {
				err = lib.SetReservationLimit(d)
			}
			if err != nil {
				fmt.Fprintf(out, "set_limit: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "reservation limit is now %s\n", formatLimit(lib))
		case "help":
			fmt.Fprint(out, interactiveHelp)
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q; type help\n", cmd)
		}
	}
}

func stepTicks(ctx context.Context, lib *sim.Library, n int, out io.Writer) {
	for i := 0; i < n; i++ {
		if lib.Done() {
			fmt.Fprintf(out, "day is over at %s\n", lib.Clock())
			return
		}
		if ctx.Err() != nil {
			return
		}
		snap := lib.Tick(ctx)
		fmt.Fprintf(out, "tick %d %s: ", snap.Tick, snap.Time)
		printCounters(out, snap)
	}
}

func printCounters(out io.Writer, snap sim.TickSnapshot) {
	fmt.Fprintf(out, "taken %d/%d (%.2f%%) reserved %d (%.2f%%) unsatisfied %d evicted %d\n",
		snap.TakenCount, snap.TotalSeats, snap.TakenPercent,
		snap.ReservedOrFlaggedCount, snap.ReservedPercent,
		snap.UnsatisfiedCount, snap.EvictedCount)
}

func formatLimit(lib *sim.Library) string {
	d := lib.ReservationLimit()
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
