package sim

import (
	"fmt"
	"io"
)

// Metrics holds the run's cumulative counters. Every field only grows.
type Metrics struct {
	Ticks             int
	UnsatisfiedCount  int // failed seat acquisitions
	EvictedCount      int // reservations removed by the sweep
	Acquisitions      int // seats taken from the vacant pool
	Resumes           int // reservations reclaimed by their holder
	Releases          int // seats given back on leaving
	Reservations      int // seats kept Reserved on leaving
	Abandoned         int // reservations left behind at end of day
	AdvisorDecisions  int // leave decisions answered by the advisor
	FallbackDecisions int // leave decisions answered by the fallback rule
	FallbackSchedules int // occupants planned with the canned schedule
}

// Print writes a human-readable report of m and the final occupancy.
func (m *Metrics) Print(w io.Writer, snap TickSnapshot) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Simulated Ticks      : %d (ended %s)\n", m.Ticks, snap.Time)
	fmt.Fprintf(w, "Seats Held           : %d / %d (%.2f%%)\n", snap.TakenCount, snap.TotalSeats, snap.TakenPercent)
	fmt.Fprintf(w, "Reserved or Flagged  : %d (%.2f%%)\n", snap.ReservedOrFlaggedCount, snap.ReservedPercent)
	fmt.Fprintf(w, "Unsatisfied Attempts : %d (%.2f per occupant)\n", m.UnsatisfiedCount, snap.UnsatisfiedRate)
	fmt.Fprintf(w, "Evictions            : %d\n", m.EvictedCount)
	fmt.Fprintf(w, "Acquisitions         : %d (resumed %d)\n", m.Acquisitions, m.Resumes)
	fmt.Fprintf(w, "Departures           : %d released, %d reserved, %d abandoned\n", m.Releases, m.Reservations, m.Abandoned)
	if total := m.AdvisorDecisions + m.FallbackDecisions; total > 0 {
		fmt.Fprintf(w, "Fallback Decisions   : %d / %d\n", m.FallbackDecisions, total)
	}
	if m.FallbackSchedules > 0 {
		fmt.Fprintf(w, "Fallback Schedules   : %d\n", m.FallbackSchedules)
	}
}
