// Package trace provides decision-trace recording for post-run analysis of
// occupant behavior. This package has no dependencies on sim/ and stores
// pure data types.
package trace

// ScheduleRecord captures how one occupant's daily plan was produced.
type ScheduleRecord struct {
	OccupantID int
	Archetype  string
	Source     string // "advisor" or "fallback"
	Attempts   int
	Entries    int
}

// LeaveRecord captures a single reserve-or-leave decision.
type LeaveRecord struct {
	OccupantID   int
	Tick         int
	Clock        string
	Seat         string
	Satisfaction float64
	Reserved     bool
	Source       string
	Attempts     int
}

// AcquisitionRecord captures a seat-acquisition attempt. Seat is empty when
// the attempt failed.
type AcquisitionRecord struct {
	OccupantID int
	Tick       int
	Clock      string
	Seat       string
	Score      float64
	Resumed    bool
}

// EvictionRecord captures a reservation removed by the sweep.
type EvictionRecord struct {
	Tick       int
	Clock      string
	Seat       string
	OccupantID int
	HeldMins   float64
}
