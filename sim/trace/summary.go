package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	FallbackSchedules int
	TotalLeaves       int
	ReservedCount     int
	ReleasedCount     int
	FallbackLeaves    int
	ReserveRate       float64
	FailedAcquires    int
	ResumedCount      int
	EvictionCount     int
	MeanEvictedHold   float64 // minutes
	EvictionsBySeat   map[string]int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		EvictionsBySeat: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	for _, s := range st.Schedules {
		if s.Source == "fallback" {
			summary.FallbackSchedules++
		}
	}

	summary.TotalLeaves = len(st.Leaves)
	for _, l := range st.Leaves {
		if l.Reserved {
			summary.ReservedCount++
		} else {
			summary.ReleasedCount++
		}
		if l.Source == "fallback" {
			summary.FallbackLeaves++
		}
	}
	if summary.TotalLeaves > 0 {
		summary.ReserveRate = float64(summary.ReservedCount) / float64(summary.TotalLeaves)
	}

	for _, a := range st.Acquisitions {
		switch {
		case a.Seat == "":
			summary.FailedAcquires++
		case a.Resumed:
			summary.ResumedCount++
		}
	}

	summary.EvictionCount = len(st.Evictions)
	if summary.EvictionCount > 0 {
		total := 0.0
		for _, e := range st.Evictions {
			summary.EvictionsBySeat[e.Seat]++
			total += e.HeldMins
		}
		summary.MeanEvictedHold = total / float64(summary.EvictionCount)
	}

	return summary
}
