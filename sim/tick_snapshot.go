package sim

import "math"

// TickSnapshot is the state exported after every tick. Seats is keyed by
// "x,y" with values "vacant", "taken", "reserved" or "flagged".
type TickSnapshot struct {
	Tick                   int               `json:"tick"`
	Time                   string            `json:"time"`
	Seats                  map[string]string `json:"seats"`
	TotalSeats             int               `json:"total_seats"`
	TakenCount             int               `json:"taken_count"`
	TakenPercent           float64           `json:"taken_percent"`
	ReservedOrFlaggedCount int               `json:"reserved_count"`
	ReservedPercent        float64           `json:"reserved_percent"`
	UnsatisfiedCount       int               `json:"unsatisfied_count"`
	UnsatisfiedRate        float64           `json:"unsatisfied_rate"`
	EvictedCount           int               `json:"evicted_count"`
}

// OccupancyRate is takenCount/totalSeats as a fraction.
func (s TickSnapshot) OccupancyRate() float64 {
	if s.TotalSeats == 0 {
		return 0
	}
	return float64(s.TakenCount) / float64(s.TotalSeats)
}

// SnapshotSink receives one snapshot per tick.
type SnapshotSink interface {
	WriteSnapshot(TickSnapshot) error
}

// percent returns part/whole*100 rounded to two decimals.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
