package advisory

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/inference-sim/seat-sim/sim"
)

// Heuristic plans days from the occupant's profile with a per-occupant
// random stream, so results do not depend on call order or concurrency.
type Heuristic struct {
	key sim.SimulationKey
}

// NewHeuristic creates a Heuristic seeded from key.
func NewHeuristic(key sim.SimulationKey) *Heuristic {
	return &Heuristic{key: key}
}

// Minutes since midnight; all heuristic arithmetic is on a 15-minute grid.
const (
	slot          = 15
	breakfastMins = 30
	lunchAt       = 12 * 60
	dinnerAt      = 17*60 + 30
	maxCourseMins = 8 * 60
)

// courseWindows are the timetable slots a course may start in, with the
// latest minute it may run to.
var courseWindows = [][2]int{
	{8 * 60, 9*60 + 50},
	{10 * 60, 11*60 + 50},
	{13 * 60, 15*60 + 20},
	{15*60 + 30, 17*60 + 20},
	{19 * 60, 21*60 + 30},
}

type block struct {
	start, end int
	action     sim.ActionTag
}

func (h *Heuristic) rng(id sim.OccupantID) *rand.Rand {
	return rand.New(rand.NewSource(sim.DeriveSeed(h.key, sim.SubsystemOccupant(id))))
}

// pick returns lo + k*slot for a uniform k, covering [lo, hi].
func pick(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + slot*r.Intn((hi-lo)/slot+1)
}

func wakeRange(p sim.Punctuality) (int, int) {
	switch p {
	case sim.Early:
		return 7 * 60, 8 * 60
	case sim.Late:
		return 9*60 + 30, 11 * 60
	}
	return 8 * 60, 9*60 + 30
}

func endRange(focus sim.Level) (int, int) {
	switch focus {
	case sim.High:
		return 22*60 + 30, 23*60 + 30
	case sim.Low:
		return 20 * 60, 21*60 + 30
	}
	return 21*60 + 30, 22*60 + 30
}

func restChance(focus sim.Level) float64 {
	switch focus {
	case sim.High:
		return 0.1
	case sim.Low:
		return 0.45
	}
	return 0.25
}

func courseCount(load sim.Level) int {
	switch load {
	case sim.High:
		return 4
	case sim.Low:
		return 2
	}
	return 3
}

// GenerateSchedule builds a day: wake and breakfast, 2-4 courses, lunch and
// dinner, gaps filled with study or rest, then end of day.
func (h *Heuristic) GenerateSchedule(_ context.Context, req sim.ScheduleRequest) (sim.ScheduleResponse, error) {
	r := h.rng(req.OccupantID)
	dayStart := int(time.Duration(req.DayStart) / time.Minute)
	dayEnd := int(time.Duration(req.DayEnd) / time.Minute)

	lo, hi := wakeRange(req.Profile.Punctuality)
	wake := max(pick(r, lo, hi), dayStart)
	lo, hi = endRange(req.Profile.Focus)
	end := min(pick(r, lo, hi), dayEnd)
	if end <= wake+breakfastMins {
		return sim.ScheduleResponse{}, fmt.Errorf("occupant %d: no time between wake %d and end %d", req.OccupantID, wake, end)
	}

	blocks := []block{{wake, wake + breakfastMins, sim.ActionEat}}
	for _, at := range []int{lunchAt, dinnerAt} {
		dur := pick(r, 30, 60)
		if at >= wake+breakfastMins && at+dur <= end {
			blocks = append(blocks, block{at, at + dur, sim.ActionEat})
		}
	}

	var eligible [][2]int
	for _, w := range courseWindows {
		if w[0] >= wake+breakfastMins && w[0]+60 <= end {
			eligible = append(eligible, w)
		}
	}
	total := 0
	for i, idx := range r.Perm(len(eligible)) {
		if i >= courseCount(req.Profile.CourseLoad) {
			break
		}
		w := eligible[idx]
		dur := pick(r, 60, min(150, w[1]-w[0], end-w[0]))
		if total+dur > maxCourseMins {
			break
		}
		total += dur
		blocks = append(blocks, block{w[0], w[0] + dur, sim.ActionCourse})
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].start < blocks[j].start })

	items := []sim.ScheduleItem{item(wake, sim.ActionStart)}
	cursor := wake
	fill := func(until int) {
		if until <= cursor {
			return
		}
		action := sim.ActionLearn
		if r.Float64() < restChance(req.Profile.Focus) {
			action = sim.ActionRest
		}
		items = append(items, item(cursor, action))
	}
	for _, b := range blocks {
		fill(b.start)
		items = append(items, item(b.start, b.action))
		cursor = b.end
	}
	fill(end)
	items = append(items, item(end, sim.ActionEnd))
	return sim.ScheduleResponse{Items: items}, nil
}

func item(minutes int, action sim.ActionTag) sim.ScheduleItem {
	return sim.ScheduleItem{Time: sim.At(minutes/60, minutes%60).Clock(), Action: action.String()}
}

// Satisfaction thresholds for keeping a seat.
const (
	orderlyReserveFloor = 3.0
	selfishReserveFloor = 2.0
)

// DecideLeave reserves only when the occupant plans to study again today.
// Orderly occupants also need to be back within the reservation limit;
// selfish ones keep any seat worth returning to.
func (h *Heuristic) DecideLeave(_ context.Context, req sim.LeaveRequest) (sim.LeaveResponse, error) {
	sched, err := sim.ParseScheduleItems(req.Schedule)
	if err != nil {
		return sim.LeaveResponse{}, fmt.Errorf("occupant %d schedule: %w", req.OccupantID, err)
	}
	leave := sim.LeaveResponse{Action: sim.LeaveActionLeave}
	reserve := sim.LeaveResponse{Action: sim.LeaveActionReserve}

	next, ok := sched.NextAfter(req.Clock, sim.ActionLearn)
	if !ok {
		return leave, nil
	}
	if end, ok := sched.NextAfter(req.Clock, sim.ActionEnd); ok && end.At <= next.At {
		return leave, nil
	}
	away := next.At.Sub(req.Clock)
	switch req.Disposition {
	case sim.Orderly:
		if away <= req.ReservationLimit && req.Satisfaction >= orderlyReserveFloor {
			return reserve, nil
		}
	case sim.Selfish:
		if req.Satisfaction >= selfishReserveFloor {
			return reserve, nil
		}
	}
	return leave, nil
}
