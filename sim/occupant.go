// Defines the Occupant: a student with a profile, a fixed daily schedule,
// and the state machine that decides when to take, leave, reserve or
// resume a seat.

package sim

import (
	"fmt"
	"math"
	"time"
)

// OccupantID is assigned sequentially at roster creation and never reused.
type OccupantID int

// OccupantState is the lifecycle state of an occupant.
type OccupantState int

const (
	Dormant       OccupantState = iota // asleep, before the day starts or after it ends
	Learning                           // sitting at a seat
	AwayReserving                      // away, seat left Reserved
	Absent                             // awake but holding no seat
)

func (s OccupantState) String() string {
	switch s {
	case Dormant:
		return "dormant"
	case Learning:
		return "learning"
	case AwayReserving:
		return "away_reserving"
	case Absent:
		return "absent"
	}
	return fmt.Sprintf("OccupantState(%d)", int(s))
}

// baselineSatisfaction is the score of a seat with nothing going for it.
// Acquisition fails when no vacant seat reaches it.
const baselineSatisfaction = 1.0

// Occupant is one simulated student.
type Occupant struct {
	id        OccupantID
	archetype Archetype
	schedule  Schedule

	clock TimeOfDay
	state OccupantState
	seat  *Seat
}

// NewOccupant creates a dormant occupant whose local clock starts at dayStart.
func NewOccupant(id OccupantID, archetype Archetype, schedule Schedule, dayStart TimeOfDay) *Occupant {
	return &Occupant{
		id:        id,
		archetype: archetype,
		schedule:  schedule,
		clock:     dayStart,
		state:     Dormant,
	}
}

func (o *Occupant) ID() OccupantID { return o.id }
func (o *Occupant) Archetype() Archetype { return o.archetype }
func (o *Occupant) Profile() Profile { return o.archetype.Profile }
func (o *Occupant) Preferences() Preferences { return o.archetype.Preferences }
func (o *Occupant) Schedule() Schedule { return o.schedule }
func (o *Occupant) Clock() TimeOfDay { return o.clock }
func (o *Occupant) State() OccupantState { return o.state }

// HeldSeat returns the seat the occupant sits at or has reserved.
func (o *Occupant) HeldSeat() (*Seat, bool) {
	return o.seat, o.seat != nil
}

// CurrentAction resolves the schedule against the occupant's clock.
func (o *Occupant) CurrentAction() ActionTag {
	return o.schedule.ActionAt(o.clock)
}

// Satisfaction scores a seat for this occupant:
//
//	1 + 3*lamp*hasLamp + 3*socket*hasSocket + isWindow*(1 + 3*space*(1-crowding))
func (o *Occupant) Satisfaction(s *Seat) float64 {
	prefs := o.archetype.Preferences
	score := baselineSatisfaction
	if s.lamp {
		score += 3 * prefs.Lamp
	}
	if s.socket {
		score += 3 * prefs.Socket
	}
	if s.window {
		score += 1 + 3*prefs.Space*(1-s.crowding)
	}
	return score
}

// CurrentSatisfaction scores the held seat, or the baseline without one.
func (o *Occupant) CurrentSatisfaction() float64 {
	if o.seat == nil {
		return baselineSatisfaction
	}
	return o.Satisfaction(o.seat)
}

func (o *Occupant) advanceClock(d time.Duration) {
	o.clock = o.clock.Add(d)
}

// needsLeaveDecision reports whether dispatching tag will ask the advisor
// whether to keep the seat.
func (o *Occupant) needsLeaveDecision(tag ActionTag) bool {
	return o.state == Learning && tag.takesOccupantAway()
}

// leaveRequest builds the advisory request for leaving the held seat.
func (o *Occupant) leaveRequest(limit time.Duration) LeaveRequest {
	return LeaveRequest{
		OccupantID:       o.id,
		Disposition:      o.archetype.Profile.Disposition,
		Satisfaction:     o.CurrentSatisfaction(),
		Clock:            o.clock,
		ReservationLimit: limit,
		Schedule:         o.schedule.Items(),
	}
}

// dispatchResult reports what a dispatch did so the coordinator can update
// counters and the trace.
type dispatchResult struct {
	Tag         ActionTag
	Woke        bool
	Acquired    *Seat
	Score       float64
	Resumed     bool
	Unsatisfied bool
	Left        bool
	Released    *Seat
	Reserved    bool
	Abandoned   bool
}

type dispatchEnv struct {
	seats    []*Seat
	decision *LeaveOutcome
	result   dispatchResult
}

type actionHandler func(o *Occupant, env *dispatchEnv)

// actionHandlers has one entry per ActionTag; a nil entry is a bug caught by
// TestActionHandlers_CoverEveryTag.
var actionHandlers = [numActionTags]actionHandler{
	ActionEnd:    (*Occupant).handleEnd,
	ActionStart:  (*Occupant).handleStart,
	ActionLearn:  (*Occupant).handleLearn,
	ActionEat:    (*Occupant).handleAway,
	ActionCourse: (*Occupant).handleAway,
	ActionRest:   (*Occupant).handleAway,
	ActionAway:   (*Occupant).handleAway,
}

// dispatch applies tag to the occupant. seats is the full grid in scan
// order; decision is the advisory outcome for a pending leave, if any.
func (o *Occupant) dispatch(tag ActionTag, seats []*Seat, decision *LeaveOutcome) dispatchResult {
	env := &dispatchEnv{seats: seats, decision: decision}
	env.result.Tag = tag
	if tag < 0 || tag >= numActionTags {
		tag = ActionEnd
	}
	// A schedule may put start and another tag at the same time, in which
	// case start is never the current action. Wake on the first daytime tag.
	if o.state == Dormant && tag != ActionStart && tag != ActionEnd {
		o.state = Absent
		env.result.Woke = true
	}
	actionHandlers[tag](o, env)
	return env.result
}

func (o *Occupant) handleStart(env *dispatchEnv) {
	if o.state == Dormant {
		o.state = Absent
		env.result.Woke = true
	}
}

func (o *Occupant) handleLearn(env *dispatchEnv) {
	if o.state == Learning {
		return
	}
	o.acquire(env)
}

func (o *Occupant) handleEnd(env *dispatchEnv) {
	switch o.state {
	case Learning:
		o.seat.Release(false)
	case AwayReserving:
		// The reservation is abandoned; sweeps will evict it.
		env.result.Abandoned = true
	}
	o.seat = nil
	o.state = Dormant
}

func (o *Occupant) handleAway(env *dispatchEnv) {
	switch o.state {
	case Learning:
		o.leave(env)
	case AwayReserving:
		if !o.holdsReservation() {
			o.dropHold()
		}
	}
}

// acquire runs seat acquisition: resume an intact reservation, otherwise
// take the best vacant seat.
func (o *Occupant) acquire(env *dispatchEnv) {
	if o.state == AwayReserving {
		if o.holdsReservation() {
			o.seat.Resume()
			o.state = Learning
			env.result.Resumed = true
			env.result.Acquired = o.seat
			env.result.Score = o.Satisfaction(o.seat)
			return
		}
		o.dropHold()
	}

	best, score := o.bestVacant(env.seats)
	if best == nil || score < baselineSatisfaction || !best.Occupy(o.id) {
		env.result.Unsatisfied = true
		return
	}
	o.seat = best
	o.state = Learning
	env.result.Acquired = best
	env.result.Score = score
}

// bestVacant returns the vacant seat with the strictly highest score; ties
// keep the first seat in scan order.
func (o *Occupant) bestVacant(seats []*Seat) (*Seat, float64) {
	var best *Seat
	bestScore := math.Inf(-1)
	for _, s := range seats {
		if s.status != SeatVacant {
			continue
		}
		if score := o.Satisfaction(s); score > bestScore {
			best, bestScore = s, score
		}
	}
	return best, bestScore
}

// leave releases the held seat according to the advisory outcome.
func (o *Occupant) leave(env *dispatchEnv) {
	reserve := false
	if env.decision != nil {
		reserve = env.decision.Reserve
	} else {
		reserve = fallbackReserve(o.archetype.Profile.Disposition, o.CurrentSatisfaction())
	}
	env.result.Score = o.CurrentSatisfaction()
	env.result.Released = o.seat
	o.seat.Release(reserve)
	env.result.Left = true
	env.result.Reserved = reserve
	if reserve {
		o.state = AwayReserving
		return
	}
	o.seat = nil
	o.state = Absent
}

// holdsReservation reports whether the held seat is still reserved for us.
func (o *Occupant) holdsReservation() bool {
	if o.seat == nil || !o.seat.heldBy(o.id) {
		return false
	}
	return o.seat.status == SeatReserved || o.seat.status == SeatFlagged
}

// dropHold forgets a reservation that was evicted or taken over.
func (o *Occupant) dropHold() {
	o.seat = nil
	o.state = Absent
}
