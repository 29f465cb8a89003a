package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/seat-sim/sim/trace"
)

// Library is the coordinator: it owns the seat grid and the roster and
// advances both one fixed tick at a time. A Library is not safe for
// concurrent use; advisory calls inside a tick are the only concurrency.
type Library struct {
	cfg       Config
	rng       *PartitionedRNG
	policy    *AdvisoryPolicy
	seats     []*Seat
	neighbors [][]int
	occupants []*Occupant

	clock   TimeOfDay
	tick    int
	limit   time.Duration
	metrics Metrics
	trace   *trace.SimulationTrace // nil when trace level is none
}

// NewLibrary validates cfg, lays out the grid, draws the roster and plans
// every occupant's day through policy. A nil policy uses the fallback
// schedule and leave rule for everyone.
func NewLibrary(ctx context.Context, cfg Config, policy *AdvisoryPolicy) (*Library, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid library config: %w", err)
	}
	if policy == nil {
		policy = NewAdvisoryPolicy(nil, cfg.Advisor)
	}
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	l := &Library{
		cfg:       cfg,
		rng:       rng,
		policy:    policy,
		seats:     buildGrid(cfg, rng),
		neighbors: neighborIndex(cfg.Rows, cfg.Cols),
		clock:     cfg.DayStart,
		limit:     cfg.ReservationLimit,
	}
	if cfg.TraceLevel != "" && cfg.TraceLevel != trace.TraceLevelNone {
		l.trace = trace.NewSimulationTrace(trace.TraceConfig{Level: cfg.TraceLevel})
	}

	roster := buildRoster(cfg, rng)
	reqs := make([]ScheduleRequest, len(roster))
	for i, a := range roster {
		reqs[i] = ScheduleRequest{
			OccupantID:  OccupantID(i),
			Archetype:   a.Name(),
			Profile:     a.Profile,
			Preferences: a.Preferences,
			DayStart:    cfg.DayStart,
			DayEnd:      cfg.DayEnd,
		}
	}
	outcomes := policy.ScheduleAll(ctx, reqs)
	l.occupants = make([]*Occupant, len(roster))
	for i, a := range roster {
		out := outcomes[i]
		l.occupants[i] = NewOccupant(OccupantID(i), a, out.Schedule, cfg.DayStart)
		if out.Source == SourceFallback {
			l.metrics.FallbackSchedules++
		}
		if l.trace != nil {
			l.trace.RecordSchedule(trace.ScheduleRecord{
				OccupantID: i,
				Archetype:  a.Name(),
				Source:     string(out.Source),
				Attempts:   out.Attempts,
				Entries:    out.Schedule.Len(),
			})
		}
	}

	logrus.Infof("library ready: %dx%d seats, %d occupants, seed %d, %d fallback schedule(s)",
		cfg.Rows, cfg.Cols, len(l.occupants), cfg.Seed, l.metrics.FallbackSchedules)
	return l, nil
}

// Tick runs one step: evict overdue reservations, advance the clock, let
// every occupant act in id order, refresh hold clocks and crowding, then
// flag every reserved seat.
func (l *Library) Tick(ctx context.Context) TickSnapshot {
	l.tick++
	l.evictOverdue()
	l.clock = l.clock.Add(l.cfg.TickDuration)
	l.stepOccupants(ctx)
	l.updateSeats()
	l.inspectReserved()
	l.metrics.Ticks++

	snap := l.Snapshot()
	logrus.Debugf("[tick %03d] %s taken=%d reserved=%d unsatisfied=%d evicted=%d",
		snap.Tick, snap.Time, snap.TakenCount, snap.ReservedOrFlaggedCount, snap.UnsatisfiedCount, snap.EvictedCount)
	return snap
}

// Run ticks until the clock reaches the end of day, handing each snapshot
// to sink. It stops early when ctx is cancelled or sink fails.
func (l *Library) Run(ctx context.Context, sink SnapshotSink) error {
	logrus.Infof("running from %s to %s in %v ticks", l.clock, l.cfg.DayEnd, l.cfg.TickDuration)
	for !l.Done() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run interrupted at %s: %w", l.clock, err)
		}
		snap := l.Tick(ctx)
		if sink == nil {
			continue
		}
		if err := sink.WriteSnapshot(snap); err != nil {
			return fmt.Errorf("writing snapshot for tick %d: %w", snap.Tick, err)
		}
	}
	logrus.Infof("day over at %s: %d unsatisfied, %d evicted", l.clock, l.metrics.UnsatisfiedCount, l.metrics.EvictedCount)
	return nil
}

// Done reports whether the simulated day has ended.
func (l *Library) Done() bool { return l.clock >= l.cfg.DayEnd }

func (l *Library) Clock() TimeOfDay { return l.clock }
func (l *Library) TickIndex() int { return l.tick }
func (l *Library) Config() Config { return l.cfg }
func (l *Library) Metrics() Metrics { return l.metrics }
func (l *Library) RNG() *PartitionedRNG { return l.rng }
func (l *Library) Trace() *trace.SimulationTrace { return l.trace }

// ReservationLimit returns the current eviction threshold.
func (l *Library) ReservationLimit() time.Duration { return l.limit }

// SetReservationLimit changes the eviction threshold from the next tick on.
func (l *Library) SetReservationLimit(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("reservation limit must be >= 0, got %v", d)
	}
	l.limit = d
	logrus.Infof("reservation limit set to %v", d)
	return nil
}

// Seats returns the grid in row-major order.
func (l *Library) Seats() []*Seat {
	out := make([]*Seat, len(l.seats))
	copy(out, l.seats)
	return out
}

// Seat looks up a seat by coordinate.
func (l *Library) Seat(c Coord) (*Seat, bool) {
	if c.X < 0 || c.Y < 0 || c.X >= l.cfg.Rows || c.Y >= l.cfg.Cols {
		return nil, false
	}
	return l.seats[c.X*l.cfg.Cols+c.Y], true
}

// Occupants returns the roster in id order.
func (l *Library) Occupants() []*Occupant {
	out := make([]*Occupant, len(l.occupants))
	copy(out, l.occupants)
	return out
}

// Snapshot captures the current state without advancing it.
func (l *Library) Snapshot() TickSnapshot {
	seats := make(map[string]string, len(l.seats))
	taken, reserved := 0, 0
	for _, s := range l.seats {
		seats[s.coord.String()] = s.status.String()
		if s.status.Held() {
			taken++
		}
		if s.status == SeatReserved || s.status == SeatFlagged {
			reserved++
		}
	}
	rate := 0.0
	if n := len(l.occupants); n > 0 {
		rate = round2(float64(l.metrics.UnsatisfiedCount) / float64(n))
	}
	return TickSnapshot{
		Tick:                   l.tick,
		Time:                   l.clock.String(),
		Seats:                  seats,
		TotalSeats:             len(l.seats),
		TakenCount:             taken,
		TakenPercent:           percent(taken, len(l.seats)),
		ReservedOrFlaggedCount: reserved,
		ReservedPercent:        percent(reserved, len(l.seats)),
		UnsatisfiedCount:       l.metrics.UnsatisfiedCount,
		UnsatisfiedRate:        rate,
		EvictedCount:           l.metrics.EvictedCount,
	}
}

// evictOverdue removes flagged reservations held longer than the limit.
func (l *Library) evictOverdue() {
	for _, s := range l.seats {
		if s.status != SeatFlagged {
			continue
		}
		holder, _ := s.Occupant()
		held := s.held
		if !s.Evict(l.limit) {
			continue
		}
		l.metrics.EvictedCount++
		logrus.Debugf("[tick %03d] evicted seat %s from occupant %d after %v", l.tick, s.coord, holder, held)
		if l.trace != nil {
			l.trace.RecordEviction(trace.EvictionRecord{
				Tick:       l.tick,
				Clock:      l.clock.String(),
				Seat:       s.coord.String(),
				OccupantID: int(holder),
				HeldMins:   held.Minutes(),
			})
		}
	}
}

// stepOccupants resolves pending leave decisions concurrently, then
// dispatches every occupant sequentially in id order.
func (l *Library) stepOccupants(ctx context.Context) {
	tags := make([]ActionTag, len(l.occupants))
	var reqs []LeaveRequest
	for i, o := range l.occupants {
		o.advanceClock(l.cfg.TickDuration)
		tags[i] = o.CurrentAction()
		if o.needsLeaveDecision(tags[i]) {
			reqs = append(reqs, o.leaveRequest(l.limit))
		}
	}

	decisions := make(map[OccupantID]*LeaveOutcome, len(reqs))
	if len(reqs) > 0 {
		outcomes := l.policy.ReserveAll(ctx, reqs)
		for i := range outcomes {
			decisions[outcomes[i].OccupantID] = &outcomes[i]
		}
	}

	for i, o := range l.occupants {
		decision := decisions[o.id]
		res := o.dispatch(tags[i], l.seats, decision)
		l.account(o, res, decision)
	}
}

// account folds one dispatch result into the counters and trace.
func (l *Library) account(o *Occupant, res dispatchResult, decision *LeaveOutcome) {
	switch {
	case res.Unsatisfied:
		l.metrics.UnsatisfiedCount++
		logrus.Debugf("[tick %03d] occupant %d found no acceptable seat", l.tick, o.id)
	case res.Resumed:
		l.metrics.Resumes++
	case res.Acquired != nil:
		l.metrics.Acquisitions++
	}
	if l.trace != nil && (res.Unsatisfied || res.Acquired != nil) {
		rec := trace.AcquisitionRecord{
			OccupantID: int(o.id),
			Tick:       l.tick,
			Clock:      l.clock.String(),
			Score:      res.Score,
			Resumed:    res.Resumed,
		}
		if res.Acquired != nil {
			rec.Seat = res.Acquired.coord.String()
		}
		l.trace.RecordAcquisition(rec)
	}

	if res.Abandoned {
		l.metrics.Abandoned++
	}
	if !res.Left {
		return
	}
	if res.Reserved {
		l.metrics.Reservations++
	} else {
		l.metrics.Releases++
	}
	source, attempts := SourceFallback, 0
	if decision != nil {
		source, attempts = decision.Source, decision.Attempts
	}
	if source == SourceAdvisor {
		l.metrics.AdvisorDecisions++
	} else {
		l.metrics.FallbackDecisions++
	}
	if l.trace != nil {
		l.trace.RecordLeave(trace.LeaveRecord{
			OccupantID:   int(o.id),
			Tick:         l.tick,
			Clock:        l.clock.String(),
			Seat:         res.Released.coord.String(),
			Satisfaction: res.Score,
			Reserved:     res.Reserved,
			Source:       string(source),
			Attempts:     attempts,
		})
	}
}

// updateSeats advances hold clocks and recomputes crowding from a status
// snapshot taken before any seat in this step is touched.
func (l *Library) updateSeats() {
	before := make([]NeighborState, len(l.seats))
	for i, s := range l.seats {
		before[i] = NeighborState{Status: s.status, Window: s.window}
	}
	buf := make([]NeighborState, 0, 8)
	for i, s := range l.seats {
		s.AdvanceHold(l.cfg.TickDuration)
		buf = buf[:0]
		for _, n := range l.neighbors[i] {
			buf = append(buf, before[n])
		}
		s.RecomputeCrowding(buf)
	}
}

// inspectReserved flags every reserved seat.
func (l *Library) inspectReserved() {
	for _, s := range l.seats {
		s.Inspect()
	}
}
