package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/seat-sim/sim/internal/testutil"
)

// newTestOccupant builds an occupant with explicit weights and disposition.
func newTestOccupant(id OccupantID, d Disposition, prefs Preferences) *Occupant {
	a := Archetype{
		Major:       Humanities,
		Diligence:   Average,
		Profile:     Profile{Disposition: d, Punctuality: OnTime, Focus: Medium, CourseLoad: Medium},
		Preferences: prefs,
	}
	return NewOccupant(id, a, DefaultSchedule(), At(7, 0))
}

// newTestGrid builds a rows x cols grid with no amenities.
func newTestGrid(rows, cols int) []*Seat {
	cfg := Config{Rows: rows, Cols: cols, HoldClock: HoldClockUnattended}
	return buildGrid(cfg, NewPartitionedRNG(NewSimulationKey(1)))
}

var halfWeights = Preferences{Lamp: 0.5, Socket: 0.5, Space: 0.5}

func TestActionHandlers_CoverEveryTag(t *testing.T) {
	for tag := ActionTag(0); tag < numActionTags; tag++ {
		if actionHandlers[tag] == nil {
			t.Errorf("no handler for action %s", tag)
		}
	}
}

func TestOccupant_Satisfaction_AmenityCornerScoresSixAndAHalf(t *testing.T) {
	// GIVEN a 3x3 grid where (0,0) has both lamp and socket
	seats := newTestGrid(3, 3)
	seats[0] = NewSeat(Coord{0, 0}, true, true, true, HoldClockUnattended)
	o := newTestOccupant(0, Orderly, halfWeights)

	// THEN the corner scores 1 + 1.5 + 1.5 + 2.5
	testutil.AssertFloat64Equal(t, "corner satisfaction", 6.5, o.Satisfaction(seats[0]), 1e-12)
	testutil.AssertFloat64Equal(t, "plain window seat", 3.5, o.Satisfaction(seats[1]), 1e-12)
	testutil.AssertFloat64Equal(t, "plain interior seat", 1.0, o.Satisfaction(seats[4]), 1e-12)

	// WHEN the occupant wakes and learns
	o.dispatch(ActionStart, seats, nil)
	res := o.dispatch(ActionLearn, seats, nil)

	// THEN it takes the amenity seat
	require.NotNil(t, res.Acquired)
	assert.Equal(t, Coord{0, 0}, res.Acquired.Coord())
	assert.Equal(t, Learning, o.State())
	held, ok := o.HeldSeat()
	require.True(t, ok)
	assert.Same(t, seats[0], held)
	assert.Equal(t, SeatTaken, seats[0].Status())
}

func TestOccupant_Satisfaction_CrowdingLowersWindowBonus(t *testing.T) {
	o := newTestOccupant(0, Orderly, Preferences{Space: 1})
	s := NewSeat(Coord{0, 0}, false, false, true, HoldClockUnattended)
	s.RecomputeCrowding([]NeighborState{{SeatTaken, false}, {SeatVacant, false}})

	// 1 + (1 + 3*1*(1-0.5))
	testutil.AssertFloat64Equal(t, "crowded window", 3.5, o.Satisfaction(s), 1e-12)
}

func TestOccupant_Acquire_FullGridIsUnsatisfied(t *testing.T) {
	// GIVEN every seat taken by someone else
	seats := newTestGrid(2, 2)
	for i, s := range seats {
		s.Occupy(OccupantID(100 + i))
	}
	o := newTestOccupant(0, Orderly, halfWeights)
	o.dispatch(ActionStart, seats, nil)
	require.Equal(t, Absent, o.State())

	// WHEN it tries to learn
	res := o.dispatch(ActionLearn, seats, nil)

	// THEN acquisition fails once and nothing changes
	assert.True(t, res.Unsatisfied)
	assert.Nil(t, res.Acquired)
	assert.Equal(t, Absent, o.State())
	_, ok := o.HeldSeat()
	assert.False(t, ok)
}

func TestOccupant_Acquire_TiesKeepScanOrder(t *testing.T) {
	seats := newTestGrid(3, 3)
	o := newTestOccupant(0, Orderly, halfWeights)
	o.dispatch(ActionStart, seats, nil)
	res := o.dispatch(ActionLearn, seats, nil)
	require.NotNil(t, res.Acquired)
	// All boundary seats score 3.5; (0,0) comes first in row-major order.
	assert.Equal(t, Coord{0, 0}, res.Acquired.Coord())

	other := newTestOccupant(1, Orderly, halfWeights)
	other.dispatch(ActionStart, seats, nil)
	res = other.dispatch(ActionLearn, seats, nil)
	require.NotNil(t, res.Acquired)
	assert.Equal(t, Coord{0, 1}, res.Acquired.Coord())
}

func TestOccupant_Dispatch_ImplicitWake(t *testing.T) {
	seats := newTestGrid(2, 2)
	o := newTestOccupant(0, Orderly, halfWeights)
	require.Equal(t, Dormant, o.State())

	res := o.dispatch(ActionLearn, seats, nil)

	assert.True(t, res.Woke)
	assert.Equal(t, Learning, o.State())
}

func TestOccupant_Dispatch_EndKeepsDormant(t *testing.T) {
	o := newTestOccupant(0, Orderly, halfWeights)
	res := o.dispatch(ActionEnd, newTestGrid(1, 1), nil)
	assert.False(t, res.Woke)
	assert.Equal(t, Dormant, o.State())
}

func TestOccupant_Leave_ReserveThenResume(t *testing.T) {
	seats := newTestGrid(2, 2)
	o := newTestOccupant(0, Orderly, halfWeights)
	o.dispatch(ActionLearn, seats, nil)
	held, _ := o.HeldSeat()

	// WHEN the advisor says reserve on an away tag
	require.True(t, o.needsLeaveDecision(ActionEat))
	res := o.dispatch(ActionEat, seats, &LeaveOutcome{OccupantID: 0, Reserve: true, Source: SourceAdvisor})

	// THEN the seat is held in reserve
	assert.True(t, res.Left)
	assert.True(t, res.Reserved)
	assert.Same(t, held, res.Released)
	assert.Equal(t, AwayReserving, o.State())
	assert.Equal(t, SeatReserved, held.Status())

	// WHEN the seat is flagged and the occupant returns
	held.Inspect()
	res = o.dispatch(ActionLearn, seats, nil)

	// THEN it resumes the same seat
	assert.True(t, res.Resumed)
	assert.Same(t, held, res.Acquired)
	assert.Equal(t, Learning, o.State())
	assert.Equal(t, SeatTaken, held.Status())
}

func TestOccupant_Leave_ReleaseFreesSeat(t *testing.T) {
	seats := newTestGrid(2, 2)
	o := newTestOccupant(0, Orderly, halfWeights)
	o.dispatch(ActionLearn, seats, nil)
	held, _ := o.HeldSeat()

	res := o.dispatch(ActionCourse, seats, &LeaveOutcome{Reserve: false, Source: SourceAdvisor})

	assert.True(t, res.Left)
	assert.False(t, res.Reserved)
	assert.Equal(t, Absent, o.State())
	assert.Equal(t, SeatVacant, held.Status())
	_, ok := o.HeldSeat()
	assert.False(t, ok)
}

func TestOccupant_Leave_NoDecisionUsesFallbackRule(t *testing.T) {
	tests := []struct {
		name        string
		disposition Disposition
		window      bool
		wantReserve bool
	}{
		// Window seat with half weights scores 3.5 >= 3.
		{"orderly good seat", Orderly, true, true},
		{"orderly poor seat", Orderly, false, false},
		{"selfish good seat", Selfish, true, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seats := []*Seat{NewSeat(Coord{0, 0}, false, false, tc.window, HoldClockUnattended)}
			o := newTestOccupant(0, tc.disposition, halfWeights)
			o.dispatch(ActionLearn, seats, nil)
			res := o.dispatch(ActionRest, seats, nil)
			assert.Equal(t, tc.wantReserve, res.Reserved)
		})
	}
}

func TestOccupant_AwayReserving_EvictedSeatResetsToAbsent(t *testing.T) {
	seats := newTestGrid(1, 2)
	o := newTestOccupant(0, Orderly, halfWeights)
	o.dispatch(ActionLearn, seats, nil)
	held, _ := o.HeldSeat()
	o.dispatch(ActionEat, seats, &LeaveOutcome{Reserve: true})

	// WHEN the sweep evicts the reservation
	held.Inspect()
	held.AdvanceHold(2 * time.Hour)
	require.True(t, held.Evict(time.Hour))

	// THEN the next away tag notices and drops the hold
	o.dispatch(ActionEat, seats, nil)
	assert.Equal(t, Absent, o.State())
	_, ok := o.HeldSeat()
	assert.False(t, ok)
}

func TestOccupant_AwayReserving_SeatRetakenAcquiresAnother(t *testing.T) {
	seats := newTestGrid(1, 2)
	o := newTestOccupant(0, Orderly, halfWeights)
	o.dispatch(ActionLearn, seats, nil)
	held, _ := o.HeldSeat()
	o.dispatch(ActionEat, seats, &LeaveOutcome{Reserve: true})

	held.Inspect()
	held.AdvanceHold(2 * time.Hour)
	held.Evict(time.Hour)
	held.Occupy(42)

	res := o.dispatch(ActionLearn, seats, nil)

	assert.False(t, res.Resumed)
	require.NotNil(t, res.Acquired)
	assert.NotSame(t, held, res.Acquired)
	id, _ := held.Occupant()
	assert.Equal(t, OccupantID(42), id, "the newcomer keeps the seat")
}

func TestOccupant_End_ReleasesOrAbandons(t *testing.T) {
	t.Run("learning", func(t *testing.T) {
		seats := newTestGrid(1, 1)
		o := newTestOccupant(0, Orderly, halfWeights)
		o.dispatch(ActionLearn, seats, nil)
		o.dispatch(ActionEnd, seats, nil)
		assert.Equal(t, Dormant, o.State())
		assert.Equal(t, SeatVacant, seats[0].Status())
	})
	t.Run("away reserving", func(t *testing.T) {
		seats := newTestGrid(1, 1)
		o := newTestOccupant(0, Orderly, halfWeights)
		o.dispatch(ActionLearn, seats, nil)
		o.dispatch(ActionEat, seats, &LeaveOutcome{Reserve: true})
		res := o.dispatch(ActionEnd, seats, nil)
		assert.True(t, res.Abandoned)
		assert.Equal(t, Dormant, o.State())
		assert.Equal(t, SeatReserved, seats[0].Status())
		_, ok := o.HeldSeat()
		assert.False(t, ok)
	})
}

func TestOccupant_CurrentAction_FollowsClock(t *testing.T) {
	o := newTestOccupant(0, Orderly, halfWeights)
	assert.Equal(t, ActionEnd, o.CurrentAction(), "07:00 is before the first entry")
	o.advanceClock(time.Hour)
	assert.Equal(t, ActionEat, o.CurrentAction(), "08:00 start and eat share a time; the later entry wins")
	o.advanceClock(time.Hour)
	assert.Equal(t, ActionLearn, o.CurrentAction())
	o.advanceClock(14 * time.Hour)
	assert.Equal(t, ActionEnd, o.CurrentAction())
}

func TestOccupant_LeaveRequest_CarriesContext(t *testing.T) {
	seats := []*Seat{NewSeat(Coord{0, 0}, true, false, false, HoldClockUnattended)}
	o := newTestOccupant(5, Selfish, halfWeights)
	o.dispatch(ActionLearn, seats, nil)

	req := o.leaveRequest(45 * time.Minute)

	assert.Equal(t, OccupantID(5), req.OccupantID)
	assert.Equal(t, Selfish, req.Disposition)
	assert.InDelta(t, 2.5, req.Satisfaction, 1e-12)
	assert.Equal(t, 45*time.Minute, req.ReservationLimit)
	assert.Len(t, req.Schedule, DefaultSchedule().Len())
}
