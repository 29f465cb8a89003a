package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule_ActionAt_LatestEntryNotAfterClock(t *testing.T) {
	s := DefaultSchedule()
	tests := []struct {
		clock TimeOfDay
		want  ActionTag
	}{
		{At(7, 0), ActionEnd},
		{At(7, 59), ActionEnd},
		{At(8, 0), ActionEat},
		{At(8, 45), ActionEat},
		{At(9, 0), ActionLearn},
		{At(12, 15), ActionEat},
		{At(13, 0), ActionLearn},
		{At(17, 30), ActionEat},
		{At(21, 45), ActionLearn},
		{At(22, 0), ActionEnd},
		{At(24, 0), ActionEnd},
	}
	for _, tc := range tests {
		if got := s.ActionAt(tc.clock); got != tc.want {
			t.Errorf("ActionAt(%s) = %s, want %s", tc.clock, got, tc.want)
		}
	}
}

func TestSchedule_Empty_AlwaysEnd(t *testing.T) {
	var s Schedule
	assert.Equal(t, ActionEnd, s.ActionAt(At(12, 0)))
	assert.Equal(t, 0, s.Len())
}

func TestSchedule_NextAfter(t *testing.T) {
	s := DefaultSchedule()
	e, ok := s.NextAfter(At(12, 0), ActionLearn)
	require.True(t, ok)
	assert.Equal(t, At(13, 0), e.At)

	_, ok = s.NextAfter(At(18, 0), ActionLearn)
	assert.False(t, ok)
}

func TestSchedule_Items_RoundTripThroughParse(t *testing.T) {
	s := DefaultSchedule()
	parsed, err := ParseScheduleItems(s.Items())
	require.NoError(t, err)
	assert.Equal(t, s.Entries(), parsed.Entries())
	assert.Equal(t, "08:00:00", s.Items()[0].Time)
}

func TestSchedule_EntriesIsACopy(t *testing.T) {
	s := DefaultSchedule()
	e := s.Entries()
	e[0].Action = ActionAway
	assert.Equal(t, ActionStart, s.Entries()[0].Action)
}

func TestParseActionTag(t *testing.T) {
	for tag := ActionTag(0); tag < numActionTags; tag++ {
		got, err := ParseActionTag(tag.String())
		require.NoError(t, err)
		assert.Equal(t, tag, got)
	}
	_, err := ParseActionTag("nap")
	assert.Error(t, err)
}

func TestActionTag_TakesOccupantAway(t *testing.T) {
	away := map[ActionTag]bool{ActionEat: true, ActionCourse: true, ActionRest: true, ActionAway: true}
	for tag := ActionTag(0); tag < numActionTags; tag++ {
		assert.Equal(t, away[tag], tag.takesOccupantAway(), tag.String())
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"07:00", At(7, 0), false},
		{"13:45:30", At(13, 45) + TimeOfDay(30*time.Second), false},
		{"24:00", At(24, 0), false},
		{"24:01", 0, true},
		{"7", 0, true},
		{"aa:00", 0, true},
		{"12:60", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseTimeOfDay(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
	assert.Equal(t, "07:05", At(7, 5).String())
	assert.Equal(t, "07:05:00", At(7, 5).Clock())
}

func TestParseLimit(t *testing.T) {
	d, err := ParseLimit("01:30")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	d, err = ParseLimit("45m")
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, d)

	_, err = ParseLimit("-5m")
	assert.Error(t, err)
	_, err = ParseLimit("soon")
	assert.Error(t, err)
}
